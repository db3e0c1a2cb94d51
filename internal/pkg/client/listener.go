package client

import (
	"risp-chat/internal/pkg/log"
	"risp-chat/internal/pkg/wire"

	"github.com/pkg/errors"
)

// Listen reads and dispatches frames from the server until the connection
// closes, then returns nil; a frame that fails to decode or dispatch is
// logged and skipped. It is meant to run in
// its own goroutine alongside the caller's CLI input loop, mirroring
// Client.java's listener thread.
func (c *Client) Listen() error {
	for {
		line, err := c.readLine()
		if err != nil {
			c.logger.WithError(err).Info("connection to server lost")
			return nil
		}
		if err := c.handleFrame(line); err != nil {
			c.logger.WithError(err).Warn("handle server frame failed")
		}
	}
}

func (c *Client) handleFrame(line string) error {
	frame, err := wire.Split(line)
	if err != nil {
		c.logger.WithField("line", line).Warn("unknown server message")
		return nil
	}
	c.logger.WithFields(log.FrameFields(c.Username(), frame.Command, frame.Payload)).Trace("frame received")

	switch frame.Command {
	case wire.PING:
		return c.send(wire.PONG, struct{}{})
	case wire.HANGUP:
		c.logger.Warn("received HANGUP due to missing PONG")
		return c.Close()
	case wire.BROADCAST_RESP:
		return c.handleStatusReply(frame.Payload, "sent", broadcastErrorMessage)
	case wire.BROADCAST:
		var msg wire.Broadcast
		if err := wire.Decode(frame.Payload, &msg); err != nil {
			return errors.Wrap(err, "decode broadcast failed")
		}
		c.logger.Infof("%s: %s", msg.Username, msg.Message)
		return nil
	case wire.JOINED:
		var presence wire.Presence
		if err := wire.Decode(frame.Payload, &presence); err != nil {
			return errors.Wrap(err, "decode joined failed")
		}
		c.logger.Infof("%s has joined the chat", presence.Username)
		return nil
	case wire.LEFT:
		var presence wire.Presence
		if err := wire.Decode(frame.Payload, &presence); err != nil {
			return errors.Wrap(err, "decode left failed")
		}
		c.logger.Infof("%s has left the chat", presence.Username)
		return nil
	case wire.BYE_RESP:
		return c.Close()
	case wire.LIST_RESP:
		return c.handleListResp(frame.Payload)
	case wire.PRIVATE_MSG:
		var msg wire.PrivateMsg
		if err := wire.Decode(frame.Payload, &msg); err != nil {
			return errors.Wrap(err, "decode private message failed")
		}
		c.logger.Infof("[PRIVATE] %s: %s", msg.Sender, msg.Message)
		return nil
	case wire.PRIVATE_MSG_RESP:
		return c.handleStatusReply(frame.Payload, "sent", privateMessageErrorMessage)
	case wire.RPS_START_RESP:
		return c.handleRPSStartResp(frame.Payload)
	case wire.RPS_INVITE:
		return c.handleRPSInvite(frame.Payload)
	case wire.RPS_INVITE_DECLINED:
		c.logger.Info("game invitation declined")
		return nil
	case wire.RPS_READY:
		c.logger.Info("please select your move: /r, /p, /s")
		return nil
	case wire.RPS_MOVE_RESP:
		return c.handleMoveResp(frame.Payload)
	case wire.RPS_RESULT:
		return c.handleRPSResult(frame.Payload)
	case wire.FILE_TRANSFER_REQ:
		return c.handleIncomingFileTransferRequest(frame.Payload)
	case wire.FILE_TRANSFER_RESP:
		return c.handleFileTransferResp(frame.Payload)
	case wire.FILE_TRANSFER_READY:
		return c.handleFileTransferReady(frame.Payload)
	default:
		c.logger.WithField("command", frame.Command).Info("unknown server message")
		return nil
	}
}

func (c *Client) handleStatusReply(payload []byte, okMessage string, errMessage func(int) string) error {
	var resp wire.StatusResp
	if err := wire.Decode(payload, &resp); err != nil {
		return errors.Wrap(err, "decode status reply failed")
	}
	if resp.Status == wire.StatusOK {
		c.logger.Info(okMessage)
		return nil
	}
	c.logger.Warn(errMessage(resp.Code))
	return nil
}

func (c *Client) handleListResp(payload []byte) error {
	var resp wire.ListResp
	if err := wire.Decode(payload, &resp); err != nil {
		return errors.Wrap(err, "decode list response failed")
	}
	if resp.Status != wire.StatusOK {
		c.logger.Warn(listErrorMessage(resp.Code))
		return nil
	}
	if len(resp.Clients) == 0 {
		c.logger.Info("(no users connected?)")
		return nil
	}
	c.logger.Infof("currently connected users: %s", joinComma(resp.Clients))
	return nil
}

func (c *Client) handleRPSStartResp(payload []byte) error {
	var resp wire.RPSStartResp
	if err := wire.Decode(payload, &resp); err != nil {
		return errors.Wrap(err, "decode rps start response failed")
	}
	if resp.Status == wire.StatusOK {
		c.logger.Info("invitation sent")
		return nil
	}
	c.logger.Warn(rpsStartErrorMessage(resp.Code, resp.Player1, resp.Player2))
	return nil
}

func (c *Client) handleRPSInvite(payload []byte) error {
	var invite wire.RPSInvite
	if err := wire.Decode(payload, &invite); err != nil {
		return errors.Wrap(err, "decode rps invite failed")
	}
	c.logger.Infof("you have been invited to a game by %s", invite.Sender)
	c.logger.Info("would you like to accept? /y - yes, /n - no")
	return nil
}

func (c *Client) handleMoveResp(payload []byte) error {
	var resp wire.RPSMoveResp
	if err := wire.Decode(payload, &resp); err != nil {
		return errors.Wrap(err, "decode move response failed")
	}
	if resp.Status == wire.StatusOK {
		c.logger.Info("move sent")
		return nil
	}
	c.logger.Warn(moveErrorMessage(resp.Code))
	return nil
}

func (c *Client) handleRPSResult(payload []byte) error {
	var result wire.RPSResult
	if err := wire.Decode(payload, &result); err != nil {
		return errors.Wrap(err, "decode rps result failed")
	}
	if result.Winner == nil {
		c.logger.Info("it's a tie!")
		return nil
	}
	c.logger.Infof("the winner is: %s", *result.Winner)
	return nil
}

func (c *Client) handleIncomingFileTransferRequest(payload []byte) error {
	var req wire.FileTransferReq
	if err := wire.Decode(payload, &req); err != nil {
		return errors.Wrap(err, "decode file transfer request failed")
	}
	c.mu.Lock()
	c.incomingRequests = append(c.incomingRequests, req)
	c.mu.Unlock()
	c.logger.Infof("new file transfer request from: %s", req.Sender)
	return nil
}

func (c *Client) handleFileTransferResp(payload []byte) error {
	var resp wire.FileTransferResp
	if err := wire.Decode(payload, &resp); err != nil {
		return errors.Wrap(err, "decode file transfer response failed")
	}
	switch resp.Status {
	case wire.StatusOK:
		c.logger.Info("file transfer request sent")
	case wire.StatusDecline:
		c.logger.Info("file request declined")
	default:
		c.logger.Warn(fileRequestErrorMessage(resp.Code))
	}
	return nil
}

func (c *Client) handleFileTransferReady(payload []byte) error {
	var ready wire.FileTransferReady
	if err := wire.Decode(payload, &ready); err != nil {
		return errors.Wrap(err, "decode file transfer ready failed")
	}
	go c.runFileTransfer(ready)
	return nil
}

func joinComma(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ", "
		}
		out += item
	}
	return out
}
