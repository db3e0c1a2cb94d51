package client

import (
	"strings"

	"risp-chat/internal/pkg/wire"
)

// HandleCommand processes one line of CLI input, dispatching slash
// commands and @user private messages, mirroring Client.java's
// handleUserCommands switch. Bare text is broadcast.
func (c *Client) HandleCommand(input string) error {
	if input == "" {
		return nil
	}

	if c.consumeAwaitingRPSOpponent() {
		return c.send(wire.RPS_START_REQ, wire.RPSStartReq{Receiver: input})
	}

	switch {
	case strings.HasPrefix(input, "@"):
		return c.handlePrivateMessage(input)
	case strings.HasPrefix(input, "/send "):
		return c.handleSendFileRequest(input)
	case strings.HasPrefix(input, "/a "):
		return c.handleFileRequestDecision(input, true)
	case strings.HasPrefix(input, "/d "):
		return c.handleFileRequestDecision(input, false)
	}

	switch input {
	case "/exit":
		return c.send(wire.BYE, struct{}{})
	case "/help":
		c.logger.Info(helpMenu)
		return nil
	case "/all":
		return c.send(wire.LIST_REQ, struct{}{})
	case "/rps":
		c.mu.Lock()
		c.awaitingRPSOpponent = true
		c.mu.Unlock()
		c.logger.Info("enter the opponent's username")
		return c.send(wire.LIST_REQ, struct{}{})
	case "/y":
		c.logger.Info("invitation accepted")
		return c.send(wire.RPS_INVITE_RESP, wire.RPSInviteResp{Status: wire.StatusAccept})
	case "/n":
		c.logger.Info("invitation declined")
		return c.send(wire.RPS_INVITE_RESP, wire.RPSInviteResp{Status: wire.StatusDecline})
	case wire.MoveRock, wire.MovePaper, wire.MoveScissors:
		return c.send(wire.RPS_MOVE_REQ, wire.RPSMoveReq{Choice: input})
	case "/files":
		c.showFileRequests()
		return nil
	default:
		return c.send(wire.BROADCAST_REQ, wire.BroadcastReq{Message: input})
	}
}

func (c *Client) consumeAwaitingRPSOpponent() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.awaitingRPSOpponent {
		return false
	}
	c.awaitingRPSOpponent = false
	return true
}

func (c *Client) handlePrivateMessage(input string) error {
	parts := strings.SplitN(input, " ", 2)
	if len(parts) < 2 {
		c.logger.Warn("invalid format, use @username <message>")
		return nil
	}
	receiver := strings.TrimPrefix(parts[0], "@")
	return c.send(wire.PRIVATE_MSG_REQ, wire.PrivateMsgReq{Receiver: receiver, Message: parts[1]})
}

func (c *Client) handleSendFileRequest(input string) error {
	parts := strings.SplitN(input, " ", 3)
	if len(parts) != 3 {
		c.logger.Warn("invalid command, use: /send <receiver> <file-path>")
		return nil
	}
	return c.RequestFileTransfer(parts[1], parts[2])
}

func (c *Client) handleFileRequestDecision(input string, accept bool) error {
	parts := strings.SplitN(input, " ", 3)
	if len(parts) != 3 {
		c.logger.Warn("invalid command, use /a <sender> <filename> or /d <sender> <filename>")
		return nil
	}
	sender, filename := parts[1], parts[2]

	c.mu.Lock()
	idx := -1
	for i, req := range c.incomingRequests {
		if req.Sender == sender && req.Filename == filename {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		c.logger.Warn(ErrFileRequestNotFound.Error())
		return nil
	}
	c.incomingRequests = append(c.incomingRequests[:idx], c.incomingRequests[idx+1:]...)
	c.mu.Unlock()

	if accept {
		c.logger.WithField("filename", filename).WithField("sender", sender).Info("accepted file request")
		return c.send(wire.FILE_TRANSFER_RESP, wire.FileTransferResp{Status: wire.StatusAccept})
	}
	c.logger.WithField("filename", filename).WithField("sender", sender).Info("declined file request")
	return c.send(wire.FILE_TRANSFER_RESP, wire.FileTransferResp{Status: wire.StatusDecline})
}

func (c *Client) showFileRequests() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.incomingRequests) == 0 {
		c.logger.Info("no requests to show")
		return
	}
	for i, req := range c.incomingRequests {
		c.logger.Infof("%d. from: %s, filename: %s", i+1, req.Sender, req.Filename)
	}
}

const helpMenu = `Available commands:
----------------------------
/help - show this help menu
/exit - exit the chatroom
/all - show all connected clients
@username <message> - send a private message to a user
/rps - start a Rock, Paper, Scissors game
/send <username> <file-path> - request to send a file to another user
/files - show all incoming file requests
/a <username> <filename> - accept a file transfer request
/d <username> <filename> - decline a file transfer request
Type a message to broadcast to the chatroom.`
