// Package server implements the Multiplexer, the top-level component that
// owns the session registry, the chat router, the RPS coordinator, the
// file-transfer broker and the bytes relay, and dispatches every inbound
// control-channel frame to the right one (spec.md §4.2-§4.7).
package server

import (
	"context"
	"net"
	"time"

	"risp-chat/internal/pkg/chat"
	"risp-chat/internal/pkg/heartbeat"
	"risp-chat/internal/pkg/log"
	"risp-chat/internal/pkg/registry"
	"risp-chat/internal/pkg/relay"
	"risp-chat/internal/pkg/rps"
	"risp-chat/internal/pkg/session"
	"risp-chat/internal/pkg/transfer"
	"risp-chat/internal/pkg/validate"
	"risp-chat/internal/pkg/wire"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Multiplexer ties together every session-facing component and owns the
// two accept loops.
type Multiplexer struct {
	reg      *registry.Registry
	chat     *chat.Router
	rps      *rps.Coordinator
	transfer *transfer.Broker
	relay    *relay.Relay

	pingInterval time.Duration
	pongTimeout  time.Duration

	logger logrus.FieldLogger
}

// New creates a Multiplexer with fresh, empty state.
func New(pingInterval, pongTimeout time.Duration) *Multiplexer {
	reg := registry.New()
	contexts := relay.NewContexts()
	return &Multiplexer{
		reg:          reg,
		chat:         chat.New(reg),
		rps:          rps.New(reg),
		transfer:     transfer.New(reg, contexts),
		relay:        relay.New(contexts),
		pingInterval: pingInterval,
		pongTimeout:  pongTimeout,
		logger:       logrus.StandardLogger(),
	}
}

// Serve runs the control-port and auxiliary-port accept loops until ctx is
// cancelled or either fails.
func (m *Multiplexer) Serve(ctx context.Context, controlLn, relayLn net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.serveControl(ctx, controlLn) })
	g.Go(func() error { return m.relay.Serve(ctx, relayLn) })
	return g.Wait()
}

func (m *Multiplexer) serveControl(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return errors.Wrap(err, "accept control connection failed")
			}
		}
		go m.handleConn(conn)
	}
}

func (m *Multiplexer) handleConn(conn net.Conn) {
	sess := session.New(conn, m.onClose)
	m.logger.WithFields(log.SessionFields("", sess.RemoteAddr())).Debug("control connection accepted")
	if err := sess.SendReady(); err != nil {
		m.logger.WithError(err).Debug("send ready failed")
		_ = sess.Close()
		return
	}
	for {
		line, err := sess.ReadLine()
		if err != nil {
			_ = sess.Close()
			return
		}
		m.handleLine(sess, line)
	}
}

func (m *Multiplexer) handleLine(sess *session.Session, line string) {
	frame, err := wire.Split(line)
	if err != nil {
		_ = sess.Send(wire.UNKNOWN_COMMAND, wire.StatusResp{Status: wire.StatusError})
		return
	}
	m.logger.WithFields(log.FrameFields(sess.Username(), frame.Command, frame.Payload)).Trace("frame received")
	if err := m.dispatch(sess, frame); err != nil {
		m.logger.WithError(err).WithFields(log.FrameFields(sess.Username(), frame.Command, frame.Payload)).Warn("dispatch failed")
	}
}

// dispatch routes one decoded frame. ENTER, PONG and BYE are handled
// regardless of login state; everything else requires a Named session.
func (m *Multiplexer) dispatch(sess *session.Session, frame wire.Frame) error {
	switch frame.Command {
	case wire.ENTER:
		return m.handleEnter(sess, frame)
	case wire.PONG:
		return m.handlePong(sess)
	case wire.BYE:
		return m.handleBye(sess)
	}

	if sess.State() != session.Named {
		return m.rejectUnauth(sess, frame.Command)
	}

	switch frame.Command {
	case wire.BROADCAST_REQ:
		var req wire.BroadcastReq
		if err := wire.Decode(frame.Payload, &req); err != nil {
			return sess.Send(wire.PARSE_ERROR, wire.StatusResp{Status: wire.StatusError})
		}
		return m.chat.Broadcast(sess, req)
	case wire.LIST_REQ:
		return m.chat.List(sess)
	case wire.PRIVATE_MSG_REQ:
		var req wire.PrivateMsgReq
		if err := wire.Decode(frame.Payload, &req); err != nil {
			return sess.Send(wire.PARSE_ERROR, wire.StatusResp{Status: wire.StatusError})
		}
		return m.chat.PrivateMessage(sess, req)
	case wire.RPS_START_REQ:
		var req wire.RPSStartReq
		if err := wire.Decode(frame.Payload, &req); err != nil {
			return sess.Send(wire.PARSE_ERROR, wire.StatusResp{Status: wire.StatusError})
		}
		return m.rps.Start(sess, req)
	case wire.RPS_INVITE_RESP:
		var resp wire.RPSInviteResp
		if err := wire.Decode(frame.Payload, &resp); err != nil {
			return sess.Send(wire.PARSE_ERROR, wire.StatusResp{Status: wire.StatusError})
		}
		return m.rps.InviteResp(sess, resp)
	case wire.RPS_MOVE_REQ:
		var req wire.RPSMoveReq
		if err := wire.Decode(frame.Payload, &req); err != nil {
			return sess.Send(wire.PARSE_ERROR, wire.StatusResp{Status: wire.StatusError})
		}
		return m.rps.Move(sess, req)
	case wire.FILE_TRANSFER_REQ:
		var req wire.FileTransferReq
		if err := wire.Decode(frame.Payload, &req); err != nil {
			return sess.Send(wire.PARSE_ERROR, wire.StatusResp{Status: wire.StatusError})
		}
		return m.transfer.Request(sess, req)
	case wire.FILE_TRANSFER_RESP:
		var resp wire.FileTransferResp
		if err := wire.Decode(frame.Payload, &resp); err != nil {
			return sess.Send(wire.PARSE_ERROR, wire.StatusResp{Status: wire.StatusError})
		}
		return m.transfer.Response(sess, resp)
	default:
		return sess.Send(wire.UNKNOWN_COMMAND, wire.StatusResp{Status: wire.StatusError})
	}
}

// rejectUnauth replies to a command attempted before login with the
// family-appropriate *_UNAUTH code (spec.md §7).
func (m *Multiplexer) rejectUnauth(sess *session.Session, command string) error {
	switch command {
	case wire.BROADCAST_REQ:
		return sess.Send(wire.BROADCAST_RESP, wire.StatusResp{Status: wire.StatusError, Code: wire.CodeBroadcastUnauth})
	case wire.LIST_REQ:
		return sess.Send(wire.LIST_RESP, wire.ListResp{Status: wire.StatusError, Code: wire.CodeListUnauth})
	case wire.PRIVATE_MSG_REQ:
		return sess.Send(wire.PRIVATE_MSG_RESP, wire.StatusResp{Status: wire.StatusError, Code: wire.CodePrivateUnauth})
	case wire.RPS_START_REQ:
		return sess.Send(wire.RPS_START_RESP, wire.RPSStartResp{Status: wire.StatusError, Code: wire.CodeRPSUnauth})
	case wire.RPS_INVITE_RESP, wire.RPS_MOVE_REQ:
		return sess.Send(wire.RPS_MOVE_RESP, wire.RPSMoveResp{Status: wire.StatusError, Code: wire.CodeRPSUnauth})
	case wire.FILE_TRANSFER_REQ, wire.FILE_TRANSFER_RESP:
		return sess.Send(wire.FILE_TRANSFER_RESP, wire.FileTransferResp{Status: wire.StatusError, Code: wire.CodeTransferUnauth})
	default:
		return sess.Send(wire.UNKNOWN_COMMAND, wire.StatusResp{Status: wire.StatusError})
	}
}

func (m *Multiplexer) handleEnter(sess *session.Session, frame wire.Frame) error {
	var req wire.Enter
	if err := wire.Decode(frame.Payload, &req); err != nil {
		return sess.Send(wire.PARSE_ERROR, wire.StatusResp{Status: wire.StatusError})
	}
	if sess.State() == session.Named {
		return sess.Send(wire.ENTER_RESP, wire.StatusResp{Status: wire.StatusError, Code: wire.CodeEnterAlready})
	}
	if err := validate.Validate().Struct(&req); err != nil {
		return sess.Send(wire.ENTER_RESP, wire.StatusResp{Status: wire.StatusError, Code: wire.CodeEnterInvalid})
	}
	if !m.reg.PutIfAbsent(req.Username, sess) {
		return sess.Send(wire.ENTER_RESP, wire.StatusResp{Status: wire.StatusError, Code: wire.CodeEnterCollision})
	}
	if err := sess.SetNamed(req.Username); err != nil {
		m.reg.Remove(req.Username, sess)
		return sess.Send(wire.ENTER_RESP, wire.StatusResp{Status: wire.StatusError, Code: wire.CodeEnterAlready})
	}

	engine := heartbeat.New(m.pingInterval, m.pongTimeout,
		func() { _ = sess.Send(wire.PING, struct{}{}) },
		func() { m.evict(sess) },
	)
	sess.AttachHeartbeat(engine)
	engine.Start()

	if err := sess.Send(wire.ENTER_RESP, wire.StatusResp{Status: wire.StatusOK}); err != nil {
		return err
	}
	m.logger.WithFields(log.SessionFields(req.Username, sess.RemoteAddr())).Info("session entered")
	return m.chat.AnnounceJoined(sess, req.Username)
}

func (m *Multiplexer) handlePong(sess *session.Session) error {
	hb := sess.Heartbeat()
	if hb == nil {
		return nil
	}
	if unexpected := hb.HandlePong(); unexpected {
		return sess.Send(wire.PONG_ERROR, wire.StatusResp{Status: wire.StatusError, Code: wire.CodePongUnexpected})
	}
	return nil
}

func (m *Multiplexer) handleBye(sess *session.Session) error {
	sendErr := sess.Send(wire.BYE_RESP, wire.StatusResp{Status: wire.StatusOK})
	if closeErr := sess.Close(); closeErr != nil {
		return closeErr
	}
	return sendErr
}

// evict is the heartbeat engine's onEvict callback: notify, then close.
func (m *Multiplexer) evict(sess *session.Session) {
	_ = sess.Send(wire.HANGUP, wire.Hangup{Reason: wire.CodeHangupTimeout})
	_ = sess.Close()
}

// onClose is the session's teardown hook (spec.md §4.7): drop the
// registry entry, dissolve any RPS pairing, drop pending transfers
// addressed to this user, and announce departure.
func (m *Multiplexer) onClose(sess *session.Session) {
	username := sess.Username()
	if username == "" {
		return
	}
	m.reg.Remove(username, sess)
	m.transfer.DropReceiver(username)
	m.rps.Disconnect(username)
	if err := m.chat.AnnounceLeft(sess, username); err != nil {
		m.logger.WithError(err).WithField("username", username).Warn("announce left failed")
	}
	m.logger.WithFields(log.SessionFields(username, sess.RemoteAddr())).Info("session closed")
}
