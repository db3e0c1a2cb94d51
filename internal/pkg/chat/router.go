// Package chat implements broadcast, private messaging, presence, and the
// client list (spec.md §4.4).
package chat

import (
	"risp-chat/internal/pkg/registry"
	"risp-chat/internal/pkg/session"
	"risp-chat/internal/pkg/wire"

	"github.com/pkg/errors"
)

// Router dispatches chat-shaped commands against the shared session
// registry.
type Router struct {
	reg *registry.Registry
}

// New creates a Router bound to reg.
func New(reg *registry.Registry) *Router {
	return &Router{reg: reg}
}

// Broadcast handles BROADCAST_REQ: fan the message out to every other
// named session, then acknowledge the sender. A recipient whose Send
// fails is closed and dropped; delivery continues to the rest (spec.md
// §4.4: a broken peer may only be dropped by closing it, never by
// silently skipping the remaining fan-out). Failed sessions are closed
// after Each returns, since Close's onClose hook removes the session
// from this same registry and Each holds its read lock for the
// duration of the callback.
func (r *Router) Broadcast(from *session.Session, req wire.BroadcastReq) error {
	username := from.Username()
	var failed []*session.Session
	r.reg.Each(from, func(_ string, sess *session.Session) {
		if err := sess.Send(wire.BROADCAST, wire.Broadcast{Username: username, Message: req.Message}); err != nil {
			failed = append(failed, sess)
		}
	})
	closeAll(failed)
	return from.Send(wire.BROADCAST_RESP, wire.StatusResp{Status: wire.StatusOK})
}

// closeAll closes every session in sessions, ignoring errors; used to
// evict fan-out recipients whose Send failed, once the registry's read
// lock covering the fan-out has been released.
func closeAll(sessions []*session.Session) {
	for _, sess := range sessions {
		_ = sess.Close()
	}
}

// List handles LIST_REQ: reply with a snapshot of every named session,
// including the requester.
func (r *Router) List(from *session.Session) error {
	return from.Send(wire.LIST_RESP, wire.ListResp{Status: wire.StatusOK, Clients: r.reg.Usernames()})
}

// PrivateMessage handles PRIVATE_MSG_REQ.
func (r *Router) PrivateMessage(from *session.Session, req wire.PrivateMsgReq) error {
	username := from.Username()
	if req.Receiver == username {
		return from.Send(wire.PRIVATE_MSG_RESP, wire.StatusResp{Status: wire.StatusError, Code: wire.CodePrivateSelf})
	}
	receiverSess, ok := r.reg.Get(req.Receiver)
	if !ok {
		return from.Send(wire.PRIVATE_MSG_RESP, wire.StatusResp{Status: wire.StatusError, Code: wire.CodePrivateNoTarget})
	}
	if err := receiverSess.Send(wire.PRIVATE_MSG, wire.PrivateMsg{Sender: username, Message: req.Message}); err != nil {
		return errors.Wrap(err, "deliver private message failed")
	}
	return from.Send(wire.PRIVATE_MSG_RESP, wire.StatusResp{Status: wire.StatusOK})
}

// AnnounceJoined broadcasts JOINED to every other named session. A
// recipient whose Send fails is closed and dropped; the rest still hear
// the announcement.
func (r *Router) AnnounceJoined(from *session.Session, username string) error {
	var failed []*session.Session
	r.reg.Each(from, func(_ string, sess *session.Session) {
		if err := sess.Send(wire.JOINED, wire.Presence{Username: username}); err != nil {
			failed = append(failed, sess)
		}
	})
	closeAll(failed)
	return nil
}

// AnnounceLeft broadcasts LEFT to every other named session. A recipient
// whose Send fails is closed and dropped; the rest still hear the
// announcement.
func (r *Router) AnnounceLeft(from *session.Session, username string) error {
	var failed []*session.Session
	r.reg.Each(from, func(_ string, sess *session.Session) {
		if err := sess.Send(wire.LEFT, wire.Presence{Username: username}); err != nil {
			failed = append(failed, sess)
		}
	})
	closeAll(failed)
	return nil
}
