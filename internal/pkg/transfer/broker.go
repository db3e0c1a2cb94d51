// Package transfer implements the file-transfer request/response
// brokering on the control channel (spec.md §4.6 Request phase, Response
// phase): validating requests, tracking pending transfers, and minting
// the UUID that the bytes relay rendezvous on.
package transfer

import (
	"sync"

	"risp-chat/internal/pkg/registry"
	"risp-chat/internal/pkg/relay"
	"risp-chat/internal/pkg/session"
	"risp-chat/internal/pkg/wire"

	"github.com/google/uuid"
)

// pending is one FILE_TRANSFER_REQ awaiting the receiver's ACCEPT/DECLINE.
type pending struct {
	sender   string
	receiver string
	filename string
	checksum string
}

// Broker validates and brokers file-transfer requests, and mints the
// relay UUID once a receiver accepts.
type Broker struct {
	reg      *registry.Registry
	contexts *relay.Contexts

	mu       sync.Mutex
	pendings []pending
}

// New creates a Broker bound to reg (for peer lookup) and contexts (for
// minting the shared rendezvous record the bytes relay uses).
func New(reg *registry.Registry, contexts *relay.Contexts) *Broker {
	return &Broker{reg: reg, contexts: contexts}
}

// Request handles FILE_TRANSFER_REQ from the sender.
func (b *Broker) Request(from *session.Session, req wire.FileTransferReq) error {
	username := from.Username()
	if req.Receiver == username {
		return from.Send(wire.FILE_TRANSFER_RESP, wire.FileTransferResp{Status: wire.StatusError, Code: wire.CodeTransferSelf})
	}
	receiverSess, ok := b.reg.Get(req.Receiver)
	if !ok {
		return from.Send(wire.FILE_TRANSFER_RESP, wire.FileTransferResp{Status: wire.StatusError, Code: wire.CodeTransferNoTarget})
	}

	b.mu.Lock()
	b.pendings = append(b.pendings, pending{
		sender:   username,
		receiver: req.Receiver,
		filename: req.Filename,
		checksum: req.Checksum,
	})
	b.mu.Unlock()

	if err := from.Send(wire.FILE_TRANSFER_RESP, wire.FileTransferResp{Status: wire.StatusOK}); err != nil {
		return err
	}
	return receiverSess.Send(wire.FILE_TRANSFER_REQ, wire.FileTransferReq{
		Sender: username, Receiver: req.Receiver, Filename: req.Filename, Checksum: req.Checksum,
	})
}

// Response handles the receiver's FILE_TRANSFER_RESP (ACCEPT/DECLINE).
// It locates the first pending entry addressed to the responder, per
// spec.md §3 Pending transfer ("lookup is by receiver").
func (b *Broker) Response(from *session.Session, resp wire.FileTransferResp) error {
	username := from.Username()

	b.mu.Lock()
	idx := -1
	for i, p := range b.pendings {
		if p.receiver == username {
			idx = i
			break
		}
	}
	if idx < 0 {
		b.mu.Unlock()
		return nil
	}
	match := b.pendings[idx]
	b.pendings = append(b.pendings[:idx], b.pendings[idx+1:]...)
	b.mu.Unlock()

	senderSess, senderOK := b.reg.Get(match.sender)
	receiverSess, receiverOK := b.reg.Get(match.receiver)

	switch resp.Status {
	case wire.StatusAccept:
		if !senderOK || !receiverOK {
			return nil
		}
		id := uuid.NewString()
		b.contexts.Create(id)
		if err := senderSess.Send(wire.FILE_TRANSFER_READY, wire.FileTransferReady{
			UUID: id, Type: "s", Checksum: match.checksum, Filename: match.filename,
		}); err != nil {
			_ = senderSess.Close()
		}
		if err := receiverSess.Send(wire.FILE_TRANSFER_READY, wire.FileTransferReady{
			UUID: id, Type: "r", Checksum: match.checksum, Filename: match.filename,
		}); err != nil {
			_ = receiverSess.Close()
		}
		return nil
	case wire.StatusDecline:
		if !senderOK {
			return nil
		}
		return senderSess.Send(wire.FILE_TRANSFER_RESP, wire.FileTransferResp{Status: wire.StatusDecline})
	}
	return nil
}

// DropReceiver removes every pending entry addressed to username,
// per spec.md §4.7 disconnect handling.
func (b *Broker) DropReceiver(username string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.pendings[:0]
	for _, p := range b.pendings {
		if p.receiver != username {
			kept = append(kept, p)
		}
	}
	b.pendings = kept
}
