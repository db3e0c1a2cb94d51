// Package relay implements the auxiliary-port bytes-relay rendezvous
// (spec.md §4.6 Bytes relay, §5 Rendezvous condition variable): two
// half-sessions, a sender and a receiver, bind to a shared TransferContext
// by UUID and the relay copies bytes from one to the other.
package relay

import (
	"io"
	"sync"
)

// TransferContext is the shared rendezvous record for one file-relay
// UUID. The first half to arrive parks on the condition variable until
// the other half binds; either may arrive first. Exactly one of the two
// bound goroutines performs the byte copy, guarded by copyOnce; the other
// blocks on the same Once until the copy finishes.
type TransferContext struct {
	mu   sync.Mutex
	cond *sync.Cond

	senderInput    io.ReadCloser
	receiverOutput io.WriteCloser

	copyOnce  sync.Once
	done      chan struct{}
	bytesSent int64
	copyErr   error
}

// NewTransferContext creates an empty, unbound context.
func NewTransferContext() *TransferContext {
	tc := &TransferContext{done: make(chan struct{})}
	tc.cond = sync.NewCond(&tc.mu)
	return tc
}

// BindSender records the sender's input stream and wakes any waiter.
// Returns false if a sender is already bound (duplicate role arrival).
func (tc *TransferContext) BindSender(r io.ReadCloser) bool {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.senderInput != nil {
		return false
	}
	tc.senderInput = r
	tc.cond.Broadcast()
	return true
}

// BindReceiver records the receiver's output stream and wakes any
// waiter. Returns false if a receiver is already bound.
func (tc *TransferContext) BindReceiver(w io.WriteCloser) bool {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.receiverOutput != nil {
		return false
	}
	tc.receiverOutput = w
	tc.cond.Broadcast()
	return true
}

func (tc *TransferContext) waitForPeer() (io.ReadCloser, io.WriteCloser) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	for tc.senderInput == nil || tc.receiverOutput == nil {
		tc.cond.Wait()
	}
	return tc.senderInput, tc.receiverOutput
}

// Relay blocks until both halves are bound, then copies bytes from
// sender to receiver and closes both streams. Safe to call from both the
// sender and receiver goroutines: the copy itself runs exactly once.
func (tc *TransferContext) Relay() (int64, error) {
	tc.copyOnce.Do(func() {
		sender, receiver := tc.waitForPeer()
		tc.bytesSent, tc.copyErr = io.Copy(receiver, sender)
		_ = sender.Close()
		_ = receiver.Close()
		close(tc.done)
	})
	<-tc.done
	return tc.bytesSent, tc.copyErr
}
