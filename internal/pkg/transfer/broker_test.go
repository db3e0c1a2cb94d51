package transfer

import (
	"bufio"
	"net"
	"testing"

	"risp-chat/internal/pkg/registry"
	"risp-chat/internal/pkg/relay"
	"risp-chat/internal/pkg/session"
	"risp-chat/internal/pkg/wire"

	"github.com/stretchr/testify/require"
)

type testPeer struct {
	sess *session.Session
	r    *bufio.Reader
}

func newTestPeer(t *testing.T, reg *registry.Registry, username string) testPeer {
	t.Helper()
	serverConn, clientConn := net.Pipe()
	t.Cleanup(func() { clientConn.Close() })
	sess := session.New(serverConn, nil)
	require.NoError(t, sess.SetNamed(username))
	require.True(t, reg.PutIfAbsent(username, sess))
	return testPeer{sess: sess, r: bufio.NewReader(clientConn)}
}

func (p testPeer) readFrame(t *testing.T) wire.Frame {
	t.Helper()
	line, err := p.r.ReadString('\n')
	require.NoError(t, err)
	frame, err := wire.Split(line[:len(line)-1])
	require.NoError(t, err)
	return frame
}

func TestRequestSelfTargetErrors(t *testing.T) {
	reg := registry.New()
	alice := newTestPeer(t, reg, "alice")
	b := New(reg, relay.NewContexts())

	go func() {
		require.NoError(t, b.Request(alice.sess, wire.FileTransferReq{Receiver: "alice", Filename: "a.txt"}))
	}()
	frame := alice.readFrame(t)
	var resp wire.FileTransferResp
	require.NoError(t, wire.Decode(frame.Payload, &resp))
	require.Equal(t, wire.CodeTransferSelf, resp.Code)
}

func TestRequestNoTargetErrors(t *testing.T) {
	reg := registry.New()
	alice := newTestPeer(t, reg, "alice")
	b := New(reg, relay.NewContexts())

	go func() {
		require.NoError(t, b.Request(alice.sess, wire.FileTransferReq{Receiver: "ghost", Filename: "a.txt"}))
	}()
	frame := alice.readFrame(t)
	var resp wire.FileTransferResp
	require.NoError(t, wire.Decode(frame.Payload, &resp))
	require.Equal(t, wire.CodeTransferNoTarget, resp.Code)
}

func TestRequestForwardsToReceiver(t *testing.T) {
	reg := registry.New()
	alice := newTestPeer(t, reg, "alice")
	bob := newTestPeer(t, reg, "bob")
	b := New(reg, relay.NewContexts())

	go func() {
		require.NoError(t, b.Request(alice.sess, wire.FileTransferReq{
			Receiver: "bob", Filename: "a.txt", Checksum: "abc",
		}))
	}()
	ack := alice.readFrame(t)
	var ackResp wire.FileTransferResp
	require.NoError(t, wire.Decode(ack.Payload, &ackResp))
	require.Equal(t, wire.StatusOK, ackResp.Status)

	forwarded := bob.readFrame(t)
	require.Equal(t, wire.FILE_TRANSFER_REQ, forwarded.Command)
	var req wire.FileTransferReq
	require.NoError(t, wire.Decode(forwarded.Payload, &req))
	require.Equal(t, "alice", req.Sender)
}

func TestResponseAcceptMintsUUIDAndNotifiesBoth(t *testing.T) {
	reg := registry.New()
	alice := newTestPeer(t, reg, "alice")
	bob := newTestPeer(t, reg, "bob")
	contexts := relay.NewContexts()
	b := New(reg, contexts)

	go func() {
		require.NoError(t, b.Request(alice.sess, wire.FileTransferReq{
			Receiver: "bob", Filename: "a.txt", Checksum: "abc",
		}))
	}()
	alice.readFrame(t)
	bob.readFrame(t)

	go func() {
		require.NoError(t, b.Response(bob.sess, wire.FileTransferResp{Status: wire.StatusAccept}))
	}()

	senderReady := alice.readFrame(t)
	require.Equal(t, wire.FILE_TRANSFER_READY, senderReady.Command)
	var readyS wire.FileTransferReady
	require.NoError(t, wire.Decode(senderReady.Payload, &readyS))
	require.Equal(t, "s", readyS.Type)

	receiverReady := bob.readFrame(t)
	var readyR wire.FileTransferReady
	require.NoError(t, wire.Decode(receiverReady.Payload, &readyR))
	require.Equal(t, "r", readyR.Type)
	require.Equal(t, readyS.UUID, readyR.UUID)

	_, ok := contexts.Get(readyS.UUID)
	require.True(t, ok)
}

func TestResponseDeclineNotifiesSenderOnly(t *testing.T) {
	reg := registry.New()
	alice := newTestPeer(t, reg, "alice")
	bob := newTestPeer(t, reg, "bob")
	b := New(reg, relay.NewContexts())

	go func() {
		require.NoError(t, b.Request(alice.sess, wire.FileTransferReq{Receiver: "bob", Filename: "a.txt"}))
	}()
	alice.readFrame(t)
	bob.readFrame(t)

	go func() {
		require.NoError(t, b.Response(bob.sess, wire.FileTransferResp{Status: wire.StatusDecline}))
	}()

	frame := alice.readFrame(t)
	require.Equal(t, wire.FILE_TRANSFER_RESP, frame.Command)
	var resp wire.FileTransferResp
	require.NoError(t, wire.Decode(frame.Payload, &resp))
	require.Equal(t, wire.StatusDecline, resp.Status)
}

func TestDropReceiverRemovesPendingRequests(t *testing.T) {
	reg := registry.New()
	alice := newTestPeer(t, reg, "alice")
	bob := newTestPeer(t, reg, "bob")
	b := New(reg, relay.NewContexts())

	go func() {
		require.NoError(t, b.Request(alice.sess, wire.FileTransferReq{Receiver: "bob", Filename: "a.txt"}))
	}()
	alice.readFrame(t)
	bob.readFrame(t)

	b.DropReceiver("bob")

	require.NoError(t, b.Response(bob.sess, wire.FileTransferResp{Status: wire.StatusAccept}))
}
