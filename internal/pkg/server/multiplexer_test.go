package server

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"risp-chat/internal/pkg/wire"

	"github.com/stretchr/testify/require"
)

func startTestServer(t *testing.T) (controlAddr string, cancel func()) {
	t.Helper()
	controlLn, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	relayLn, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	mux := New(2*time.Second, 500*time.Millisecond)
	ctx, cancelFn := context.WithCancel(context.Background())
	go func() { _ = mux.Serve(ctx, controlLn, relayLn) }()
	t.Cleanup(cancelFn)
	return controlLn.Addr().String(), cancelFn
}

type testClient struct {
	conn net.Conn
	r    *bufio.Reader
}

func dialTestClient(t *testing.T, addr string) *testClient {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &testClient{conn: conn, r: bufio.NewReader(conn)}
}

func (c *testClient) send(t *testing.T, command string, message interface{}) {
	t.Helper()
	line, err := wire.Format(command, message)
	require.NoError(t, err)
	_, err = c.conn.Write([]byte(line + "\n"))
	require.NoError(t, err)
}

func (c *testClient) recv(t *testing.T) wire.Frame {
	t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := c.r.ReadString('\n')
	require.NoError(t, err)
	frame, err := wire.Split(line[:len(line)-1])
	require.NoError(t, err)
	return frame
}

func TestServerEnterLoginFlow(t *testing.T) {
	addr, _ := startTestServer(t)
	c := dialTestClient(t, addr)

	ready := c.recv(t)
	require.Equal(t, wire.READY, ready.Command)

	c.send(t, wire.ENTER, wire.Enter{Username: "alice"})
	resp := c.recv(t)
	require.Equal(t, wire.ENTER_RESP, resp.Command)
	var status wire.StatusResp
	require.NoError(t, wire.Decode(resp.Payload, &status))
	require.Equal(t, wire.StatusOK, status.Status)
}

func TestServerEnterInvalidUsername(t *testing.T) {
	addr, _ := startTestServer(t)
	c := dialTestClient(t, addr)
	c.recv(t) // READY

	c.send(t, wire.ENTER, wire.Enter{Username: "x"})
	resp := c.recv(t)
	var status wire.StatusResp
	require.NoError(t, wire.Decode(resp.Payload, &status))
	require.Equal(t, wire.CodeEnterInvalid, status.Code)
}

func TestServerEnterCollision(t *testing.T) {
	addr, _ := startTestServer(t)
	a := dialTestClient(t, addr)
	a.recv(t)
	a.send(t, wire.ENTER, wire.Enter{Username: "alice"})
	a.recv(t)

	b := dialTestClient(t, addr)
	b.recv(t)
	b.send(t, wire.ENTER, wire.Enter{Username: "alice"})
	resp := b.recv(t)
	var status wire.StatusResp
	require.NoError(t, wire.Decode(resp.Payload, &status))
	require.Equal(t, wire.CodeEnterCollision, status.Code)
}

func TestServerRejectsUnauthenticatedBroadcast(t *testing.T) {
	addr, _ := startTestServer(t)
	c := dialTestClient(t, addr)
	c.recv(t) // READY

	c.send(t, wire.BROADCAST_REQ, wire.BroadcastReq{Message: "hi"})
	resp := c.recv(t)
	require.Equal(t, wire.BROADCAST_RESP, resp.Command)
	var status wire.StatusResp
	require.NoError(t, wire.Decode(resp.Payload, &status))
	require.Equal(t, wire.CodeBroadcastUnauth, status.Code)
}

func TestServerBroadcastAfterLoginReachesPeer(t *testing.T) {
	addr, _ := startTestServer(t)

	alice := dialTestClient(t, addr)
	alice.recv(t)
	alice.send(t, wire.ENTER, wire.Enter{Username: "alice"})
	alice.recv(t)

	bob := dialTestClient(t, addr)
	bob.recv(t)
	bob.send(t, wire.ENTER, wire.Enter{Username: "bob"})
	bob.recv(t)

	joined := alice.recv(t) // JOINED, announced to every other already-named session
	require.Equal(t, wire.JOINED, joined.Command)

	alice.send(t, wire.BROADCAST_REQ, wire.BroadcastReq{Message: "hello"})
	ack := alice.recv(t)
	require.Equal(t, wire.BROADCAST_RESP, ack.Command)

	msg := bob.recv(t)
	require.Equal(t, wire.BROADCAST, msg.Command)
	var broadcast wire.Broadcast
	require.NoError(t, wire.Decode(msg.Payload, &broadcast))
	require.Equal(t, "alice", broadcast.Username)
	require.Equal(t, "hello", broadcast.Message)
}

func TestServerUnknownCommand(t *testing.T) {
	addr, _ := startTestServer(t)
	c := dialTestClient(t, addr)
	c.recv(t)

	_, err := c.conn.Write([]byte("NOT_A_REAL_COMMAND {}\n"))
	require.NoError(t, err)
	resp := c.recv(t)
	require.Equal(t, wire.UNKNOWN_COMMAND, resp.Command)
}
