package client

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"risp-chat/internal/pkg/wire"

	"github.com/stretchr/testify/require"
)

// fakeServer accepts one connection on a net.Pipe-backed listener and lets
// the test script exactly what it writes/expects next.
type fakeServer struct {
	conn   net.Conn
	reader *bufio.Reader
	writer *wire.Writer
}

func newFakeServer(t *testing.T) (*fakeServer, net.Conn) {
	t.Helper()
	serverConn, clientConn := net.Pipe()
	return &fakeServer{
		conn:   serverConn,
		reader: bufio.NewReader(serverConn),
		writer: wire.NewWriter(bufio.NewWriter(serverConn)),
	}, clientConn
}

func (s *fakeServer) sendReady(t *testing.T) {
	t.Helper()
	require.NoError(t, s.writer.WriteFrame(wire.READY, wire.Ready{Version: wire.ProtocolVersion}))
}

func (s *fakeServer) readFrame(t *testing.T) wire.Frame {
	t.Helper()
	line, err := s.reader.ReadString('\n')
	require.NoError(t, err)
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	frame, err := wire.Split(line)
	require.NoError(t, err)
	return frame
}

func dialPipe(t *testing.T, clientConn net.Conn) *Client {
	t.Helper()
	c, err := NewClient(WithControlAddr("pipe"))
	require.NoError(t, err)
	c.conn = clientConn
	c.writer = wire.NewWriter(bufio.NewWriter(clientConn))
	c.reader = bufio.NewReaderSize(clientConn, 64*1024)
	return c
}

func TestClientConnectReadsReadyGreeting(t *testing.T) {
	srv, clientConn := newFakeServer(t)
	defer srv.conn.Close()
	defer clientConn.Close()

	go srv.sendReady(t)

	c := dialPipe(t, clientConn)
	line, err := c.readLine()
	require.NoError(t, err)
	frame, err := wire.Split(line)
	require.NoError(t, err)
	require.Equal(t, wire.READY, frame.Command)
}

func TestClientLoginSuccess(t *testing.T) {
	srv, clientConn := newFakeServer(t)
	defer srv.conn.Close()
	defer clientConn.Close()

	c := dialPipe(t, clientConn)

	go func() {
		req := srv.readFrame(t)
		require.Equal(t, wire.ENTER, req.Command)
		require.NoError(t, srv.writer.WriteFrame(wire.ENTER_RESP, wire.StatusResp{Status: wire.StatusOK}))
	}()

	require.NoError(t, c.Login("alice"))
	require.Equal(t, "alice", c.Username())
}

func TestClientLoginCollision(t *testing.T) {
	srv, clientConn := newFakeServer(t)
	defer srv.conn.Close()
	defer clientConn.Close()

	c := dialPipe(t, clientConn)

	go func() {
		srv.readFrame(t)
		require.NoError(t, srv.writer.WriteFrame(wire.ENTER_RESP, wire.StatusResp{
			Status: wire.StatusError,
			Code:   wire.CodeEnterCollision,
		}))
	}()

	err := c.Login("alice")
	require.Error(t, err)
	require.Empty(t, c.Username())
}

func TestClientConnectContextCancelled(t *testing.T) {
	c, err := NewClient(WithControlAddr("127.0.0.1:1"))
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	require.Error(t, c.Connect(ctx))
}
