package session

import (
	"bufio"
	"net"
	"testing"

	"risp-chat/internal/pkg/wire"

	"github.com/stretchr/testify/require"
)

func TestSessionSendReadyWritesGreeting(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer clientConn.Close()
	s := New(serverConn, nil)
	defer s.Close()

	r := bufio.NewReader(clientConn)
	go func() { require.NoError(t, s.SendReady()) }()

	line, err := r.ReadString('\n')
	require.NoError(t, err)
	frame, err := wire.Split(line[:len(line)-1])
	require.NoError(t, err)
	require.Equal(t, wire.READY, frame.Command)
}

func TestSessionSetNamedTransitionsOnce(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer clientConn.Close()
	s := New(serverConn, nil)
	defer s.Close()

	require.Equal(t, Anon, s.State())
	require.NoError(t, s.SetNamed("alice"))
	require.Equal(t, Named, s.State())
	require.Equal(t, "alice", s.Username())

	require.ErrorIs(t, s.SetNamed("bob"), ErrAlreadyNamed)
}

func TestSessionCloseInvokesOnCloseOnce(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer clientConn.Close()

	calls := 0
	s := New(serverConn, func(*Session) { calls++ })

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	require.Equal(t, 1, calls)
	require.Equal(t, Closed, s.State())
}

func TestSessionSendAfterCloseFails(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer clientConn.Close()
	s := New(serverConn, nil)
	require.NoError(t, s.Close())
	require.ErrorIs(t, s.Send(wire.PING, struct{}{}), ErrClosed)
}
