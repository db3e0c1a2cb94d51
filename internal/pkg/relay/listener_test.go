package relay

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestServeRendezvousSenderAndReceiver(t *testing.T) {
	uuid := strings.Repeat("a", UUIDLength)
	contexts := NewContexts()
	contexts.Create(uuid)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	r := New(contexts)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Serve(ctx, ln) }()

	sender, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer sender.Close()
	_, err = fmt.Fprintf(sender, "%s%c", uuid, RoleSender)
	require.NoError(t, err)

	receiver, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer receiver.Close()
	_, err = fmt.Fprintf(receiver, "%s%c", uuid, RoleReceiver)
	require.NoError(t, err)

	payload := "payload bytes"
	_, err = sender.Write([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, sender.Close())

	buf := make([]byte, len(payload))
	receiver.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err = io.ReadFull(receiver, buf)
	require.NoError(t, err)
	require.Equal(t, payload, string(buf))
}

func TestHandleUnknownUUIDClosesConnection(t *testing.T) {
	contexts := NewContexts()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	r := New(contexts)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Serve(ctx, ln) }()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	uuid := strings.Repeat("b", UUIDLength)
	_, err = fmt.Fprintf(conn, "%s%c", uuid, RoleSender)
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1)
	_, err = conn.Read(buf)
	require.Error(t, err)
}
