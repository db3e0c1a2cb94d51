package client

import (
	"os"
	"path/filepath"
	"testing"

	"risp-chat/internal/pkg/wire"

	"github.com/stretchr/testify/require"
)

func TestGenerateUniqueFileNoCollision(t *testing.T) {
	dir := t.TempDir()
	got := generateUniqueFile(dir, "report.txt")
	require.Equal(t, filepath.Join(dir, "report.txt"), got)
}

func TestGenerateUniqueFileCollisionAppendsCounter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report(1).txt"), []byte("x"), 0o644))

	got := generateUniqueFile(dir, "report.txt")
	require.Equal(t, filepath.Join(dir, "report(2).txt"), got)
}

func TestRequestFileTransferMissingFileNoOp(t *testing.T) {
	c, _ := newLoopbackClient(t)
	require.NoError(t, c.RequestFileTransfer("bob", filepath.Join(t.TempDir(), "missing.txt")))
}

func TestRequestFileTransferSendsRequestWithChecksum(t *testing.T) {
	c, r := newLoopbackClient(t)
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	go func() { require.NoError(t, c.RequestFileTransfer("bob", path)) }()
	frame := readSentFrame(t, r)
	require.Equal(t, wire.FILE_TRANSFER_REQ, frame.Command)
	var req wire.FileTransferReq
	require.NoError(t, wire.Decode(frame.Payload, &req))
	require.Equal(t, "bob", req.Receiver)
	require.Equal(t, "a.txt", req.Filename)
	require.NotEmpty(t, req.Checksum)

	c.mu.Lock()
	stored, ok := c.filePathMap["a.txt"]
	c.mu.Unlock()
	require.True(t, ok)
	require.Equal(t, path, stored)
}
