package client

import (
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"

	"risp-chat/internal/pkg/checksum"
	"risp-chat/internal/pkg/relay"
	"risp-chat/internal/pkg/wire"

	"github.com/pkg/errors"
)

// RequestFileTransfer validates filePath locally, computes its checksum,
// remembers it under its base filename for the later FILE_TRANSFER_READY,
// and sends FILE_TRANSFER_REQ (mirrors Client.java's requestFileTransfer).
func (c *Client) RequestFileTransfer(receiver, filePath string) error {
	info, err := os.Stat(filePath)
	if err != nil || info.IsDir() {
		c.logger.Warn("file does not exist or is invalid")
		return nil
	}
	filename := filepath.Base(filePath)
	sum, err := checksum.File(filePath)
	if err != nil {
		return errors.Wrap(err, "compute checksum failed")
	}

	c.mu.Lock()
	c.filePathMap[filename] = filePath
	c.mu.Unlock()

	return c.send(wire.FILE_TRANSFER_REQ, wire.FileTransferReq{
		Sender: c.Username(), Receiver: receiver, Filename: filename, Checksum: sum,
	})
}

// runFileTransfer dials the relay port and performs the sender or receiver
// half of the byte stream named by ready, per the role it carries.
func (c *Client) runFileTransfer(ready wire.FileTransferReady) {
	conn, err := net.Dial("tcp", c.relayAddr)
	if err != nil {
		c.logger.WithError(err).Warn("dial relay failed")
		return
	}
	defer conn.Close()

	switch ready.Type {
	case "s":
		c.sendFile(conn, ready)
	case "r":
		c.receiveFile(conn, ready)
	default:
		c.logger.WithField("type", ready.Type).Warn("unknown file transfer role")
	}
}

func (c *Client) sendFile(conn net.Conn, ready wire.FileTransferReady) {
	c.mu.Lock()
	path, ok := c.filePathMap[ready.Filename]
	c.mu.Unlock()
	if !ok {
		c.logger.WithField("filename", ready.Filename).Warn(ErrNoStoredPath.Error())
		return
	}

	if _, err := fmt.Fprintf(conn, "%s%c", ready.UUID, relay.RoleSender); err != nil {
		c.logger.WithError(err).Warn("write relay header failed")
		return
	}

	f, err := os.Open(path)
	if err != nil {
		c.logger.WithError(err).Warn("open file to send failed")
		return
	}
	defer f.Close()

	if _, err := io.Copy(conn, f); err != nil {
		c.logger.WithError(err).Warn("send file failed")
		return
	}
	c.logger.WithField("filename", ready.Filename).Info("all file bytes sent successfully")
}

func (c *Client) receiveFile(conn net.Conn, ready wire.FileTransferReady) {
	if _, err := fmt.Fprintf(conn, "%s%c", ready.UUID, relay.RoleReceiver); err != nil {
		c.logger.WithError(err).Warn("write relay header failed")
		return
	}

	if err := os.MkdirAll(c.downloadDir, 0o755); err != nil {
		c.logger.WithError(err).Warn("create download directory failed")
		return
	}
	outPath := generateUniqueFile(c.downloadDir, ready.Filename)

	out, err := os.Create(outPath)
	if err != nil {
		c.logger.WithError(err).Warn("create downloaded file failed")
		return
	}
	c.logger.Info("downloading...")
	_, copyErr := io.Copy(out, conn)
	closeErr := out.Close()
	if copyErr != nil {
		c.logger.WithError(copyErr).Warn("receive file failed")
		return
	}
	if closeErr != nil {
		c.logger.WithError(closeErr).Warn("close downloaded file failed")
		return
	}

	c.logger.Info("checking checksum...")
	if ready.Checksum == "" {
		c.logger.WithField("path", outPath).Info("file download complete")
		return
	}
	if err := checksum.Verify(outPath, ready.Checksum); err != nil {
		c.logger.WithError(err).Warn("checksum mismatch, file retained")
		return
	}
	c.logger.WithField("path", outPath).Info("file download complete")
}

// generateUniqueFile appends an increasing "(n)" suffix before the
// extension until the target path doesn't already exist, mirroring
// Client.java's generateUniqueFile.
func generateUniqueFile(dir, filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	candidate := filepath.Join(dir, filename)
	for count := 1; ; count++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s(%d)%s", base, count, ext))
	}
}
