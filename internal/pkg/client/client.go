package client

import (
	"bufio"
	"context"
	"net"
	"sync"

	"risp-chat/internal/pkg/log"
	"risp-chat/internal/pkg/wire"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Client is one client-side connection to the control port, tracking the
// state a logged-in user needs to drive chat, RPS and file transfers.
type Client struct {
	controlAddr string
	relayAddr   string
	downloadDir string

	conn   net.Conn
	writer *wire.Writer
	reader *bufio.Reader

	logger logrus.FieldLogger

	mu                  sync.Mutex
	username            string
	incomingRequests    []wire.FileTransferReq
	filePathMap         map[string]string
	awaitingRPSOpponent bool
}

// Cfg configures a Client.
type Cfg func(*Client) error

// WithControlAddr sets the control-port address to dial, e.g. "localhost:1337".
func WithControlAddr(addr string) Cfg {
	return func(c *Client) error {
		c.controlAddr = addr
		return nil
	}
}

// WithRelayAddr sets the auxiliary relay-port address to dial for file transfers.
func WithRelayAddr(addr string) Cfg {
	return func(c *Client) error {
		c.relayAddr = addr
		return nil
	}
}

// WithDownloadDir sets the directory received files are written to.
func WithDownloadDir(dir string) Cfg {
	return func(c *Client) error {
		c.downloadDir = dir
		return nil
	}
}

// NewClient creates a new Client with the given configuration.
func NewClient(cfgs ...Cfg) (*Client, error) {
	c := &Client{
		filePathMap: make(map[string]string),
		logger:      logrus.StandardLogger(),
	}
	for _, cfg := range cfgs {
		if err := cfg(c); err != nil {
			return nil, errors.Wrap(err, "apply Client cfg failed")
		}
	}
	if c.controlAddr == "" {
		return nil, errors.New("control address required")
	}
	if c.downloadDir == "" {
		c.downloadDir = "."
	}
	return c, nil
}

// Connect dials the control port and reads the server's READY greeting.
func (c *Client) Connect(ctx context.Context) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.controlAddr)
	if err != nil {
		return errors.Wrapf(err, "dial %s failed", c.controlAddr)
	}
	c.conn = conn
	c.writer = wire.NewWriter(bufio.NewWriter(conn))
	c.reader = bufio.NewReaderSize(conn, 64*1024)

	line, err := c.readLine()
	if err != nil {
		return errors.Wrap(err, "read ready greeting failed")
	}
	frame, err := wire.Split(line)
	if err != nil || frame.Command != wire.READY {
		return ErrUnexpectedResponse
	}
	var ready wire.Ready
	if err := wire.Decode(frame.Payload, &ready); err != nil {
		return errors.Wrap(err, "decode ready greeting failed")
	}
	c.logger.WithField("version", ready.Version).Info("server connected successfully")
	return nil
}

// Username returns the username this client last logged in as, or "".
func (c *Client) Username() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.username
}

// Login sends one ENTER attempt and reports the server's decision. On
// success the client's username is recorded; on failure the caller should
// prompt for a new username and retry.
func (c *Client) Login(username string) error {
	if err := c.send(wire.ENTER, wire.Enter{Username: username}); err != nil {
		return err
	}
	line, err := c.readLine()
	if err != nil {
		return ErrNoResponse
	}
	frame, err := wire.Split(line)
	if err != nil || frame.Command != wire.ENTER_RESP {
		return ErrUnexpectedResponse
	}
	var resp wire.StatusResp
	if err := wire.Decode(frame.Payload, &resp); err != nil {
		return errors.Wrap(err, "decode enter response failed")
	}
	if resp.Status != wire.StatusOK {
		return errors.New(loginErrorMessage(resp.Code))
	}
	c.mu.Lock()
	c.username = username
	c.mu.Unlock()
	c.logger.WithField("username", username).Info("logged in")
	return nil
}

// send serializes and writes one frame, logging it at trace level.
func (c *Client) send(command string, message interface{}) error {
	c.logger.WithFields(log.FrameFields(c.Username(), command, nil)).Trace("sending frame")
	return c.writer.WriteFrame(command, message)
}

// readLine blocks for the next newline-terminated frame line from the
// server, with the trailing newline stripped.
func (c *Client) readLine() (string, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line, nil
}

// Close tears down the control connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return errors.Wrap(c.conn.Close(), "close client connection failed")
}
