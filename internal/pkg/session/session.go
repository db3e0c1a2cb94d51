// Package session owns one control-socket connection: the login state
// machine, the serialized frame writer, the reader loop, and the
// heartbeat engine attached to it after login (spec.md §3, §4.2, §4.3).
package session

import (
	"bufio"
	"net"
	"sync"

	"risp-chat/internal/pkg/heartbeat"
	"risp-chat/internal/pkg/wire"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// State is the session's login state.
type State int

const (
	// Anon is the state before a successful ENTER.
	Anon State = iota
	// Named is the state after a successful ENTER, until disconnect/BYE.
	Named
	// Closed is the terminal state; the socket is gone.
	Closed
)

// Session is one live control connection.
type Session struct {
	conn   net.Conn
	writer *wire.Writer
	reader *bufio.Reader
	logger logrus.FieldLogger

	mu        sync.Mutex
	username  string
	state     State
	heartbeat *heartbeat.Engine

	closeOnce sync.Once
	onClose   func(*Session)
}

// New wraps an accepted connection. onClose is invoked exactly once, when
// the session transitions to Closed for any reason (EOF, BYE, HANGUP,
// process shutdown); it is the single place the caller should perform
// registry/pairing/pending-transfer cleanup (spec.md §4.7).
func New(conn net.Conn, onClose func(*Session)) *Session {
	return &Session{
		conn:    conn,
		writer:  wire.NewWriter(bufio.NewWriter(conn)),
		reader:  bufio.NewReaderSize(conn, 64*1024),
		logger:  logrus.StandardLogger(),
		onClose: onClose,
	}
}

// RemoteAddr returns the underlying connection's remote address string.
func (s *Session) RemoteAddr() string {
	return s.conn.RemoteAddr().String()
}

// Username returns the session's username, or "" if still Anon.
func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

// State returns the session's current login state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetNamed transitions Anon -> Named, recording the username. It fails if
// the session is already Named.
func (s *Session) SetNamed(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Named {
		return ErrAlreadyNamed
	}
	s.username = username
	s.state = Named
	return nil
}

// Send writes one frame to the client, serialized against any other
// concurrent writer (PING, broadcasts, etc).
func (s *Session) Send(command string, message interface{}) error {
	if s.State() == Closed {
		return ErrClosed
	}
	return s.writer.WriteFrame(command, message)
}

// ReadLine blocks for the next newline-terminated frame line, with the
// trailing newline stripped.
func (s *Session) ReadLine() (string, error) {
	line, err := s.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line, nil
}

// Close tears the session down: stops the heartbeat, closes the socket,
// transitions to Closed, and invokes onClose exactly once.
func (s *Session) Close() error {
	var closeErr error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		hb := s.heartbeat
		s.state = Closed
		s.mu.Unlock()
		if hb != nil {
			hb.Stop()
		}
		closeErr = errors.Wrap(s.conn.Close(), "close session socket failed")
		if s.onClose != nil {
			s.onClose(s)
		}
	})
	return closeErr
}

// AttachHeartbeat installs a running heartbeat engine, created by the
// caller with onPing/onEvict bound to this session's Send/Close.
func (s *Session) AttachHeartbeat(e *heartbeat.Engine) {
	s.mu.Lock()
	s.heartbeat = e
	s.mu.Unlock()
}

// Heartbeat returns the attached heartbeat engine, or nil before login.
func (s *Session) Heartbeat() *heartbeat.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.heartbeat
}

// SendReady sends the initial READY greeting.
func (s *Session) SendReady() error {
	return s.Send(wire.READY, wire.Ready{Version: wire.ProtocolVersion})
}
