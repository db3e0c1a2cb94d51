package relay

import (
	"context"
	"net"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Relay accepts auxiliary-port connections and rendezvous them by UUID.
type Relay struct {
	contexts *Contexts
	logger   logrus.FieldLogger
}

// New creates a Relay backed by contexts.
func New(contexts *Contexts) *Relay {
	return &Relay{contexts: contexts, logger: logrus.StandardLogger()}
}

// Serve accepts connections on ln until ctx is done or Accept fails.
func (r *Relay) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return errors.Wrap(err, "accept relay connection failed")
			}
		}
		go r.handle(conn)
	}
}

func (r *Relay) handle(conn net.Conn) {
	header, err := ReadHeader(conn)
	if err != nil {
		r.logger.WithError(err).Debug("relay header read failed")
		_ = conn.Close()
		return
	}

	tc, ok := r.contexts.Get(header.UUID)
	if !ok {
		r.logger.WithField("uuid", header.UUID).Warn("relay: unknown transfer uuid")
		_ = conn.Close()
		return
	}

	var bound bool
	switch header.Role {
	case RoleSender:
		bound = tc.BindSender(conn)
	case RoleReceiver:
		bound = tc.BindReceiver(conn)
	default:
		r.logger.WithField("role", header.Role).Warn("relay: unknown role byte")
		_ = conn.Close()
		return
	}
	if !bound {
		r.logger.WithField("uuid", header.UUID).Warn("relay: duplicate role for transfer")
		_ = conn.Close()
		return
	}

	n, err := tc.Relay()
	r.contexts.Remove(header.UUID)
	if err != nil {
		r.logger.WithError(err).WithField("uuid", header.UUID).Warn("relay copy failed")
		return
	}
	r.logger.WithField("uuid", header.UUID).WithField("bytes", n).Info("relay complete")
}
