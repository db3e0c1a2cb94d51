package apps

import (
	"context"
	"fmt"
	"net"
	"time"

	"risp-chat/internal/pkg/server"
	"risp-chat/internal/pkg/validate"

	"github.com/pkg/errors"
)

// ServerAppCfg configures a ServerApp.
type ServerAppCfg interface {
	ApplyServerApp(*ServerApp) error
}

// ServerApp is the chat/RPS/file-transfer server application.
// ControlPort and RelayPort are intentionally unvalidated: 0 is a valid
// value meaning "let the OS assign an ephemeral port" (net.Listen's own
// idiom, exercised by TestServerApp), not an unset field.
type ServerApp struct {
	ControlPort  uint16
	RelayPort    uint16
	PingInterval time.Duration `validate:"required"`
	PongTimeout  time.Duration `validate:"required"`
}

// NewServerApp creates a new ServerApp.
func NewServerApp(cfgs ...ServerAppCfg) (*ServerApp, error) {
	app := &ServerApp{}
	for _, cfg := range cfgs {
		if err := cfg.ApplyServerApp(app); err != nil {
			return nil, errors.Wrap(err, "apply ServerApp cfg failed")
		}
	}
	if err := validate.Validate().Struct(app); err != nil {
		return nil, errors.Wrap(err, "validate ServerApp failed")
	}
	return app, nil
}

// Run listens on both the control and auxiliary relay ports and serves
// connections until ctx is cancelled.
func (app *ServerApp) Run(ctx context.Context, _ []string) error {
	controlLn, err := net.Listen("tcp", fmt.Sprintf(":%d", app.ControlPort))
	if err != nil {
		return errors.Wrapf(err, "listen on control port %d failed", app.ControlPort)
	}
	defer controlLn.Close()

	relayLn, err := net.Listen("tcp", fmt.Sprintf(":%d", app.RelayPort))
	if err != nil {
		return errors.Wrapf(err, "listen on relay port %d failed", app.RelayPort)
	}
	defer relayLn.Close()

	mux := server.New(app.PingInterval, app.PongTimeout)
	return errors.Wrap(mux.Serve(ctx, controlLn, relayLn), "serve failed")
}
