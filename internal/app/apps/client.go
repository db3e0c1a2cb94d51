package apps

import (
	"bufio"
	"context"
	"os"

	"risp-chat/internal/pkg/client"
	"risp-chat/internal/pkg/validate"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ClientAppCfg configures a ClientApp.
type ClientAppCfg interface {
	ApplyClientApp(*ClientApp) error
}

// ClientApp is the interactive chat client application.
type ClientApp struct {
	ControlAddr string `validate:"required"`
	RelayAddr   string `validate:"required"`
	DownloadDir string `validate:"required"`
}

// NewClientApp creates a new ClientApp.
func NewClientApp(cfgs ...ClientAppCfg) (*ClientApp, error) {
	app := &ClientApp{}
	for _, cfg := range cfgs {
		if err := cfg.ApplyClientApp(app); err != nil {
			return nil, errors.Wrap(err, "apply ClientApp cfg failed")
		}
	}
	if err := validate.Validate().Struct(app); err != nil {
		return nil, errors.Wrap(err, "validate ClientApp failed")
	}
	return app, nil
}

// Run connects to the server, logs the user in, and drives an interactive
// chat session against stdin/stdout until stdin is exhausted.
func (app *ClientApp) Run(ctx context.Context, _ []string) error {
	c, err := client.NewClient(
		client.WithControlAddr(app.ControlAddr),
		client.WithRelayAddr(app.RelayAddr),
		client.WithDownloadDir(app.DownloadDir),
	)
	if err != nil {
		return errors.Wrap(err, "create client failed")
	}
	if err := c.Connect(ctx); err != nil {
		return errors.Wrap(err, "connect client failed")
	}
	defer c.Close()

	scanner := bufio.NewScanner(os.Stdin)
	logrus.Info("enter username")
	for {
		if !scanner.Scan() {
			return errors.Wrap(scanner.Err(), "read username failed")
		}
		if err := c.Login(scanner.Text()); err != nil {
			logrus.Warn(err.Error())
			continue
		}
		break
	}

	go func() {
		if err := c.Listen(); err != nil {
			logrus.WithError(err).Warn("client listener stopped")
		}
	}()

	logrus.Info("you are now in chat mode, type /help for a list of commands")
	for scanner.Scan() {
		if err := c.HandleCommand(scanner.Text()); err != nil {
			logrus.WithError(err).Warn("handle command failed")
		}
	}
	return errors.Wrap(scanner.Err(), "read command failed")
}
