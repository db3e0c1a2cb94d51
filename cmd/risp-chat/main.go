// Package main is the chat application entrypoint.
package main

import (
	"context"
	"time"

	"risp-chat/internal/app/apps"
	"risp-chat/internal/app/cfg"
	"risp-chat/internal/pkg/log"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CLI command definitions.
var (
	logger logrus.FieldLogger = logrus.StandardLogger()

	logLevel string

	serverControlPort uint16
	serverRelayPort   uint16
	pingInterval      time.Duration
	pongTimeout       time.Duration

	clientHost        string
	clientControlPort uint16
	clientRelayPort   uint16
	downloadDir       string

	rootCmd = &cobra.Command{
		Use:   "risp-chat",
		Short: "A line-oriented chat, game, and file-transfer server and client.",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			log.SetLogger(logLevel)
			return nil
		},
	}

	clientCmd = &cobra.Command{
		Use:   "client",
		Short: "Starts a chat client.",
		RunE:  runClient,
	}

	serverCmd = &cobra.Command{
		Use:   "server",
		Short: "Starts a chat server.",
		RunE:  runServer,
	}
)

func runServer(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	app, err := apps.NewServerApp(
		cfg.NewControlPortCfg(serverControlPort),
		cfg.NewRelayPortCfg(serverRelayPort),
		cfg.NewHeartbeatCfg(pingInterval, pongTimeout),
	)
	if err != nil {
		return errors.Wrap(err, "new server app failed")
	}
	return errors.Wrap(app.Run(ctx, nil), "run server app failed")
}

func runClient(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	app, err := apps.NewClientApp(
		cfg.NewServerAddrCfg(clientHost, clientControlPort, clientRelayPort),
		cfg.NewDownloadDirCfg(downloadDir),
	)
	if err != nil {
		return errors.Wrap(err, "new client app failed")
	}
	return errors.Wrap(app.Run(ctx, nil), "run client app failed")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")

	serverCmd.Flags().Uint16Var(&serverControlPort, "control-port", cfg.DefaultControlPort, "control channel listen port")
	serverCmd.Flags().Uint16Var(&serverRelayPort, "relay-port", cfg.DefaultRelayPort, "auxiliary file-transfer relay listen port")
	serverCmd.Flags().DurationVar(&pingInterval, "ping-interval", 0, "heartbeat ping interval (0 uses the package default)")
	serverCmd.Flags().DurationVar(&pongTimeout, "pong-timeout", 0, "heartbeat pong deadline (0 uses the package default)")

	clientCmd.Flags().StringVar(&clientHost, "host", "localhost", "server host to dial")
	clientCmd.Flags().Uint16Var(&clientControlPort, "control-port", cfg.DefaultControlPort, "server control channel port")
	clientCmd.Flags().Uint16Var(&clientRelayPort, "relay-port", cfg.DefaultRelayPort, "server auxiliary relay port")
	clientCmd.Flags().StringVar(&downloadDir, "download-dir", ".", "directory to save received files into")

	rootCmd.AddCommand(
		clientCmd,
		serverCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Fatal(errors.Wrap(err, "execute root command failed"))
	}
}
