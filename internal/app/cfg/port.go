// Package cfg implements functionality to configure an app.
//
// The configuration objects defined here need only be implemented once,
// but can be applied to multiple types.
//
// In order to add support for a new type, the configuration
// need only implement an ApplyX method.
package cfg

import (
	"fmt"
	"time"

	"risp-chat/internal/app/apps"
	"risp-chat/internal/pkg/heartbeat"
)

// DefaultControlPort is the control-channel listen port.
const DefaultControlPort uint16 = 1337

// DefaultRelayPort is the auxiliary byte-relay listen port.
const DefaultRelayPort uint16 = 1338

// ControlPortCfg configures the server's control-channel port.
type ControlPortCfg struct {
	port uint16
}

// NewControlPortCfg creates a ControlPortCfg for port.
func NewControlPortCfg(port uint16) *ControlPortCfg {
	return &ControlPortCfg{port: port}
}

// ApplyServerApp applies the control port to a ServerApp.
func (cfg ControlPortCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.ControlPort = cfg.port
	return nil
}

// RelayPortCfg configures the server's auxiliary relay port.
type RelayPortCfg struct {
	port uint16
}

// NewRelayPortCfg creates a RelayPortCfg for port.
func NewRelayPortCfg(port uint16) *RelayPortCfg {
	return &RelayPortCfg{port: port}
}

// ApplyServerApp applies the relay port to a ServerApp.
func (cfg RelayPortCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.RelayPort = cfg.port
	return nil
}

// HeartbeatCfg configures the server's T_PING/T_PONG intervals.
type HeartbeatCfg struct {
	pingInterval time.Duration
	pongTimeout  time.Duration
}

// NewHeartbeatCfg creates a HeartbeatCfg. Zero values fall back to
// heartbeat.DefaultPingInterval/DefaultPongTimeout.
func NewHeartbeatCfg(pingInterval, pongTimeout time.Duration) *HeartbeatCfg {
	return &HeartbeatCfg{pingInterval: pingInterval, pongTimeout: pongTimeout}
}

// ApplyServerApp applies the heartbeat timings to a ServerApp.
func (cfg HeartbeatCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.PingInterval = cfg.pingInterval
	app.PongTimeout = cfg.pongTimeout
	if app.PingInterval == 0 {
		app.PingInterval = heartbeat.DefaultPingInterval
	}
	if app.PongTimeout == 0 {
		app.PongTimeout = heartbeat.DefaultPongTimeout
	}
	return nil
}

// ServerAddrCfg configures the client's dial targets for the control and
// relay ports on a single host.
type ServerAddrCfg struct {
	host        string
	controlPort uint16
	relayPort   uint16
}

// NewServerAddrCfg creates a ServerAddrCfg targeting host on the given ports.
func NewServerAddrCfg(host string, controlPort, relayPort uint16) *ServerAddrCfg {
	return &ServerAddrCfg{host: host, controlPort: controlPort, relayPort: relayPort}
}

// ApplyClientApp applies the resolved control/relay addresses to a ClientApp.
func (cfg ServerAddrCfg) ApplyClientApp(app *apps.ClientApp) error {
	app.ControlAddr = fmt.Sprintf("%s:%d", cfg.host, cfg.controlPort)
	app.RelayAddr = fmt.Sprintf("%s:%d", cfg.host, cfg.relayPort)
	return nil
}

// DownloadDirCfg configures the client's file download directory.
type DownloadDirCfg struct {
	dir string
}

// NewDownloadDirCfg creates a DownloadDirCfg for dir.
func NewDownloadDirCfg(dir string) *DownloadDirCfg {
	return &DownloadDirCfg{dir: dir}
}

// ApplyClientApp applies the download directory to a ClientApp.
func (cfg DownloadDirCfg) ApplyClientApp(app *apps.ClientApp) error {
	app.DownloadDir = cfg.dir
	return nil
}
