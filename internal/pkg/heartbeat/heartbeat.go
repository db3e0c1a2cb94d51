// Package heartbeat implements the per-session PING/PONG liveness engine
// described in spec.md §4.3: an outer tick that sends PING (or evicts a
// session still awaiting one), and an inner PONG deadline that evicts as
// soon as it expires. The inner deadline is authoritative; the outer tick
// is only a backstop in case a session starved the scheduler long enough
// to miss its own deadline (see SPEC_FULL.md §5, decision 1).
package heartbeat

import (
	"sync"
	"time"
)

// DefaultPingInterval is T_PING.
const DefaultPingInterval = 10 * time.Second

// DefaultPongTimeout is T_PONG.
const DefaultPongTimeout = 2 * time.Second

// Engine drives one session's heartbeat. Callbacks are invoked with the
// engine's lock released, so they may themselves call HandlePong/Stop
// without deadlocking.
type Engine struct {
	pingInterval time.Duration
	pongTimeout  time.Duration

	onPing  func()
	onEvict func()

	mu           sync.Mutex
	awaitingPong bool
	stopped      bool
	outerTimer   *time.Timer
	innerTimer   *time.Timer
}

// New creates an Engine. onPing is called to send a PING frame; onEvict is
// called exactly once, to send HANGUP and close the session.
func New(pingInterval, pongTimeout time.Duration, onPing, onEvict func()) *Engine {
	return &Engine{
		pingInterval: pingInterval,
		pongTimeout:  pongTimeout,
		onPing:       onPing,
		onEvict:      onEvict,
	}
}

// Start schedules the first outer tick, one pingInterval after login.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return
	}
	e.outerTimer = time.AfterFunc(e.pingInterval, e.tick)
}

// Stop cancels any pending timers. Idempotent.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopped = true
	if e.outerTimer != nil {
		e.outerTimer.Stop()
	}
	if e.innerTimer != nil {
		e.innerTimer.Stop()
	}
}

func (e *Engine) tick() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	if e.awaitingPong {
		e.stopped = true
		e.mu.Unlock()
		e.onEvict()
		return
	}
	e.awaitingPong = true
	e.innerTimer = time.AfterFunc(e.pongTimeout, e.pongDeadline)
	e.outerTimer = time.AfterFunc(e.pingInterval, e.tick)
	e.mu.Unlock()
	e.onPing()
}

func (e *Engine) pongDeadline() {
	e.mu.Lock()
	if e.stopped || !e.awaitingPong {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	e.mu.Unlock()
	e.onEvict()
}

// HandlePong clears the awaiting flag. It returns true when a PONG arrived
// while none was awaited (PONG_ERROR 8000); the session stays alive either
// way.
func (e *Engine) HandlePong() (unexpected bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.awaitingPong {
		return true
	}
	e.awaitingPong = false
	return false
}
