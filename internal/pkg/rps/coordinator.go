// Package rps implements the two-player Rock-Paper-Scissors state machine
// (spec.md §4.5): the pairing map, the move buffer, and resolution.
package rps

import (
	"sync"

	"risp-chat/internal/pkg/registry"
	"risp-chat/internal/pkg/session"
	"risp-chat/internal/pkg/validate"
	"risp-chat/internal/pkg/wire"
)

// Coordinator owns the pairing map and move buffer for every RPS game in
// progress. Pair entries are indexed by username, not by session
// reference, so a stale session never lingers in the map; sessions are
// looked up in the registry at send time.
type Coordinator struct {
	reg *registry.Registry

	mu    sync.Mutex
	pair  map[string]string
	moves map[string]string
}

// New creates a Coordinator bound to the session registry it looks up
// opponents in.
func New(reg *registry.Registry) *Coordinator {
	return &Coordinator{
		reg:   reg,
		pair:  make(map[string]string),
		moves: make(map[string]string),
	}
}

// Start handles RPS_START_REQ from a named session.
func (c *Coordinator) Start(from *session.Session, req wire.RPSStartReq) error {
	username := from.Username()
	receiver := req.Receiver

	if receiver == username {
		return from.Send(wire.RPS_START_RESP, wire.RPSStartResp{Status: wire.StatusError, Code: wire.CodeRPSSelf})
	}
	receiverSess, ok := c.reg.Get(receiver)
	if !ok {
		return from.Send(wire.RPS_START_RESP, wire.RPSStartResp{Status: wire.StatusError, Code: wire.CodeRPSNoTarget})
	}

	c.mu.Lock()
	if p1, p2, conflict := c.conflictLocked(username, receiver); conflict {
		c.mu.Unlock()
		return from.Send(wire.RPS_START_RESP, wire.RPSStartResp{
			Status: wire.StatusError, Code: wire.CodeRPSConflict, Player1: p1, Player2: p2,
		})
	}
	c.pair[username] = receiver
	c.pair[receiver] = username
	c.mu.Unlock()

	if err := from.Send(wire.RPS_START_RESP, wire.RPSStartResp{Status: wire.StatusOK}); err != nil {
		return err
	}
	return receiverSess.Send(wire.RPS_INVITE, wire.RPSInvite{Sender: username})
}

// conflictLocked reports whether either username is already paired, and
// if so, the conflicting pair. Caller must hold c.mu.
func (c *Coordinator) conflictLocked(a, b string) (p1, p2 string, conflict bool) {
	for x, y := range c.pair {
		if x == a || y == a || x == b || y == b {
			return x, y, true
		}
	}
	return "", "", false
}

// InviteResp handles RPS_INVITE_RESP from the invitee.
func (c *Coordinator) InviteResp(from *session.Session, resp wire.RPSInviteResp) error {
	username := from.Username()

	c.mu.Lock()
	opponent, ok := c.pair[username]
	c.mu.Unlock()
	if !ok {
		return nil
	}
	opponentSess, ok := c.reg.Get(opponent)
	if !ok {
		return nil
	}

	switch resp.Status {
	case wire.StatusAccept:
		if err := from.Send(wire.RPS_READY, struct{}{}); err != nil {
			return err
		}
		return opponentSess.Send(wire.RPS_READY, struct{}{})
	case wire.StatusDecline:
		c.dissolve(username, opponent)
		if err := opponentSess.Send(wire.RPS_INVITE_DECLINED, struct{}{}); err != nil {
			return err
		}
		return from.Send(wire.RPS_INVITE_DECLINED, struct{}{})
	}
	return nil
}

// Move handles RPS_MOVE_REQ, recording a move and resolving the game once
// both sides of the pair have moved.
func (c *Coordinator) Move(from *session.Session, req wire.RPSMoveReq) error {
	username := from.Username()

	c.mu.Lock()
	opponent, paired := c.pair[username]
	if !paired {
		c.mu.Unlock()
		return from.Send(wire.RPS_MOVE_RESP, wire.RPSMoveResp{Status: wire.StatusError, Code: wire.CodeRPSNotPaired})
	}
	if err := validate.Validate().Struct(&req); err != nil {
		c.mu.Unlock()
		return from.Send(wire.RPS_MOVE_RESP, wire.RPSMoveResp{Status: wire.StatusError, Code: wire.CodeRPSInvalidMove})
	}
	c.moves[username] = req.Choice
	_, opponentMoved := c.moves[opponent]
	c.mu.Unlock()

	if err := from.Send(wire.RPS_MOVE_RESP, wire.RPSMoveResp{Status: wire.StatusOK}); err != nil {
		return err
	}
	if opponentMoved {
		return c.resolve(username, opponent)
	}
	return nil
}

func (c *Coordinator) resolve(a, b string) error {
	c.mu.Lock()
	moveA, moveB := c.moves[a], c.moves[b]
	delete(c.moves, a)
	delete(c.moves, b)
	delete(c.pair, a)
	delete(c.pair, b)
	c.mu.Unlock()

	winner := resolveWinner(a, moveA, b, moveB)
	result := wire.RPSResult{
		Winner:  winner,
		Choices: map[string]string{a: moveA, b: moveB},
	}

	sessA, okA := c.reg.Get(a)
	sessB, okB := c.reg.Get(b)
	if okA {
		if err := sessA.Send(wire.RPS_RESULT, result); err != nil {
			_ = sessA.Close()
		}
	}
	if okB {
		if err := sessB.Send(wire.RPS_RESULT, result); err != nil {
			_ = sessB.Close()
		}
	}
	return nil
}

// resolveWinner applies rock-paper-scissors rules; a nil winner means a
// tie.
func resolveWinner(a, moveA, b, moveB string) *string {
	if moveA == moveB {
		return nil
	}
	beats := map[string]string{
		wire.MoveRock:     wire.MoveScissors,
		wire.MoveScissors: wire.MovePaper,
		wire.MovePaper:    wire.MoveRock,
	}
	if beats[moveA] == moveB {
		return &a
	}
	return &b
}

// dissolve removes a pairing for both usernames. Caller must not hold
// c.mu.
func (c *Coordinator) dissolve(a, b string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pair, a)
	delete(c.pair, b)
	delete(c.moves, a)
	delete(c.moves, b)
}

// Disconnect dissolves username's pairing (if any) on disconnect and
// notifies the opponent, per spec.md §4.5/§4.7. Returns the opponent's
// username, or "" if username was not paired.
func (c *Coordinator) Disconnect(username string) string {
	c.mu.Lock()
	opponent, ok := c.pair[username]
	c.mu.Unlock()
	if !ok {
		return ""
	}
	c.dissolve(username, opponent)
	if opponentSess, ok := c.reg.Get(opponent); ok {
		_ = opponentSess.Send(wire.RPS_INVITE_DECLINED, struct{}{})
	}
	return opponent
}
