// Package wire implements the control-channel framing codec and the
// JSON payload shapes for every command the risp-chat protocol defines.
package wire

// ProtocolVersion is sent to every client in the READY greeting.
const ProtocolVersion = "1.6.0"

// Command tokens, exact spellings per the wire protocol.
const (
	READY      = "READY"
	ENTER      = "ENTER"
	ENTER_RESP = "ENTER_RESP"

	BROADCAST_REQ  = "BROADCAST_REQ"
	BROADCAST_RESP = "BROADCAST_RESP"
	BROADCAST      = "BROADCAST"

	JOINED = "JOINED"
	LEFT   = "LEFT"

	BYE      = "BYE"
	BYE_RESP = "BYE_RESP"

	UNKNOWN_COMMAND = "UNKNOWN_COMMAND"
	PARSE_ERROR     = "PARSE_ERROR"

	PING       = "PING"
	PONG       = "PONG"
	PONG_ERROR = "PONG_ERROR"
	HANGUP     = "HANGUP"

	LIST_REQ  = "LIST_REQ"
	LIST_RESP = "LIST_RESP"

	PRIVATE_MSG_REQ  = "PRIVATE_MSG_REQ"
	PRIVATE_MSG_RESP = "PRIVATE_MSG_RESP"
	PRIVATE_MSG      = "PRIVATE_MSG"

	RPS_START_REQ       = "RPS_START_REQ"
	RPS_START_RESP      = "RPS_START_RESP"
	RPS_INVITE          = "RPS_INVITE"
	RPS_INVITE_RESP     = "RPS_INVITE_RESP"
	RPS_INVITE_DECLINED = "RPS_INVITE_DECLINED"
	RPS_READY           = "RPS_READY"
	RPS_MOVE_REQ        = "RPS_MOVE_REQ"
	RPS_MOVE_RESP       = "RPS_MOVE_RESP"
	RPS_RESULT          = "RPS_RESULT"

	FILE_TRANSFER_REQ   = "FILE_TRANSFER_REQ"
	FILE_TRANSFER_RESP  = "FILE_TRANSFER_RESP"
	FILE_TRANSFER_READY = "FILE_TRANSFER_READY"
)

// Status tokens used in OK/ERROR-shaped responses.
const (
	StatusOK      = "OK"
	StatusError   = "ERROR"
	StatusAccept  = "ACCEPT"
	StatusDecline = "DECLINE"
)

// Error codes, reused literally across the protocol (§7 taxonomy).
const (
	CodeEnterCollision   = 5000
	CodeEnterInvalid     = 5001
	CodeEnterAlready     = 5002
	CodeBroadcastUnauth  = 6000
	CodeHangupTimeout    = 7000
	CodePongUnexpected   = 8000
	CodeListUnauth       = 9000
	CodePrivateUnauth    = 10001
	CodePrivateNoTarget  = 10002
	CodePrivateSelf      = 10003
	CodeRPSUnauth        = 11001
	CodeRPSNoTarget      = 11002
	CodeRPSSelf          = 11003
	CodeRPSConflict      = 11004
	CodeRPSNotPaired     = 11005
	CodeRPSInvalidMove   = 11006
	CodeTransferUnauth   = 13000
	CodeTransferNoTarget = 13001
	CodeTransferSelf     = 13002
)

// RPS move tokens.
const (
	MoveRock     = "/r"
	MovePaper    = "/p"
	MoveScissors = "/s"
)
