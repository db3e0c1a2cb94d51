package wire

// Ready is the server's greeting, sent before any client frame.
type Ready struct {
	Version string `json:"version"`
}

// Enter is the ENTER login request. Username grammar (3-14 word
// characters) is enforced by the "username" validator rule registered in
// internal/pkg/validate.
type Enter struct {
	Username string `json:"username" validate:"required,username"`
}

// StatusResp is the generic {status, code} shape shared by most responses.
type StatusResp struct {
	Status string `json:"status"`
	Code   int    `json:"code,omitempty"`
}

// BroadcastReq is a BROADCAST_REQ payload.
type BroadcastReq struct {
	Message string `json:"message"`
}

// Broadcast is a BROADCAST event fanned out to every other named session.
type Broadcast struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// Presence is the JOINED/LEFT payload shape.
type Presence struct {
	Username string `json:"username"`
}

// ListResp is the LIST_RESP payload.
type ListResp struct {
	Status  string   `json:"status"`
	Code    int      `json:"code,omitempty"`
	Clients []string `json:"clients,omitempty"`
}

// PrivateMsgReq is a PRIVATE_MSG_REQ payload.
type PrivateMsgReq struct {
	Receiver string `json:"receiver"`
	Message  string `json:"message"`
}

// PrivateMsg is the PRIVATE_MSG event delivered to the receiver.
type PrivateMsg struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

// Hangup is the HANGUP payload sent on heartbeat eviction.
type Hangup struct {
	Reason int `json:"reason"`
}

// RPSStartReq is an RPS_START_REQ payload.
type RPSStartReq struct {
	Receiver string `json:"receiver"`
}

// RPSStartResp is the RPS_START_RESP payload; Player1/Player2 carry the
// conflicting pair on a 11004 error.
type RPSStartResp struct {
	Status  string `json:"status"`
	Code    int    `json:"code,omitempty"`
	Player1 string `json:"player1,omitempty"`
	Player2 string `json:"player2,omitempty"`
}

// RPSInvite notifies the invitee of an RPS_START_REQ.
type RPSInvite struct {
	Sender string `json:"sender"`
}

// RPSInviteResp is the invitee's ACCEPT/DECLINE response.
type RPSInviteResp struct {
	Status string `json:"status"`
}

// RPSMoveReq carries the player's choice, restricted to the three move
// tokens by the "oneof" validator tag.
type RPSMoveReq struct {
	Choice string `json:"choice" validate:"required,oneof=/r /p /s"`
}

// RPSMoveResp acknowledges a move.
type RPSMoveResp struct {
	Status string `json:"status"`
	Code   int    `json:"code,omitempty"`
}

// RPSResult is the resolved-game payload sent to both players.
type RPSResult struct {
	Winner  *string           `json:"winner"`
	Choices map[string]string `json:"choices"`
}

// FileTransferReq is both the client's request and the server's forward
// of that request to the receiver.
type FileTransferReq struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Filename string `json:"filename"`
	Checksum string `json:"checksum"`
}

// FileTransferResp is the ACCEPT/DECLINE/OK/ERROR response shape.
type FileTransferResp struct {
	Status string `json:"status"`
	Code   int    `json:"code,omitempty"`
}

// FileTransferReady carries the minted relay UUID and the peer's role.
type FileTransferReady struct {
	UUID     string `json:"uuid"`
	Type     string `json:"type"`
	Checksum string `json:"checksum"`
	Filename string `json:"filename"`
}
