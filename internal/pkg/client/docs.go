// Package client implements the client side of the chat/RPS/file-transfer
// protocol.
//
// The client performs the following steps:
//  1. Connect to the server's control port and read the READY greeting.
//  2. Send ENTER with a candidate username, retrying on error until login
//     succeeds.
//  3. Enter chat mode: a listener goroutine dispatches every inbound
//     frame while the caller feeds it lines of CLI input (broadcast text,
//     slash commands, @user private messages).
//  4. File transfers are requested and accepted over the control channel,
//     then carried out on a second connection to the auxiliary relay port.
//
// An instance of Client tracks the username it logged in as, the map of
// locally known file paths keyed by filename (populated by /send), and the
// list of incoming file requests awaiting /a or /d.
package client
