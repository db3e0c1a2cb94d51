package client

import "github.com/pkg/errors"

// ErrUnexpectedResponse indicates the server's reply did not match the
// command the client had just sent.
var ErrUnexpectedResponse = errors.New("unexpected response from server")

// ErrNoResponse indicates the control connection was closed before a
// reply arrived.
var ErrNoResponse = errors.New("no response from server")

// ErrNoStoredPath indicates a FILE_TRANSFER_READY named a filename this
// client never registered a local path for (sender role).
var ErrNoStoredPath = errors.New("no stored path for filename")

// ErrFileRequestNotFound indicates /a or /d named a sender/filename pair
// with no matching incoming request.
var ErrFileRequestNotFound = errors.New("no file request found")

// loginErrorMessage mirrors Client.java's handleLoginError switch.
func loginErrorMessage(code int) string {
	switch code {
	case 5000:
		return "user with this name already exists"
	case 5001:
		return "a username may only consist of 3-14 characters, numbers, and underscores"
	case 5002:
		return "user is already logged in"
	default:
		return "unknown login error occurred"
	}
}

// broadcastErrorMessage mirrors Client.java's BroadcastingError switch.
func broadcastErrorMessage(code int) string {
	if code == 6000 {
		return "you must log in before sending a broadcast message"
	}
	return "unknown broadcast error occurred"
}

// listErrorMessage mirrors Client.java's handleListOfConnectedClients error branch.
func listErrorMessage(code int) string {
	if code == 9000 {
		return "cannot retrieve list: you are not logged in"
	}
	return "unknown error retrieving list"
}

// privateMessageErrorMessage mirrors Client.java's privateMessageErrors switch.
func privateMessageErrorMessage(code int) string {
	switch code {
	case 10001:
		return "please log in to send a private message"
	case 10002:
		return "no receiver found"
	case 10003:
		return "can't send to self"
	default:
		return "unknown private message error occurred"
	}
}

// rpsStartErrorMessage mirrors Client.java's handleRpsStartResponse switch.
func rpsStartErrorMessage(code int, player1, player2 string) string {
	switch code {
	case 11001:
		return "you need to log in first"
	case 11002:
		return "no opponent found"
	case 11003:
		return "can't send game request to self"
	case 11004:
		return "a game is ongoing between " + player1 + " and " + player2
	default:
		return "unknown rps error occurred"
	}
}

// moveErrorMessage mirrors Client.java's handleMoveResponse switch.
func moveErrorMessage(code int) string {
	switch code {
	case 11005:
		return "no ongoing game"
	case 11006:
		return "invalid move, expected /r, /p or /s"
	default:
		return "unknown move response from server"
	}
}

// fileRequestErrorMessage mirrors Client.java's handleFileRequestResponse switch.
func fileRequestErrorMessage(code int) string {
	switch code {
	case 13000:
		return "please log in first"
	case 13001:
		return "no receiver found"
	case 13002:
		return "can't send the file to yourself"
	default:
		return "unknown file transfer error occurred"
	}
}
