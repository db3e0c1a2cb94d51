package wire

import (
	"bufio"
	"encoding/json"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// ErrMalformedFrame is returned by Split when a line has no command/payload
// separator or is blank.
var ErrMalformedFrame = errors.New("malformed frame")

// Frame is one decoded `COMMAND JSON` line.
type Frame struct {
	Command string
	Payload []byte
}

// Split parses a single newline-stripped line into a command token and its
// raw JSON payload. A missing separator or empty line is ErrMalformedFrame;
// the caller maps that to UNKNOWN_COMMAND.
func Split(line string) (Frame, error) {
	if strings.TrimSpace(line) == "" {
		return Frame{}, ErrMalformedFrame
	}
	idx := strings.IndexByte(line, ' ')
	if idx < 0 {
		return Frame{}, ErrMalformedFrame
	}
	command := line[:idx]
	payload := line[idx+1:]
	if command == "" {
		return Frame{}, ErrMalformedFrame
	}
	return Frame{Command: command, Payload: []byte(payload)}, nil
}

// Decode unmarshals a frame's JSON payload into dst. A JSON error here maps
// to PARSE_ERROR at the call site.
func Decode(payload []byte, dst interface{}) error {
	if err := json.Unmarshal(payload, dst); err != nil {
		return errors.Wrap(err, "decode payload failed")
	}
	return nil
}

// Format combines a command token and a message value into one wire line,
// without the trailing newline (the Writer appends it).
func Format(command string, message interface{}) (string, error) {
	var body []byte
	var err error
	if message == nil {
		body = []byte("{}")
	} else {
		body, err = json.Marshal(message)
		if err != nil {
			return "", errors.Wrap(err, "marshal payload failed")
		}
	}
	return command + " " + string(body), nil
}

// Writer serializes outbound frames to a single underlying connection so
// that no two goroutines interleave partial writes; it is the session's
// sole writer, satisfying the "frame integrity" requirement.
type Writer struct {
	mu sync.Mutex
	w  *bufio.Writer
}

// NewWriter wraps w for serialized frame writes.
func NewWriter(w *bufio.Writer) *Writer {
	return &Writer{w: w}
}

// WriteFrame formats and writes one frame, flushing immediately so peers
// observe it promptly.
func (w *Writer) WriteFrame(command string, message interface{}) error {
	line, err := Format(command, message)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.w.WriteString(line); err != nil {
		return errors.Wrap(err, "write frame failed")
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return errors.Wrap(err, "write newline failed")
	}
	return errors.Wrap(w.w.Flush(), "flush frame failed")
}
