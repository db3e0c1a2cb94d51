package relay

import (
	"io"

	"github.com/pkg/errors"
)

// UUIDLength is the fixed length of the ASCII UUID prefix on every
// auxiliary-port header (spec.md §6 Auxiliary wire format).
const UUIDLength = 36

// RoleSender and RoleReceiver are the two valid role bytes.
const (
	RoleSender   = 's'
	RoleReceiver = 'r'
)

// Header is the parsed 37-byte auxiliary-port preamble.
type Header struct {
	UUID string
	Role byte
}

// ReadHeader reads and parses the fixed-length header from r.
func ReadHeader(r io.Reader) (Header, error) {
	buf := make([]byte, UUIDLength+1)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Header{}, errors.Wrap(err, "read relay header failed")
	}
	return Header{UUID: string(buf[:UUIDLength]), Role: buf[UUIDLength]}, nil
}
