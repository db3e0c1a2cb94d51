// Package checksum computes and verifies SHA-256 file digests for the
// file-transfer integrity check (§4.6, §7 Integrity errors).
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/pkg/errors"
)

// ErrMismatch is returned by Verify when the computed digest does not
// match the expected one.
var ErrMismatch = errors.New("checksum mismatch")

// File computes the hex-encoded SHA-256 digest of the file at path.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "open file failed")
	}
	defer f.Close()
	return Reader(f)
}

// Reader computes the hex-encoded SHA-256 digest of everything read from r.
func Reader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", errors.Wrap(err, "hash reader failed")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify compares a freshly computed digest of path against expected,
// returning ErrMismatch when they differ.
func Verify(path, expected string) error {
	actual, err := File(path)
	if err != nil {
		return err
	}
	if actual != expected {
		return errors.Wrapf(ErrMismatch, "expected %s, got %s", expected, actual)
	}
	return nil
}
