// SPDX-License-Identifier: EPL-2.0

package ogg

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrBadMagic means the bytes at a page offset are not the "OggS" capture pattern.
	ErrBadMagic = errors.New("ogg: bad capture pattern")
	// ErrUnsupportedVersion means the stream structure version is not 0.
	ErrUnsupportedVersion = errors.New("ogg: unsupported stream structure version")
	// ErrTruncatedStream means the input ended inside a page.
	ErrTruncatedStream = errors.New("ogg: truncated stream")
	// ErrBadSerial means a page run mixes logical streams.
	ErrBadSerial = errors.New("ogg: serial number mismatch")
	// ErrBadSequence means a page run has a gap or a duplicate sequence number.
	ErrBadSequence = errors.New("ogg: page sequence mismatch")
	// ErrNotFound means the file holds no page of the requested logical stream.
	ErrNotFound = errors.New("ogg: no page for serial")
	// ErrIO wraps failures of the underlying storage.
	ErrIO = errors.New("ogg: i/o failure")

	ErrContinuedStart = errors.New("ogg: first packet is continued")
	ErrIncompleteEnd  = errors.New("ogg: last packet does not complete")
	ErrPageTooLarge   = errors.New("ogg: lacing table exceeds 255 segments")
	ErrBadLacing      = errors.New("ogg: incomplete page must end on a 255-byte segment")
	ErrEmptyRun       = errors.New("ogg: empty page run")
	ErrNoOffset       = errors.New("ogg: page was not read from a file")
)

// ParseError reports a structural violation together with the byte offset
// of the page it was found in.
type ParseError struct {
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	if e.Offset == NoOffset {
		return e.Err.Error()
	}
	return e.Err.Error() + " at offset 0x" + strconv.FormatInt(e.Offset, 16)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ChecksumError is returned when a page's stored CRC does not match the
// CRC computed over its bytes.
type ChecksumError struct {
	Offset   int64
	Found    uint32
	Expected uint32
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("ogg: invalid crc at offset 0x%x: got %08x, expected %08x",
		e.Offset, e.Found, e.Expected)
}

func ioFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}
