// SPDX-License-Identifier: EPL-2.0

package ogg

import (
	"bytes"
	"fmt"
	"io"
)

// LookbackWindow is how far from the end of a file FindLastPage looks for
// the final page before falling back to a full scan. It is larger than
// MaxPageSize, so the final page of a well-formed file always starts inside
// it.
const LookbackWindow = 64 * 1024

// FindLastPage returns the last page of the logical stream serial in rs.
//
// The final page of the file is checked first, which answers in constant
// time for files carrying a single logical stream. If that page belongs to
// another stream, the whole file is scanned from the start.
func FindLastPage(rs io.ReadSeeker, serial uint32) (*Page, error) {
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, ioFailure("seek end", err)
	}
	if size == 0 {
		return nil, fmt.Errorf("%w %#x", ErrNotFound, serial)
	}

	start := max(size-LookbackWindow, 0)
	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return nil, ioFailure("seek window", err)
	}
	window := make([]byte, size-start)
	if _, err := io.ReadFull(rs, window); err != nil {
		return nil, ioFailure("read window", err)
	}

	if !bytes.Contains(window, capturePattern[:]) {
		return nil, &ParseError{Offset: start, Err: ErrBadMagic}
	}

	// "OggS" may also occur inside packet data, so a candidate only counts
	// when it decodes cleanly and its checksum holds.
	for end := len(window); ; {
		i := bytes.LastIndex(window[:end], capturePattern[:])
		if i < 0 {
			break
		}
		p, crc, err := decode(bytes.NewReader(window[i:]), start+int64(i))
		if err == nil && crc == p.Checksum {
			if p.Serial == serial {
				return p, nil
			}
			break
		}
		end = i
	}

	return scanLastPage(rs, serial)
}

func scanLastPage(rs io.ReadSeeker, serial uint32) (*Page, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, ioFailure("seek start", err)
	}
	r, err := NewReader(rs)
	if err != nil {
		return nil, err
	}

	var last *Page
	for {
		p, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if p.Serial != serial {
			continue
		}
		last = p
		if p.Last {
			break
		}
	}

	if last == nil {
		return nil, fmt.Errorf("%w %#x", ErrNotFound, serial)
	}
	return last, nil
}
