// SPDX-License-Identifier: EPL-2.0

package ogg

import (
	"bufio"
	"io"
)

// Reader decodes consecutive pages from a stream and records the offset of
// each one.
//
// Reader buffers its input, so the position of the underlying reader is
// ahead of the last decoded page. Use the Offset of a returned page, not the
// reader's position, to locate it.
type Reader struct {
	// VerifyChecksum makes Next fail with a *ChecksumError when a page's
	// stored CRC is wrong.
	VerifyChecksum bool

	r      *bufio.Reader
	offset int64
}

// NewReader returns a Reader that starts decoding at r's current position.
// Offsets are absolute when r is an io.Seeker and relative to the first byte
// read otherwise.
func NewReader(r io.Reader) (*Reader, error) {
	var start int64
	if s, ok := r.(io.Seeker); ok {
		pos, err := s.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, ioFailure("tell", err)
		}
		start = pos
	}
	return &Reader{r: bufio.NewReaderSize(r, MaxPageSize), offset: start}, nil
}

// Offset returns the byte offset of the next page.
func (r *Reader) Offset() int64 { return r.offset }

// Next decodes the next page. It returns io.EOF once the input ends on a
// page boundary.
func (r *Reader) Next() (*Page, error) {
	p, crc, err := decode(r.r, r.offset)
	if err != nil {
		return nil, err
	}
	// The page's bytes are consumed even when its checksum is rejected.
	r.offset += int64(p.Size())
	if r.VerifyChecksum && crc != p.Checksum {
		return nil, &ChecksumError{Offset: p.Offset, Found: p.Checksum, Expected: crc}
	}
	return p, nil
}

// Pages decodes every remaining page.
func (r *Reader) Pages() ([]*Page, error) {
	var pages []*Page
	for {
		p, err := r.Next()
		if err == io.EOF {
			return pages, nil
		}
		if err != nil {
			return pages, err
		}
		pages = append(pages, p)
	}
}

// Stream decodes the remaining pages that belong to the logical stream serial.
func (r *Reader) Stream(serial uint32) ([]*Page, error) {
	var pages []*Page
	for {
		p, err := r.Next()
		if err == io.EOF {
			return pages, nil
		}
		if err != nil {
			return pages, err
		}
		if p.Serial == serial {
			pages = append(pages, p)
		}
	}
}
