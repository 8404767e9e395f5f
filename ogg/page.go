// SPDX-License-Identifier: EPL-2.0

package ogg

import (
	"encoding/binary"
	"errors"
	"io"
)

const (
	// HeaderSize is the fixed part of a page header, up to and including
	// the segment count byte.
	HeaderSize = 27
	// MaxSegments is the largest lacing table a page can carry.
	MaxSegments = 255
	// MaxSegmentSize is the largest value of one lacing byte.
	MaxSegmentSize = 255
	// MaxPayloadSize is the most packet data one page can carry.
	MaxPayloadSize = MaxSegments * MaxSegmentSize
	// MaxPageSize is the largest encoded page.
	MaxPageSize = HeaderSize + MaxSegments + MaxPayloadSize

	// NoOffset marks a page that was built in memory.
	NoOffset int64 = -1
)

const (
	flagContinued = 1 << iota
	flagFirst
	flagLast
)

const crcOffset = 22

var (
	capturePattern = [4]byte{'O', 'g', 'g', 'S'}
	byteOrder      = binary.LittleEndian
)

// Page is a single Ogg page: the header fields plus the packet fragments
// it carries.
type Page struct {
	// Version is the stream structure version. Only 0 is defined.
	Version byte
	// Position is the absolute granule position; -1 means no packet
	// finishes on this page.
	Position int64
	// Serial identifies the logical stream the page belongs to.
	Serial uint32
	// Sequence is the page number within its logical stream.
	Sequence uint32
	// Offset is where the page header starts in its source file, or
	// NoOffset.
	Offset int64
	// Checksum is the CRC read from the file. Encode ignores it.
	Checksum uint32

	// Continued is set when the first fragment continues the last packet
	// of the previous page.
	Continued bool
	// First marks the beginning of a logical stream.
	First bool
	// Last marks the end of a logical stream.
	Last bool
	// Complete is false when the last fragment is continued on the next page.
	Complete bool

	// Packets holds one entry per packet fragment on the page.
	Packets [][]byte
}

// NewPage returns an empty page ready to be filled and encoded.
func NewPage() *Page {
	return &Page{Position: -1, Offset: NoOffset, Complete: true}
}

func (p *Page) flags() byte {
	var f byte
	if p.Continued {
		f |= flagContinued
	}
	if p.First {
		f |= flagFirst
	}
	if p.Last {
		f |= flagLast
	}
	return f
}

func (p *Page) setFlags(f byte) {
	p.Continued = f&flagContinued != 0
	p.First = f&flagFirst != 0
	p.Last = f&flagLast != 0
}

// segments returns the number of lacing bytes the page encodes to.
func (p *Page) segments() int {
	n := 0
	for _, pkt := range p.Packets {
		n += len(pkt)/MaxSegmentSize + 1
	}
	if p.dropsTerminator() {
		n--
	}
	return n
}

// dropsTerminator reports whether the zero lacing byte that would close the
// last fragment is left out, so the fragment carries on to the next page.
func (p *Page) dropsTerminator() bool {
	if p.Complete || len(p.Packets) == 0 {
		return false
	}
	return len(p.Packets[len(p.Packets)-1])%MaxSegmentSize == 0
}

// DataSize returns the total length of the page's packet fragments.
func (p *Page) DataSize() int {
	n := 0
	for _, pkt := range p.Packets {
		n += len(pkt)
	}
	return n
}

// Size returns the number of bytes Encode produces for the page.
func (p *Page) Size() int {
	return HeaderSize + p.segments() + p.DataSize()
}

func (p *Page) lacing() ([]byte, error) {
	if !p.Complete {
		if len(p.Packets) == 0 {
			return nil, ErrBadLacing
		}
		last := len(p.Packets[len(p.Packets)-1])
		if last == 0 || last%MaxSegmentSize != 0 {
			return nil, ErrBadLacing
		}
	}

	n := p.segments()
	if n > MaxSegments {
		return nil, ErrPageTooLarge
	}

	table := make([]byte, 0, n)
	for _, pkt := range p.Packets {
		for range len(pkt) / MaxSegmentSize {
			table = append(table, MaxSegmentSize)
		}
		table = append(table, byte(len(pkt)%MaxSegmentSize))
	}
	return table[:n], nil
}

// Encode serializes the page with a freshly computed checksum.
func (p *Page) Encode() ([]byte, error) {
	table, err := p.lacing()
	if err != nil {
		return nil, err
	}

	buf := make([]byte, HeaderSize, HeaderSize+len(table)+p.DataSize())
	copy(buf[0:4], capturePattern[:])
	buf[4] = p.Version
	buf[5] = p.flags()
	byteOrder.PutUint64(buf[6:14], uint64(p.Position))
	byteOrder.PutUint32(buf[14:18], p.Serial)
	byteOrder.PutUint32(buf[18:22], p.Sequence)
	buf[26] = byte(len(table))
	buf = append(buf, table...)
	for _, pkt := range p.Packets {
		buf = append(buf, pkt...)
	}

	byteOrder.PutUint32(buf[crcOffset:crcOffset+4], Checksum(buf))
	return buf, nil
}

// Decode reads one page from r. If r is an io.Seeker the page's Offset is
// set from its current position.
//
// io.EOF is returned when r is exhausted exactly at a page boundary; a page
// cut short anywhere else fails with ErrTruncatedStream.
func Decode(r io.Reader) (*Page, error) {
	off := NoOffset
	if s, ok := r.(io.Seeker); ok {
		pos, err := s.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, ioFailure("tell", err)
		}
		off = pos
	}
	p, _, err := decode(r, off)
	return p, err
}

// decode reads a page starting at off and returns it with the CRC computed
// over its bytes.
func decode(r io.Reader, off int64) (*Page, uint32, error) {
	var hdr [HeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.EOF {
			return nil, 0, io.EOF
		}
		return nil, 0, readFailure(off, err)
	}

	if [4]byte(hdr[0:4]) != capturePattern {
		return nil, 0, &ParseError{Offset: off, Err: ErrBadMagic}
	}
	if hdr[4] != 0 {
		return nil, 0, &ParseError{Offset: off, Err: ErrUnsupportedVersion}
	}

	p := &Page{
		Version:  hdr[4],
		Position: int64(byteOrder.Uint64(hdr[6:14])),
		Serial:   byteOrder.Uint32(hdr[14:18]),
		Sequence: byteOrder.Uint32(hdr[18:22]),
		Checksum: byteOrder.Uint32(hdr[22:26]),
		Offset:   off,
		Complete: true,
	}
	p.setFlags(hdr[5])

	table := make([]byte, hdr[26])
	if _, err := io.ReadFull(r, table); err != nil {
		return nil, 0, readFailure(off, err)
	}

	// A run of 255s closes with the first byte below 255; a run still open
	// when the table ends is carried on to the next page.
	var lens []int
	total, run := 0, 0
	for _, l := range table {
		run += int(l)
		total += int(l)
		if l < MaxSegmentSize {
			lens = append(lens, run)
			run = 0
		}
	}
	if run > 0 {
		lens = append(lens, run)
		p.Complete = false
	}

	data := make([]byte, total)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, 0, readFailure(off, err)
	}

	p.Packets = make([][]byte, len(lens))
	s := 0
	for i, l := range lens {
		p.Packets[i] = data[s : s+l : s+l]
		s += l
	}

	hdr[22], hdr[23], hdr[24], hdr[25] = 0, 0, 0, 0
	crc := crcUpdate(crcUpdate(crcUpdate(0, hdr[:]), table), data)
	return p, crc, nil
}

func readFailure(off int64, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &ParseError{Offset: off, Err: ErrTruncatedStream}
	}
	return ioFailure("read page", err)
}
