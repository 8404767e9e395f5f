// SPDX-License-Identifier: EPL-2.0

package ogg

import "fmt"

const (
	// TargetPageSize is the page size PacketsToPages aims for.
	TargetPageSize = 4096
	// ChunkSize is how much packet data PacketsToPages adds to a page at a
	// time. It is a multiple of MaxSegmentSize, so a packet cut between two
	// pages always leaves the first page ending on a full segment.
	ChunkSize = 8 * MaxSegmentSize
)

// chunkSegments is the most lacing bytes adding one chunk can cost.
const chunkSegments = ChunkSize/MaxSegmentSize + 1

// PagesToPackets joins the fragments of a run of pages into packets.
//
// The pages must belong to one logical stream and be numbered
// consecutively. With strict set, the run must also start and end on a
// packet boundary. A run that starts with a continued page and is not
// strict yields the tail of the continued packet as its first packet.
func PagesToPackets(pages []*Page, strict bool) ([][]byte, error) {
	if len(pages) == 0 {
		return nil, nil
	}

	if strict {
		if pages[0].Continued {
			return nil, &ParseError{Offset: pages[0].Offset, Err: ErrContinuedStart}
		}
		if !pages[len(pages)-1].Complete {
			return nil, &ParseError{Offset: pages[len(pages)-1].Offset, Err: ErrIncompleteEnd}
		}
	}

	serial := pages[0].Serial
	sequence := pages[0].Sequence

	var packets [][]byte
	for i, p := range pages {
		if p.Serial != serial {
			return nil, fmt.Errorf("%w: page %d has serial %#x, want %#x",
				ErrBadSerial, i, p.Serial, serial)
		}
		if p.Sequence != sequence {
			return nil, fmt.Errorf("%w: page %d has sequence %d, want %d",
				ErrBadSequence, i, p.Sequence, sequence)
		}
		sequence++

		for j, frag := range p.Packets {
			if j == 0 && p.Continued && len(packets) > 0 {
				last := len(packets) - 1
				packets[last] = append(packets[last], frag...)
				continue
			}
			packets = append(packets, append([]byte{}, frag...))
		}
	}

	return packets, nil
}

// PacketsToPages lays packets out over as few pages of roughly
// TargetPageSize bytes as it can, numbering them from sequence.
//
// Only the packet data, the sequence numbers and the Continued and Complete
// flags are filled in; serial, granule position and stream flags are left
// for the caller.
func PacketsToPages(packets [][]byte, sequence uint32) []*Page {
	var pages []*Page

	page := NewPage()
	page.Sequence = sequence
	segs := 0

	full := func() bool {
		return HeaderSize+segs+page.DataSize() >= TargetPageSize ||
			segs+chunkSegments > MaxSegments
	}
	flush := func(complete bool) {
		page.Complete = complete
		pages = append(pages, page)
		next := NewPage()
		next.Sequence = page.Sequence + 1
		next.Continued = !complete
		page = next
		segs = 0
	}

	for _, pkt := range packets {
		started := false
		for {
			n := min(len(pkt), ChunkSize)
			chunk := pkt[:n]
			pkt = pkt[n:]

			if full() {
				flush(!started)
				started = false
			}

			if started {
				last := len(page.Packets) - 1
				segs -= len(page.Packets[last])/MaxSegmentSize + 1
				page.Packets[last] = append(page.Packets[last], chunk...)
				segs += len(page.Packets[last])/MaxSegmentSize + 1
			} else {
				page.Packets = append(page.Packets, append([]byte{}, chunk...))
				segs += n/MaxSegmentSize + 1
				started = true
			}

			if len(pkt) == 0 {
				break
			}
		}
	}

	if len(page.Packets) > 0 {
		pages = append(pages, page)
	}
	return pages
}
