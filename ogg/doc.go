// SPDX-License-Identifier: EPL-2.0

// Package ogg reads, writes and edits pages of the Ogg container format.
//
// An Ogg file is a sequence of pages. Each page belongs to one logical
// stream, identified by its serial number, and carries fragments of that
// stream's packets. A packet larger than what fits on one page continues on
// the next page of the same stream.
//
// # Page Layout
//
// Every page starts with a 27 byte header, followed by a lacing table of up
// to 255 segment sizes and the packet data:
//
//	offset  size  field
//	0       4     capture pattern "OggS"
//	4       1     stream structure version, always 0
//	5       1     flags: 0x01 continued, 0x02 first, 0x04 last
//	6       8     granule position
//	14      4     serial number
//	18      4     page sequence number
//	22      4     CRC-32 of the page with this field zeroed
//	26      1     number of lacing values
//
// All integers are little endian.
//
// # Reading
//
// Decode reads a single page; a Reader walks a whole file and keeps track of
// page offsets:
//
//	r, _ := ogg.NewReader(f)
//	pages, err := r.Stream(serial)
//	packets, err := ogg.PagesToPackets(pages, false)
//
// FindLastPage finds the final page of a stream without reading the whole
// file when it can.
//
// # Editing
//
// PacketsToPages lays packets out over new pages, and Replace swaps a run of
// pages in a file for them, renumbering what follows:
//
//	old := pages[0:2]
//	packets, _ := ogg.PagesToPackets(old, true)
//	packets[1] = newComment
//	err := ogg.Replace(f, old, ogg.PacketsToPages(packets, old[0].Sequence))
//
// Replace works in place and is not atomic. See the oggsplice package for a
// crash-safe variant.
package ogg
