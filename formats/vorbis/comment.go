// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/oggsplice"
	"github.com/ik5/oggsplice/ogg"
)

// EncodeComment serializes a Vorbis comment header packet. Comments are
// usually of the form "FIELD=value".
func EncodeComment(vendor string, comments []string) []byte {
	n := len(commentPrefix) + 4 + len(vendor) + 4 + 1
	for _, c := range comments {
		n += 4 + len(c)
	}

	b := make([]byte, 0, n)
	b = append(b, commentPrefix...)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(vendor)))
	b = append(b, vendor...)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(comments)))
	for _, c := range comments {
		b = binary.LittleEndian.AppendUint32(b, uint32(len(c)))
		b = append(b, c...)
	}
	// framing bit
	return append(b, 1)
}

// ReplaceComment replaces the first Vorbis comment header in f with packet,
// in place, in whichever logical stream carries it. See ogg.Replace for what a failure halfway
// leaves behind.
func ReplaceComment(f ogg.File, packet []byte) error {
	if !bytes.HasPrefix(packet, commentPrefix) {
		return ErrNotCommentPacket
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seek: %w", ogg.ErrIO, err)
	}
	r, err := ogg.NewReader(f)
	if err != nil {
		return err
	}
	old, err := commentRun(r)
	if err != nil {
		return err
	}
	newPages, err := rebuild(old, packet)
	if err != nil {
		return err
	}
	return ogg.Replace(f, old, newPages)
}

// WriteCommentFile replaces the first Vorbis comment header in the file at
// path with packet. The file is either fully updated or left as it was.
func WriteCommentFile(path string, packet []byte) error {
	if !bytes.HasPrefix(packet, commentPrefix) {
		return ErrNotCommentPacket
	}

	ps, err := oggsplice.OpenPageStream(path)
	if err != nil {
		return err
	}
	old, err := commentRun(ps.Reader)
	ps.Close()
	if err != nil {
		return err
	}

	newPages, err := rebuild(old, packet)
	if err != nil {
		return err
	}
	return oggsplice.SpliceRunAtomic(path, old, newPages)
}

// commentRun returns the pages carrying the comment header: the page it
// starts on and every following page of the same stream up to the one the
// header ends on.
func commentRun(r *ogg.Reader) ([]*ogg.Page, error) {
	var run []*ogg.Page
	for {
		p, err := r.Next()
		if err == io.EOF {
			return nil, ErrNoCommentHeader
		}
		if err != nil {
			return nil, err
		}

		if run == nil {
			if p.Continued || len(p.Packets) == 0 || !bytes.HasPrefix(p.Packets[0], commentPrefix) {
				continue
			}
		} else if p.Serial != run[0].Serial {
			continue
		}

		run = append(run, p)
		if p.Complete || len(p.Packets) > 1 {
			return run, nil
		}
	}
}

// rebuild lays out the packets of old again with the comment header
// swapped for packet. Anything else the run carries, including the start
// of a packet continued after it, keeps its bytes.
func rebuild(old []*ogg.Page, packet []byte) ([]*ogg.Page, error) {
	packets, err := ogg.PagesToPackets(old, false)
	if err != nil {
		return nil, err
	}
	packets[0] = packet

	newPages := ogg.PacketsToPages(packets, old[0].Sequence)
	newPages[len(newPages)-1].Position = old[len(old)-1].Position
	return newPages, nil
}
