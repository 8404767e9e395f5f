// SPDX-License-Identifier: EPL-2.0

package ogg

import (
	"cmp"
	"fmt"
	"io"
	"slices"
)

// File is the storage Replace and Renumber modify in place. *os.File
// satisfies it.
type File interface {
	io.ReadSeeker
	io.ReaderAt
	io.WriterAt
	Truncate(size int64) error
}

// SpliceStage names a step of Replace.
type SpliceStage int

const (
	// StagePrepare validates and encodes the new pages. The file is not
	// touched.
	StagePrepare SpliceStage = iota
	// StageInsert opens a gap for the new pages at the first old page.
	StageInsert
	// StageWrite fills the gap with the new pages.
	StageWrite
	// StageRemove cuts the old pages out of the file.
	StageRemove
	// StageRenumber fixes the sequence numbers of the pages that follow.
	StageRenumber
)

func (s SpliceStage) String() string {
	switch s {
	case StagePrepare:
		return "prepare"
	case StageInsert:
		return "insert"
	case StageWrite:
		return "write"
	case StageRemove:
		return "remove"
	case StageRenumber:
		return "renumber"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// SpliceError reports the stage Replace failed in.
type SpliceError struct {
	Stage SpliceStage
	Err   error
}

func (e *SpliceError) Error() string {
	return "ogg: splice failed in " + e.Stage.String() + " stage: " + e.Err.Error()
}

func (e *SpliceError) Unwrap() error { return e.Err }

// Modified reports whether the file may have been changed before the
// failure.
func (e *SpliceError) Modified() bool { return e.Stage > StagePrepare }

// copyBufSize is the block size used when shifting file contents.
const copyBufSize = 64 * 1024

// Replace substitutes the pages oldPages, which must have been read from f,
// with newPages.
//
// The new pages take over the serial and sequence numbers of the old run
// and its stream flags: the first new page gets First and Continued from
// the first old page, the last new page gets Last and Complete from the last
// old page. The new pages are modified accordingly and receive their final
// offsets. When the page count changes, later pages of the same stream are
// renumbered.
//
// Replace is not atomic. It writes the file in several steps and a failure
// after StagePrepare, reported as a *SpliceError, can leave the file
// partially modified. Callers that need atomicity should splice a copy and
// rename it over the original. Callers must also keep other writers away
// from f until Replace returns.
func Replace(f File, oldPages, newPages []*Page) error {
	s := &splice{f: f, old: oldPages, new: newPages}

	stages := []struct {
		stage SpliceStage
		run   func() error
	}{
		{StagePrepare, s.prepare},
		{StageInsert, s.insert},
		{StageWrite, s.write},
		{StageRemove, s.remove},
		{StageRenumber, s.renumber},
	}
	for _, st := range stages {
		if err := st.run(); err != nil {
			return &SpliceError{Stage: st.stage, Err: err}
		}
	}
	return nil
}

type splice struct {
	f        File
	old, new []*Page

	start int64
	data  []byte
}

func (s *splice) prepare() error {
	if len(s.old) == 0 || len(s.new) == 0 {
		return ErrEmptyRun
	}
	for _, p := range s.old {
		if p.Offset < 0 {
			return ErrNoOffset
		}
	}

	first, last := s.old[0], s.old[len(s.old)-1]
	s.start = first.Offset

	for i, p := range s.new {
		p.Serial = first.Serial
		p.Sequence = first.Sequence + uint32(i)
		p.First = false
		p.Last = false
	}
	head, tail := s.new[0], s.new[len(s.new)-1]
	head.First = first.First
	head.Continued = first.Continued
	tail.Last = last.Last
	tail.Complete = last.Complete

	offset := s.start
	for _, p := range s.new {
		b, err := p.Encode()
		if err != nil {
			return fmt.Errorf("page %d: %w", p.Sequence, err)
		}
		p.Offset = offset
		offset += int64(len(b))
		s.data = append(s.data, b...)
	}
	return nil
}

func (s *splice) insert() error {
	return insertBytes(s.f, int64(len(s.data)), s.start)
}

func (s *splice) write() error {
	if _, err := s.f.WriteAt(s.data, s.start); err != nil {
		return ioFailure("write pages", err)
	}
	return nil
}

// remove deletes the old pages back to front, so pages of other streams
// lying between them stay in the file.
func (s *splice) remove() error {
	old := slices.Clone(s.old)
	slices.SortFunc(old, func(a, b *Page) int { return cmp.Compare(b.Offset, a.Offset) })

	delta := int64(len(s.data))
	for _, p := range old {
		if err := deleteBytes(s.f, int64(p.Size()), p.Offset+delta); err != nil {
			return err
		}
	}
	return nil
}

func (s *splice) renumber() error {
	if len(s.old) == len(s.new) {
		return nil
	}
	tail := s.new[len(s.new)-1]
	if _, err := s.f.Seek(s.start+int64(len(s.data)), io.SeekStart); err != nil {
		return ioFailure("seek", err)
	}
	return Renumber(s.f, tail.Serial, tail.Sequence+1)
}

// Renumber rewrites the sequence numbers of the pages of stream serial
// found from f's current position to the end, counting up from start.
// Pages of other streams are skipped. Only the sequence number and the
// checksum of a page change, so the file keeps its size.
func Renumber(f File, serial uint32, start uint32) error {
	r, err := NewReader(f)
	if err != nil {
		return err
	}

	seq := start
	for {
		p, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if p.Serial != serial {
			continue
		}
		if p.Sequence != seq {
			p.Sequence = seq
			b, err := p.Encode()
			if err != nil {
				return &ParseError{Offset: p.Offset, Err: err}
			}
			if _, err := f.WriteAt(b, p.Offset); err != nil {
				return ioFailure("write page", err)
			}
		}
		seq++
	}
}

func fileSize(f io.Seeker) (int64, error) {
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, ioFailure("seek end", err)
	}
	return size, nil
}

// insertBytes grows f by size bytes and moves everything from offset on
// towards the end, leaving a gap of size bytes at offset.
func insertBytes(f File, size, offset int64) error {
	if size == 0 {
		return nil
	}
	end, err := fileSize(f)
	if err != nil {
		return err
	}
	if offset > end {
		return ioFailure("insert", fmt.Errorf("offset %d beyond end %d", offset, end))
	}
	if err := f.Truncate(end + size); err != nil {
		return ioFailure("grow", err)
	}

	buf := make([]byte, copyBufSize)
	for pos := end; pos > offset; {
		n := min(int64(len(buf)), pos-offset)
		pos -= n
		if _, err := f.ReadAt(buf[:n], pos); err != nil {
			return ioFailure("read", err)
		}
		if _, err := f.WriteAt(buf[:n], pos+size); err != nil {
			return ioFailure("write", err)
		}
	}
	return nil
}

// deleteBytes removes size bytes at offset from f, moving what follows
// towards the start and shrinking the file.
func deleteBytes(f File, size, offset int64) error {
	if size == 0 {
		return nil
	}
	end, err := fileSize(f)
	if err != nil {
		return err
	}
	if offset+size > end {
		return ioFailure("delete", fmt.Errorf("range %d+%d beyond end %d", offset, size, end))
	}

	buf := make([]byte, copyBufSize)
	for pos := offset + size; pos < end; {
		n := min(int64(len(buf)), end-pos)
		if _, err := f.ReadAt(buf[:n], pos); err != nil {
			return ioFailure("read", err)
		}
		if _, err := f.WriteAt(buf[:n], pos-size); err != nil {
			return ioFailure("write", err)
		}
		pos += n
	}
	if err := f.Truncate(end - size); err != nil {
		return ioFailure("shrink", err)
	}
	return nil
}
