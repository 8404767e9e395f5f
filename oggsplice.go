// SPDX-License-Identifier: EPL-2.0

package oggsplice

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ik5/oggsplice/ogg"
)

var splices = newPathLocks()

// PageStream decodes the pages of an open Ogg file in order.
type PageStream struct {
	*ogg.Reader

	f *os.File
}

// Close releases the underlying file.
func (s *PageStream) Close() error {
	return s.f.Close()
}

// OpenPageStream opens the file at path for sequential page decoding.
//
// The returned stream yields pages through Next, Pages and Stream of the
// embedded *ogg.Reader, with Offset set to each page's position in the
// file. Callers must Close it.
//
// Example:
//
//	ps, err := oggsplice.OpenPageStream("song.ogg")
//	if err != nil {
//	    return err
//	}
//	defer ps.Close()
//
//	for {
//	    p, err := ps.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    ...
//	}
func OpenPageStream(path string) (*PageStream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", ogg.ErrIO, err)
	}

	r, err := ogg.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &PageStream{Reader: r, f: f}, nil
}

// LocateLastPage returns the final page of the logical stream serial in the
// file at path.
//
// Its granule position is the stream's total length in codec units, which
// formats use when the length is not stored in a header. ogg.ErrNotFound is
// returned when no page of serial exists.
func LocateLastPage(path string, serial uint32) (*ogg.Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", ogg.ErrIO, err)
	}
	defer f.Close()

	return ogg.FindLastPage(f, serial)
}

// RenumberFile rewrites the sequence numbers of the pages of stream serial
// in the file at path, counting up from start. It shares SpliceRun's lock.
func RenumberFile(path string, serial, start uint32) error {
	unlock := splices.Lock(path)
	defer unlock()

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("%w: open: %w", ogg.ErrIO, err)
	}

	if err := ogg.Renumber(f, serial, start); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", ogg.ErrIO, err)
	}
	return nil
}

// SpliceRun replaces oldPages, previously read from the file at path, with
// newPages, in place.
//
// Parameters:
//   - path: file the old pages were read from
//   - oldPages: a run of pages of one logical stream, with offsets
//   - newPages: replacement pages, usually built with ogg.PacketsToPages
//
// See ogg.Replace for how numbering and flags carry over. Concurrent splices
// of the same path through this package wait for each other. A failure after
// the file was first written leaves it partially modified; use
// SpliceRunAtomic when that is not acceptable.
func SpliceRun(path string, oldPages, newPages []*ogg.Page) error {
	unlock := splices.Lock(path)
	defer unlock()

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("%w: open: %w", ogg.ErrIO, err)
	}

	if err := ogg.Replace(f, oldPages, newPages); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", ogg.ErrIO, err)
	}
	return nil
}

// SpliceRunAtomic is SpliceRun performed on a copy of the file, which then
// replaces the original by rename. The original is either left untouched or
// fully replaced.
//
// The copy is created next to the original so the rename stays on one file
// system, and keeps the original's permission bits.
func SpliceRunAtomic(path string, oldPages, newPages []*ogg.Page) (err error) {
	unlock := splices.Lock(path)
	defer unlock()

	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: open: %w", ogg.ErrIO, err)
	}
	defer src.Close()

	fi, err := src.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat: %w", ogg.ErrIO, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".splice-*")
	if err != nil {
		return fmt.Errorf("%w: create temp: %w", ogg.ErrIO, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err := io.Copy(tmp, src); err != nil {
		return fmt.Errorf("%w: copy: %w", ogg.ErrIO, err)
	}
	if err := ogg.Replace(tmp, oldPages, newPages); err != nil {
		return err
	}
	if err := tmp.Chmod(fi.Mode().Perm()); err != nil {
		return fmt.Errorf("%w: chmod: %w", ogg.ErrIO, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync: %w", ogg.ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", ogg.ErrIO, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: rename: %w", ogg.ErrIO, err)
	}
	return nil
}
