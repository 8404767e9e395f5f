// SPDX-License-Identifier: EPL-2.0

// Package oggtest builds synthetic Ogg streams for tests.
package oggtest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/oggsplice/ogg"
)

// Packet returns n bytes of a pattern derived from seed, so packets built
// with different seeds never compare equal.
func Packet(n int, seed byte) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = seed + byte(i*7)
	}
	return p
}

// Packets returns count packets of size bytes each, seeded 0, 1, 2, ...
func Packets(count, size int) [][]byte {
	pkts := make([][]byte, count)
	for i := range pkts {
		pkts[i] = Packet(size, byte(i))
	}
	return pkts
}

// Stream lays packets out as a complete logical stream: pages numbered from
// zero, the first page marked First, the last marked Last, and each page's
// granule position set to the number of packets finished so far.
func Stream(serial uint32, packets [][]byte) []*ogg.Page {
	pages := ogg.PacketsToPages(packets, 0)
	done := int64(0)
	for i, p := range pages {
		p.Serial = serial
		finished := len(p.Packets)
		if !p.Complete {
			finished--
		}
		if finished > 0 {
			done += int64(finished)
			p.Position = done
		}
		p.First = i == 0
		p.Last = i == len(pages)-1
	}
	return pages
}

// Interleave merges logical streams page by page in round-robin order, the
// way a multiplexer would.
func Interleave(streams ...[]*ogg.Page) []*ogg.Page {
	var out []*ogg.Page
	for i := 0; ; i++ {
		added := false
		for _, s := range streams {
			if i < len(s) {
				out = append(out, s[i])
				added = true
			}
		}
		if !added {
			return out
		}
	}
}

// Encode serializes pages back to back.
func Encode(pages []*ogg.Page) ([]byte, error) {
	var b []byte
	for _, p := range pages {
		enc, err := p.Encode()
		if err != nil {
			return nil, err
		}
		b = append(b, enc...)
	}
	return b, nil
}

// WriteFile encodes pages into a new file under t.TempDir and returns its
// path.
func WriteFile(t testing.TB, pages []*ogg.Page) string {
	t.Helper()

	b, err := Encode(pages)
	if err != nil {
		t.Fatalf("encode pages: %v", err)
	}
	path := filepath.Join(t.TempDir(), "stream.ogg")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ReadFile decodes every page of the file at path.
func ReadFile(t testing.TB, path string) []*ogg.Page {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	r, err := ogg.NewReader(f)
	if err != nil {
		t.Fatalf("reader: %v", err)
	}
	r.VerifyChecksum = true
	pages, err := r.Pages()
	if err != nil {
		t.Fatalf("read pages of %s: %v", path, err)
	}
	return pages
}

// Serial returns the pages of pages that belong to serial.
func Serial(pages []*ogg.Page, serial uint32) []*ogg.Page {
	var out []*ogg.Page
	for _, p := range pages {
		if p.Serial == serial {
			out = append(out, p)
		}
	}
	return out
}
