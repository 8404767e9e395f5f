// SPDX-License-Identifier: EPL-2.0

package ogg_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ik5/oggsplice/internal/oggtest"
	"github.com/ik5/oggsplice/ogg"
)

// countingReader records how many bytes were read through it.
type countingReader struct {
	io.ReadSeeker
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.ReadSeeker.Read(p)
	c.n += int64(n)
	return n, err
}

func encodeStream(t *testing.T, pages []*ogg.Page) []byte {
	t.Helper()

	data, err := oggtest.Encode(pages)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	return data
}

func offsetOf(pages []*ogg.Page, target *ogg.Page) int64 {
	var off int64
	for _, p := range pages {
		if p == target {
			return off
		}
		off += int64(p.Size())
	}
	return -1
}

func TestFindLastPage_LargeSingleStream(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 10 MiB stream in short mode")
	}
	t.Parallel()

	pages := oggtest.Stream(0x1234, oggtest.Packets(2560, 4096))
	data := encodeStream(t, pages)
	last := pages[len(pages)-1]

	r := &countingReader{ReadSeeker: bytes.NewReader(data)}
	got, err := ogg.FindLastPage(r, 0x1234)
	if err != nil {
		t.Fatalf("FindLastPage() error = %v", err)
	}
	if got.Sequence != last.Sequence || !got.Last {
		t.Errorf("got page %d (last %v), want page %d", got.Sequence, got.Last, last.Sequence)
	}
	if want := offsetOf(pages, last); got.Offset != want {
		t.Errorf("Offset = %d, want %d", got.Offset, want)
	}
	if r.n > ogg.LookbackWindow {
		t.Errorf("read %d bytes of a %d byte file, want at most %d", r.n, len(data), ogg.LookbackWindow)
	}
}

func TestFindLastPage_Interleaved(t *testing.T) {
	t.Parallel()

	a := oggtest.Stream(1, oggtest.Packets(10, 2000))
	b := oggtest.Stream(2, oggtest.Packets(4, 2000))
	all := oggtest.Interleave(a, b)
	data := encodeStream(t, all)

	tests := []struct {
		serial uint32
		want   *ogg.Page
	}{
		{1, a[len(a)-1]},
		{2, b[len(b)-1]},
	}

	for _, tt := range tests {
		got, err := ogg.FindLastPage(bytes.NewReader(data), tt.serial)
		if err != nil {
			t.Fatalf("FindLastPage(%d) error = %v", tt.serial, err)
		}
		if got.Serial != tt.serial || got.Sequence != tt.want.Sequence || !got.Last {
			t.Errorf("FindLastPage(%d) = serial %d sequence %d last %v, want sequence %d",
				tt.serial, got.Serial, got.Sequence, got.Last, tt.want.Sequence)
		}
		if want := offsetOf(all, tt.want); got.Offset != want {
			t.Errorf("FindLastPage(%d) Offset = %d, want %d", tt.serial, got.Offset, want)
		}
	}
}

func TestFindLastPage_MagicInPayload(t *testing.T) {
	t.Parallel()

	tail := oggtest.Packet(300, 3)
	fake := append([]byte("OggS"), bytes.Repeat([]byte{0xaa}, 40)...)
	copy(tail[len(tail)-len(fake):], fake)
	tail2 := append([]byte("xxOggS"), oggtest.Packet(10, 4)...)

	packets := append(oggtest.Packets(5, 1000), tail, tail2)
	pages := oggtest.Stream(7, packets)
	data := encodeStream(t, pages)

	got, err := ogg.FindLastPage(bytes.NewReader(data), 7)
	if err != nil {
		t.Fatalf("FindLastPage() error = %v", err)
	}
	last := pages[len(pages)-1]
	if want := offsetOf(pages, last); got.Offset != want || got.Sequence != last.Sequence {
		t.Errorf("got page %d at %d, want page %d at %d", got.Sequence, got.Offset, last.Sequence, want)
	}
}

func TestFindLastPage_NotFound(t *testing.T) {
	t.Parallel()

	data := encodeStream(t, oggtest.Stream(1, oggtest.Packets(3, 100)))

	_, err := ogg.FindLastPage(bytes.NewReader(data), 99)
	if !errors.Is(err, ogg.ErrNotFound) {
		t.Errorf("FindLastPage() error = %v, want ErrNotFound", err)
	}
}

func TestFindLastPage_EmptyFile(t *testing.T) {
	t.Parallel()

	_, err := ogg.FindLastPage(bytes.NewReader(nil), 1)
	if !errors.Is(err, ogg.ErrNotFound) {
		t.Errorf("FindLastPage() error = %v, want ErrNotFound", err)
	}
}

func TestFindLastPage_NoCapturePattern(t *testing.T) {
	t.Parallel()

	_, err := ogg.FindLastPage(bytes.NewReader(bytes.Repeat([]byte("x"), 1000)), 1)
	var pe *ogg.ParseError
	if !errors.As(err, &pe) || !errors.Is(err, ogg.ErrBadMagic) {
		t.Fatalf("FindLastPage() error = %v, want ParseError with ErrBadMagic", err)
	}
	if pe.Offset != 0 {
		t.Errorf("Offset = %d, want 0", pe.Offset)
	}
}

func TestFindLastPage_StreamWithoutLastFlag(t *testing.T) {
	t.Parallel()

	a := oggtest.Stream(1, oggtest.Packets(3, 3000))
	b := oggtest.Stream(2, oggtest.Packets(8, 3000))
	a[len(a)-1].Last = false
	all := oggtest.Interleave(a, b)

	got, err := ogg.FindLastPage(bytes.NewReader(encodeStream(t, all)), 1)
	if err != nil {
		t.Fatalf("FindLastPage() error = %v", err)
	}
	if got.Sequence != a[len(a)-1].Sequence {
		t.Errorf("Sequence = %d, want %d", got.Sequence, a[len(a)-1].Sequence)
	}
}

func BenchmarkFindLastPage(b *testing.B) {
	data, err := oggtest.Encode(oggtest.Stream(1, oggtest.Packets(256, 4096)))
	if err != nil {
		b.Fatal(err)
	}
	r := bytes.NewReader(data)

	b.ReportAllocs()
	for b.Loop() {
		if _, err := ogg.FindLastPage(r, 1); err != nil {
			b.Fatal(err)
		}
	}
}
