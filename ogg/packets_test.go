// SPDX-License-Identifier: EPL-2.0

package ogg_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ik5/oggsplice/internal/oggtest"
	"github.com/ik5/oggsplice/ogg"
)

// reencode pushes pages through Encode and Decode, the way they would
// travel through a file.
func reencode(t *testing.T, pages []*ogg.Page) []*ogg.Page {
	t.Helper()

	data, err := oggtest.Encode(pages)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	r, err := ogg.NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	out, err := r.Pages()
	if err != nil {
		t.Fatalf("Pages() error = %v", err)
	}
	return out
}

func equalPackets(t *testing.T, got, want [][]byte) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("got %d packets, want %d", len(got), len(want))
	}
	for i := range want {
		if !bytes.Equal(got[i], want[i]) {
			t.Fatalf("packet %d: got %d bytes, want %d bytes (or contents differ)", i, len(got[i]), len(want[i]))
		}
	}
}

func TestPacketsToPages_RoundTrip(t *testing.T) {
	t.Parallel()

	huge := oggtest.Packet(ogg.MaxPayloadSize*2+77, 9)

	tests := []struct {
		name    string
		packets [][]byte
	}{
		{"single", [][]byte{[]byte("hello")}},
		{"empty packet", [][]byte{{}}},
		{"empty packets around data", [][]byte{{}, []byte("a"), {}, {}, []byte("b"), {}}},
		{"larger than a page", [][]byte{huge}},
		{"larger than a page between small ones", [][]byte{[]byte("head"), huge, []byte("tail")}},
		{"300 tiny packets", oggtest.Packets(300, 1)},
		{"exact segment multiples", [][]byte{
			oggtest.Packet(255, 1), oggtest.Packet(510, 2), oggtest.Packet(ogg.ChunkSize, 3),
			oggtest.Packet(ogg.ChunkSize*2, 4), oggtest.Packet(4080, 5),
		}},
		{"page-sized packets", oggtest.Packets(12, 4069)},
		{"mixed", [][]byte{
			oggtest.Packet(30, 1), oggtest.Packet(4000, 2), {}, oggtest.Packet(9000, 3),
			oggtest.Packet(254, 4), oggtest.Packet(256, 5), oggtest.Packet(2041, 6),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			for _, seq := range []uint32{0, 41} {
				pages := ogg.PacketsToPages(tt.packets, seq)
				for i, p := range pages {
					if p.Sequence != seq+uint32(i) {
						t.Errorf("page %d: Sequence = %d, want %d", i, p.Sequence, seq+uint32(i))
					}
					if p.Size() > ogg.MaxPageSize {
						t.Errorf("page %d: Size() = %d exceeds %d", i, p.Size(), ogg.MaxPageSize)
					}
					if i > 0 && p.Continued == pages[i-1].Complete {
						t.Errorf("page %d: Continued = %v but previous Complete = %v",
							i, p.Continued, pages[i-1].Complete)
					}
				}
				if len(pages) > 0 && (pages[0].Continued || !pages[len(pages)-1].Complete) {
					t.Errorf("run does not start and end on packet boundaries")
				}

				got, err := ogg.PagesToPackets(pages, true)
				if err != nil {
					t.Fatalf("PagesToPackets() error = %v", err)
				}
				equalPackets(t, got, tt.packets)

				got, err = ogg.PagesToPackets(reencode(t, pages), true)
				if err != nil {
					t.Fatalf("PagesToPackets(decoded) error = %v", err)
				}
				equalPackets(t, got, tt.packets)
			}
		})
	}
}

func TestPacketsToPages_None(t *testing.T) {
	t.Parallel()

	if pages := ogg.PacketsToPages(nil, 0); len(pages) != 0 {
		t.Errorf("PacketsToPages(nil) = %d pages, want 0", len(pages))
	}
}

func TestPacketsToPages_PageSize(t *testing.T) {
	t.Parallel()

	pages := ogg.PacketsToPages(oggtest.Packets(100, 1000), 0)
	for i, p := range pages[:len(pages)-1] {
		if p.Size() < ogg.TargetPageSize || p.Size() > ogg.TargetPageSize+ogg.ChunkSize+16 {
			t.Errorf("page %d: Size() = %d, want close to %d", i, p.Size(), ogg.TargetPageSize)
		}
	}
}

func TestPacketsToPages_TinyPacketsRespectSegmentLimit(t *testing.T) {
	t.Parallel()

	pages := ogg.PacketsToPages(oggtest.Packets(1000, 0), 0)
	if len(pages) < 4 {
		t.Fatalf("1000 empty packets fit on %d pages, want at least 4", len(pages))
	}
	for i, p := range pages {
		if _, err := p.Encode(); err != nil {
			t.Errorf("page %d: Encode() error = %v", i, err)
		}
	}
}

func TestPagesToPackets_Contiguity(t *testing.T) {
	t.Parallel()

	build := func() []*ogg.Page {
		pages := ogg.PacketsToPages(oggtest.Packets(10, 3000), 5)
		for _, p := range pages {
			p.Serial = 77
		}
		return pages
	}

	tests := []struct {
		name   string
		mangle func([]*ogg.Page) []*ogg.Page
		want   error
	}{
		{"gap", func(p []*ogg.Page) []*ogg.Page { return append(p[:2:2], p[3:]...) }, ogg.ErrBadSequence},
		{"duplicate", func(p []*ogg.Page) []*ogg.Page { return append(p[:3:3], p[2:]...) }, ogg.ErrBadSequence},
		{"reordered", func(p []*ogg.Page) []*ogg.Page { p[1], p[2] = p[2], p[1]; return p }, ogg.ErrBadSequence},
		{"serial change", func(p []*ogg.Page) []*ogg.Page { p[4].Serial = 78; return p }, ogg.ErrBadSerial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ogg.PagesToPackets(tt.mangle(build()), false)
			if !errors.Is(err, tt.want) {
				t.Errorf("PagesToPackets() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPagesToPackets_Strict(t *testing.T) {
	t.Parallel()

	packets := [][]byte{oggtest.Packet(100, 1), oggtest.Packet(9000, 2), oggtest.Packet(100, 3)}
	pages := ogg.PacketsToPages(packets, 0)
	if len(pages) < 3 {
		t.Fatalf("expected the 9000-byte packet to span pages, got %d pages", len(pages))
	}

	tail := pages[1:]
	if _, err := ogg.PagesToPackets(tail, true); !errors.Is(err, ogg.ErrContinuedStart) {
		t.Errorf("strict, continued start: error = %v, want ErrContinuedStart", err)
	}
	head := pages[:1]
	if _, err := ogg.PagesToPackets(head, true); !errors.Is(err, ogg.ErrIncompleteEnd) {
		t.Errorf("strict, incomplete end: error = %v, want ErrIncompleteEnd", err)
	}

	// Without strict the partial packets at either edge are returned as is.
	got, err := ogg.PagesToPackets(head, false)
	if err != nil {
		t.Fatalf("non-strict head: error = %v", err)
	}
	if len(got) != 2 || !bytes.Equal(got[0], packets[0]) || !bytes.HasPrefix(packets[1], got[1]) {
		t.Errorf("non-strict head returned %d packets", len(got))
	}

	got, err = ogg.PagesToPackets(tail, false)
	if err != nil {
		t.Fatalf("non-strict tail: error = %v", err)
	}
	if len(got) != 2 || !bytes.HasSuffix(packets[1], got[0]) || !bytes.Equal(got[1], packets[2]) {
		t.Errorf("non-strict tail returned %d packets", len(got))
	}
}

func TestPagesToPackets_DoesNotAlias(t *testing.T) {
	t.Parallel()

	pages := ogg.PacketsToPages([][]byte{[]byte("abc"), []byte("def")}, 0)
	got, err := ogg.PagesToPackets(pages, true)
	if err != nil {
		t.Fatal(err)
	}
	got[0] = append(got[0], 'x')
	got[1][0] = 'z'
	if string(pages[0].Packets[0]) != "abc" || string(pages[0].Packets[1]) != "def" {
		t.Errorf("page data changed through returned packets: %q", pages[0].Packets)
	}
}

func TestPagesToPackets_Empty(t *testing.T) {
	t.Parallel()

	got, err := ogg.PagesToPackets(nil, true)
	if err != nil || got != nil {
		t.Errorf("PagesToPackets(nil) = %v, %v", got, err)
	}
}

func BenchmarkPacketsToPages(b *testing.B) {
	packets := oggtest.Packets(64, 3000)

	b.ReportAllocs()
	for b.Loop() {
		_ = ogg.PacketsToPages(packets, 0)
	}
}
