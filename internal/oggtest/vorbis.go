// SPDX-License-Identifier: EPL-2.0

package oggtest

import (
	"encoding/binary"
	"testing"

	"github.com/ik5/oggsplice/ogg"
)

// BlockSamples is the granule increment per audio packet in files built by
// VorbisFile.
const BlockSamples = 1024

// VorbisIdentification returns a Vorbis identification header with a
// nominal bitrate of 128 kbit/s.
func VorbisIdentification(channels byte, rate uint32) []byte {
	b := []byte("\x01vorbis")
	b = binary.LittleEndian.AppendUint32(b, 0) // version
	b = append(b, channels)
	b = binary.LittleEndian.AppendUint32(b, rate)
	b = binary.LittleEndian.AppendUint32(b, 0)      // maximum bitrate
	b = binary.LittleEndian.AppendUint32(b, 128000) // nominal bitrate
	b = binary.LittleEndian.AppendUint32(b, 0)      // minimum bitrate
	b = append(b, 0xb8)                             // block sizes 256 and 2048
	return append(b, 1)
}

// VorbisSetup returns a stand-in setup header of n bytes after the packet
// type and magic. Only its framing is meaningful.
func VorbisSetup(n int) []byte {
	return append([]byte("\x05vorbis"), Packet(n, 5)...)
}

// VorbisPages lays out a Vorbis stream the way encoders do: the
// identification header alone on the first page, the comment and setup
// headers starting on the second, audio after that. Header pages have
// granule position 0; audio pages count BlockSamples per finished packet.
func VorbisPages(serial uint32, id, comment, setup []byte, audio [][]byte) []*ogg.Page {
	pages := ogg.PacketsToPages([][]byte{id}, 0)
	pages = append(pages, ogg.PacketsToPages([][]byte{comment, setup}, uint32(len(pages)))...)
	for _, p := range pages {
		p.Position = 0
	}

	done := int64(0)
	for _, p := range ogg.PacketsToPages(audio, uint32(len(pages))) {
		finished := len(p.Packets)
		if !p.Complete {
			finished--
		}
		if finished > 0 {
			done += int64(finished) * BlockSamples
			p.Position = done
		}
		pages = append(pages, p)
	}

	for i, p := range pages {
		p.Serial = serial
		p.First = i == 0
		p.Last = i == len(pages)-1
	}
	return pages
}

// VorbisFile writes the stream of VorbisPages to a temporary file and
// returns its path.
func VorbisFile(t testing.TB, serial uint32, id, comment, setup []byte, audio [][]byte) string {
	t.Helper()

	return WriteFile(t, VorbisPages(serial, id, comment, setup, audio))
}
