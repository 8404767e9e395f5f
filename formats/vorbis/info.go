// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"fmt"
	"io"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/jfreymuth/oggvorbis"
	jvorbis "github.com/jfreymuth/vorbis"

	"github.com/ik5/oggsplice/ogg"
)

var (
	identificationPrefix = []byte("\x01vorbis")
	commentPrefix        = []byte("\x03vorbis")
)

// Header parsers, replaced in tests.
var (
	getFormat        = oggvorbis.GetFormat
	getCommentHeader = oggvorbis.GetCommentHeader
)

// Info describes a Vorbis stream.
type Info struct {
	// Serial of the logical stream carrying the audio.
	Serial uint32
	// Format holds the sample rate and channel count.
	Format *goaudio.Format
	// Bitrate hints from the identification header, any of which may be 0.
	Bitrate jvorbis.Bitrate
	// Vendor and Comments come from the comment header.
	Vendor   string
	Comments []string
	// Samples is the number of samples per channel, taken from the
	// granule position of the stream's last page.
	Samples int64
	// Length is the playing time.
	Length time.Duration
}

// ReadInfo reads the stream information of the Vorbis stream starting on
// the first page of rs. ErrNotVorbis is returned when that page opens any
// other kind of stream.
func ReadInfo(rs io.ReadSeeker) (*Info, error) {
	head, err := firstPage(rs)
	if err != nil {
		return nil, err
	}

	if _, err := rs.Seek(head.Offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seek: %w", ogg.ErrIO, err)
	}
	format, err := getFormat(rs)
	if err != nil {
		return nil, fmt.Errorf("identification header: %w", err)
	}
	if format.SampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	if _, err := rs.Seek(head.Offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seek: %w", ogg.ErrIO, err)
	}
	comments, err := getCommentHeader(rs)
	if err != nil {
		return nil, fmt.Errorf("comment header: %w", err)
	}

	last, err := ogg.FindLastPage(rs, head.Serial)
	if err != nil {
		return nil, err
	}
	samples := max(last.Position, 0)

	return &Info{
		Serial: head.Serial,
		Format: &goaudio.Format{
			NumChannels: format.Channels,
			SampleRate:  format.SampleRate,
		},
		Bitrate:  format.Bitrate,
		Vendor:   comments.Vendor,
		Comments: comments.Comments,
		Samples:  samples,
		Length:   time.Duration(samples) * time.Second / time.Duration(format.SampleRate),
	}, nil
}

// firstPage returns the first page of the file, which must open a Vorbis
// stream.
func firstPage(rs io.ReadSeeker) (*ogg.Page, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seek: %w", ogg.ErrIO, err)
	}
	r, err := ogg.NewReader(rs)
	if err != nil {
		return nil, err
	}

	p, err := r.Next()
	if err == io.EOF {
		return nil, ErrNotVorbis
	}
	if err != nil {
		return nil, err
	}
	if len(p.Packets) == 0 || !bytes.HasPrefix(p.Packets[0], identificationPrefix) {
		return nil, ErrNotVorbis
	}
	return p, nil
}
