// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

var (
	ErrNotVorbis         = errors.New("vorbis: first packet is not a vorbis identification header")
	ErrInvalidSampleRate = errors.New("vorbis: sample rate must be positive")
	ErrNotCommentPacket  = errors.New("vorbis: packet is not a vorbis comment header")
	ErrNoCommentHeader   = errors.New("vorbis: no comment header found")
)
