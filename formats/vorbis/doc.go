// SPDX-License-Identifier: EPL-2.0

// Package vorbis reads stream information from Ogg Vorbis files and rewrites
// their comment header.
//
// Header packets are parsed with github.com/jfreymuth/oggvorbis; the pages
// around them are located and rewritten with the ogg package, so the audio
// pages of a file are never decoded or touched.
//
// # Stream Information
//
// ReadInfo returns the audio format, bitrate hints, the comment header and
// the stream length, which is taken from the granule position of the last
// page:
//
//	f, _ := os.Open("song.ogg")
//	info, err := vorbis.ReadInfo(f)
//	if err != nil {
//	    // Handle error
//	}
//	fmt.Println(info.Format.SampleRate, info.Format.NumChannels, info.Length)
//
// # Rewriting Comments
//
// EncodeComment serializes a comment header, and ReplaceComment swaps it in
// for the existing one, growing or shrinking the file as needed:
//
//	packet := vorbis.EncodeComment("my tagger", []string{"TITLE=Intro"})
//	err := vorbis.WriteCommentFile("song.ogg", packet)
//
// WriteCommentFile works on a copy that is renamed over the original, so a
// failure never leaves a half-written file behind. ReplaceComment edits an
// open file in place.
//
// # Limitations
//
// ReadInfo only reads a Vorbis stream that starts on the file's first page.
// The comment writers edit the first Vorbis comment header in the file,
// whichever logical stream it belongs to. Chained files, where several
// streams follow each other, report the first stream's format and comments.
package vorbis
