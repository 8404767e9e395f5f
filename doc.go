// SPDX-License-Identifier: EPL-2.0

// Package oggsplice gives tag readers and writers path-based access to the
// pages of Ogg files.
//
// The page codec itself lives in the ogg subpackage. This package wraps it
// in the three operations a metadata library needs:
//
//   - OpenPageStream decodes pages one by one, so a reader can pick out the
//     header packets it cares about and stop.
//   - LocateLastPage finds the final page of a logical stream, whose granule
//     position gives the stream length.
//   - SpliceRun and SpliceRunAtomic swap a run of pages for new ones, so a
//     writer can replace a comment packet without touching the audio pages.
//
// # Quick Start
//
// Replacing the second packet of a stream:
//
//	ps, _ := oggsplice.OpenPageStream("song.ogg")
//	first, _ := ps.Next()
//	second, _ := ps.Next()
//	ps.Close()
//
//	old := []*ogg.Page{first, second}
//	packets, _ := ogg.PagesToPackets(old, false)
//	packets[1] = comment
//	newPages := ogg.PacketsToPages(packets, first.Sequence)
//
//	err := oggsplice.SpliceRunAtomic("song.ogg", old, newPages)
//
// # Format Helpers
//
// formats/vorbis builds on these operations to read Vorbis stream info and
// to rewrite the Vorbis comment header.
//
// # Concurrency
//
// Splices of the same path made through this package are serialized within
// the process. Nothing stops another process, or code writing to the file
// directly, from interfering with a splice in progress.
package oggsplice
