// SPDX-License-Identifier: EPL-2.0

package command

var (
	// global
	logLevel string

	// for list, last, packets and renumber.
	serial    uint32
	startSeq  uint32
	verifyCRC bool

	// for comment.
	vendor string
	tags   []string
)
