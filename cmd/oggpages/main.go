// SPDX-License-Identifier: EPL-2.0

// oggpages is a command line tool that inspects and repairs the page
// structure of Ogg files.
package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/ik5/oggsplice/cmd/oggpages/command"
)

func main() {
	MustStart()
}

func MustStart() {
	if err := command.NewRootCommand().Execute(); err != nil {
		color.Red("oggpages error: %s", err)
		os.Exit(1)
	}
}
