// SPDX-License-Identifier: EPL-2.0

package command

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ik5/oggsplice/formats/vorbis"
)

func newInfoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "show the stream information of an Ogg Vorbis file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := readVorbisInfo(args[0])
			if err != nil {
				return cmdFailedf("read vorbis info failed: %s", err)
			}

			t := newTable(cmd, table.Row{"FIELD", "VALUE"})
			t.AppendRows([]table.Row{
				{"serial", fmt.Sprintf("%08x", info.Serial)},
				{"sample rate", info.Format.SampleRate},
				{"channels", info.Format.NumChannels},
				{"nominal bitrate", info.Bitrate.Nominal},
				{"samples", info.Samples},
				{"length", info.Length},
				{"vendor", info.Vendor},
			})
			for _, c := range info.Comments {
				t.AppendRow(table.Row{"comment", c})
			}
			t.Render()
			return nil
		},
	}
	return cmd
}

func newCommentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment <file>",
		Short: "replace the comments of an Ogg Vorbis file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, tag := range tags {
				if k, _, ok := strings.Cut(tag, "="); !ok || k == "" {
					return cmdFailedf("invalid --tag %q: want FIELD=value", tag)
				}
			}

			v := vendor
			if !cmd.Flags().Changed("vendor") {
				info, err := readVorbisInfo(args[0])
				if err != nil {
					return cmdFailedf("read vorbis info failed: %s", err)
				}
				v = info.Vendor
			}

			if err := vorbis.WriteCommentFile(args[0], vorbis.EncodeComment(v, tags)); err != nil {
				return cmdFailedf("write comment failed: %s", err)
			}

			log.WithFields(logrus.Fields{"path": args[0], "comments": len(tags)}).Info("comment header replaced")
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d comments to %s\n", len(tags), args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&vendor, "vendor", "", "vendor string (default: keep the current one)")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "comment as FIELD=value, repeatable")
	return cmd
}

func readVorbisInfo(path string) (*vorbis.Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return vorbis.ReadInfo(f)
}
