// SPDX-License-Identifier: EPL-2.0

package command

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ik5/oggsplice"
	"github.com/ik5/oggsplice/ogg"
)

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <file>",
		Short: "list the pages of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pages, readErr := readPages(args[0], verifyCRC)

			t := newTable(cmd, pageHeader)
			for _, p := range pages {
				if cmd.Flags().Changed("serial") && p.Serial != serial {
					continue
				}
				t.AppendRow(pageRow(p))
			}
			t.Render()

			if readErr != nil {
				return cmdFailedf("list pages failed after %d pages: %s", len(pages), readErr)
			}
			return nil
		},
	}
	cmd.Flags().Uint32Var(&serial, "serial", 0, "only list pages of this logical stream")
	cmd.Flags().BoolVar(&verifyCRC, "verify", false, "fail on pages with a bad checksum")
	return cmd
}

func newLastCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "last <file>",
		Short: "show the last page of a logical stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := streamSerial(cmd, args[0])
			if err != nil {
				return cmdFailedf("find stream failed: %s", err)
			}
			p, err := oggsplice.LocateLastPage(args[0], s)
			if err != nil {
				return cmdFailedf("locate last page failed: %s", err)
			}

			t := newTable(cmd, pageHeader)
			t.AppendRow(pageRow(p))
			t.Render()
			return nil
		},
	}
	cmd.Flags().Uint32Var(&serial, "serial", 0, "logical stream (default: the stream of the first page)")
	return cmd
}

func newPacketsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "packets <file>",
		Short: "list the packets of a logical stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := streamSerial(cmd, args[0])
			if err != nil {
				return cmdFailedf("find stream failed: %s", err)
			}

			ps, err := oggsplice.OpenPageStream(args[0])
			if err != nil {
				return cmdFailedf("open failed: %s", err)
			}
			defer ps.Close()

			pages, err := ps.Stream(s)
			if err != nil {
				return cmdFailedf("read pages failed: %s", err)
			}
			packets, err := ogg.PagesToPackets(pages, false)
			if err != nil {
				return cmdFailedf("join packets failed: %s", err)
			}

			t := newTable(cmd, table.Row{"PACKET", "SIZE"})
			total := 0
			for i, pkt := range packets {
				t.AppendRow(table.Row{i, len(pkt)})
				total += len(pkt)
			}
			t.AppendFooter(table.Row{len(packets), total})
			t.Render()
			return nil
		},
	}
	cmd.Flags().Uint32Var(&serial, "serial", 0, "logical stream (default: the stream of the first page)")
	return cmd
}

func newRenumberCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "renumber <file>",
		Short: "rewrite the page sequence numbers of a logical stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("serial") {
				return cmdFailedf("the --serial flag MUST be set")
			}
			if err := oggsplice.RenumberFile(args[0], serial, startSeq); err != nil {
				return cmdFailedf("renumber failed: %s", err)
			}

			log.WithFields(logrus.Fields{
				"path":   args[0],
				"serial": fmt.Sprintf("%#x", serial),
				"start":  startSeq,
			}).Info("stream renumbered")
			fmt.Fprintln(cmd.OutOrStdout(), "renumbered", args[0])
			return nil
		},
	}
	cmd.Flags().Uint32Var(&serial, "serial", 0, "logical stream to renumber")
	cmd.Flags().Uint32Var(&startSeq, "start", 0, "sequence number of the stream's first page")
	return cmd
}
