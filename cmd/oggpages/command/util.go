// SPDX-License-Identifier: EPL-2.0

package command

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/ik5/oggsplice"
	"github.com/ik5/oggsplice/ogg"
)

func cmdFailedf(format string, a ...interface{}) error {
	return fmt.Errorf(format, a...)
}

func newTable(cmd *cobra.Command, header table.Row) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(header)
	t.SetOutputMirror(cmd.OutOrStdout())
	cfg := make([]table.ColumnConfig, len(header))
	for i := range header {
		cfg[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignRight, AlignHeader: text.AlignCenter}
	}
	t.SetColumnConfigs(cfg)
	return t
}

func flagString(p *ogg.Page) string {
	var f []string
	if p.First {
		f = append(f, "first")
	}
	if p.Last {
		f = append(f, "last")
	}
	if p.Continued {
		f = append(f, "cont")
	}
	if !p.Complete {
		f = append(f, "open")
	}
	if len(f) == 0 {
		return "-"
	}
	return strings.Join(f, ",")
}

func pageRow(p *ogg.Page) table.Row {
	return table.Row{
		fmt.Sprintf("%#x", p.Offset), fmt.Sprintf("%08x", p.Serial), p.Sequence, p.Position,
		flagString(p), len(p.Packets), p.Size(),
	}
}

var pageHeader = table.Row{"OFFSET", "SERIAL", "SEQUENCE", "GRANULE", "FLAGS", "FRAGMENTS", "SIZE"}

// readPages decodes every page of the file at path.
func readPages(path string, verify bool) ([]*ogg.Page, error) {
	ps, err := oggsplice.OpenPageStream(path)
	if err != nil {
		return nil, err
	}
	defer ps.Close()

	ps.VerifyChecksum = verify
	pages, err := ps.Pages()
	log.WithField("path", path).WithField("pages", len(pages)).Debug("pages read")
	return pages, err
}

// streamSerial returns the --serial flag, or the serial of the first page in
// the file when the flag is not set.
func streamSerial(cmd *cobra.Command, path string) (uint32, error) {
	if cmd.Flags().Changed("serial") {
		return serial, nil
	}

	ps, err := oggsplice.OpenPageStream(path)
	if err != nil {
		return 0, err
	}
	defer ps.Close()

	p, err := ps.Next()
	if err != nil {
		return 0, fmt.Errorf("read first page: %w", err)
	}
	log.WithField("serial", fmt.Sprintf("%#x", p.Serial)).Debug("using serial of first page")
	return p.Serial, nil
}
