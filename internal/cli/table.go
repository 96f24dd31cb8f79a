package cli

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// renderTable writes rows under headers, right-aligning the columns listed in
// numeric.
func renderTable(w io.Writer, headers []string, rows [][]string, numeric ...int) error {
	config := tablewriter.Config{}
	if len(numeric) > 0 {
		align := make([]tw.Align, len(headers))
		for i := range align {
			align[i] = tw.AlignLeft
		}
		for _, i := range numeric {
			if i < len(align) {
				align[i] = tw.AlignRight
			}
		}
		config.Header.Alignment = tw.CellAlignment{PerColumn: align}
		config.Row.Alignment = tw.CellAlignment{PerColumn: align}
	}
	table := tablewriter.NewTable(w, tablewriter.WithConfig(config))

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	table.Header(header...)

	for _, row := range rows {
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		if err := table.Append(cells...); err != nil {
			return err
		}
	}
	return table.Render()
}
