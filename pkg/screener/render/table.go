package render

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/komsit37/screener/pkg/screener/types"
)

type TableRenderer struct{}

func NewTableRenderer() *TableRenderer { return &TableRenderer{} }

// Render writes a borderless table. An empty shortlist still prints the header.
func (r *TableRenderer) Render(w io.Writer, rows []types.ScreenedRow, opts RenderOptions) error {
	cols := opts.Columns

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if opts.Color {
		tw.SetStyle(table.StyleColoredDark)
	} else {
		tw.SetStyle(table.StyleLight)
	}
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false
	tw.Style().Format.Header = text.FormatDefault

	hdr := make(table.Row, len(cols))
	for i, c := range cols {
		hdr[i] = c.Header
	}
	tw.AppendHeader(hdr)

	maxWidth := opts.MaxColWidth
	if maxWidth <= 0 {
		maxWidth = 40
	}
	cfgs := make([]table.ColumnConfig, 0, len(cols))
	for i, c := range cols {
		cfg := table.ColumnConfig{Number: i + 1, WidthMax: maxWidth}
		if c.Numeric {
			cfg.Align = text.AlignRight
			cfg.AlignHeader = text.AlignRight
		}
		cfgs = append(cfgs, cfg)
	}
	if len(cfgs) > 0 {
		tw.SetColumnConfigs(cfgs)
	}

	for _, sr := range rows {
		row := make(table.Row, len(cols))
		for i, c := range cols {
			v := c.Value(sr, opts.Formatter)
			if opts.Color && c.Key == "rating" {
				v = colorRating(v)
			}
			row[i] = v
		}
		tw.AppendRow(row)
	}

	tw.Render()
	return nil
}

// colorRating highlights the consensus label that follows the score,
// e.g. "1.4 - Strong Buy".
func colorRating(v string) string {
	_, label, ok := strings.Cut(v, " - ")
	if !ok {
		return v
	}
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "strong buy", "buy":
		return text.Colors{text.FgGreen}.Sprint(v)
	case "sell", "strong sell", "underperform":
		return text.Colors{text.FgRed}.Sprint(v)
	}
	return v
}
