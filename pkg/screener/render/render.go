package render

import (
	"fmt"
	"io"

	"github.com/komsit37/screener/pkg/screener/columns"
	"github.com/komsit37/screener/pkg/screener/types"
)

// Renderer presents the shortlist.
type Renderer interface {
	Render(w io.Writer, rows []types.ScreenedRow, opts RenderOptions) error
}

type RenderOptions struct {
	Columns     []columns.Def
	Formatter   columns.Formatter
	Color       bool
	PrettyJSON  bool
	MaxColWidth int
}

// ForFormat returns the renderer registered for a --format value.
func ForFormat(format string) (Renderer, error) {
	switch format {
	case "", "table":
		return NewTableRenderer(), nil
	case "json":
		return NewJSONRenderer(), nil
	case "syms":
		return NewSymsRenderer(), nil
	}
	return nil, fmt.Errorf("unknown format %q (want table, json or syms)", format)
}
