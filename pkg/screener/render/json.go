package render

import (
	"encoding/json"
	"io"

	"github.com/komsit37/screener/pkg/screener/types"
)

type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

// Render writes one object per row keyed by column header, values formatted
// as in the table. An empty shortlist renders as [].
func (r *JSONRenderer) Render(w io.Writer, rows []types.ScreenedRow, opts RenderOptions) error {
	out := make([]map[string]string, 0, len(rows))
	for _, sr := range rows {
		m := make(map[string]string, len(opts.Columns))
		for _, c := range opts.Columns {
			m[c.Header] = c.Value(sr, opts.Formatter)
		}
		out = append(out, m)
	}
	enc := json.NewEncoder(w)
	if opts.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}
