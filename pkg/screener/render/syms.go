package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/komsit37/screener/pkg/screener/types"
)

// symsRenderer prints the shortlisted symbols on one comma-separated line.
type symsRenderer struct{}

func NewSymsRenderer() Renderer {
	return symsRenderer{}
}

func (symsRenderer) Render(w io.Writer, rows []types.ScreenedRow, _ RenderOptions) error {
	symbols := make([]string, 0, len(rows))
	seen := map[string]struct{}{}
	for _, r := range rows {
		sym := strings.TrimSpace(r.Symbol)
		if sym == "" {
			continue
		}
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		symbols = append(symbols, sym)
	}
	_, err := fmt.Fprintln(w, strings.Join(symbols, ","))
	return err
}
