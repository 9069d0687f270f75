package columns

import (
	"fmt"
	"sort"
	"strings"

	"github.com/komsit37/screener/pkg/screener/types"
)

// Def describes one display column.
type Def struct {
	Key    string
	Header string
	// Numeric columns are right-aligned by the table renderer.
	Numeric bool
	Value   func(r types.ScreenedRow, f Formatter) string
}

// Registry maps column keys to definitions.
var Registry = map[string]Def{}

func register(d Def) { Registry[d.Key] = d }

func init() {
	register(Def{Key: "symbol", Header: "Symbol", Value: func(r types.ScreenedRow, _ Formatter) string {
		return r.Symbol
	}})
	register(Def{Key: "company", Header: "Company", Value: func(r types.ScreenedRow, _ Formatter) string {
		return r.Title
	}})
	register(Def{Key: "market_cap", Header: "Market Cap", Numeric: true, Value: func(r types.ScreenedRow, f Formatter) string {
		if v, ok := r.MarketCap.Get(); ok {
			return f.Int(v)
		}
		return ""
	}})
	register(Def{Key: "dividend_yield", Header: "Dividend Yield", Numeric: true, Value: func(r types.ScreenedRow, f Formatter) string {
		if v, ok := r.TrailingAnnualDividendYield.Get(); ok {
			return f.Percent(v)
		}
		return ""
	}})
	register(Def{Key: "rating", Header: "Average Analyst Rating", Value: func(r types.ScreenedRow, _ Formatter) string {
		return r.AverageAnalystRating.OrElse("")
	}})
	register(Def{Key: "pe", Header: "P/E", Numeric: true, Value: func(r types.ScreenedRow, f Formatter) string {
		if v, ok := r.TrailingPE.Get(); ok {
			return f.Float(v, 2)
		}
		return ""
	}})
	register(Def{Key: "eps", Header: "EPS", Numeric: true, Value: func(r types.ScreenedRow, f Formatter) string {
		if v, ok := r.EPSTrailingTwelveMonths.Get(); ok {
			return f.Float(v, 2)
		}
		return ""
	}})
}

// Resolve validates keys and returns their definitions in order, dropping
// repeats. An empty list resolves to the default set.
func Resolve(keys []string) ([]Def, error) {
	if len(keys) == 0 {
		keys = Sets[DefaultSet]
	}
	seen := map[string]struct{}{}
	out := make([]Def, 0, len(keys))
	for _, k := range keys {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		d, ok := Registry[k]
		if !ok {
			return nil, &UnknownColumnError{Name: k, Available: keysOf(Registry)}
		}
		seen[k] = struct{}{}
		out = append(out, d)
	}
	return out, nil
}

// Cells renders a row for the given columns.
func Cells(defs []Def, r types.ScreenedRow, f Formatter) []string {
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = d.Value(r, f)
	}
	return out
}

// UnknownColumnError reports a column key that is not registered.
type UnknownColumnError struct {
	Name      string
	Available []string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column: %s; available: %s", e.Name, strings.Join(e.Available, ", "))
}

func keysOf[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
