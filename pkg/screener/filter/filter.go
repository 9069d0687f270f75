// Package filter restricts the screened universe by ticker symbol.
package filter

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/komsit37/screener/pkg/screener/types"
)

// Filter matches a ticker symbol.
type Filter interface {
	Match(symbol string) bool
}

// Parse builds a filter from an expression:
//   - "" matches everything
//   - comma-separated symbols: "MSFT,KO"
//   - glob: "BR*"
//   - regex: "/^[A-C]/"
//   - anything else: case-insensitive substring
//
// A leading "!" negates the rest of the expression.
func Parse(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if strings.HasPrefix(expr, "!") {
		inner, err := Parse(expr[1:])
		if err != nil {
			return nil, err
		}
		return Not{inner}, nil
	}
	if expr == "" {
		return Always(true), nil
	}
	if strings.HasPrefix(expr, "/") && strings.HasSuffix(expr, "/") && len(expr) > 2 {
		re, err := regexp.Compile(expr[1 : len(expr)-1])
		if err != nil {
			return nil, fmt.Errorf("symbol filter %q: %w", expr, err)
		}
		return Regex{re: re}, nil
	}
	if strings.Contains(expr, ",") {
		set := map[string]struct{}{}
		for _, p := range strings.Split(expr, ",") {
			if p = strings.TrimSpace(p); p != "" {
				set[p] = struct{}{}
			}
		}
		return ExactSet{set: set}, nil
	}
	if strings.ContainsAny(expr, "*?[") {
		if _, err := path.Match(expr, ""); err != nil {
			return nil, fmt.Errorf("symbol filter %q: %w", expr, err)
		}
		return Glob{pattern: expr}, nil
	}
	return SubstrCI{needle: expr}, nil
}

// Apply keeps the rows whose symbol matches f, order preserved.
func Apply(t types.ReferenceTable, f Filter) types.ReferenceTable {
	if f == nil {
		return t
	}
	out := make([]types.ReferenceRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		if f.Match(r.Symbol) {
			out = append(out, r)
		}
	}
	return types.ReferenceTable{Rows: out}
}

type Always bool

func (a Always) Match(string) bool { return bool(a) }

type Not struct{ Filter }

func (n Not) Match(s string) bool { return !n.Filter.Match(s) }

// ExactSet matches listed symbols exactly.
type ExactSet struct{ set map[string]struct{} }

func (e ExactSet) Match(s string) bool {
	_, ok := e.set[s]
	return ok
}

// Glob uses path.Match syntax; symbols never contain a separator.
type Glob struct{ pattern string }

func (g Glob) Match(s string) bool {
	ok, _ := path.Match(g.pattern, s)
	return ok
}

func (g Glob) String() string { return "glob:" + g.pattern }

type Regex struct{ re *regexp.Regexp }

func (r Regex) Match(s string) bool { return r.re.MatchString(s) }

// SubstrCI matches if the symbol contains needle, ignoring case.
type SubstrCI struct{ needle string }

func (s SubstrCI) Match(sym string) bool {
	return strings.Contains(strings.ToLower(sym), strings.ToLower(s.needle))
}

func (s SubstrCI) String() string { return "substr-ci:" + s.needle }
