package columns

import "strings"

// DefaultSet is used when no columns or sets are requested.
const DefaultSet = "default"

// Sets defines named column groups.
var Sets = map[string][]string{
	DefaultSet:     {"symbol", "company", "market_cap", "dividend_yield", "rating"},
	"fundamentals": {"pe", "eps"},
}

// ExpandSets returns the union of columns for the given set names.
// It preserves set order and column order within each set, keeping the
// first occurrence of a repeated column.
func ExpandSets(setNames []string) ([]string, error) {
	out := make([]string, 0, 8)
	seen := map[string]struct{}{}
	for _, name := range setNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cols, ok := Sets[name]
		if !ok {
			return nil, &UnknownSetError{Name: name, Available: keysOf(Sets)}
		}
		for _, c := range cols {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out, nil
}

// UnknownSetError reports an unknown column set name.
type UnknownSetError struct {
	Name      string
	Available []string
}

func (e *UnknownSetError) Error() string {
	return "unknown column set: " + e.Name + "; available: " + strings.Join(e.Available, ", ")
}
