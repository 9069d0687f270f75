// Package screen left-joins the reference table with fetched quotes and
// applies the screening criteria.
package screen

import (
	"cmp"

	"github.com/komsit37/screener/pkg/screener/types"
)

// Row is one reference row joined with at most one quote. When Matched is
// false every quote field is absent.
type Row struct {
	Ref     types.ReferenceRow
	Quote   types.QuoteRecord
	Matched bool
}

// Join left-joins ref with quotes on an exact symbol match. A reference row
// matching several quotes yields one Row per quote, in quote order.
func Join(ref types.ReferenceTable, quotes []types.QuoteRecord) []Row {
	bySym := make(map[string][]types.QuoteRecord, len(quotes))
	for _, q := range quotes {
		bySym[q.Symbol] = append(bySym[q.Symbol], q)
	}
	out := make([]Row, 0, len(ref.Rows))
	for _, r := range ref.Rows {
		matches := bySym[r.Symbol]
		if len(matches) == 0 {
			out = append(out, Row{Ref: r})
			continue
		}
		for _, q := range matches {
			out = append(out, Row{Ref: r, Quote: q, Matched: true})
		}
	}
	return out
}

// Predicate keeps or drops a joined row.
type Predicate struct {
	Name string
	Keep func(Row) bool
}

// Above keeps rows whose field is strictly greater than threshold, using
// absent in place of a missing value.
func Above[T cmp.Ordered](name string, field func(Row) types.Optional[T], absent, threshold T) Predicate {
	return Predicate{Name: name, Keep: func(r Row) bool {
		return field(r).OrElse(absent) > threshold
	}}
}

// AtMost keeps rows whose field is less than or equal to threshold, using
// absent in place of a missing value. Strings compare bytewise.
func AtMost[T cmp.Ordered](name string, field func(Row) types.Optional[T], absent, threshold T) Predicate {
	return Predicate{Name: name, Keep: func(r Row) bool {
		return field(r).OrElse(absent) <= threshold
	}}
}

func marketCap(r Row) types.Optional[int64] { return r.Quote.MarketCap }
func eps(r Row) types.Optional[float64] { return r.Quote.EPSTrailingTwelveMonths }
func dividendYield(r Row) types.Optional[float64] { return r.Quote.TrailingAnnualDividendYield }
func rating(r Row) types.Optional[string] { return r.Quote.AverageAnalystRating }

// Thresholds parameterise the standard criteria.
type Thresholds struct {
	MinMarketCap     int64
	MinEPS           float64
	MinDividendYield float64
	// MaxRating is compared as a string, so "1.10 - Strong Buy" <= "1.5" holds.
	MaxRating    string
	AbsentRating string
}

// DefaultThresholds select large, profitable dividend payers with a strong
// consensus rating.
var DefaultThresholds = Thresholds{
	MinMarketCap:     1_000_000_000,
	MinEPS:           0,
	MinDividendYield: 0.01,
	MaxRating:        "1.5",
	AbsentRating:     "2",
}

// Criteria returns the standard predicate chain in evaluation order.
func (t Thresholds) Criteria() []Predicate {
	return []Predicate{
		Above("marketCap", marketCap, 0, t.MinMarketCap),
		Above("epsTrailingTwelveMonths", eps, 0, t.MinEPS),
		Above("trailingAnnualDividendYield", dividendYield, 0, t.MinDividendYield),
		AtMost("averageAnalystRating", rating, t.AbsentRating, t.MaxRating),
	}
}

// DefaultCriteria is DefaultThresholds.Criteria().
func DefaultCriteria() []Predicate { return DefaultThresholds.Criteria() }

// Screen returns the rows passing every predicate, order preserved. Predicates
// run in order and stop at the first failure.
func Screen(rows []Row, preds []Predicate) []Row {
	out := make([]Row, 0, len(rows))
next:
	for _, r := range rows {
		for _, p := range preds {
			if !p.Keep(r) {
				continue next
			}
		}
		out = append(out, r)
	}
	return out
}

// Project maps joined rows to their display shape.
func Project(rows []Row) []types.ScreenedRow {
	out := make([]types.ScreenedRow, len(rows))
	for i, r := range rows {
		out[i] = types.ScreenedRow{
			Symbol:                      r.Ref.Symbol,
			Title:                       r.Ref.Title,
			MarketCap:                   r.Quote.MarketCap,
			TrailingAnnualDividendYield: r.Quote.TrailingAnnualDividendYield,
			AverageAnalystRating:        r.Quote.AverageAnalystRating,
			TrailingPE:                  r.Quote.TrailingPE,
			EPSTrailingTwelveMonths:     r.Quote.EPSTrailingTwelveMonths,
		}
	}
	return out
}

// Run joins, screens and projects in one step.
func Run(ref types.ReferenceTable, quotes []types.QuoteRecord, preds []Predicate) []types.ScreenedRow {
	return Project(Screen(Join(ref, quotes), preds))
}
