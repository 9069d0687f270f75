package types

// ReferenceRow is one ticker from the reference file.
type ReferenceRow struct {
	Symbol      string
	Title       string
	Currency    string
	ISAEligible bool
	PlusOnly    bool
}

// ReferenceTable holds reference rows in file order.
// Symbols are not deduplicated; duplicates flow through to the join.
type ReferenceTable struct {
	Rows []ReferenceRow
}

// Eligibility selects which reference rows are screened.
type Eligibility struct {
	Currency string
}

// DefaultEligibility matches USD listings that are ISA eligible and PLUS only.
var DefaultEligibility = Eligibility{Currency: "usd"}

// Match reports whether a row passes the pre-filter. Comparison is case-sensitive.
func (e Eligibility) Match(r ReferenceRow) bool {
	return r.Currency == e.Currency && r.ISAEligible && r.PlusOnly
}

// Eligible returns a new table with only the rows matching e, order preserved.
func (t ReferenceTable) Eligible(e Eligibility) ReferenceTable {
	out := make([]ReferenceRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		if e.Match(r) {
			out = append(out, r)
		}
	}
	return ReferenceTable{Rows: out}
}

// Symbols returns the symbol column in row order.
func (t ReferenceTable) Symbols() []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Symbol
	}
	return out
}

// QuoteRecord is one ticker as returned by the quote source.
// Every metric may be missing per ticker.
type QuoteRecord struct {
	Symbol                      string            `json:"symbol"`
	MarketCap                   Optional[int64]   `json:"marketCap"`
	TrailingAnnualDividendYield Optional[float64] `json:"trailingAnnualDividendYield"`
	TrailingPE                  Optional[float64] `json:"trailingPE"`
	AverageAnalystRating        Optional[string]  `json:"averageAnalystRating"`
	EPSTrailingTwelveMonths     Optional[float64] `json:"epsTrailingTwelveMonths"`
}

// SymbolBatch is an ordered group of at most MaxBatchSize symbols.
type SymbolBatch []string

// MaxBatchSize is the largest batch the quote source accepts.
const MaxBatchSize = 10

// Key returns the symbol identifying the batch in the cache, or "" for an empty batch.
func (b SymbolBatch) Key() string {
	if len(b) == 0 {
		return ""
	}
	return b[0]
}

// ScreenedRow is a shortlisted ticker ready for presentation.
type ScreenedRow struct {
	Symbol                      string
	Title                       string
	MarketCap                   Optional[int64]
	TrailingAnnualDividendYield Optional[float64]
	AverageAnalystRating        Optional[string]
	TrailingPE                  Optional[float64]
	EPSTrailingTwelveMonths     Optional[float64]
}
