package columns

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/screener/pkg/screener/types"
)

func TestPercent(t *testing.T) {
	f := DefaultFormatter
	cases := map[float64]string{
		0.0234:  "2.34%",
		0.02:    "2%",
		0.015:   "1.5%",
		0.00125: "0.12%",
		0.00135: "0.14%",
		0.1:     "10%",
		0:       "0%",
	}
	for in, want := range cases {
		assert.Equal(t, want, f.Percent(in), "%v", in)
	}
}

func TestIntGrouping(t *testing.T) {
	assert.Equal(t, "2000000000", DefaultFormatter.Int(2_000_000_000))
	g := Formatter{PercentDigits: 2, Grouping: true}
	assert.Equal(t, "2,000,000,000", g.Int(2_000_000_000))
	assert.Equal(t, "999", g.Int(999))
	assert.Equal(t, "-1,000", g.Int(-1000))
	assert.Equal(t, "1,234.5", g.Float(1234.5, 2))
}

func TestResolveDefault(t *testing.T) {
	defs, err := Resolve(nil)
	require.NoError(t, err)
	var headers []string
	for _, d := range defs {
		headers = append(headers, d.Header)
	}
	assert.Equal(t, []string{"Symbol", "Company", "Market Cap", "Dividend Yield", "Average Analyst Rating"}, headers)
}

func TestResolveUnknown(t *testing.T) {
	_, err := Resolve([]string{"symbol", "beta"})
	var ue *UnknownColumnError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "beta", ue.Name)
	assert.Contains(t, ue.Available, "pe")
}

func TestResolveDedupes(t *testing.T) {
	defs, err := Resolve([]string{"Symbol", "symbol", " eps "})
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "eps", defs[1].Key)
}

func TestCells(t *testing.T) {
	defs, err := Resolve([]string{"symbol", "company", "market_cap", "dividend_yield", "rating", "pe", "eps"})
	require.NoError(t, err)

	row := types.ScreenedRow{
		Symbol:                      "KO",
		Title:                       "Coca-Cola",
		MarketCap:                   types.Some(int64(260_000_000_000)),
		TrailingAnnualDividendYield: types.Some(0.0295),
		AverageAnalystRating:        types.Some("1.4 - Strong Buy"),
		TrailingPE:                  types.Some(24.126),
	}
	got := Cells(defs, row, DefaultFormatter)
	assert.Equal(t, []string{"KO", "Coca-Cola", "260000000000", "2.95%", "1.4 - Strong Buy", "24.13", ""}, got)
}

func TestExpandSets(t *testing.T) {
	cols, err := ExpandSets([]string{"default", "fundamentals", "default"})
	require.NoError(t, err)
	assert.Equal(t, []string{"symbol", "company", "market_cap", "dividend_yield", "rating", "pe", "eps"}, cols)

	_, err = ExpandSets([]string{"nope"})
	var ue *UnknownSetError
	assert.True(t, errors.As(err, &ue))
}
