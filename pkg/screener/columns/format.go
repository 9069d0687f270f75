package columns

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Formatter renders numbers for display. Construct one per run rather than
// sharing global state.
type Formatter struct {
	// PercentDigits is the maximum number of fractional digits in percentages.
	PercentDigits int32
	// Grouping inserts thousands separators into integers.
	Grouping bool
}

// DefaultFormatter shows up to two fractional percent digits and plain integers.
var DefaultFormatter = Formatter{PercentDigits: 2}

// Percent renders a ratio as a percentage, e.g. 0.0234 -> "2.34%".
// Rounding is half-to-even and trailing zeros are dropped.
func (f Formatter) Percent(ratio float64) string {
	d := decimal.NewFromFloat(ratio).Shift(2).RoundBank(f.PercentDigits)
	return d.String() + "%"
}

// Int renders an integer, grouped when f.Grouping is set.
func (f Formatter) Int(n int64) string {
	s := strconv.FormatInt(n, 10)
	if !f.Grouping {
		return s
	}
	return groupThousands(s)
}

// Float renders a float with up to digits fractional digits.
func (f Formatter) Float(v float64, digits int32) string {
	s := decimal.NewFromFloat(v).Round(digits).String()
	if !f.Grouping {
		return s
	}
	intPart, frac, _ := strings.Cut(s, ".")
	if frac != "" {
		frac = "." + frac
	}
	return groupThousands(intPart) + frac
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	out = append(out, s[:rem]...)
	for i := rem; i < len(s); i += 3 {
		out = append(out, ',')
		out = append(out, s[i:i+3]...)
	}
	return sign + string(out)
}
