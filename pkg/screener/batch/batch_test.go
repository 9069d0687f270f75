package batch

import (
	"fmt"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/komsit37/screener/pkg/screener/types"
)

func collect(seq iter.Seq[types.SymbolBatch]) []types.SymbolBatch {
	var out []types.SymbolBatch
	for b := range seq {
		out = append(out, b)
	}
	return out
}

func symbols(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("S%02d", i)
	}
	return out
}

func TestBatchesSizes(t *testing.T) {
	cases := []struct {
		n    int
		want []int
	}{
		{0, nil},
		{1, []int{1}},
		{10, []int{10}},
		{11, []int{10, 1}},
		{23, []int{10, 10, 3}},
		{30, []int{10, 10, 10}},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.n), func(t *testing.T) {
			in := symbols(tc.n)
			var sizes []int
			var flat []string
			for b := range Batches(in, 10) {
				sizes = append(sizes, len(b))
				flat = append(flat, b...)
			}
			assert.Equal(t, tc.want, sizes)
			if tc.n > 0 {
				assert.Equal(t, in, flat)
			}
		})
	}
}

func TestBatchesKeepDuplicates(t *testing.T) {
	got := collect(Batches([]string{"A", "A", "B"}, 2))
	assert.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Key())
	assert.Equal(t, "B", got[1].Key())
}

func TestBatchesClampSize(t *testing.T) {
	assert.Len(t, collect(Batches(symbols(25), 0)), 3)
	assert.Len(t, collect(Batches(symbols(25), 50)), 3)
	assert.Len(t, collect(Batches(symbols(25), 5)), 5)
}

func TestBatchesStopEarly(t *testing.T) {
	seen := 0
	for range Batches(symbols(50), 10) {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestBatchesDoNotAlias(t *testing.T) {
	in := symbols(12)
	got := collect(Batches(in, 10))
	got[0] = append(got[0], "X")
	assert.Equal(t, "S10", in[10])
}
