package batch

import (
	"iter"

	"github.com/komsit37/screener/pkg/screener/types"
)

// Batches yields consecutive groups of size symbols; only the last may be
// shorter. Order is preserved and nothing is deduplicated. A size outside
// 1..types.MaxBatchSize falls back to types.MaxBatchSize.
func Batches(symbols []string, size int) iter.Seq[types.SymbolBatch] {
	if size <= 0 || size > types.MaxBatchSize {
		size = types.MaxBatchSize
	}
	return func(yield func(types.SymbolBatch) bool) {
		for start := 0; start < len(symbols); start += size {
			end := min(start+size, len(symbols))
			if !yield(types.SymbolBatch(symbols[start:end:end])) {
				return
			}
		}
	}
}

