package enrich

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/komsit37/screener/pkg/screener/cache"
	"github.com/komsit37/screener/pkg/screener/types"
)

// quoteFields are the record keys read from the source. Keys match
// case-sensitively; others are ignored.
var quoteFields = []string{
	"symbol",
	"marketCap",
	"trailingAnnualDividendYield",
	"trailingPE",
	"averageAnalystRating",
	"epsTrailingTwelveMonths",
}

// Decode parses a raw quote response body of the form
// {"quoteResponse":{"result":[...]}}.
func Decode(body []byte) ([]types.QuoteRecord, error) {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	rawResp, ok := env["quoteResponse"]
	if !ok {
		return nil, errors.New("missing quoteResponse")
	}
	var resp map[string]json.RawMessage
	if err := json.Unmarshal(rawResp, &resp); err != nil {
		return nil, fmt.Errorf("quoteResponse: %w", err)
	}
	rawResult, ok := resp["result"]
	if !ok {
		return nil, errors.New("missing quoteResponse.result")
	}
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(rawResult, &items); err != nil {
		return nil, fmt.Errorf("quoteResponse.result: %w", err)
	}
	if items == nil {
		return nil, errors.New("quoteResponse.result is null")
	}

	out := make([]types.QuoteRecord, 0, len(items))
	for i, item := range items {
		if sym, ok := item["symbol"]; !ok || string(sym) == "null" {
			return nil, fmt.Errorf("result[%d]: missing symbol", i)
		}
		known := make(map[string]json.RawMessage, len(quoteFields))
		for _, k := range quoteFields {
			if v, ok := item[k]; ok {
				known[k] = v
			}
		}
		b, err := json.Marshal(known)
		if err != nil {
			return nil, fmt.Errorf("result[%d]: %w", i, err)
		}
		var q types.QuoteRecord
		if err := json.Unmarshal(b, &q); err != nil {
			return nil, fmt.Errorf("result[%d]: %w", i, err)
		}
		out = append(out, q)
	}
	return out, nil
}

// ReadErrorKind separates a missing cache entry from an unusable one.
type ReadErrorKind int

const (
	NotFound ReadErrorKind = iota + 1
	Malformed
)

func (k ReadErrorKind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case Malformed:
		return "malformed"
	}
	return "unknown"
}

// ReadError reports why a batch has no usable cached quotes.
type ReadError struct {
	Kind ReadErrorKind
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("cache entry %s %s: %v", e.Path, e.Kind, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Reader decodes cached batch responses.
type Reader struct {
	Cache *cache.Store
}

func NewReader(store *cache.Store) *Reader { return &Reader{Cache: store} }

// Read returns the quotes cached for a batch. Callers decide whether a
// ReadError is fatal; see ReadOrEmpty.
func (r *Reader) Read(b types.SymbolBatch) ([]types.QuoteRecord, error) {
	path := r.Cache.Path(b)
	body, err := r.Cache.Read(b)
	if err != nil {
		kind := Malformed
		if errors.Is(err, os.ErrNotExist) {
			kind = NotFound
		}
		return nil, &ReadError{Kind: kind, Path: path, Err: err}
	}
	recs, err := Decode(body)
	if err != nil {
		return nil, &ReadError{Kind: Malformed, Path: path, Err: err}
	}
	log.Debug().Str("path", path).Int("records", len(recs)).Msg("cache entry decoded")
	return recs, nil
}

// ReadOrEmpty reads a batch and degrades any failure to an empty result,
// so one missing or corrupt entry does not block the other batches.
func (r *Reader) ReadOrEmpty(b types.SymbolBatch) []types.QuoteRecord {
	recs, err := r.Read(b)
	if err != nil {
		log.Warn().Err(err).Strs("symbols", b).Msg("no cached quotes for batch")
		return nil
	}
	return recs
}
