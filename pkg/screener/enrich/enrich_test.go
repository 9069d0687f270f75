package enrich

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/screener/pkg/screener/cache"
	"github.com/komsit37/screener/pkg/screener/types"
)

const sampleBody = `{"quoteResponse":{"result":[` +
	`{"symbol":"KO","marketCap":260000000000,"trailingAnnualDividendYield":0.0295,"trailingPE":24.1,"averageAnalystRating":"2.1 - Buy","epsTrailingTwelveMonths":2.47},` +
	`{"symbol":"PEP","marketCap":230000000000}` +
	`],"error":null}}`

func newStore() *cache.Store { return cache.New(afero.NewMemMapFs(), "/data") }

func TestFetcherSaveWritesRawBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v6/finance/quote", r.URL.Path)
		assert.Equal(t, "US", r.URL.Query().Get("region"))
		assert.Equal(t, "en", r.URL.Query().Get("lang"))
		assert.Equal(t, "KO,PEP", r.URL.Query().Get("symbols"))
		assert.Equal(t, "secret", r.Header.Get("X-API-KEY"))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(sampleBody))
	}))
	defer server.Close()

	store := newStore()
	f := NewFetcher("secret", store, Options{Endpoint: server.URL + "/v6/finance/quote"})
	b := types.SymbolBatch{"KO", "PEP"}

	require.NoError(t, f.Save(context.Background(), b))

	got, err := store.Read(b)
	require.NoError(t, err)
	assert.Equal(t, sampleBody, string(got))
}

func TestFetcherSaveNon200(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message":"Limit Exceeded"}`))
	}))
	defer server.Close()

	store := newStore()
	f := NewFetcher("secret", store, Options{Endpoint: server.URL})
	b := types.SymbolBatch{"KO"}

	err := f.Save(context.Background(), b)
	var rre *RemoteResponseError
	require.True(t, errors.As(err, &rre))
	assert.Equal(t, http.StatusTooManyRequests, rre.StatusCode)
	assert.Equal(t, []string{"KO"}, rre.Symbols)
	assert.Contains(t, rre.Error(), "Limit Exceeded")
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, store.Exists(b))
}

func TestFetcherSaveIsIdempotent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleBody))
	}))
	defer server.Close()

	store := newStore()
	f := NewFetcher("k", store, Options{Endpoint: server.URL, RequestsPerSecond: 100})
	r := NewReader(store)
	b := types.SymbolBatch{"KO", "PEP"}

	require.NoError(t, f.Save(context.Background(), b))
	first, err := r.Read(b)
	require.NoError(t, err)

	require.NoError(t, f.Save(context.Background(), b))
	second, err := r.Read(b)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFetcherSaveDoesNotValidateBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	store := newStore()
	f := NewFetcher("k", store, Options{Endpoint: server.URL})
	b := types.SymbolBatch{"KO"}

	require.NoError(t, f.Save(context.Background(), b))

	_, err := NewReader(store).Read(b)
	var re *ReadError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, Malformed, re.Kind)
}

func TestReaderRoundTrip(t *testing.T) {
	store := newStore()
	b := types.SymbolBatch{"KO", "PEP"}
	require.NoError(t, store.Write(b, []byte(sampleBody)))

	recs, err := NewReader(store).Read(b)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "KO", recs[0].Symbol)
	assert.Equal(t, types.Some(int64(260000000000)), recs[0].MarketCap)
	assert.Equal(t, types.Some(0.0295), recs[0].TrailingAnnualDividendYield)
	assert.Equal(t, types.Some("2.1 - Buy"), recs[0].AverageAnalystRating)
	assert.Equal(t, types.Some(2.47), recs[0].EPSTrailingTwelveMonths)

	assert.Equal(t, "PEP", recs[1].Symbol)
	assert.False(t, recs[1].TrailingAnnualDividendYield.Present())
	assert.False(t, recs[1].AverageAnalystRating.Present())
}

func TestReaderMissingEntry(t *testing.T) {
	r := NewReader(newStore())
	b := types.SymbolBatch{"NOPE"}

	_, err := r.Read(b)
	var re *ReadError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, NotFound, re.Kind)

	assert.Empty(t, r.ReadOrEmpty(b))
}

func TestReaderSchemaMismatch(t *testing.T) {
	cases := map[string]string{
		"no result":      `{"quoteResponse":{}}`,
		"no envelope":    `{"result":[]}`,
		"wrong type":     `{"quoteResponse":{"result":[{"symbol":"KO","marketCap":"big"}]}}`,
		"no symbol":      `{"quoteResponse":{"result":[{"marketCap":1}]}}`,
		"truncated":      `{"quoteResponse":{"result":[`,
		"null symbol":    `{"quoteResponse":{"result":[{"symbol":null}]}}`,
		"null result":    `{"quoteResponse":{"result":null}}`,
		"cased envelope": `{"QuoteResponse":{"Result":[{"SYMBOL":"KO","MarketCap":5000000000}]}}`,
		"cased symbol":   `{"quoteResponse":{"result":[{"Symbol":"KO"}]}}`,
		"fractional int": `{"quoteResponse":{"result":[{"symbol":"KO","marketCap":1.5}]}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			store := newStore()
			b := types.SymbolBatch{"KO"}
			require.NoError(t, store.Write(b, []byte(body)))

			r := NewReader(store)
			_, err := r.Read(b)
			var re *ReadError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, Malformed, re.Kind)
			assert.Empty(t, r.ReadOrEmpty(b))
		})
	}
}

func TestDecodeEmptyResult(t *testing.T) {
	recs, err := Decode([]byte(`{"quoteResponse":{"result":[]}}`))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestDecodeKeysAreCaseSensitive(t *testing.T) {
	recs, err := Decode([]byte(`{"quoteResponse":{"result":[{"symbol":"KO","MarketCap":5000000000,"marketcap":7}]}}`))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "KO", recs[0].Symbol)
	assert.False(t, recs[0].MarketCap.Present())
}
