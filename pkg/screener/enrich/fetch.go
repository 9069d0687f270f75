package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/komsit37/screener/pkg/screener/cache"
	"github.com/komsit37/screener/pkg/screener/types"
)

// DefaultEndpoint is the batch quote endpoint of yahoofinanceapi.com.
const DefaultEndpoint = "https://yfapi.net/v6/finance/quote"

// Saver fetches a batch from the remote source and stores the raw response.
type Saver interface {
	Save(ctx context.Context, b types.SymbolBatch) error
}

// Options configures a Fetcher. Zero values take defaults.
type Options struct {
	Endpoint string
	Region   string
	Lang     string
	// RequestsPerSecond spaces consecutive requests; <= 0 disables limiting.
	RequestsPerSecond float64
	Timeout           time.Duration
	HTTPClient        *http.Client
}

// Fetcher issues one request per batch and writes successful bodies to the cache.
type Fetcher struct {
	client   *http.Client
	limiter  *rate.Limiter
	cache    *cache.Store
	endpoint string
	region   string
	lang     string
	apiKey   string
}

func NewFetcher(apiKey string, store *cache.Store, opts Options) *Fetcher {
	f := &Fetcher{
		client:   opts.HTTPClient,
		cache:    store,
		endpoint: opts.Endpoint,
		region:   opts.Region,
		lang:     opts.Lang,
		apiKey:   apiKey,
		limiter:  rate.NewLimiter(rate.Inf, 1),
	}
	if f.client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		f.client = &http.Client{Timeout: timeout}
	}
	if f.endpoint == "" {
		f.endpoint = DefaultEndpoint
	}
	if f.region == "" {
		f.region = "US"
	}
	if f.lang == "" {
		f.lang = "en"
	}
	if opts.RequestsPerSecond > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return f
}

// RemoteResponseError is returned when the quote source answers with anything but 200.
type RemoteResponseError struct {
	StatusCode int
	Symbols    []string
	Body       string
}

func (e *RemoteResponseError) Error() string {
	msg := fmt.Sprintf("quote source returned %d for %s", e.StatusCode, strings.Join(e.Symbols, ","))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// maxErrorBody caps how much of a failed response is kept on the error.
const maxErrorBody = 512

// Save fetches the batch and overwrites its cache entry with the response body.
// The body is not validated here; malformed payloads surface on Read.
func (f *Fetcher) Save(ctx context.Context, b types.SymbolBatch) error {
	if len(b) == 0 {
		return nil
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := f.request(ctx, b)
	if err != nil {
		return err
	}
	log.Debug().Strs("symbols", b).Msg("requesting quotes")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", b.Key(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &RemoteResponseError{
			StatusCode: resp.StatusCode,
			Symbols:    append([]string(nil), b...),
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response for %s: %w", b.Key(), err)
	}
	return f.cache.Write(b, body)
}

func (f *Fetcher) request(ctx context.Context, b types.SymbolBatch) (*http.Request, error) {
	u, err := url.Parse(f.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", f.endpoint, err)
	}
	q := u.Query()
	q.Set("region", f.region)
	q.Set("lang", f.lang)
	q.Set("symbols", strings.Join(b, ","))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("X-API-KEY", f.apiKey)
	return req, nil
}
