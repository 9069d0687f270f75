package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/komsit37/screener/pkg/screener/batch"
	"github.com/komsit37/screener/pkg/screener/cache"
	"github.com/komsit37/screener/pkg/screener/enrich"
	"github.com/komsit37/screener/pkg/screener/filter"
	"github.com/komsit37/screener/pkg/screener/render"
	"github.com/komsit37/screener/pkg/screener/screen"
	"github.com/komsit37/screener/pkg/screener/source"
	"github.com/komsit37/screener/pkg/screener/types"
)

// Mode selects between fetching quotes into the cache and screening from it.
type Mode string

const (
	ModeParse Mode = "parse"
	ModeSave  Mode = "save"
)

// ParseMode maps the --mode flag; only "save" saves, anything else parses.
func ParseMode(s string) Mode {
	if s == string(ModeSave) {
		return ModeSave
	}
	return ModeParse
}

// ErrMissingCredential is returned for save mode without an API key.
var ErrMissingCredential = errors.New("an API key is required to save stock data")

type Runner struct {
	Source source.Source
	Cache  *cache.Store
	// Saver is nil when no credential was supplied.
	Saver    enrich.Saver
	Renderer render.Renderer
	Writer   io.Writer
}

type ExecuteOptions struct {
	Mode        Mode
	Eligibility types.Eligibility
	// Universe further restricts eligible symbols; nil keeps all.
	Universe  filter.Filter
	BatchSize int
	// Criteria defaults to screen.DefaultCriteria when nil.
	Criteria []screen.Predicate
	Render   render.RenderOptions
}

// Result summarises a run.
type Result struct {
	Eligible  int
	Batches   int
	Quotes    int
	Shortlist []types.ScreenedRow
}

// Execute runs one pass over the reference file at path. Batches are handled
// one at a time; in save mode the first failed request ends the run and
// entries written for earlier batches are kept.
func (r *Runner) Execute(ctx context.Context, path string, opts ExecuteOptions) (Result, error) {
	if opts.Mode == ModeSave && r.Saver == nil {
		return Result{}, ErrMissingCredential
	}

	tbl, err := r.Source.Load(ctx, path)
	if err != nil {
		return Result{}, err
	}
	eligible := filter.Apply(tbl.Eligible(opts.Eligibility), opts.Universe)
	log.Info().Int("rows", len(tbl.Rows)).Int("eligible", len(eligible.Rows)).Msg("reference table filtered")
	for _, row := range eligible.Rows {
		log.Debug().Str("symbol", row.Symbol).Str("title", row.Title).Msg("eligible")
	}

	res := Result{Eligible: len(eligible.Rows)}
	batches := batch.Batches(eligible.Symbols(), opts.BatchSize)

	if opts.Mode == ModeSave {
		for b := range batches {
			if err := r.Saver.Save(ctx, b); err != nil {
				return res, fmt.Errorf("save batch %s: %w", b.Key(), err)
			}
			res.Batches++
		}
		log.Info().Int("batches", res.Batches).Str("dir", r.Cache.Dir).Msg("stock data saved")
		_, err := fmt.Fprintf(r.Writer, "saved %d batches to %s\n", res.Batches, r.Cache.Dir)
		return res, err
	}

	reader := enrich.NewReader(r.Cache)
	var quotes []types.QuoteRecord
	for b := range batches {
		quotes = append(quotes, reader.ReadOrEmpty(b)...)
		res.Batches++
	}
	res.Quotes = len(quotes)
	for _, q := range quotes {
		log.Debug().Str("symbol", q.Symbol).
			Str("marketCap", q.MarketCap.String()).
			Str("dividendYield", q.TrailingAnnualDividendYield.String()).
			Str("pe", q.TrailingPE.String()).
			Str("rating", q.AverageAnalystRating.String()).
			Str("eps", q.EPSTrailingTwelveMonths.String()).
			Msg("quote")
	}

	criteria := opts.Criteria
	if criteria == nil {
		criteria = screen.DefaultCriteria()
	}
	res.Shortlist = screen.Run(eligible, quotes, criteria)
	log.Info().Int("batches", res.Batches).Int("quotes", res.Quotes).Int("shortlisted", len(res.Shortlist)).Msg("screen complete")

	if err := r.Renderer.Render(r.Writer, res.Shortlist, opts.Render); err != nil {
		return res, fmt.Errorf("render: %w", err)
	}
	return res, nil
}
