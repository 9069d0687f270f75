package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/komsit37/screener/pkg/screener/cache"
	"github.com/komsit37/screener/pkg/screener/columns"
	"github.com/komsit37/screener/pkg/screener/config"
	"github.com/komsit37/screener/pkg/screener/enrich"
	"github.com/komsit37/screener/pkg/screener/filter"
	"github.com/komsit37/screener/pkg/screener/pipeline"
	"github.com/komsit37/screener/pkg/screener/render"
	"github.com/komsit37/screener/pkg/screener/source"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type flags struct {
	inputFile   string
	mode        string
	configFile  string
	format      string
	columns     string
	sets        string
	only        string
	color       bool
	pretty      bool
	maxColWidth int
}

func newRootCmd() *cobra.Command {
	var f flags
	v := config.New()

	cmd := &cobra.Command{
		Use:   "screener --input-file <tickers.csv> [--mode save --api-key KEY]",
		Short: "Screen ISA-eligible US equities for value and quality",
		Long: "Loads a ticker reference file, keeps USD, ISA eligible, PLUS only rows, and either\n" +
			"saves quotes for them beside the file (--mode save) or screens the saved quotes.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return errors.New("accepts at most 1 input file argument")
			}
			if len(args) == 1 && f.inputFile == "" {
				f.inputFile = args[0]
			}
			if f.inputFile == "" {
				return errors.New("--input-file is required")
			}
			return nil
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ReadFile(v, f.configFile); err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			if err := setupLogging(cfg.LogLevel); err != nil {
				return err
			}
			return run(cmd.Context(), f, cfg)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.inputFile, "input-file", "", "The input filename with full path")
	fl.StringVar(&f.mode, "mode", "parse", "Use 'save' to fetch quotes into the cache; anything else screens cached quotes")
	fl.String("api-key", "", "API key for yahoofinanceapi.com (env "+config.EnvPrefix+"_API_KEY)")
	fl.StringVar(&f.configFile, "config", "", "Optional config file (YAML)")
	fl.StringVarP(&f.format, "format", "f", "table", "Output format: table, json or syms")
	fl.StringVarP(&f.columns, "columns", "c", "", "Comma-separated columns (symbol,company,market_cap,dividend_yield,rating,pe,eps)")
	fl.StringVar(&f.sets, "sets", columns.DefaultSet, "Comma-separated column sets (default, fundamentals)")
	fl.StringVar(&f.only, "only", "", "Restrict symbols: list, glob, /regex/ or substring; prefix ! to exclude")
	fl.BoolVar(&f.color, "color", true, "Colorize table output")
	fl.BoolVar(&f.pretty, "pretty", false, "Indent JSON output")
	fl.IntVar(&f.maxColWidth, "max-col-width", 0, "Wrap table cells wider than this (0: fit terminal)")
	fl.Int("batch-size", 10, "Symbols per request (1-10)")
	fl.String("log-level", "info", "Log level: debug, info, warn, error")

	_ = v.BindPFlag(config.KeyAPIKey, fl.Lookup("api-key"))
	_ = v.BindPFlag(config.KeyBatchSize, fl.Lookup("batch-size"))
	_ = v.BindPFlag(config.KeyLogLevel, fl.Lookup("log-level"))
	return cmd
}

func run(ctx context.Context, f flags, cfg config.Config) error {
	fs := afero.NewOsFs()
	store := cache.ForInput(fs, f.inputFile)
	mode := pipeline.ParseMode(f.mode)

	renderer, err := render.ForFormat(f.format)
	if err != nil {
		return err
	}
	defs, err := resolveColumns(f)
	if err != nil {
		return err
	}
	universe, err := filter.Parse(f.only)
	if err != nil {
		return err
	}

	runner := &pipeline.Runner{
		Source:   source.ForPath(fs, f.inputFile),
		Cache:    store,
		Renderer: renderer,
		Writer:   os.Stdout,
	}
	if cfg.APIKey != "" {
		runner.Saver = enrich.NewFetcher(cfg.APIKey, store, cfg.FetchOptions())
	}

	_, err = runner.Execute(ctx, f.inputFile, pipeline.ExecuteOptions{
		Mode:        mode,
		Eligibility: cfg.Eligibility,
		Universe:    universe,
		BatchSize:   cfg.BatchSize,
		Criteria:    cfg.Thresholds.Criteria(),
		Render: render.RenderOptions{
			Columns:     defs,
			Formatter:   columns.DefaultFormatter,
			Color:       f.color,
			PrettyJSON:  f.pretty,
			MaxColWidth: maxColWidth(f.maxColWidth, len(defs)),
		},
	})
	if errors.Is(err, pipeline.ErrMissingCredential) {
		return fmt.Errorf("%w: pass --api-key or set %s_API_KEY", err, config.EnvPrefix)
	}
	return err
}

func resolveColumns(f flags) ([]columns.Def, error) {
	if strings.TrimSpace(f.columns) != "" {
		return columns.Resolve(strings.Split(f.columns, ","))
	}
	keys, err := columns.ExpandSets(strings.Split(f.sets, ","))
	if err != nil {
		return nil, err
	}
	return columns.Resolve(keys)
}

// maxColWidth shares the terminal width between columns unless set explicitly.
func maxColWidth(explicit, ncols int) int {
	if explicit > 0 || ncols == 0 {
		return explicit
	}
	w := detectTerminalWidth()
	if w <= 0 {
		return 0
	}
	return max(w/ncols, 12)
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).Level(lvl)
	return nil
}
