// Package config resolves run settings from flags, environment, an optional
// config file and a .env file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/komsit37/screener/pkg/screener/enrich"
	"github.com/komsit37/screener/pkg/screener/screen"
	"github.com/komsit37/screener/pkg/screener/types"
)

// EnvPrefix prefixes every environment variable, e.g. SCREENER_API_KEY.
const EnvPrefix = "SCREENER"

// Keys shared with cmd flag bindings.
const (
	KeyAPIKey            = "api_key"
	KeyEndpoint          = "endpoint"
	KeyRegion            = "region"
	KeyLang              = "lang"
	KeyRequestsPerSecond = "requests_per_second"
	KeyTimeout           = "timeout"
	KeyBatchSize         = "batch_size"
	KeyCurrency          = "eligibility.currency"
	KeyMinMarketCap      = "screen.min_market_cap"
	KeyMinEPS            = "screen.min_eps"
	KeyMinDividendYield  = "screen.min_dividend_yield"
	KeyMaxRating         = "screen.max_rating"
	KeyAbsentRating      = "screen.absent_rating"
	KeyLogLevel          = "log_level"
)

type Config struct {
	APIKey            string
	Endpoint          string
	Region            string
	Lang              string
	RequestsPerSecond float64
	Timeout           time.Duration
	BatchSize         int
	Eligibility       types.Eligibility
	Thresholds        screen.Thresholds
	LogLevel          string
}

// FetchOptions maps the transport settings onto enrich.Options.
func (c Config) FetchOptions() enrich.Options {
	return enrich.Options{
		Endpoint:          c.Endpoint,
		Region:            c.Region,
		Lang:              c.Lang,
		RequestsPerSecond: c.RequestsPerSecond,
		Timeout:           c.Timeout,
	}
}

// New returns a viper instance with defaults and environment binding.
// dotenv files are loaded into the process environment first; missing files
// are ignored.
func New(dotenv ...string) *viper.Viper {
	_ = godotenv.Load(dotenv...)

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	th := screen.DefaultThresholds
	v.SetDefault(KeyAPIKey, "")
	v.SetDefault(KeyEndpoint, enrich.DefaultEndpoint)
	v.SetDefault(KeyRegion, "US")
	v.SetDefault(KeyLang, "en")
	v.SetDefault(KeyRequestsPerSecond, 5.0)
	v.SetDefault(KeyTimeout, 30*time.Second)
	v.SetDefault(KeyBatchSize, types.MaxBatchSize)
	v.SetDefault(KeyCurrency, types.DefaultEligibility.Currency)
	v.SetDefault(KeyMinMarketCap, th.MinMarketCap)
	v.SetDefault(KeyMinEPS, th.MinEPS)
	v.SetDefault(KeyMinDividendYield, th.MinDividendYield)
	v.SetDefault(KeyMaxRating, th.MaxRating)
	v.SetDefault(KeyAbsentRating, th.AbsentRating)
	v.SetDefault(KeyLogLevel, "info")
	return v
}

// ReadFile merges a YAML (or any viper-supported) config file into v.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// Load resolves and validates the settings held by v.
func Load(v *viper.Viper) (Config, error) {
	c := Config{
		APIKey:            strings.TrimSpace(v.GetString(KeyAPIKey)),
		Endpoint:          v.GetString(KeyEndpoint),
		Region:            v.GetString(KeyRegion),
		Lang:              v.GetString(KeyLang),
		RequestsPerSecond: v.GetFloat64(KeyRequestsPerSecond),
		Timeout:           v.GetDuration(KeyTimeout),
		BatchSize:         v.GetInt(KeyBatchSize),
		Eligibility:       types.Eligibility{Currency: v.GetString(KeyCurrency)},
		Thresholds: screen.Thresholds{
			MinMarketCap:     v.GetInt64(KeyMinMarketCap),
			MinEPS:           v.GetFloat64(KeyMinEPS),
			MinDividendYield: v.GetFloat64(KeyMinDividendYield),
			MaxRating:        v.GetString(KeyMaxRating),
			AbsentRating:     v.GetString(KeyAbsentRating),
		},
		LogLevel: v.GetString(KeyLogLevel),
	}
	if c.BatchSize < 1 || c.BatchSize > types.MaxBatchSize {
		return Config{}, fmt.Errorf("%s must be between 1 and %d, got %d", KeyBatchSize, types.MaxBatchSize, c.BatchSize)
	}
	if c.RequestsPerSecond < 0 {
		return Config{}, fmt.Errorf("%s must not be negative", KeyRequestsPerSecond)
	}
	return c, nil
}
