package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/screener/pkg/screener/screen"
	"github.com/komsit37/screener/pkg/screener/types"
)

func TestDefaults(t *testing.T) {
	c, err := Load(New(filepath.Join(t.TempDir(), "missing.env")))
	require.NoError(t, err)

	assert.Equal(t, "https://yfapi.net/v6/finance/quote", c.Endpoint)
	assert.Equal(t, "US", c.Region)
	assert.Equal(t, "en", c.Lang)
	assert.Equal(t, 30*time.Second, c.Timeout)
	assert.Equal(t, types.MaxBatchSize, c.BatchSize)
	assert.Equal(t, types.DefaultEligibility, c.Eligibility)
	assert.Equal(t, screen.DefaultThresholds, c.Thresholds)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SCREENER_API_KEY", " k123 ")
	t.Setenv("SCREENER_SCREEN_MIN_DIVIDEND_YIELD", "0.03")
	t.Setenv("SCREENER_BATCH_SIZE", "5")

	c, err := Load(New(filepath.Join(t.TempDir(), "missing.env")))
	require.NoError(t, err)
	assert.Equal(t, "k123", c.APIKey)
	assert.Equal(t, 0.03, c.Thresholds.MinDividendYield)
	assert.Equal(t, 5, c.BatchSize)
}

func TestDotEnv(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, []byte("SCREENER_REGION=GB\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("SCREENER_REGION") })

	c, err := Load(New(env))
	require.NoError(t, err)
	assert.Equal(t, "GB", c.Region)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screener.yaml")
	require.NoError(t, os.WriteFile(path, []byte("screen:\n  max_rating: \"2.0\"\neligibility:\n  currency: gbp\n"), 0o644))

	v := New(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, ReadFile(v, path))
	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "2.0", c.Thresholds.MaxRating)
	assert.Equal(t, "gbp", c.Eligibility.Currency)
}

func TestInvalidBatchSize(t *testing.T) {
	v := New(filepath.Join(t.TempDir(), "missing.env"))
	v.Set(KeyBatchSize, 11)
	_, err := Load(v)
	assert.Error(t, err)
}
