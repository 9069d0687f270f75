package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/komsit37/screener/pkg/screener/types"
)

// Store keeps one raw quote response per batch in Dir.
// Files are named stocks-<first symbol>.json.
type Store struct {
	Fs  afero.Fs
	Dir string
}

// New returns a store rooted at dir.
func New(fs afero.Fs, dir string) *Store {
	return &Store{Fs: fs, Dir: dir}
}

// ForInput returns a store beside the given input file.
func ForInput(fs afero.Fs, inputPath string) *Store {
	return New(fs, filepath.Dir(inputPath))
}

// Path returns the cache file for a batch.
func (s *Store) Path(b types.SymbolBatch) string {
	return filepath.Join(s.Dir, "stocks-"+b.Key()+".json")
}

// Write stores body verbatim, replacing any earlier entry.
func (s *Store) Write(b types.SymbolBatch, body []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("cache write: empty batch")
	}
	p := s.Path(b)
	replaced := s.Exists(b)
	if err := afero.WriteFile(s.Fs, p, body, 0o644); err != nil {
		return fmt.Errorf("cache write %s: %w", p, err)
	}
	log.Debug().Str("path", p).Int("bytes", len(body)).Bool("replaced", replaced).Msg("cache entry written")
	return nil
}

// Read returns the raw entry for a batch. A missing entry yields an error
// satisfying errors.Is(err, os.ErrNotExist).
func (s *Store) Read(b types.SymbolBatch) ([]byte, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("cache read: empty batch: %w", os.ErrNotExist)
	}
	return afero.ReadFile(s.Fs, s.Path(b))
}

// Exists reports whether an entry is stored for the batch.
func (s *Store) Exists(b types.SymbolBatch) bool {
	if len(b) == 0 {
		return false
	}
	ok, err := afero.Exists(s.Fs, s.Path(b))
	return err == nil && ok
}
