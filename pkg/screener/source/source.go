package source

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/komsit37/screener/pkg/screener/types"
)

// Source loads a reference table from a path.
type Source interface {
	Load(ctx context.Context, path string) (types.ReferenceTable, error)
}

// Required reference columns, in file-header spelling.
const (
	ColSymbol      = "Symbol"
	ColTitle       = "Title"
	ColCurrency    = "Currency"
	ColISAEligible = "ISA_eligible"
	ColPlusOnly    = "PLUS_only"
)

var requiredColumns = []string{ColSymbol, ColTitle, ColCurrency, ColISAEligible, ColPlusOnly}

// ForPath picks a source from the file extension; anything that is not YAML is read as CSV.
func ForPath(fs afero.Fs, path string) Source {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAMLSource{Fs: fs}
	default:
		return CSVSource{Fs: fs}
	}
}

// SchemaError reports a reference file that lacks a required column or holds
// a value of the wrong type.
type SchemaError struct {
	Path   string
	Column string
	Row    int // 1-based data row; 0 when the problem is in the header
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Row > 0 {
		return e.Path + ": row " + strconv.Itoa(e.Row) + ", column " + e.Column + ": " + e.Reason
	}
	return e.Path + ": column " + e.Column + ": " + e.Reason
}

// parseBool accepts the spellings common spreadsheet exports use.
// An empty cell is a missing value and reads as false.
func parseBool(s string) (bool, bool) {
	switch strings.TrimSpace(s) {
	case "true", "True", "TRUE", "1":
		return true, true
	case "false", "False", "FALSE", "0", "":
		return false, true
	}
	return false, false
}
