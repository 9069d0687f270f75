package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/komsit37/screener/pkg/screener/types"
)

// CSVSource reads a comma-delimited reference file with a header row.
type CSVSource struct {
	Fs afero.Fs
}

func (s CSVSource) Load(_ context.Context, path string) (types.ReferenceTable, error) {
	f, err := s.Fs.Open(path)
	if err != nil {
		return types.ReferenceTable{}, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return types.ReferenceTable{}, &SchemaError{Path: path, Column: ColSymbol, Reason: "missing header row"}
		}
		return types.ReferenceTable{}, fmt.Errorf("read header %s: %w", path, err)
	}

	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			return types.ReferenceTable{}, &SchemaError{Path: path, Column: c, Reason: "missing column"}
		}
	}

	var tbl types.ReferenceTable
	for n := 1; ; n++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return types.ReferenceTable{}, fmt.Errorf("read %s: %w", path, err)
		}
		cell := func(col string) string {
			i := idx[col]
			if i >= len(rec) {
				return ""
			}
			return rec[i]
		}
		row := types.ReferenceRow{
			Symbol:   cell(ColSymbol),
			Title:    cell(ColTitle),
			Currency: cell(ColCurrency),
		}
		var ok bool
		if row.ISAEligible, ok = parseBool(cell(ColISAEligible)); !ok {
			return types.ReferenceTable{}, &SchemaError{Path: path, Column: ColISAEligible, Row: n, Reason: "not a boolean: " + strconv.Quote(cell(ColISAEligible))}
		}
		if row.PlusOnly, ok = parseBool(cell(ColPlusOnly)); !ok {
			return types.ReferenceTable{}, &SchemaError{Path: path, Column: ColPlusOnly, Row: n, Reason: "not a boolean: " + strconv.Quote(cell(ColPlusOnly))}
		}
		tbl.Rows = append(tbl.Rows, row)
	}

	log.Debug().Str("path", path).Int("rows", len(tbl.Rows)).Msg("reference table loaded")
	return tbl, nil
}
