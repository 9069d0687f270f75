package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/komsit37/screener/pkg/screener/types"
)

// YAMLSource loads the reference table from a YAML document of the form:
//
//	tickers:
//	  - Symbol: MSFT
//	    Title: Microsoft
//	    Currency: usd
//	    ISA_eligible: true
//	    PLUS_only: true
//
// A top-level list without the "tickers" key is accepted too.
type YAMLSource struct {
	Fs afero.Fs
}

func (s YAMLSource) Load(_ context.Context, path string) (types.ReferenceTable, error) {
	data, err := afero.ReadFile(s.Fs, path)
	if err != nil {
		return types.ReferenceTable{}, err
	}
	items, err := parseYAML(data)
	if err != nil {
		return types.ReferenceTable{}, fmt.Errorf("parse yaml %s: %w", path, err)
	}

	var tbl types.ReferenceTable
	for i, m := range items {
		row, err := toRow(m)
		if err != nil {
			err.Path, err.Row = path, i+1
			return types.ReferenceTable{}, err
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, nil
}

func parseYAML(data []byte) ([]map[string]any, error) {
	var root any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	var list []any
	switch n := root.(type) {
	case nil:
		return nil, nil
	case []any:
		list = n
	case map[string]any:
		t, ok := n["tickers"]
		if !ok {
			return nil, fmt.Errorf("invalid yaml: missing 'tickers'")
		}
		list, ok = t.([]any)
		if !ok && t != nil {
			return nil, fmt.Errorf("invalid yaml: 'tickers' must be a list")
		}
	default:
		return nil, fmt.Errorf("invalid yaml: expected list or map with 'tickers'")
	}

	out := make([]map[string]any, 0, len(list))
	for _, e := range list {
		m, ok := e.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("invalid yaml: ticker entry must be a map, got %T", e)
		}
		out = append(out, m)
	}
	return out, nil
}

func toRow(m map[string]any) (types.ReferenceRow, *SchemaError) {
	for _, c := range requiredColumns {
		if _, ok := m[c]; !ok {
			return types.ReferenceRow{}, &SchemaError{Column: c, Reason: "missing column"}
		}
	}
	str := func(k string) string {
		if v := m[k]; v != nil {
			return fmt.Sprint(v)
		}
		return ""
	}
	flag := func(k string) (bool, *SchemaError) {
		switch v := m[k].(type) {
		case bool:
			return v, nil
		case nil:
			return false, nil
		case string:
			if b, ok := parseBool(v); ok {
				return b, nil
			}
		case int:
			if v == 0 || v == 1 {
				return v == 1, nil
			}
		}
		return false, &SchemaError{Column: k, Reason: "not a boolean: " + strings.TrimSpace(fmt.Sprint(m[k]))}
	}

	row := types.ReferenceRow{Symbol: str(ColSymbol), Title: str(ColTitle), Currency: str(ColCurrency)}
	var err *SchemaError
	if row.ISAEligible, err = flag(ColISAEligible); err != nil {
		return row, err
	}
	if row.PlusOnly, err = flag(ColPlusOnly); err != nil {
		return row, err
	}
	return row, nil
}
