// Package ingest reads submission tables from CSV, XLSX, and JSON files and
// writes scored tables back out.
package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/resure-ai/resure/internal/model"
)

// Format names a supported file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", eris.Errorf("ingest: unsupported file type %q", filepath.Ext(path))
	}
}

// ReadFile loads a submission table from path, choosing the parser by extension.
func ReadFile(ctx context.Context, path string) (*model.Table, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	if format == FormatXLSX {
		return ReadXLSXTable(path, XLSXOptions{})
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	if format == FormatJSON {
		return ReadJSON(ctx, f)
	}
	return ReadCSV(ctx, f, CSVOptions{HasHeader: true})
}

// tableFromRows builds a table from a header and raw string rows, inferring
// each cell's type. Short rows read as null in their missing columns.
func tableFromRows(header []string, rows [][]string) (*model.Table, error) {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}

	records := make([]model.Record, 0, len(rows))
	for n, row := range rows {
		if len(row) > len(cols) {
			return nil, eris.Errorf("ingest: row %d has %d fields, header has %d", n+1, len(row), len(cols))
		}
		if blank(row) {
			continue
		}
		rec := make(model.Record, len(cols))
		for i, c := range cols {
			if i < len(row) {
				rec[c] = model.Infer(row[i])
			} else {
				rec[c] = model.Null()
			}
		}
		records = append(records, rec)
	}

	t, err := model.NewTable(cols, records)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: build table")
	}
	return t, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
