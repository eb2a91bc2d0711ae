package ingest

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"

	"github.com/resure-ai/resure/internal/model"
)

// WriteCSV writes the table with a header row. Null cells are written empty.
func WriteCSV(w io.Writer, t *model.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return eris.Wrap(err, "ingest: write csv header")
	}
	row := make([]string, len(t.Columns))
	for i, r := range t.Rows {
		for j, c := range t.Columns {
			v := r.Get(c)
			if v.IsNull() {
				row[j] = ""
				continue
			}
			row[j] = v.Text()
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrapf(err, "ingest: write csv row %d", i)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "ingest: flush csv")
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "ingest: write json")
	}
	return nil
}
