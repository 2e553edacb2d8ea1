package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/mckeenicholas/wca-odds-next/src/charts"
	"github.com/mckeenicholas/wca-odds-next/src/wca"
)

// WriteCSV exports a dataset as CSV: a result column (formatted in the
// event's display unit) followed by one column per series.
func WriteCSV(w io.Writer, d charts.Dataset, fmc bool) error {
	cw := csv.NewWriter(w)

	header := append([]string{"result"}, d.Labels...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("render: csv header: %w", err)
	}

	record := make([]string, len(d.Labels)+1)
	for _, row := range d.Rows {
		record[0] = wca.FormatResult(row.Key, fmc)
		for i, v := range row.Values {
			record[i+1] = strconv.FormatFloat(v, 'f', 4, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("render: csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("render: csv flush: %w", err)
	}
	return nil
}
