package backend

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes one row per sample: the label followed by each series'
// value, under a heading row of series names.
func (c Chart) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	headings := make([]string, 0, len(c.Series)+1)
	headings = append(headings, "label")
	for _, s := range c.Series {
		headings = append(headings, s.Def.Name)
	}
	if err := cw.Write(headings); err != nil {
		return fmt.Errorf("failed writing csv headings: %w", err)
	}
	record := make([]string, len(headings))
	for i, label := range c.Labels {
		record[0] = label
		for s, series := range c.Series {
			record[s+1] = strconv.FormatFloat(series.Values[i], 'f', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed writing csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
