// Package export serializes the result set for download and file output.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/newsreach/newsreach/internal/scraper"
)

// CSVHeader is the fixed column order consumed by downstream spreadsheets.
var CSVHeader = []string{"title", "author", "source_domain", "date_publish", "url"}

// WriteCSV writes records in the fixed column order. Null fields render as
// empty cells.
func WriteCSV(w io.Writer, records []scraper.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.Title,
			rec.Author,
			rec.SourceDomain,
			deref(rec.DatePublish),
			rec.URL,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteJSON writes all record fields as a JSON array. The output re-ingests
// losslessly through ReadJSON.
func WriteJSON(w io.Writer, records []scraper.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if records == nil {
		records = []scraper.Record{}
	}
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	return nil
}

// ReadJSON parses a JSON export back into records.
func ReadJSON(r io.Reader) ([]scraper.Record, error) {
	var records []scraper.Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

// FormatConfidence renders a confidence score as a whole percentage, the form
// the dashboard displays.
func FormatConfidence(confidence *float64) string {
	if confidence == nil {
		return ""
	}
	return strconv.Itoa(int(*confidence*100)) + "%"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
