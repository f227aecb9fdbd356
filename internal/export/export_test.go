package export

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"testing"

	"github.com/newsreach/newsreach/internal/scraper"
)

func sampleRecords() []scraper.Record {
	date := "2024-01-01"
	name := "Jane Doe"
	email := "jane@ex.com"
	confidence := 0.8
	return []scraper.Record{
		{
			URL:                  "https://ex.com/1",
			Title:                "Big Story",
			Author:               "Jane Doe",
			SourceDomain:         "ex.com",
			DatePublish:          &date,
			FullName:             &name,
			Email:                &email,
			Confidence:           &confidence,
			RocketReachConnected: true,
		},
		{URL: "https://ex.com/2"},
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv back: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if !reflect.DeepEqual(rows[0], CSVHeader) {
		t.Fatalf("header = %v, want %v", rows[0], CSVHeader)
	}
	want := []string{"Big Story", "Jane Doe", "ex.com", "2024-01-01", "https://ex.com/1"}
	if !reflect.DeepEqual(rows[1], want) {
		t.Fatalf("row 1 = %v, want %v", rows[1], want)
	}
	// Null fields render as empty cells.
	wantEmpty := []string{"", "", "", "", "https://ex.com/2"}
	if !reflect.DeepEqual(rows[2], wantEmpty) {
		t.Fatalf("row 2 = %v, want %v", rows[2], wantEmpty)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	records := sampleRecords()
	var buf bytes.Buffer
	if err := WriteJSON(&buf, records); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, records)
	}
}

func TestWriteJSONEmptySet(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if got := buf.String(); got != "[]\n" {
		t.Fatalf("WriteJSON(nil) = %q, want %q", got, "[]\n")
	}
}

func TestFormatConfidence(t *testing.T) {
	t.Parallel()

	if got := FormatConfidence(nil); got != "" {
		t.Fatalf("FormatConfidence(nil) = %q, want empty", got)
	}
	c := 0.85
	if got := FormatConfidence(&c); got != "85%" {
		t.Fatalf("FormatConfidence(0.85) = %q, want 85%%", got)
	}
	zero := 0.0
	if got := FormatConfidence(&zero); got != "0%" {
		t.Fatalf("FormatConfidence(0) = %q, want 0%%", got)
	}
}
