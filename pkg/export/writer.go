// Package export writes extracted personnel records to CSV and JSON
// and produces the per-run report.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/coolbeans/oblik/pkg/record"
)

// Columns is the CSV column order, matching the original spreadsheet
// layout of the order-processing tool.
var Columns = []string{
	"rank", "name", "name_normal", "unit", "location",
	"type", "date", "meal", "cause", "action",
}

// row flattens a record into the column order.
func row(rec record.PersonnelRecord) []string {
	return []string{
		rec.Rank,
		rec.Name,
		rec.NameNormal,
		rec.Unit,
		rec.Location,
		rec.Type,
		rec.Date,
		rec.Meal,
		rec.Cause,
		string(rec.Action),
	}
}

// WriteCSV writes the header row and one row per record.
func WriteCSV(w io.Writer, records []record.PersonnelRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(row(rec)); err != nil {
			return fmt.Errorf("writing CSV row for %s: %w", rec.Name, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}

// WriteJSON writes the records as an indented JSON array.
func WriteJSON(w io.Writer, records []record.PersonnelRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if records == nil {
		records = []record.PersonnelRecord{}
	}
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	return nil
}

// SaveCSV writes the records to a CSV file, creating parent
// directories as needed.
func SaveCSV(path string, records []record.PersonnelRecord) error {
	return saveTo(path, func(f *os.File) error {
		return WriteCSV(f, records)
	})
}

// SaveJSON writes the records to a JSON file, creating parent
// directories as needed.
func SaveJSON(path string, records []record.PersonnelRecord) error {
	return saveTo(path, func(f *os.File) error {
		return WriteJSON(f, records)
	})
}

func saveTo(path string, write func(*os.File) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
