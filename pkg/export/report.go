package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
)

// RunReport summarizes one extraction run over one or more documents.
type RunReport struct {
	// RunID uniquely identifies the run.
	RunID string `json:"run_id"`

	// StartedAt and FinishedAt bound the run wall-clock time.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Documents lists the per-document outcomes in processing order.
	Documents []DocumentResult `json:"documents"`

	// TotalRecords is the record count summed over all documents.
	TotalRecords int `json:"total_records"`

	// Failed is the number of documents that produced an error.
	Failed int `json:"failed"`
}

// DocumentResult is the outcome of processing one document.
type DocumentResult struct {
	// Source is the input path or label of the document.
	Source string `json:"source"`

	// Records is the number of records extracted from it.
	Records int `json:"records"`

	// Error holds the processing error, empty on success.
	Error string `json:"error,omitempty"`
}

// NewRunReport starts a report for a new run.
func NewRunReport() *RunReport {
	return &RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
}

// Add records the outcome of one document.
func (r *RunReport) Add(source string, records int, err error) {
	result := DocumentResult{Source: source, Records: records}
	if err != nil {
		result.Error = err.Error()
		r.Failed++
	}
	r.Documents = append(r.Documents, result)
	r.TotalRecords += records
}

// Finish stamps the end time.
func (r *RunReport) Finish() {
	r.FinishedAt = time.Now().UTC()
}

// WriteJSON writes the report as indented JSON.
func (r *RunReport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding run report: %w", err)
	}
	return nil
}

// Save writes the report to a JSON file.
func (r *RunReport) Save(path string) error {
	return saveTo(path, func(f *os.File) error {
		return r.WriteJSON(f)
	})
}
