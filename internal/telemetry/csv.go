// Package telemetry exports session trajectories as CSV and summarizes
// population series.
package telemetry

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/roach88/hexlife/internal/session"
)

// TickRecord is one CSV row.
type TickRecord struct {
	Seq         int64  `csv:"seq"`
	Epoch       int    `csv:"epoch"`
	Seed        int64  `csv:"seed"`
	Generation  int    `csv:"generation"`
	Verdict     string `csv:"verdict"`
	Label       string `csv:"label"`
	Alive       int    `csv:"alive"`
	Fingerprint string `csv:"fingerprint"`
	Reseeded    bool   `csv:"reseeded"`
	Halted      bool   `csv:"halted"`
}

// RecordOf converts a tick to its CSV row.
func RecordOf(t session.Tick) TickRecord {
	return TickRecord{
		Seq:         t.Seq,
		Epoch:       t.Epoch,
		Seed:        t.Seed,
		Generation:  t.Generation,
		Verdict:     t.Verdict.String(),
		Label:       t.Label.String(),
		Alive:       t.Alive,
		Fingerprint: t.Fingerprint.String(),
		Reseeded:    t.Reseeded,
		Halted:      t.Halted,
	}
}

// CSVWriter appends tick rows to w, writing the header with the first row.
type CSVWriter struct {
	w             io.Writer
	headerWritten bool
	rows          int
}

// NewCSVWriter creates a writer over w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: w}
}

// Write appends one tick.
func (c *CSVWriter) Write(t session.Tick) error {
	return c.WriteRecords([]TickRecord{RecordOf(t)})
}

// WriteRecords appends rows.
func (c *CSVWriter) WriteRecords(records []TickRecord) error {
	if len(records) == 0 {
		return nil
	}
	if !c.headerWritten {
		if err := gocsv.Marshal(records, c.w); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		c.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, c.w); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
	}
	c.rows += len(records)
	return nil
}

// Rows returns the number of rows written.
func (c *CSVWriter) Rows() int { return c.rows }

// ReadRecords parses CSV previously produced by CSVWriter.
func ReadRecords(r io.Reader) ([]TickRecord, error) {
	var records []TickRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("reading telemetry: %w", err)
	}
	return records, nil
}
