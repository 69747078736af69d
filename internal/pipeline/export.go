// Package pipeline runs outline documents through the parse -> flatten ->
// format chain, synchronously for batch exports and via a worker pool for
// the HTTP service.
package pipeline

import (
	"fmt"
	"io"
	"os"

	"orgclock/internal/csvout"
	"orgclock/internal/lineage"
	"orgclock/internal/parser"
)

// ExportOptions controls a batch export.
type ExportOptions struct {
	// SkipCheck disables the eager existence check on all source paths.
	SkipCheck bool
	CSV       csvout.Options
}

// Export parses each source document and concatenates their clock records
// in list order. Unless SkipCheck is set, every path is stat'd before any
// traversal begins; a missing source aborts the batch with no output.
// Any parse failure likewise aborts the whole batch.
func Export(paths []string, opts ExportOptions) ([]lineage.Record, error) {
	if !opts.SkipCheck {
		for _, path := range paths {
			if _, err := os.Stat(path); err != nil {
				return nil, fmt.Errorf("missing source %s: %w", path, err)
			}
		}
	}

	var all []lineage.Record
	for _, path := range paths {
		records, err := exportFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	return all, nil
}

func exportFile(path string) ([]lineage.Record, error) {
	p, err := parser.ForFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := p.Parse(f, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return lineage.Flatten(doc), nil
}

// WriteCSV runs Export and writes the header plus one row per record to w.
func WriteCSV(w io.Writer, paths []string, opts ExportOptions) error {
	records, err := Export(paths, opts)
	if err != nil {
		return err
	}
	return csvout.Write(w, records, opts.CSV)
}
