package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"orgclock/internal/csvout"
	"orgclock/internal/lineage"
	"orgclock/internal/outline"
	"orgclock/internal/parser"
)

// Worker processes a single export job.
type Worker struct {
	log     *slog.Logger
	csvOpts csvout.Options
}

func NewWorker(log *slog.Logger, csvOpts csvout.Options) *Worker {
	return &Worker{log: log, csvOpts: csvOpts}
}

// Process runs the parse -> flatten -> format chain for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)

	if ctx.Err() != nil {
		job.AddError(ctx.Err().Error())
		job.SetStatus(StatusFailed, "cancelled")
		return
	}

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	// Phase 2: Flatten
	job.SetStatus(StatusFlattening, "flattening")
	headlines, clocks := countNodes(doc)
	job.SetCounts(headlines, clocks)

	records := lineage.Flatten(doc)
	job.SetRecords(len(records))
	log.Info("flattened document", "headlines", headlines, "clocks", clocks, "records", len(records))

	// Phase 3: Format
	job.SetStatus(StatusFormatting, "formatting")
	var buf bytes.Buffer
	if err := csvout.Write(&buf, records, w.csvOpts); err != nil {
		log.Error("format failed", "error", err)
		job.AddError(fmt.Sprintf("format: %s", err))
		job.SetStatus(StatusFailed, "formatting")
		return
	}
	job.SetResult(buf.Bytes())
	job.SetStatus(StatusCompleted, "done")
}

func countNodes(doc *outline.Document) (headlines, clocks int) {
	for _, n := range doc.Nodes {
		switch n.(type) {
		case *outline.Headline:
			headlines++
		case *outline.Clock:
			clocks++
		}
	}
	return headlines, clocks
}
