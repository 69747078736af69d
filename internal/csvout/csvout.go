// Package csvout renders clock records as comma-delimited rows.
package csvout

import (
	"fmt"
	"io"
	"strings"

	"orgclock/internal/lineage"
)

// DefaultHeader names the fields emitted by the default row function, in
// order. Callers substituting a RowFunc are responsible for keeping the
// header in sync.
const DefaultHeader = "task,parents,category,start,end,effort,ishabit,tags"

// DefaultSeparator joins the parents path in the default row.
const DefaultSeparator = "/"

// RowFunc maps one record to a delimited line (without the trailing
// newline). Custom implementations may reach arbitrary property-drawer
// data through Record.Property.
type RowFunc func(r lineage.Record) string

// Options configures the formatter. Zero values take the defaults.
type Options struct {
	Header    string
	Separator string
	RowFunc   RowFunc
}

func (o Options) withDefaults() Options {
	if o.Header == "" {
		o.Header = DefaultHeader
	}
	if o.Separator == "" {
		o.Separator = DefaultSeparator
	}
	if o.RowFunc == nil {
		sep := o.Separator
		o.RowFunc = func(r lineage.Record) string { return Row(r, sep) }
	}
	return o
}

// Escape quotes a field for CSV output. A field containing a double
// quote is wrapped in quotes with internal quotes doubled; a field
// containing a comma is wrapped in quotes; anything else passes through
// verbatim. Newlines are assumed absent.
func Escape(field string) string {
	if strings.Contains(field, `"`) {
		return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	if strings.Contains(field, ",") {
		return `"` + field + `"`
	}
	return field
}

// Row renders the default field order: task, parents (joined with sep,
// farthest ancestor first), category, start, end, effort, habit flag,
// tags (colon-joined).
func Row(r lineage.Record, sep string) string {
	habit := ""
	if r.Habit {
		habit = "t"
	}
	fields := []string{
		r.Task,
		strings.Join(r.Parents, sep),
		r.Category,
		r.Start,
		r.End,
		r.Effort,
		habit,
		strings.Join(r.Tags, ":"),
	}
	for i, f := range fields {
		fields[i] = Escape(f)
	}
	return strings.Join(fields, ",")
}

// Write emits the header line followed by one formatted row per record,
// each newline-terminated.
func Write(w io.Writer, records []lineage.Record, opts Options) error {
	opts = opts.withDefaults()

	if _, err := fmt.Fprintln(w, opts.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		if _, err := fmt.Fprintln(w, opts.RowFunc(r)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	return nil
}
