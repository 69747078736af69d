package outline

import "fmt"

// Document is one parsed outline: a pre-order sequence of headline and
// clock nodes plus the file-level keywords (`#+KEY: value`).
type Document struct {
	Name     string            // Document title (from keywords or filename)
	Keywords map[string]string // File-level keywords, keys upper-cased
	Nodes    []Node            // Pre-order node sequence
}

// Keyword returns a file-level keyword value, or "" if unset.
func (d *Document) Keyword(key string) string {
	return d.Keywords[key]
}

// DefaultCategory is the document-level category fallback.
func (d *Document) DefaultCategory() string {
	return d.Keyword("CATEGORY")
}

// Node is either a *Headline or a *Clock.
type Node interface {
	node()
}

// Headline is a titled outline node nested by level.
type Headline struct {
	Level      int               // Nesting depth, >= 1
	Title      string            // Rendered title, statistics cookies stripped
	Tags       []string          // Own tags in source order
	Category   string            // CATEGORY property ("" if unset)
	Effort     string            // Effort estimate ("" if unset)
	Habit      bool              // STYLE: habit
	Properties map[string]string // Full property drawer (nil if none)
}

func (*Headline) node() {}

// ClockStatus says whether a clock interval has been closed out.
type ClockStatus string

const (
	ClockClosed  ClockStatus = "closed"
	ClockRunning ClockStatus = "running"
)

// TimestampKind distinguishes inactive ranges (plain log entries) from
// active ranges (agenda-visible) and single points (a still-open clock).
type TimestampKind string

const (
	KindInactiveRange TimestampKind = "inactive-range"
	KindActiveRange   TimestampKind = "active-range"
	KindPoint         TimestampKind = "point"
)

// Clock is one logged work interval under a headline.
type Clock struct {
	Status   ClockStatus
	Kind     TimestampKind
	Start    Timestamp
	End      Timestamp // Zero value while the clock is running
	Duration string    // As written in the source, e.g. "1:30"
}

func (*Clock) node() {}

// Timestamp is a wall-clock minute with no timezone.
type Timestamp struct {
	Year, Month, Day, Hour, Minute int
}

// String renders the timestamp as "YYYY-MM-DD HH:MM" with the month
// through minute fields zero-padded.
func (t Timestamp) String() string {
	return fmt.Sprintf("%d-%02d-%02d %02d:%02d", t.Year, t.Month, t.Day, t.Hour, t.Minute)
}

// IsZero reports whether the timestamp is unset.
func (t Timestamp) IsZero() bool {
	return t == Timestamp{}
}
