// Package lineage flattens an outline node sequence into clock records.
// It reconstructs the ancestor chain of every node from levels alone,
// resolves inherited tags and categories along that chain, and emits one
// record per closed, inactive-range clock in visitation order.
package lineage

import "orgclock/internal/outline"

// Frame is the reconstructed state of one headline on the ancestry stack.
// Frames stay referenced by emitted records after they are popped.
type Frame struct {
	ID            int // Assigned in visitation order, starting at 1
	ParentID      int // 0 when the parent is the document root
	Level         int
	Title         string
	OwnTags       []string
	InheritedTags []string // Ancestor tags first, deduplicated keep-first
	Category      string   // Resolved: own, else ancestor, else document default
	Effort        string
	Habit         bool
	Properties    map[string]string

	parent *Frame // nil only on the root sentinel
}

// Parents returns the ancestor titles of the frame, farthest first,
// excluding the frame's own title.
func (f *Frame) Parents() []string {
	var titles []string
	for p := f.parent; p != nil && p.parent != nil; p = p.parent {
		titles = append(titles, p.Title)
	}
	// Collected nearest-first; reverse.
	for i, j := 0, len(titles)-1; i < j; i, j = i+1, j-1 {
		titles[i], titles[j] = titles[j], titles[i]
	}
	return titles
}

// Property looks up a property-drawer value on the frame, falling back
// through the ancestor chain, then to def.
func (f *Frame) Property(key, def string) string {
	for p := f; p != nil; p = p.parent {
		if v, ok := p.Properties[key]; ok {
			return v
		}
	}
	return def
}

// Record is one exported clock row: the clock's own interval data joined
// with the resolved attributes of its enclosing headline.
type Record struct {
	Task     string   // Title of the directly enclosing headline
	Parents  []string // Ancestor titles, farthest first
	Category string
	Start    string // "YYYY-MM-DD HH:MM"
	End      string
	Effort   string
	Habit    bool
	Tags     []string // Inherited tag set
	Duration string

	frame *Frame
}

// Property exposes the enclosing frame's property lookup to custom row
// formatters, returning def when the key is absent everywhere.
func (r Record) Property(key, def string) string {
	if r.frame == nil {
		return def
	}
	return r.frame.Property(key, def)
}

// Flatten walks the pre-order node sequence of one document and returns
// its clock records in visitation order.
//
// The ancestry stack is seeded with a root sentinel at level 0 carrying
// the document default category. A headline at level L first pops every
// frame at level >= L, then, if L is more than one deeper than the top
// (a level skip, e.g. level 1 straight to level 3), re-pushes the top
// until the stack depth reaches L-1 so every node keeps a well-defined
// ancestor chain. Clock nodes attach to the top of the stack without
// mutating it; clocks seen before any headline attach to the sentinel.
func Flatten(doc *outline.Document) []Record {
	root := &Frame{Category: doc.DefaultCategory()}
	stack := []*Frame{root}
	level := 0
	nextID := 1

	var records []Record
	for _, n := range doc.Nodes {
		switch node := n.(type) {
		case *outline.Headline:
			for len(stack) > 1 && level >= node.Level {
				stack = stack[:len(stack)-1]
				level--
			}
			for level < node.Level-1 {
				stack = append(stack, stack[len(stack)-1])
				level++
			}

			top := stack[len(stack)-1]
			f := &Frame{
				ID:            nextID,
				ParentID:      top.ID,
				Level:         node.Level,
				Title:         node.Title,
				OwnTags:       node.Tags,
				InheritedTags: mergeTags(top.InheritedTags, node.Tags),
				Category:      node.Category,
				Effort:        node.Effort,
				Habit:         node.Habit,
				Properties:    node.Properties,
				parent:        top,
			}
			if f.Category == "" {
				f.Category = top.Category
			}
			nextID++
			stack = append(stack, f)
			level = node.Level

		case *outline.Clock:
			if node.Status != outline.ClockClosed || node.Kind != outline.KindInactiveRange {
				continue
			}
			top := stack[len(stack)-1]
			records = append(records, Record{
				Task:     top.Title,
				Parents:  top.Parents(),
				Category: top.Category,
				Start:    node.Start.String(),
				End:      node.End.String(),
				Effort:   top.Effort,
				Habit:    top.Habit,
				Tags:     top.InheritedTags,
				Duration: node.Duration,
				frame:    top,
			})
		}
	}
	return records
}

// mergeTags appends own tags to the inherited set, keeping the first
// occurrence of each tag so ancestor tags win the ordering.
func mergeTags(inherited, own []string) []string {
	if len(inherited) == 0 && len(own) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(inherited)+len(own))
	merged := make([]string, 0, len(inherited)+len(own))
	for _, set := range [][]string{inherited, own} {
		for _, t := range set {
			if !seen[t] {
				seen[t] = true
				merged = append(merged, t)
			}
		}
	}
	return merged
}
