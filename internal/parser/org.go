package parser

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"orgclock/internal/outline"
)

// OrgParser handles org outline files.
type OrgParser struct{}

var headlineRe = regexp.MustCompile(`^(\*+)[ \t]+(.*)$`)

func (p *OrgParser) Parse(r io.Reader, filename string) (*outline.Document, error) {
	doc := &outline.Document{
		Name:     trimExt(filename, ".org"),
		Keywords: make(map[string]string),
	}

	scan := &lineScanner{doc: doc}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if m := headlineRe.FindStringSubmatch(line); m != nil {
			h := newHeadline(len(m[1]), m[2])
			doc.Nodes = append(doc.Nodes, h)
			scan.headline = h
			scan.inDrawer = false
			continue
		}
		scan.Line(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if title := doc.Keyword("TITLE"); title != "" {
		doc.Name = title
	}
	return doc, nil
}

func trimExt(filename, ext string) string {
	return strings.TrimSuffix(filename, ext)
}

var (
	todoRe   = regexp.MustCompile(`^(?:TODO|DONE|NEXT|WAITING|CANCELLED)\s+`)
	prioRe   = regexp.MustCompile(`^\[#[A-Z]\]\s+`)
	tagsRe   = regexp.MustCompile(`\s+:([[:word:]@#%:]+):\s*$`)
	cookieRe = regexp.MustCompile(`\s*\[(?:\d*/\d*|\d+%)\]`)
)

// newHeadline builds a headline from its level and raw title text:
// the TODO keyword and priority cookie are stripped, a trailing
// :tag1:tag2: group becomes the tag list, and statistics cookies are
// removed so folded metadata never leaks into the rendered title.
func newHeadline(level int, raw string) *outline.Headline {
	h := &outline.Headline{Level: level}

	text := strings.TrimSpace(raw)
	if m := tagsRe.FindStringSubmatchIndex(text); m != nil {
		h.Tags = splitTags(text[m[2]:m[3]])
		text = text[:m[0]]
	}
	text = todoRe.ReplaceAllString(text, "")
	text = prioRe.ReplaceAllString(text, "")
	text = cookieRe.ReplaceAllString(text, "")
	h.Title = strings.TrimSpace(text)
	return h
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ":") {
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// lineScanner recognizes clock lines, property drawers, and file-level
// keywords in non-headline text. It is shared by every node source: the
// org parser feeds it each body line, the markdown/html/docx parsers feed
// it the lines of their text blocks.
type lineScanner struct {
	doc      *outline.Document
	headline *outline.Headline // nil before the first headline
	inDrawer bool
}

var (
	keywordRe  = regexp.MustCompile(`^\s*#\+([A-Za-z_]+):\s*(.*?)\s*$`)
	propertyRe = regexp.MustCompile(`^\s*:([^:\s]+):\s*(.*?)\s*$`)
)

func (s *lineScanner) Line(line string) {
	trimmed := strings.TrimSpace(line)

	if s.inDrawer {
		if strings.EqualFold(trimmed, ":END:") {
			s.inDrawer = false
			return
		}
		if m := propertyRe.FindStringSubmatch(line); m != nil && s.headline != nil {
			s.setProperty(m[1], m[2])
		}
		return
	}

	if strings.EqualFold(trimmed, ":PROPERTIES:") {
		s.inDrawer = true
		return
	}

	if clock, ok := parseClockLine(trimmed); ok {
		s.doc.Nodes = append(s.doc.Nodes, clock)
		return
	}

	if m := keywordRe.FindStringSubmatch(line); m != nil {
		s.doc.Keywords[strings.ToUpper(m[1])] = m[2]
	}
}

func (s *lineScanner) setProperty(key, value string) {
	h := s.headline
	if h.Properties == nil {
		h.Properties = make(map[string]string)
	}
	h.Properties[key] = value

	switch strings.ToUpper(key) {
	case "CATEGORY":
		h.Category = value
	case "EFFORT":
		h.Effort = value
	case "STYLE":
		if strings.EqualFold(value, "habit") {
			h.Habit = true
		}
	}
}

var (
	tsRe = `(\d{4})-(\d{1,2})-(\d{1,2})(?:\s+[[:alpha:]]{2,3}\.?)?(?:\s+(\d{1,2}):(\d{2}))?`

	inactiveRangeRe = regexp.MustCompile(`^CLOCK:\s*\[` + tsRe + `\]--\[` + tsRe + `\](?:\s*=>\s*(-?\d+:\d{2}))?\s*$`)
	activeRangeRe   = regexp.MustCompile(`^CLOCK:\s*<` + tsRe + `>--<` + tsRe + `>(?:\s*=>\s*(-?\d+:\d{2}))?\s*$`)
	openClockRe     = regexp.MustCompile(`^CLOCK:\s*[\[<]` + tsRe + `[\]>]\s*$`)
)

// parseClockLine parses a CLOCK: log line. Closed clocks carry a
// timestamp range and usually a "=> H:MM" duration; a clock with a single
// timestamp is still running.
func parseClockLine(line string) (*outline.Clock, bool) {
	if !strings.HasPrefix(line, "CLOCK:") {
		return nil, false
	}

	if m := inactiveRangeRe.FindStringSubmatch(line); m != nil {
		return &outline.Clock{
			Status:   outline.ClockClosed,
			Kind:     outline.KindInactiveRange,
			Start:    parseTimestamp(m[1:6]),
			End:      parseTimestamp(m[6:11]),
			Duration: m[11],
		}, true
	}
	if m := activeRangeRe.FindStringSubmatch(line); m != nil {
		return &outline.Clock{
			Status:   outline.ClockClosed,
			Kind:     outline.KindActiveRange,
			Start:    parseTimestamp(m[1:6]),
			End:      parseTimestamp(m[6:11]),
			Duration: m[11],
		}, true
	}
	if m := openClockRe.FindStringSubmatch(line); m != nil {
		return &outline.Clock{
			Status: outline.ClockRunning,
			Kind:   outline.KindPoint,
			Start:  parseTimestamp(m[1:6]),
		}, true
	}
	return nil, false
}

// parseTimestamp converts the five capture groups of tsRe. The time part
// is optional and defaults to 00:00.
func parseTimestamp(m []string) outline.Timestamp {
	return outline.Timestamp{
		Year:   atoi(m[0]),
		Month:  atoi(m[1]),
		Day:    atoi(m[2]),
		Hour:   atoi(m[3]),
		Minute: atoi(m[4]),
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
