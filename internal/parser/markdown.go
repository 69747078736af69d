package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"orgclock/internal/outline"
)

// MarkdownParser handles Markdown files using goldmark. Headings supply
// the outline levels; clock lines, property drawers, and `#+KEY:` lines
// are recognized inside the body text.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*outline.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	root := md.Parser().Parse(reader)

	doc := &outline.Document{
		Name:     trimExt(trimExt(filename, ".md"), ".markdown"),
		Keywords: make(map[string]string),
	}
	scan := &lineScanner{doc: doc}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if heading, ok := n.(*ast.Heading); ok {
			h := newHeadline(heading.Level, string(heading.Text(src)))
			doc.Nodes = append(doc.Nodes, h)
			scan.headline = h
			scan.inDrawer = false
			continue
		}
		for _, line := range strings.Split(extractText(n, src), "\n") {
			scan.Line(line)
		}
	}

	if title := doc.Keyword("TITLE"); title != "" {
		doc.Name = title
	}
	return doc, nil
}

// extractText gets the text content of a goldmark AST node, one source
// line per output line so the line scanner sees clock entries intact.
func extractText(n ast.Node, src []byte) string {
	// Raw blocks (fenced/indented code) have no inline children; take
	// their source lines verbatim.
	if n.Type() == ast.TypeBlock && n.FirstChild() == nil {
		var buf bytes.Buffer
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}

	var parts []string
	var inline bytes.Buffer
	flush := func() {
		if inline.Len() > 0 {
			parts = append(parts, inline.String())
			inline.Reset()
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			inline.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				inline.WriteByte('\n')
			}
			continue
		}
		if c.Type() == ast.TypeInline {
			inline.WriteString(extractText(c, src))
			continue
		}
		// Nested block (list item, blockquote): its lines stand alone.
		flush()
		parts = append(parts, extractText(c, src))
	}
	flush()
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
