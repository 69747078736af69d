package parser

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"orgclock/internal/outline"
)

// HTMLParser handles HTML files. h1-h6 tags supply the outline levels.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*outline.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &outline.Document{
		Name:     trimExt(trimExt(filename, ".html"), ".htm"),
		Keywords: make(map[string]string),
	}
	if title := findTitle(root); title != "" {
		doc.Name = title
	}
	scan := &lineScanner{doc: doc}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				h := newHeadline(level, textContent(n))
				doc.Nodes = append(doc.Nodes, h)
				scan.headline = h
				scan.inDrawer = false
				return // Heading text already extracted.
			}

			// Skip non-content elements. The header element is not
			// pruned: documents often put their top heading inside it.
			switch n.Data {
			case "script", "style", "nav", "footer":
				return
			case "p", "li", "td", "blockquote", "pre":
				for _, line := range strings.Split(textContent(n), "\n") {
					scan.Line(line)
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(root); body != nil {
		walk(body)
	} else {
		walk(root)
	}

	return doc, nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && n.Data == "br" {
			buf.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
