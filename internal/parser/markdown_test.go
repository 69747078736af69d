package parser

import (
	"strings"
	"testing"

	"orgclock/internal/outline"
)

func TestMarkdownParser_HeadingHierarchy(t *testing.T) {
	input := `# Project

Intro text.

## Task one :work:

CLOCK: [2023-01-01 Sun 09:00]--[2023-01-01 Sun 10:30] => 1:30

## Task two
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "log.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Name != "log" {
		t.Errorf("expected document name %q, got %q", "log", doc.Name)
	}

	hs := headlines(doc)
	if len(hs) != 3 {
		t.Fatalf("expected 3 headlines, got %d", len(hs))
	}
	if hs[0].Level != 1 || hs[0].Title != "Project" {
		t.Errorf("expected level-1 %q, got level-%d %q", "Project", hs[0].Level, hs[0].Title)
	}
	if hs[1].Level != 2 || hs[1].Title != "Task one" {
		t.Errorf("expected level-2 %q, got level-%d %q", "Task one", hs[1].Level, hs[1].Title)
	}
	if len(hs[1].Tags) != 1 || hs[1].Tags[0] != "work" {
		t.Errorf("expected tags [work], got %v", hs[1].Tags)
	}

	cs := clocks(doc)
	if len(cs) != 1 {
		t.Fatalf("expected 1 clock, got %d", len(cs))
	}
	if cs[0].Start.String() != "2023-01-01 09:00" {
		t.Errorf("expected start %q, got %q", "2023-01-01 09:00", cs[0].Start)
	}

	// The clock must sit between Task one and Task two in the sequence.
	var order []string
	for _, n := range doc.Nodes {
		switch node := n.(type) {
		case *outline.Headline:
			order = append(order, node.Title)
		case *outline.Clock:
			order = append(order, "CLOCK")
		}
	}
	want := []string{"Project", "Task one", "CLOCK", "Task two"}
	if len(order) != len(want) {
		t.Fatalf("expected sequence %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected sequence %v, got %v", want, order)
		}
	}
}

func TestMarkdownParser_ClockInCodeBlock(t *testing.T) {
	input := "# Task\n\n```\nCLOCK: [2023-01-01 Sun 09:00]--[2023-01-01 Sun 10:00] => 1:00\n```\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "log.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(clocks(doc)); got != 1 {
		t.Fatalf("expected 1 clock from code block, got %d", got)
	}
}

func TestMarkdownParser_PropertyDrawerInBody(t *testing.T) {
	input := `# Workout

:PROPERTIES:
:CATEGORY: health
:STYLE: habit
:END:
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "log.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hs := headlines(doc)
	if len(hs) != 1 {
		t.Fatalf("expected 1 headline, got %d", len(hs))
	}
	if hs[0].Category != "health" {
		t.Errorf("expected category %q, got %q", "health", hs[0].Category)
	}
	if !hs[0].Habit {
		t.Error("expected habit flag set")
	}
}

func TestMarkdownParser_NoHeadings(t *testing.T) {
	input := "Just some text.\n\nNo clocks here either.\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "plain.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Nodes) != 0 {
		t.Errorf("expected 0 nodes, got %d", len(doc.Nodes))
	}
}

func TestHTMLParser_HeadingsAndClocks(t *testing.T) {
	input := `<html><head><title>Work Log</title></head><body>
<h1>Project :work:</h1>
<p>CLOCK: [2023-03-01 Wed 10:00]--[2023-03-01 Wed 11:00] => 1:00</p>
<h2>Subtask</h2>
</body></html>`
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "log.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Name != "Work Log" {
		t.Errorf("expected document name %q, got %q", "Work Log", doc.Name)
	}
	hs := headlines(doc)
	if len(hs) != 2 {
		t.Fatalf("expected 2 headlines, got %d", len(hs))
	}
	if hs[0].Title != "Project" || len(hs[0].Tags) != 1 || hs[0].Tags[0] != "work" {
		t.Errorf("expected %q with tags [work], got %q %v", "Project", hs[0].Title, hs[0].Tags)
	}
	if hs[1].Level != 2 {
		t.Errorf("expected level 2, got %d", hs[1].Level)
	}
	if got := len(clocks(doc)); got != 1 {
		t.Fatalf("expected 1 clock, got %d", got)
	}
}

func TestHTMLParser_HeadingInsideHeaderElement(t *testing.T) {
	input := `<html><body>
<header><h1>Project</h1></header>
<nav><h2>Not a headline</h2></nav>
<p>CLOCK: [2023-03-01 Wed 10:00]--[2023-03-01 Wed 11:00] => 1:00</p>
</body></html>`
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "log.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hs := headlines(doc)
	if len(hs) != 1 {
		t.Fatalf("expected 1 headline, got %d", len(hs))
	}
	if hs[0].Level != 1 || hs[0].Title != "Project" {
		t.Errorf("expected level-1 %q, got level-%d %q", "Project", hs[0].Level, hs[0].Title)
	}
	if got := len(clocks(doc)); got != 1 {
		t.Fatalf("expected 1 clock, got %d", got)
	}
}
