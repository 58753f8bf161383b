// Package extract implements the NodeExtractor interface.
// It turns a rendered timeline page into an ordered list of node handles by:
//  1. Finding event entries with the first selector that matches (with fallbacks)
//  2. Interleaving month dividers in document order
//  3. Falling back to a title/subtitle/price heuristic when no selector matches
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/brokercsv/core"
)

// HTMLExtractor reads timeline nodes from HTML.
type HTMLExtractor struct {
	rules *Rules
}

// New creates an HTMLExtractor with the default rules.
func New() *HTMLExtractor {
	return NewWithRules(DefaultRules())
}

// NewWithRules creates an HTMLExtractor for a custom layout.
func NewWithRules(rules *Rules) *HTMLExtractor {
	return &HTMLExtractor{rules: rules}
}

// Nodes parses html and returns its timeline entries in document order.
// A page without any recognizable entry yields an empty slice, not an error.
func (e *HTMLExtractor) Nodes(rawHTML string) ([]core.TimelineNode, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	if events := e.eventSelector(doc); events != nil {
		return e.collect(doc.FindMatcher(either(events, e.rules.Divider))), nil
	}

	if nodes := e.heuristic(doc); len(nodes) > 0 {
		return nodes, nil
	}

	// Dividers alone still describe the page; the engine reports it as empty.
	return e.collect(doc.FindMatcher(e.rules.Divider)), nil
}

// eventSelector returns the first event selector that matches anything.
func (e *HTMLExtractor) eventSelector(doc *goquery.Document) cascadia.Selector {
	for _, sel := range e.rules.Events {
		if doc.FindMatcher(sel).Length() > 0 {
			return sel
		}
	}
	return nil
}

// collect classifies every matched entry.
func (e *HTMLExtractor) collect(entries *goquery.Selection) []core.TimelineNode {
	nodes := make([]core.TimelineNode, 0, entries.Length())
	entries.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, e.classify(s))
	})
	return nodes
}

func (e *HTMLExtractor) classify(s *goquery.Selection) *domNode {
	n := &domNode{sel: s, rules: e.rules}
	switch {
	case e.rules.Divider.Match(s.Get(0)):
		n.kind = kindDivider
	case n.hasEventStructure():
		n.kind = kindEvent
	}
	return n
}

// heuristic finds boxes around title elements that also hold a subtitle and
// a price, for pages whose class names no longer match any rule.
func (e *HTMLExtractor) heuristic(doc *goquery.Document) []core.TimelineNode {
	root := doc.Selection
	if timeline := doc.FindMatcher(e.rules.Timeline).First(); timeline.Length() > 0 {
		root = timeline
	}

	seen := make(map[*html.Node]bool)
	var nodes []core.TimelineNode

	root.FindMatcher(e.rules.HeuristicTitle).Each(func(_ int, title *goquery.Selection) {
		box := title.Closest(e.rules.HeuristicBox)
		if box.Length() == 0 || seen[box.Get(0)] {
			return
		}

		n := &domNode{sel: box, rules: e.rules, kind: kindEvent}
		if first(box, e.rules.Title) == nil || first(box, e.rules.Subtitle) == nil || n.price() == nil {
			return
		}

		seen[box.Get(0)] = true
		nodes = append(nodes, n)
	})

	return nodes
}

// first returns the first element matched by the earliest matching selector.
func first(s *goquery.Selection, chain []cascadia.Selector) *goquery.Selection {
	for _, sel := range chain {
		if found := s.FindMatcher(sel).First(); found.Length() > 0 {
			return found
		}
	}
	return nil
}
