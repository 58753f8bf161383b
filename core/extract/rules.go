// Package extract: selector rules.
// Rules lists the CSS selectors used to locate timeline entries and their
// fields. Each field has an ordered fallback chain so that class name drift
// in the broker UI degrades gracefully instead of breaking the export.
package extract

import (
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Rules holds compiled selectors for one timeline layout.
type Rules struct {
	// Events are tried in order; the first selector matching anything wins.
	Events []cascadia.Selector
	// Divider matches month/period separators between events.
	Divider cascadia.Selector

	Title    []cascadia.Selector
	Subtitle []cascadia.Selector
	Price    []cascadia.Selector

	// CanceledClass marks a canceled amount element.
	CanceledClass string

	// Timeline, HeuristicTitle and HeuristicBox drive the last-resort scan
	// used when no event selector matches.
	Timeline       cascadia.Selector
	HeuristicTitle cascadia.Selector
	HeuristicBox   string
}

// DefaultRules returns the selectors for the V2 timeline layout.
func DefaultRules() *Rules {
	return &Rules{
		Events: []cascadia.Selector{
			cascadia.MustCompile(`.timelineV2Event`),
			cascadia.MustCompile(`[class*="timelineV2Event"]:not([class*="timelineV2Event__"])`),
		},
		Divider: cascadia.MustCompile(`.timelineMonthDivider, [class*="timelineMonthDivider"]`),
		Title: []cascadia.Selector{
			cascadia.MustCompile(`.timelineV2Event__title`),
			cascadia.MustCompile(`h2, [class*="title"]`),
		},
		Subtitle: []cascadia.Selector{
			cascadia.MustCompile(`.timelineV2Event__subtitle`),
			cascadia.MustCompile(`p, [class*="subtitle"]`),
		},
		Price: []cascadia.Selector{
			cascadia.MustCompile(`.timelineV2Event__price p`),
			cascadia.MustCompile(`.timelineV2Event__price`),
			cascadia.MustCompile(`[class*="price"] p, [class*="price"]`),
		},
		CanceledClass:  "timelineV2Event__canceled",
		Timeline:       cascadia.MustCompile(`[data-testid="timeline"], .timeline, [class*="timeline"]`),
		HeuristicTitle: cascadia.MustCompile(`h2, .title, [class*="title"]`),
		HeuristicBox:   "div, li, article",
	}
}

// either matches nodes matched by a or b, in document order.
func either(a, b cascadia.Selector) cascadia.Selector {
	return func(n *html.Node) bool {
		return a.Match(n) || b.Match(n)
	}
}
