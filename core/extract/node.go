package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/brokercsv/core"
)

type nodeKind int

const (
	kindOther nodeKind = iota
	kindDivider
	kindEvent
)

// domNode is a TimelineNode backed by a goquery selection.
type domNode struct {
	sel   *goquery.Selection
	rules *Rules
	kind  nodeKind
}

func (n *domNode) IsDivider() bool { return n.kind == kindDivider }
func (n *domNode) IsEvent() bool   { return n.kind == kindEvent }

func (n *domNode) DividerLabel() string {
	if n.kind != kindDivider {
		return ""
	}
	return strings.TrimSpace(n.sel.Text())
}

func (n *domNode) Title() string {
	return strings.TrimSpace(textOf(first(n.sel, n.rules.Title)))
}

// Subtitle is returned raw; the date normalizer does its own cleanup.
func (n *domNode) Subtitle() string {
	return textOf(first(n.sel, n.rules.Subtitle))
}

func (n *domNode) Amount() string {
	return textOf(n.price())
}

func (n *domNode) Canceled() bool {
	price := n.price()
	return price != nil && price.HasClass(n.rules.CanceledClass)
}

func (n *domNode) price() *goquery.Selection {
	return first(n.sel, n.rules.Price)
}

// hasEventStructure reports whether the entry carries a title or an amount.
func (n *domNode) hasEventStructure() bool {
	return first(n.sel, n.rules.Title) != nil || n.price() != nil
}

func textOf(s *goquery.Selection) string {
	if s == nil {
		return ""
	}
	return s.Text()
}

var _ core.TimelineNode = (*domNode)(nil)
