// Package core defines the shared types and stage interfaces for brokercsv.
// Each stage of the export pipeline is a clean, testable interface.
package core

import "context"

// FetchResult holds the raw HTML and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	HTML       string
}

// TimelineNode is a read-only handle to one entry of the timeline list.
// An entry is a divider (a period label), an event (a transaction), or neither.
type TimelineNode interface {
	IsDivider() bool
	DividerLabel() string
	IsEvent() bool
	Title() string
	Subtitle() string
	Amount() string
	// Canceled reports whether the amount carries the "canceled" style flag.
	Canceled() bool
}

// Record is one normalized transaction row. Date and Amount may be empty
// when the source text could not be parsed.
type Record struct {
	Date     string `json:"date"`
	Title    string `json:"title"`
	Amount   string `json:"amount"`
	Canceled bool   `json:"canceled"`
	Saving   bool   `json:"saving"`
}

// IsDegenerate reports whether title, date and amount are all empty.
func (r Record) IsDegenerate() bool {
	return r.Title == "" && r.Date == "" && r.Amount == ""
}

// Fields returns the record in export column order:
// date, title, amount, canceled, saving.
func (r Record) Fields() []string {
	return []string{r.Date, r.Title, r.Amount, YesNo(r.Canceled), YesNo(r.Saving)}
}

// Header is the fixed export header row.
var Header = []string{"date", "title", "amount", "canceled", "saving/saveback/roundUp"}

// YesNo renders a flag the way the export expects it.
func YesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Fetcher retrieves raw HTML from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Snapshotter drives a live page until its lazy-loaded timeline is settled
// and returns the rendered DOM.
type Snapshotter interface {
	Snapshot(ctx context.Context, url string) (string, error)
}

// NodeExtractor turns a rendered HTML document into ordered timeline nodes.
type NodeExtractor interface {
	Nodes(html string) ([]TimelineNode, error)
}

// Renderer converts a batch of records into a final output format.
type Renderer interface {
	Render(records []Record) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".csv", ".pdf").
	Extension() string
}
