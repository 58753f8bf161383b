// Package crawl drives a live browser tab for pages whose timeline only
// exists after client-side rendering. It scrolls the timeline until lazy
// loading settles and returns the rendered DOM for extraction.
package crawl

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/gaurav-prasanna/brokercsv/core"
	"github.com/gaurav-prasanna/brokercsv/internal/logger"
)

// Options configures the browser and the autoload loop.
type Options struct {
	// Headless hides the browser window. Broker sessions usually need a
	// visible window or a profile that is already logged in.
	Headless bool
	// UserDataDir points Chrome at a persistent profile.
	UserDataDir string
	// PollInterval is the pause between scrolling and measuring.
	PollInterval time.Duration
	// StablePolls is the number of unchanged measurements that end loading.
	StablePolls int
	// MaxRounds caps the number of scroll rounds.
	MaxRounds int
	// Timeout bounds the whole snapshot.
	Timeout time.Duration
	// Containers overrides ContainerSelectors.
	Containers []string
}

// DefaultOptions mirrors the config defaults.
func DefaultOptions() Options {
	return Options{
		PollInterval: 350 * time.Millisecond,
		StablePolls:  3,
		MaxRounds:    50,
		Timeout:      2 * time.Minute,
	}
}

// Browser snapshots timeline pages with Chrome via chromedp.
type Browser struct {
	opts Options
}

// NewBrowser creates a Browser.
func NewBrowser(opts Options) *Browser {
	if len(opts.Containers) == 0 {
		opts.Containers = ContainerSelectors
	}
	return &Browser{opts: opts}
}

func (b *Browser) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.Flag("headless", b.opts.Headless))
	if b.opts.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(b.opts.UserDataDir))
	}
	return opts
}

// Snapshot opens url, loads the whole timeline and returns the page HTML.
func (b *Browser) Snapshot(ctx context.Context, url string) (string, error) {
	log := logger.FromContext(ctx)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, b.allocatorOptions()...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	if b.opts.Timeout > 0 {
		var cancel context.CancelFunc
		tabCtx, cancel = context.WithTimeout(tabCtx, b.opts.Timeout)
		defer cancel()
	}

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			settler, err := Autoload(ctx, &tabScroller{scripts: newScrollScripts(b.opts.Containers)}, b.opts)
			if err != nil {
				return err
			}
			log.Debug().
				Int("rounds", settler.Rounds()).
				Int64("height", settler.Height()).
				Bool("settled", settler.Settled()).
				Msg("timeline autoload finished")
			return nil
		}),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("snapshotting %s: %w", url, err)
	}
	return html, nil
}

// Scroller moves a scrolling container and measures it.
type Scroller interface {
	ScrollToEnd(ctx context.Context) error
	Height(ctx context.Context) (int64, error)
	ScrollToTop(ctx context.Context) error
}

// Autoload scrolls to the end, waits, and measures until the height settles
// or the round budget runs out, then scrolls back to the top.
func Autoload(ctx context.Context, s Scroller, opts Options) (*Settler, error) {
	settler := NewSettler(opts.StablePolls, opts.MaxRounds)

	for {
		if err := s.ScrollToEnd(ctx); err != nil {
			return settler, fmt.Errorf("scrolling to end: %w", err)
		}

		select {
		case <-ctx.Done():
			return settler, ctx.Err()
		case <-time.After(opts.PollInterval):
		}

		h, err := s.Height(ctx)
		if err != nil {
			return settler, fmt.Errorf("measuring height: %w", err)
		}
		if settler.Observe(h) {
			break
		}
	}

	if err := s.ScrollToTop(ctx); err != nil {
		return settler, fmt.Errorf("scrolling to top: %w", err)
	}
	return settler, nil
}

// tabScroller runs the scroll scripts in the current chromedp target.
type tabScroller struct {
	scripts scrollScripts
}

func (t *tabScroller) ScrollToEnd(ctx context.Context) error {
	var h float64
	return chromedp.Evaluate(t.scripts.toEnd, &h).Do(ctx)
}

func (t *tabScroller) Height(ctx context.Context) (int64, error) {
	var h float64
	if err := chromedp.Evaluate(t.scripts.height, &h).Do(ctx); err != nil {
		return 0, err
	}
	return int64(h), nil
}

func (t *tabScroller) ScrollToTop(ctx context.Context) error {
	var h float64
	return chromedp.Evaluate(t.scripts.toTop, &h).Do(ctx)
}

var _ core.Snapshotter = (*Browser)(nil)
