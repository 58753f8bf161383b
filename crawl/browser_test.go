package crawl

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScroller grows by step on every scroll until it reaches limit.
type fakeScroller struct {
	height    int64
	step      int64
	limit     int64
	scrolls   int
	atTop     bool
	heightErr error
}

func (f *fakeScroller) ScrollToEnd(context.Context) error {
	f.scrolls++
	f.atTop = false
	if f.height+f.step <= f.limit {
		f.height += f.step
	}
	return nil
}

func (f *fakeScroller) Height(context.Context) (int64, error) {
	return f.height, f.heightErr
}

func (f *fakeScroller) ScrollToTop(context.Context) error {
	f.atTop = true
	return nil
}

func fastOptions() Options {
	opts := DefaultOptions()
	opts.PollInterval = time.Millisecond
	return opts
}

func TestAutoload_Settles(t *testing.T) {
	s := &fakeScroller{step: 1000, limit: 5000}

	settler, err := Autoload(context.Background(), s, fastOptions())
	require.NoError(t, err)

	assert.True(t, settler.Settled())
	assert.Equal(t, int64(5000), settler.Height())
	// Five growing rounds, then three unchanged polls.
	assert.Equal(t, 8, s.scrolls)
	assert.True(t, s.atTop)
}

func TestAutoload_MaxRounds(t *testing.T) {
	s := &fakeScroller{step: 10, limit: 1 << 40}
	opts := fastOptions()
	opts.MaxRounds = 7

	settler, err := Autoload(context.Background(), s, opts)
	require.NoError(t, err)

	assert.True(t, settler.Exhausted())
	assert.Equal(t, 7, s.scrolls)
	assert.True(t, s.atTop)
}

func TestAutoload_Canceled(t *testing.T) {
	s := &fakeScroller{step: 10, limit: 1 << 40}
	opts := fastOptions()
	opts.PollInterval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Autoload(ctx, s, opts)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, s.atTop)
}

func TestAutoload_HeightError(t *testing.T) {
	s := &fakeScroller{heightErr: errors.New("target closed")}

	_, err := Autoload(context.Background(), s, fastOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "measuring height")
}

func TestNewBrowser_DefaultContainers(t *testing.T) {
	b := NewBrowser(DefaultOptions())
	assert.Equal(t, ContainerSelectors, b.opts.Containers)
	assert.NotEmpty(t, b.allocatorOptions())
}

func TestScrollScripts(t *testing.T) {
	scripts := newScrollScripts([]string{"aside", `[data-testid="timeline"]`})

	assert.Contains(t, scripts.toEnd, `"aside, [data-testid=\"timeline\"]"`)
	assert.Contains(t, scripts.toEnd, "el.scrollTop = el.scrollHeight")
	assert.Contains(t, scripts.height, "return el.scrollHeight")
	assert.Contains(t, scripts.toTop, "el.scrollTop = 0")
	assert.Contains(t, scripts.height, "document.scrollingElement")
}
