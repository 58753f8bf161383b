// Package crawl: scroll container scripts.
// The timeline usually lives in its own scrolling pane; these scripts pick
// that pane, or the document itself, and move it.
package crawl

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ContainerSelectors are tried as one selector list; the first match in
// document order is scrolled.
var ContainerSelectors = []string{
	"aside",
	".side",
	".sidebar",
	`[data-testid="timeline"]`,
	".timeline",
	"main",
}

// scrollScripts holds the JavaScript expressions for one container list.
type scrollScripts struct {
	toEnd  string
	height string
	toTop  string
}

func newScrollScripts(selectors []string) scrollScripts {
	return scrollScripts{
		toEnd:  withContainer(selectors, "el.scrollTop = el.scrollHeight; return el.scrollHeight;"),
		height: withContainer(selectors, "return el.scrollHeight;"),
		toTop:  withContainer(selectors, "el.scrollTop = 0; return 0;"),
	}
}

// withContainer wraps body in a function that binds el to the container.
func withContainer(selectors []string, body string) string {
	list, _ := json.Marshal(strings.Join(selectors, ", "))
	return fmt.Sprintf(`(() => {
  const el = (%s && document.querySelector(%s)) || document.scrollingElement || document.documentElement;
  %s
})()`, list, list, body)
}
