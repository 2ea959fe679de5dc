package cleaner

import (
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// selectors caches compiled cascadia selectors by source text.
var selectors sync.Map

// Query returns the first descendant of root matching the CSS selector, or
// nil when nothing matches.
func Query(root *html.Node, selector string) (*html.Node, error) {
	sel, err := compile(selector)
	if err != nil {
		return nil, err
	}
	return cascadia.Query(root, sel), nil
}

// Attr returns the value of the named attribute on n.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func compile(selector string) (cascadia.Sel, error) {
	if cached, ok := selectors.Load(selector); ok {
		return cached.(cascadia.Sel), nil
	}
	sel, err := cascadia.Parse(selector)
	if err != nil {
		return nil, err
	}
	selectors.Store(selector, sel)
	return sel, nil
}
