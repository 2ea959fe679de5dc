package schema

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/use-agent/recipe-scraper/cleaner"
)

const microdataRecipeSelector = `[itemscope][itemtype$="schema.org/Recipe"]`

// findMicrodataRecipe converts the first microdata Recipe item on the page
// into the JSON-LD property shape, or returns nil.
func findMicrodataRecipe(doc *goquery.Document) map[string]any {
	if len(doc.Nodes) == 0 {
		return nil
	}
	scope, err := cleaner.Query(doc.Nodes[0], microdataRecipeSelector)
	if err != nil || scope == nil {
		return nil
	}
	return microdataItem(scope)
}

// microdataItem collects the itemprop values that belong to scope. Nested
// itemscope elements become nested objects and their properties are not
// attributed to the outer item.
func microdataItem(scope *html.Node) map[string]any {
	itemType, _ := cleaner.Attr(scope, "itemtype")
	item := map[string]any{"@type": lastPathSegment(itemType)}

	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			_, nested := cleaner.Attr(c, "itemscope")
			if props, ok := cleaner.Attr(c, "itemprop"); ok {
				value := microdataValue(c, nested)
				for _, prop := range strings.Fields(props) {
					addProperty(item, prop, value)
				}
			}
			if !nested {
				visit(c)
			}
		}
	}
	visit(scope)
	return item
}

// microdataValue reads a property value following the HTML microdata rules
// for which attribute carries the value.
func microdataValue(n *html.Node, nested bool) any {
	if nested {
		return microdataItem(n)
	}

	var key string
	switch n.Data {
	case "meta":
		key = "content"
	case "img", "audio", "video", "source", "embed", "iframe":
		key = "src"
	case "a", "area", "link":
		key = "href"
	case "object":
		key = "data"
	case "time":
		key = "datetime"
	case "data", "meter":
		key = "value"
	}
	if key != "" {
		if v, ok := cleaner.Attr(n, key); ok {
			return v
		}
	}
	if v, ok := cleaner.Attr(n, "content"); ok {
		return v
	}
	sel := goquery.NewDocumentFromNode(n).Selection
	// Keep markup for structured blocks so line breaks survive until the
	// accessor converts them.
	if sel.Find("li, p, br, div").Length() > 0 {
		if inner, err := sel.Html(); err == nil {
			return inner
		}
	}
	return sel.Text()
}

// addProperty stores value under prop, turning repeated properties into a
// list in document order.
func addProperty(item map[string]any, prop string, value any) {
	existing, ok := item[prop]
	if !ok {
		item[prop] = value
		return
	}
	if list, ok := existing.([]any); ok {
		item[prop] = append(list, value)
		return
	}
	item[prop] = []any{existing, value}
}

func lastPathSegment(s string) string {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	if i := strings.LastIndexAny(s, "/#"); i >= 0 {
		return s[i+1:]
	}
	return s
}
