package schema

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxJSONLDDepth bounds the walk through nested JSON-LD containers.
const maxJSONLDDepth = 6

// findJSONLDRecipe returns the first Recipe object found in any
// application/ld+json script, or nil.
func findJSONLDRecipe(doc *goquery.Document) map[string]any {
	var found map[string]any
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		payload, ok := decodeJSONLD(s.Text())
		if !ok {
			return true
		}
		found = walkForRecipe(payload, 0)
		return found == nil
	})
	return found
}

// decodeJSONLD unmarshals a script body. Raw control characters inside
// strings are common on recipe sites, so a second attempt flattens them.
func decodeJSONLD(text string) (any, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	var payload any
	if err := json.Unmarshal([]byte(text), &payload); err == nil {
		return payload, true
	}

	flattened := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}
		return r
	}, text)
	if err := json.Unmarshal([]byte(flattened), &payload); err != nil {
		return nil, false
	}
	return payload, true
}

// walkForRecipe searches objects, arrays, @graph containers and nested
// entities (mainEntity, etc.) for a node typed Recipe.
func walkForRecipe(v any, depth int) map[string]any {
	if depth > maxJSONLDDepth {
		return nil
	}

	switch node := v.(type) {
	case []any:
		for _, item := range node {
			if found := walkForRecipe(item, depth+1); found != nil {
				return found
			}
		}
	case map[string]any:
		if isRecipeType(node["@type"]) {
			return node
		}
		if graph, ok := node["@graph"]; ok {
			if found := walkForRecipe(graph, depth+1); found != nil {
				return found
			}
		}
		for key, child := range node {
			if key == "@graph" || strings.HasPrefix(key, "@") {
				continue
			}
			switch child.(type) {
			case map[string]any, []any:
				if found := walkForRecipe(child, depth+1); found != nil {
					return found
				}
			}
		}
	}
	return nil
}

// isRecipeType accepts "Recipe", "schema:Recipe", a full IRI, or an array
// containing any of those.
func isRecipeType(t any) bool {
	switch v := t.(type) {
	case string:
		v = strings.TrimSpace(v)
		return v == "Recipe" || strings.HasSuffix(v, ":Recipe") || strings.HasSuffix(v, "/Recipe")
	case []any:
		for _, item := range v {
			if isRecipeType(item) {
				return true
			}
		}
	}
	return false
}
