// Package schema reads schema.org Recipe markup out of a fetched page.
//
// JSON-LD is preferred; microdata is used when no JSON-LD Recipe exists.
// Every accessor on Recipe is independent: a missing or malformed property
// only fails its own accessor, with ErrFieldNotFound.
package schema

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/use-agent/recipe-scraper/cleaner"
)

var (
	// ErrNoRecipe means the page carries no schema.org Recipe at all.
	ErrNoRecipe = errors.New("schema: no recipe markup found on page")

	// ErrFieldNotFound means the recipe markup lacks the requested property.
	ErrFieldNotFound = errors.New("schema: field not found")
)

// Recipe is a parsed recipe page. Accessors read from the Recipe node and
// fall back to page-level metadata where that is meaningful.
type Recipe struct {
	pageURL *url.URL
	rawHTML string
	doc     *goquery.Document

	// node holds the recipe properties, JSON-LD shaped. Microdata is
	// converted to the same shape.
	node map[string]any

	// Source is "json-ld" or "microdata".
	Source string

	articleOnce sync.Once
	article     *readability.Article
}

// Parse locates the schema.org Recipe on the page.
func Parse(pageURL, rawHTML string) (*Recipe, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("schema: parse page url: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("schema: parse html: %w", err)
	}

	r := &Recipe{pageURL: u, rawHTML: rawHTML, doc: doc}
	if node := findJSONLDRecipe(doc); node != nil {
		r.node, r.Source = node, "json-ld"
		return r, nil
	}
	if node := findMicrodataRecipe(doc); node != nil {
		r.node, r.Source = node, "microdata"
		return r, nil
	}
	return nil, ErrNoRecipe
}

// readable runs readability over the page once, on first use. It backs the
// description, author, title and language fallbacks.
func (r *Recipe) readable() *readability.Article {
	r.articleOnce.Do(func() {
		if article, ok := cleaner.ExtractArticle(r.rawHTML, r.pageURL); ok {
			r.article = &article
		}
	})
	return r.article
}

// meta returns a <meta name|property=key> content attribute.
func (r *Recipe) meta(key string) string {
	if v, ok := r.doc.Find(fmt.Sprintf(`meta[property="%s"]`, key)).Attr("content"); ok && norm(v) != "" {
		return norm(v)
	}
	if v, ok := r.doc.Find(fmt.Sprintf(`meta[name="%s"]`, key)).Attr("content"); ok {
		return norm(v)
	}
	return ""
}

// resolve makes ref absolute against the page URL.
func (r *Recipe) resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := r.pageURL.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}
