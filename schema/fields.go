package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/use-agent/recipe-scraper/cleaner"
)

func notFound(field string) error {
	return fmt.Errorf("%w: %s", ErrFieldNotFound, field)
}

// first returns the first property of the recipe node that is present.
func (r *Recipe) first(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := r.node[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (r *Recipe) Title() (string, error) {
	if v, ok := r.first("name", "headline"); ok {
		if s := asString(v); s != "" {
			return s, nil
		}
	}
	if s := r.meta("og:title"); s != "" {
		return s, nil
	}
	if a := r.readable(); a != nil && norm(a.Title) != "" {
		return norm(a.Title), nil
	}
	return "", notFound("title")
}

func (r *Recipe) Ingredients() ([]string, error) {
	v, ok := r.first("recipeIngredient", "ingredients")
	if !ok {
		return nil, notFound("ingredients")
	}
	out := asStrings(v)
	if len(out) == 0 {
		return nil, notFound("ingredients")
	}
	return out, nil
}

// Instructions returns either a single text blob (string) or discrete steps
// ([]string), depending on how the page publishes them. A step list stays a
// list even with one step. HowToSection groupings are flattened in order.
func (r *Recipe) Instructions() (any, error) {
	raw, ok := r.first("recipeInstructions")
	if !ok {
		return nil, notFound("instructions")
	}

	if s, ok := raw.(string); ok {
		text := r.instructionText(s)
		if text == "" {
			return nil, notFound("instructions")
		}
		return text, nil
	}

	steps := flattenSteps(raw, nil)
	if len(steps) == 0 {
		return nil, notFound("instructions")
	}
	return steps, nil
}

// instructionText keeps the line structure of a text blob so it can be
// split into steps later.
func (r *Recipe) instructionText(s string) string {
	s = html.UnescapeString(s)
	if cleaner.LooksLikeHTML(s) {
		s = cleaner.HTMLToText(s, r.pageURL.Host)
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func flattenSteps(v any, out []string) []string {
	switch x := v.(type) {
	case string:
		if s := norm(x); s != "" {
			out = append(out, s)
		}
	case []any:
		for _, item := range x {
			out = flattenSteps(item, out)
		}
	case map[string]any:
		if list, ok := x["itemListElement"]; ok {
			return flattenSteps(list, out)
		}
		s := asString(x["text"])
		if s == "" {
			s = asString(x["name"])
		}
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (r *Recipe) Yields() (string, error) {
	v, ok := r.first("recipeYield", "yield")
	if !ok {
		return "", notFound("yields")
	}
	for _, s := range asStrings(v) {
		if y := formatYields(s); y != "" {
			return y, nil
		}
	}
	return "", notFound("yields")
}

func (r *Recipe) minutes(key string) (int, bool) {
	v, ok := r.first(key)
	if !ok {
		return 0, false
	}
	return durationMinutes(asString(v))
}

// TotalTime reports minutes. Pages that publish only prep and cook times get
// their sum.
func (r *Recipe) TotalTime() (string, error) {
	if m, ok := r.minutes("totalTime"); ok {
		return strconv.Itoa(m), nil
	}
	prep, okPrep := r.minutes("prepTime")
	cook, okCook := r.minutes("cookTime")
	if okPrep || okCook {
		return strconv.Itoa(prep + cook), nil
	}
	return "", notFound("total_time")
}

func (r *Recipe) PrepTime() (string, error) {
	if m, ok := r.minutes("prepTime"); ok {
		return strconv.Itoa(m), nil
	}
	return "", notFound("prep_time")
}

func (r *Recipe) CookTime() (string, error) {
	if m, ok := r.minutes("cookTime"); ok {
		return strconv.Itoa(m), nil
	}
	return "", notFound("cook_time")
}

func (r *Recipe) Image() (string, error) {
	if v, ok := r.first("image", "thumbnailUrl"); ok {
		if s := imageURL(v); s != "" {
			return r.resolve(s), nil
		}
	}
	if s := r.meta("og:image"); s != "" {
		return r.resolve(s), nil
	}
	return "", notFound("image")
}

func imageURL(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case map[string]any:
		for _, key := range []string{"url", "contentUrl", "@id"} {
			if s, ok := x[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	case []any:
		for _, item := range x {
			if s := imageURL(item); s != "" {
				return s
			}
		}
	}
	return ""
}

// Host is the page host without a leading "www.".
func (r *Recipe) Host() (string, error) {
	host := strings.TrimPrefix(strings.ToLower(r.pageURL.Hostname()), "www.")
	if host == "" {
		return "", notFound("host")
	}
	return host, nil
}

func (r *Recipe) CanonicalURL() (string, error) {
	if len(r.doc.Nodes) > 0 {
		if n, err := cleaner.Query(r.doc.Nodes[0], `link[rel~="canonical"][href]`); err == nil && n != nil {
			if href, _ := cleaner.Attr(n, "href"); strings.TrimSpace(href) != "" {
				return r.resolve(href), nil
			}
		}
	}
	if s := r.meta("og:url"); s != "" {
		return r.resolve(s), nil
	}
	if r.pageURL.Host != "" {
		return r.pageURL.String(), nil
	}
	return "", notFound("canonical_url")
}

func (r *Recipe) Language() (string, error) {
	if v, ok := r.first("inLanguage"); ok {
		if s := asString(v); s != "" {
			return s, nil
		}
	}
	if len(r.doc.Nodes) > 0 {
		if n, err := cleaner.Query(r.doc.Nodes[0], `html[lang]`); err == nil && n != nil {
			if lang, _ := cleaner.Attr(n, "lang"); strings.TrimSpace(lang) != "" {
				return strings.TrimSpace(lang), nil
			}
		}
	}
	if a := r.readable(); a != nil && a.Language != "" {
		return a.Language, nil
	}
	return "", notFound("language")
}

func (r *Recipe) Author() (string, error) {
	if v, ok := r.first("author", "creator"); ok {
		if names := unique(asStrings(v)); len(names) > 0 {
			return strings.Join(names, ", "), nil
		}
	}
	if s := r.meta("author"); s != "" {
		return s, nil
	}
	if a := r.readable(); a != nil && norm(a.Byline) != "" {
		return norm(a.Byline), nil
	}
	return "", notFound("author")
}

func (r *Recipe) rating() (map[string]any, bool) {
	v, ok := r.first("aggregateRating")
	if !ok {
		return nil, false
	}
	if list, ok := v.([]any); ok && len(list) > 0 {
		v = list[0]
	}
	m, ok := v.(map[string]any)
	return m, ok
}

// Ratings is the aggregate rating value rounded to two decimals.
func (r *Recipe) Ratings() (float64, error) {
	agg, ok := r.rating()
	if !ok {
		return 0, notFound("ratings")
	}
	s := strings.Replace(asString(agg["ratingValue"]), ",", ".", 1)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("schema: ratings %q: %w", s, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, notFound("ratings")
	}
	return math.Round(f*100) / 100, nil
}

func (r *Recipe) ReviewsCount() (int, error) {
	agg, ok := r.rating()
	if !ok {
		return 0, notFound("reviews_count")
	}
	for _, key := range []string{"ratingCount", "reviewCount"} {
		s := strings.ReplaceAll(asString(agg[key]), ",", "")
		if s == "" {
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("schema: reviews_count %q: %w", s, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return 0, notFound("reviews_count")
		}
		return int(f), nil
	}
	return 0, notFound("reviews_count")
}

// Nutrients maps NutritionInformation properties ("calories",
// "fatContent", ...) to their published text.
func (r *Recipe) Nutrients() (map[string]string, error) {
	v, ok := r.first("nutrition")
	if !ok {
		return nil, notFound("nutrients")
	}
	if list, ok := v.([]any); ok && len(list) > 0 {
		v = list[0]
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, notFound("nutrients")
	}

	out := make(map[string]string, len(m))
	for k, val := range m {
		if strings.HasPrefix(k, "@") {
			continue
		}
		if s := asString(val); s != "" {
			out[k] = s
		}
	}
	if len(out) == 0 {
		return nil, notFound("nutrients")
	}
	return out, nil
}

func (r *Recipe) Description() (string, error) {
	if v, ok := r.first("description"); ok {
		if s := asString(v); s != "" {
			return s, nil
		}
	}
	for _, key := range []string{"og:description", "description"} {
		if s := r.meta(key); s != "" {
			return s, nil
		}
	}
	if a := r.readable(); a != nil && norm(a.Excerpt) != "" {
		return norm(a.Excerpt), nil
	}
	return "", notFound("description")
}

func (r *Recipe) joined(field string, keys ...string) (string, error) {
	v, ok := r.first(keys...)
	if !ok {
		return "", notFound(field)
	}
	values := unique(splitList(asStrings(v)))
	if len(values) == 0 {
		return "", notFound(field)
	}
	return strings.Join(values, ", "), nil
}

func (r *Recipe) Category() (string, error) { return r.joined("category", "recipeCategory") }

func (r *Recipe) Cuisine() (string, error) { return r.joined("cuisine", "recipeCuisine") }

// Tags are the recipe keywords, split on commas and de-duplicated.
func (r *Recipe) Tags() ([]string, error) {
	v, ok := r.first("keywords")
	if !ok {
		return nil, notFound("tags")
	}
	tags := unique(splitList(asStrings(v)))
	if len(tags) == 0 {
		return nil, notFound("tags")
	}
	return tags, nil
}
