package schema

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/use-agent/recipe-scraper/cleaner"
)

// norm unescapes entities, drops markup and collapses whitespace.
func norm(s string) string {
	s = html.UnescapeString(s)
	if cleaner.LooksLikeHTML(s) {
		s = cleaner.HTMLToText(s, "")
	}
	return strings.Join(strings.Fields(s), " ")
}

// unique drops empty and repeated strings, keeping first-seen order.
func unique(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// asString flattens a JSON-LD value to text. Objects contribute their
// name, @value, text or url; arrays contribute their first non-empty item.
func asString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return norm(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case map[string]any:
		for _, key := range []string{"name", "@value", "text", "url", "@id"} {
			if s := asString(x[key]); s != "" {
				return s
			}
		}
	case []any:
		for _, item := range x {
			if s := asString(item); s != "" {
				return s
			}
		}
	}
	return ""
}

// asStrings flattens a JSON-LD value to a list of texts, one per item.
func asStrings(v any) []string {
	switch x := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := asString(x); s != "" {
			return []string{s}
		}
	}
	return nil
}

// splitList splits comma separated keyword strings ("dinner, easy").
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

var (
	isoDurationRe = regexp.MustCompile(`(?i)^P(?:(\d+(?:\.\d+)?)D)?(?:T(?:(\d+(?:\.\d+)?)H)?(?:(\d+(?:\.\d+)?)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)
	plainNumberRe = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
)

// durationMinutes parses an ISO-8601 duration ("PT1H30M", "P0DT45M") or a
// bare number of minutes. Zero and unparseable durations report false.
func durationMinutes(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if plainNumberRe.MatchString(s) {
		f, _ := strconv.ParseFloat(s, 64)
		m := int(math.Round(f))
		return m, m > 0
	}

	parts := isoDurationRe.FindStringSubmatch(s)
	if parts == nil || s == "P" || strings.EqualFold(s, "PT") {
		return 0, false
	}
	num := func(p string) float64 {
		if p == "" {
			return 0
		}
		f, _ := strconv.ParseFloat(p, 64)
		return f
	}
	total := num(parts[1])*24*60 + num(parts[2])*60 + num(parts[3]) + num(parts[4])/60
	m := int(math.Round(total))
	return m, m > 0
}

var servingsRe = regexp.MustCompile(`^\d+$`)

// formatYields turns a bare count into "N servings" and leaves descriptive
// yields ("1 loaf", "12 cookies") alone.
func formatYields(s string) string {
	s = strings.TrimSpace(s)
	if !servingsRe.MatchString(s) {
		return s
	}
	if s == "1" {
		return "1 serving"
	}
	return s + " servings"
}
