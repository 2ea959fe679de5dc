package engine

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	reNoscript   = regexp.MustCompile(`<noscript[^>]*>[^<]*(enable|activate|turn on|requires?)\s+javascript`)
	reRecipeType = regexp.MustCompile(`"@type"\s*:\s*(\[[^\]]*)?"Recipe"`)
)

// NeedsBrowser reports whether HTML fetched without a browser looks like a
// JavaScript shell that has to be rendered before any recipe can be read.
// Pages that already carry schema.org Recipe JSON-LD never need one.
func NeedsBrowser(body []byte) bool {
	if reRecipeType.Match(body) {
		return false
	}

	visible := extractVisibleText(body)
	if len(visible) < 200 {
		return true
	}

	lower := strings.ToLower(string(body))
	for _, shell := range []string{`<div id="root"></div>`, `<div id="app"></div>`, `<div id="__next"></div>`} {
		if strings.Contains(lower, shell) {
			return true
		}
	}
	if reNoscript.MatchString(lower) {
		return true
	}

	return strings.Count(lower, "<script") > 10 && len(visible) < 500
}

// extractVisibleText returns the text inside <body>, minus script, style
// and noscript content.
func extractVisibleText(body []byte) string {
	tokenizer := html.NewTokenizer(bytes.NewReader(body))
	var buf strings.Builder
	inBody := false
	skipDepth := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return buf.String()
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			switch string(tn) {
			case "body":
				inBody = true
			case "script", "style", "noscript":
				skipDepth++
			}
		case html.EndTagToken:
			tn, _ := tokenizer.TagName()
			switch string(tn) {
			case "script", "style", "noscript":
				if skipDepth > 0 {
					skipDepth--
				}
			}
		case html.TextToken:
			if inBody && skipDepth == 0 {
				if text := strings.TrimSpace(string(tokenizer.Text())); text != "" {
					buf.WriteString(text)
					buf.WriteByte(' ')
				}
			}
		}
	}
}
