package cleaner

import (
	"log/slog"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// minContentLength is the minimum TextContent length (in characters) for a
// readability result to be trusted for metadata.
const minContentLength = 50

// ExtractArticle runs the Mozilla Readability algorithm on rawHTML.
//
// The boolean reports whether readability located real content. Callers use
// the Article only for page metadata (Title, Byline, Excerpt, Language), so a
// failed run is not an error.
func ExtractArticle(rawHTML string, pageURL *url.URL) (readability.Article, bool) {
	article, err := readability.FromReader(strings.NewReader(rawHTML), pageURL)
	if err != nil {
		slog.Debug("readability: extraction failed", "url", pageURL.String(), "error", err)
		return readability.Article{}, false
	}

	if len(strings.TrimSpace(article.TextContent)) < minContentLength {
		slog.Debug("readability: extracted content too short",
			"url", pageURL.String(), "length", len(article.TextContent),
		)
		return article, false
	}
	return article, true
}
