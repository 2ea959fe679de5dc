package cleaner

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// conv is goroutine-safe and shared by every conversion.
var conv = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(
			table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
		),
	),
)

var (
	// markdownEscapeRe matches the backslash escapes commonmark adds to
	// literal punctuation ("1\. Mix", "\* note").
	markdownEscapeRe = regexp.MustCompile(`\\([\\` + "`" + `*_{}\[\]()#+\-.!>])`)
	// emphasisRe matches **bold** and _italic_ runs.
	emphasisRe = regexp.MustCompile(`(\*\*|__)(.+?)(\*\*|__)`)
	blankRunRe = regexp.MustCompile(`\n{3,}`)
)

// LooksLikeHTML reports whether s contains markup worth converting.
func LooksLikeHTML(s string) bool {
	i := strings.IndexByte(s, '<')
	return i >= 0 && strings.IndexByte(s[i:], '>') > 0
}

// HTMLToText converts an HTML fragment (typically an instructions or
// description blob) to plain, line-oriented text. Block elements become
// line breaks and list items keep their markers so the text can later be
// split into steps. domain resolves relative links.
//
// On conversion failure the input is returned unchanged.
func HTMLToText(fragment string, domain string) string {
	md, err := conv.ConvertString(fragment, converter.WithDomain(domain))
	if err != nil {
		return fragment
	}
	md = emphasisRe.ReplaceAllString(md, "$2")
	md = markdownEscapeRe.ReplaceAllString(md, "$1")
	md = blankRunRe.ReplaceAllString(md, "\n\n")
	return strings.TrimSpace(md)
}
