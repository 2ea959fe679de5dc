package recipe

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// leadingMarkerRe matches an enumeration marker at the start of a step:
	// "Step 3:", "3.", "3)", "b.", "- ", "• ", "* ".
	leadingMarkerRe = regexp.MustCompile(`(?i)^(?:step\s*\d+\s*[:.)\-]?\s*|\d+[.)](?:\s+|$)|[a-z][.)](?:\s+|$)|[-•*]\s+)`)

	// inlineMarkerRe finds candidate markers inside running text. Group 1 is
	// the marker itself.
	inlineMarkerRe = regexp.MustCompile(`(?i)(?:^|\s)(step\s*\d+\s*[:.)\-]|\d{1,2}[.)]|[a-z][.)]|[-•*])\s`)

	sentenceEndRe = regexp.MustCompile(`\.\s+`)

	// markerOnlyRe matches a fragment that is nothing but a list marker
	// ("2", "b", "Step 3"), so the period after it does not end a sentence.
	markerOnlyRe = regexp.MustCompile(`(?i)^(?:\d{1,2}|[a-z]|step\s*\d+)$`)

	stepTailRe = regexp.MustCompile(`(?i)(?:^|\s)step\s*\d+$`)
)

// NormalizeInstructions turns whatever the library returned for
// instructions into an ordered list of steps.
//
// Lists are returned as they are. Text is split by the first of these that
// yields more than one step: line breaks, sentence ends, enumeration
// markers. Each step loses its leading marker. Text that cannot be split is
// returned whole.
func NormalizeInstructions(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return []string{}
	case []string:
		if v == nil {
			return []string{}
		}
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		return splitInstructions(v)
	default:
		return []string{fmt.Sprint(v)}
	}
}

func splitInstructions(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}
	}

	for _, split := range []func(string) []string{splitLines, splitSentences, splitMarkers} {
		if steps := cleanSteps(split(text)); len(steps) > 1 {
			return steps
		}
	}
	return []string{text}
}

func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

// splitSentences cuts after every period followed by whitespace, keeping the
// period. A period that belongs to a list marker is not a sentence end: a
// bare marker opening the sentence ("2. Bake"), a trailing "Step 2", or the
// next marker of a list the sentence opened ("a. chop b. fry").
func splitSentences(text string) []string {
	var (
		pieces []string
		start  int
	)
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		frag := strings.TrimSpace(text[start:loc[0]])
		if markerOnlyRe.MatchString(frag) || stepTailRe.MatchString(frag) || endsWithNextMarker(frag) {
			continue
		}
		pieces = append(pieces, text[start:loc[0]+1])
		start = loc[1]
	}
	return append(pieces, text[start:])
}

// splitMarkers cuts an enumerated paragraph ("1) Mix 2) Bake") before each
// of its markers. The text must open with a marker, and later markers only
// count when they continue that enumeration: the next number, the next
// letter, the same bullet, or another "Step N".
func splitMarkers(text string) []string {
	matches := inlineMarkerRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 || matches[0][2] != 0 {
		return []string{text}
	}

	var (
		pieces []string
		start  int
		prev   = text[matches[0][2]:matches[0][3]]
	)
	for _, loc := range matches[1:] {
		cut := loc[2]
		marker := text[loc[2]:loc[3]]
		if cut <= start || !continuesList(prev, marker) {
			continue
		}
		pieces = append(pieces, text[start:cut])
		start = cut
		prev = marker
	}
	return append(pieces, text[start:])
}

// endsWithNextMarker reports whether frag opens with a list marker and its
// last word is the token of the marker that follows it.
func endsWithNextMarker(frag string) bool {
	loc := inlineMarkerRe.FindStringSubmatchIndex(frag)
	if loc == nil || loc[2] != 0 {
		return false
	}
	i := strings.LastIndexAny(frag, " \t\n")
	if i < 0 {
		return false
	}
	return continuesList(frag[loc[2]:loc[3]], frag[i+1:]+".")
}

// continuesList reports whether marker is the successor of prev in one
// enumeration.
func continuesList(prev, marker string) bool {
	prev, marker = strings.ToLower(prev), strings.ToLower(marker)
	switch {
	case strings.HasPrefix(prev, "step"):
		return strings.HasPrefix(marker, "step")
	case prev == "-" || prev == "•" || prev == "*":
		return marker == prev
	}

	prevTok, prevEnd := prev[:len(prev)-1], prev[len(prev)-1]
	tok, end := marker[:len(marker)-1], marker[len(marker)-1]
	if end != prevEnd {
		return false
	}
	if n, err := strconv.Atoi(prevTok); err == nil {
		m, err := strconv.Atoi(tok)
		return err == nil && m == n+1
	}
	return len(tok) == 1 && len(prevTok) == 1 && tok[0] == prevTok[0]+1
}

func cleanSteps(pieces []string) []string {
	steps := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if s := stripMarker(p); s != "" {
			steps = append(steps, s)
		}
	}
	return steps
}

func stripMarker(step string) string {
	step = strings.TrimSpace(step)
	// "- 1. Mix" carries two markers.
	for range 2 {
		stripped := strings.TrimSpace(leadingMarkerRe.ReplaceAllString(step, ""))
		if stripped == step {
			break
		}
		step = stripped
	}
	return step
}
