package tutor

import (
	"regexp"
	"strings"
)

// Cleaning pipeline for oracle text. Substitutions run in a fixed order and
// the whole pipeline is idempotent: Clean(Clean(x)) == Clean(x).
var (
	mdHeader    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	mdBold      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	mdItalic    = regexp.MustCompile(`\*(.*?)\*`)
	mdCodeBlock = regexp.MustCompile("(?s)```.*?```")
	mdInline    = regexp.MustCompile("`(.*?)`")
	blankRuns   = regexp.MustCompile(`\n\s*\n`)
)

// Clean strips markdown decoration the oracle emits despite being told not
// to: headers, bold/italic markers (inner text kept), fenced code blocks
// (dropped entirely), inline code spans (inner text kept), and runs of
// blank lines collapsed to one.
func Clean(text string) string {
	if text == "" {
		return text
	}
	text = mdHeader.ReplaceAllString(text, "")
	text = mdBold.ReplaceAllString(text, "$1")
	text = mdItalic.ReplaceAllString(text, "$1")
	text = mdCodeBlock.ReplaceAllString(text, "")
	text = mdInline.ReplaceAllString(text, "$1")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
