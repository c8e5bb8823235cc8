package feed

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicy = bluemonday.StrictPolicy()

	// arXiv announcement preamble, "arXiv:2405.01234v1 Announce Type: new Abstract: ..."
	announceRe = regexp.MustCompile(`(?s)^arXiv:\S+\s+Announce Type:\s*\S+\s+Abstract:\s*`)
)

// NormalizeTitle cuts the arXiv suffix "(arXiv:...)" and trims spaces.
// The result is the identity key of an item.
func NormalizeTitle(title string) string {
	if idx := strings.Index(title, "(arXiv"); idx >= 0 {
		title = title[:idx]
	}
	return strings.TrimSpace(title)
}

// CleanAbstract converts a feed description to plain text
func CleanAbstract(description string) string {
	text := html.UnescapeString(textPolicy.Sanitize(description))
	text = strings.TrimSpace(text)
	return strings.TrimSpace(announceRe.ReplaceAllString(text, ""))
}
