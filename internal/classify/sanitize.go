package classify

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxDescription is the display budget for descriptions, in characters.
	MaxDescription = 280
	// minDescription is the shortest cleaned text worth showing.
	minDescription = 10
	ellipsis       = "…"
)

var (
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	nbspRe       = regexp.MustCompile(`&nbsp;|&#160;`)
	otherEntRe   = regexp.MustCompile(`(?i)&#\d+;|&[a-z]+;`)
	spaceRe      = regexp.MustCompile(`[\s\p{Z}\x{FEFF}]+`)
	onlyBulletRe = regexp.MustCompile(`^[.\-–—•·\s]+$`)

	// Replacements run in this order; &amp; goes first so "&amp;lt;" ends up as "<".
	entityReplacer = []struct {
		old, new string
	}{
		{"&amp;", "&"},
		{"&lt;", "<"},
		{"&gt;", ">"},
	}
)

// CleanText strips markup and character references from s and collapses
// whitespace. Tags become a space, &nbsp; becomes a space, &amp;/&lt;/&gt;
// become their literal, and every other reference becomes a space.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = tagRe.ReplaceAllString(s, " ")
	s = nbspRe.ReplaceAllString(s, " ")
	for _, e := range entityReplacer {
		s = strings.ReplaceAll(s, e.old, e.new)
	}
	s = otherEntRe.ReplaceAllString(s, " ")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Sanitize cleans a description for display. Text shorter than ten
// characters or made only of dots, dashes and bullets yields "". Longer than
// MaxDescription characters is cut to 277 characters plus an ellipsis.
func Sanitize(s string) string {
	t := CleanText(s)
	n := utf8.RuneCountInString(t)
	if n < minDescription || onlyBulletRe.MatchString(t) {
		return ""
	}
	if n > MaxDescription {
		r := []rune(t)
		return string(r[:MaxDescription-3]) + ellipsis
	}
	return t
}
