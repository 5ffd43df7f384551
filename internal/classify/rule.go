// Package classify turns free text into curated labels.
//
// Both classifiers walk an ordered table of rules and return the label of the
// first rule that matches. Table order is the tie-break between overlapping
// rules, so the tables must never be reordered or turned into maps.
package classify

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// rule maps one pattern to a label. RE2 has no lookaround, so a rule can name
// a notAfter pattern that must not match the text following a hit (a negative
// lookahead) and a notBefore pattern that must not match the text preceding it
// (a negative lookbehind). A rule matches if at least one hit survives both.
type rule struct {
	re        *regexp.Regexp
	notAfter  *regexp.Regexp
	notBefore *regexp.Regexp
	label     string
}

func newRule(pattern, label string) rule {
	return rule{re: regexp.MustCompile(`(?i)` + pattern), label: label}
}

// unlessFollowedBy anchors pattern at the end of the hit.
func (r rule) unlessFollowedBy(pattern string) rule {
	r.notAfter = regexp.MustCompile(`(?i)^(?:` + pattern + `)`)
	return r
}

// unlessPrecededBy anchors pattern at the start of the hit.
func (r rule) unlessPrecededBy(pattern string) rule {
	r.notBefore = regexp.MustCompile(`(?i)(?:` + pattern + `)$`)
	return r
}

func (r rule) match(text string) bool {
	if r.notAfter == nil && r.notBefore == nil {
		return r.re.MatchString(text)
	}
	for _, loc := range r.re.FindAllStringIndex(text, -1) {
		if r.notAfter != nil && r.notAfter.MatchString(text[loc[1]:]) {
			continue
		}
		if r.notBefore != nil && r.notBefore.MatchString(text[:loc[0]]) {
			continue
		}
		return true
	}
	return false
}

// firstMatch returns the label of the first rule matching text, or "".
func firstMatch(rules []rule, text string) string {
	if text == "" {
		return ""
	}
	for _, r := range rules {
		if r.match(text) {
			return r.label
		}
	}
	return ""
}

// prepare folds compatibility forms (full-width letters, decomposed accents)
// so a single pattern covers them, and flattens line breaks so `.*` spans
// the whole field.
func prepare(s string) string {
	s = norm.NFKC.String(s)
	return strings.Join(strings.Fields(s), " ")
}
