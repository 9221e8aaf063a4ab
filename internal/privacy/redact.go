package privacy

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spigell/hh-screener/internal/conversation"
)

// Placeholder replaces identifying values in redacted text.
const Placeholder = "[redacted]"

// Redact replaces the candidate's name, name parts, email, phone and (when the
// policy hashes it) location in text. Matching is case-insensitive and only
// whole words are replaced.
func Redact(text string, c *conversation.Candidate, policy Policy) string {
	if c == nil || text == "" {
		return text
	}

	values := []string{c.FullName, c.Email, c.Phone}
	for _, part := range strings.Fields(c.FullName) {
		if utf8.RuneCountInString(part) > 1 {
			values = append(values, part)
		}
	}
	if policy.HashLocation {
		values = append(values, c.Location)
	}

	var spans [][2]int
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(value))
		for _, loc := range re.FindAllStringIndex(text, -1) {
			if atBoundary(text, loc[0], loc[1]) {
				spans = append(spans, [2]int{loc[0], loc[1]})
			}
		}
	}
	if len(spans) == 0 {
		return text
	}

	// Leftmost first, longest first on ties, so "Alex Chen" wins over "Alex".
	sort.Slice(spans, func(i, j int) bool {
		if spans[i][0] != spans[j][0] {
			return spans[i][0] < spans[j][0]
		}
		return spans[i][1] > spans[j][1]
	})

	var b strings.Builder
	last := 0
	for _, span := range spans {
		if span[0] < last {
			continue
		}
		b.WriteString(text[last:span[0]])
		b.WriteString(Placeholder)
		last = span[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// atBoundary reports whether text[start:end] is not glued to a letter or digit.
func atBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
