package conversation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/spigell/hh-screener/internal/validation"
)

const maxFieldRunes = 200

var (
	emailCandidate = regexp.MustCompile(`[^\s,;<>()\[\]"']*@[^\s,;<>()\[\]"']*`)
	phoneCandidate = regexp.MustCompile(`\+?\(?\d[\d\s().\-/]{5,}\d`)

	nameLeadIns = []string{
		"my full name is",
		"my name is",
		"name is",
		"name:",
		"i'm",
		"i am",
		"im",
		"this is",
		"it's",
		"it is",
		"call me",
	}

	positionSeparators = regexp.MustCompile(`(?i)\s*(?:[,;/]|\band\b|\bor\b)\s*`)
)

// extractName strips common lead-ins ("my name is ...") and requires a letter.
func extractName(text string) (string, bool) {
	name := strings.TrimSpace(text)
	lower := strings.ToLower(name)
	for _, lead := range nameLeadIns {
		if strings.HasPrefix(lower, lead+" ") || (strings.HasSuffix(lead, ":") && strings.HasPrefix(lower, lead)) {
			name = strings.TrimSpace(name[len(lead):])
			break
		}
	}

	name = strings.Trim(name, " .,!?;:")
	name = strings.Join(strings.Fields(name), " ")
	if !containsLetter(name) || len([]rune(name)) > maxFieldRunes {
		return "", false
	}

	return name, true
}

// findEmail returns the first valid email address in text.
func findEmail(text string) string {
	for _, token := range emailCandidate.FindAllString(text, -1) {
		token = strings.TrimRight(token, ".!?:")
		if validation.ValidEmail(token) {
			return token
		}
	}
	return ""
}

// findPhone returns the first valid phone number in text, ignoring anything
// that is part of an email-like token.
func findPhone(text string) string {
	stripped := emailCandidate.ReplaceAllString(text, " ")
	for _, candidate := range phoneCandidate.FindAllString(stripped, -1) {
		candidate = strings.TrimSpace(candidate)
		if validation.ValidPhone(candidate) {
			return candidate
		}
	}
	return ""
}

// extractPositions splits "Backend Developer, SRE or Platform Engineer" into entries.
func extractPositions(text string) []string {
	parts := positionSeparators.Split(strings.TrimSpace(text), -1)
	positions := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.Trim(part, " .!?")
		if !hasContent(part) || len([]rune(part)) > maxFieldRunes {
			continue
		}
		positions = append(positions, part)
	}
	return positions
}

// extractFreeText accepts any answer carrying at least one letter or digit.
func extractFreeText(text string) (string, bool) {
	text = strings.Join(strings.Fields(text), " ")
	if !hasContent(text) || len([]rune(text)) > maxFieldRunes {
		return "", false
	}
	return text, true
}

func hasContent(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) != -1
}

func containsLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) != -1
}
