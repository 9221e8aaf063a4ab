package conversation

import (
	"strings"
	"unicode"
)

var exitKeywords = map[string]struct{}{
	"exit":    {},
	"quit":    {},
	"bye":     {},
	"goodbye": {},
	"stop":    {},
	"end":     {},
	"cancel":  {},
	"leave":   {},
}

// Words that may surround an exit keyword without changing the intent,
// e.g. "I want to quit" or "let's stop the interview".
var exitFillers = map[string]struct{}{
	"i": {}, "i'd": {}, "id": {}, "want": {}, "wanna": {}, "would": {}, "like": {},
	"to": {}, "let's": {}, "lets": {}, "let": {}, "us": {}, "please": {}, "now": {},
	"the": {}, "this": {}, "interview": {}, "conversation": {}, "chat": {},
	"session": {}, "screening": {}, "me": {}, "can": {}, "we": {}, "ok": {},
	"okay": {}, "just": {}, "good": {}, "so": {}, "here": {}, "thanks": {}, "thank": {}, "you": {},
}

// IsExitIntent reports whether the input asks to end the conversation. The
// input must consist of an exit keyword optionally surrounded by filler words;
// keywords inside other words ("backend") or longer sentences do not count.
func IsExitIntent(input string) bool {
	words := strings.FieldsFunc(strings.ToLower(strings.TrimSpace(input)), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})

	found := false
	for _, word := range words {
		if _, ok := exitKeywords[word]; ok {
			found = true
			continue
		}
		if _, ok := exitFillers[word]; ok {
			continue
		}
		return false
	}

	return found
}
