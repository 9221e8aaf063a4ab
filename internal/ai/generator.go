package ai

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
	ProviderNone   = "none"

	// DefaultMaxTokens caps the length of a single reply.
	DefaultMaxTokens = 500

	minQuestionRunes = 11
)

var ErrDisabled = errors.New("language model is disabled")

// Request is a single completion request.
type Request struct {
	System      string
	Prompt      string
	Temperature float32
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Disabled is a Generator that always fails, so callers use their canned replies.
type Disabled struct{}

func (Disabled) Generate(context.Context, Request) (string, error) {
	return "", ErrDisabled
}

var questionMarker = regexp.MustCompile(`^(?:\d+\s*[.):-]|[-*•]|(?i:q(?:uestion)?\s*\d+\s*[.):-]))\s*`)

// ParseQuestions extracts up to max questions from a numbered or bulleted list.
// Lines of ten characters or fewer and header lines ending in ":" are skipped.
func ParseQuestions(raw string, max int) []string {
	if max <= 0 {
		return []string{}
	}

	questions := make([]string, 0, max)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = questionMarker.ReplaceAllString(line, "")
		line = strings.TrimSpace(strings.Trim(line, "*_`"))
		if utf8.RuneCountInString(line) < minQuestionRunes || strings.HasSuffix(line, ":") {
			continue
		}

		questions = append(questions, line)
		if len(questions) == max {
			break
		}
	}

	return questions
}
