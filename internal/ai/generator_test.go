package ai

import (
	"context"
	"errors"
	"testing"
)

func TestParseQuestions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		max    int
		expect []string
	}{
		{
			name: "numbered list",
			raw: "Here are your questions:\n1. How does Django's ORM handle lazy querysets?\n2) What is an index in PostgreSQL?\n\n3 - Explain Python generators.",
			max:  5,
			expect: []string{
				"How does Django's ORM handle lazy querysets?",
				"What is an index in PostgreSQL?",
				"Explain Python generators.",
			},
		},
		{
			name:   "bullets and markdown",
			raw:    "- **What is a goroutine leak?**\n* How do you size a worker pool?\n• ok",
			max:    5,
			expect: []string{"What is a goroutine leak?", "How do you size a worker pool?"},
		},
		{
			name:   "question prefixes",
			raw:    "Q1: Describe the CAP theorem.\nQuestion 2. When would you use Redis streams?",
			max:    5,
			expect: []string{"Describe the CAP theorem.", "When would you use Redis streams?"},
		},
		{
			name:   "respects max",
			raw:    "1. First long question?\n2. Second long question?\n3. Third long question?",
			max:    2,
			expect: []string{"First long question?", "Second long question?"},
		},
		{
			name:   "short lines dropped",
			raw:    "1. Why?\n2. What?",
			max:    5,
			expect: []string{},
		},
		{
			name:   "zero max",
			raw:    "1. A long enough question?",
			max:    0,
			expect: []string{},
		},
		{
			name:   "negative max",
			raw:    "1. What is a goroutine leak?",
			max:    -1,
			expect: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ParseQuestions(tt.raw, tt.max)
			if len(got) != len(tt.expect) {
				t.Fatalf("expected %d questions, got %d: %q", len(tt.expect), len(got), got)
			}
			for i := range got {
				if got[i] != tt.expect[i] {
					t.Fatalf("question %d: expected %q, got %q", i, tt.expect[i], got[i])
				}
			}
		})
	}
}

func TestDisabledGenerator(t *testing.T) {
	t.Parallel()

	_, err := Disabled{}.Generate(context.Background(), Request{Prompt: "hi"})
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}
