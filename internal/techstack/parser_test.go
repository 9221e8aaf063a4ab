package techstack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "comma separated catalog names",
			input:  "Python, Django, PostgreSQL",
			expect: []string{"Python", "Django", "PostgreSQL"},
		},
		{
			name:   "canonical casing",
			input:  "python and DJANGO with postgresql",
			expect: []string{"Python", "Django", "PostgreSQL"},
		},
		{
			name:   "order follows position in text",
			input:  "Mostly Kubernetes these days, before that Go and Redis",
			expect: []string{"Kubernetes", "Go", "Redis"},
		},
		{
			name:   "duplicates collapse",
			input:  "React, react.js, ReactJS and TypeScript",
			expect: []string{"React", "TypeScript"},
		},
		{
			name:   "aliases resolve",
			input:  "golang, postgres, k8s",
			expect: []string{"Go", "PostgreSQL", "Kubernetes"},
		},
		{
			name:   "no match inside longer words",
			input:  "JavaScript and Django",
			expect: []string{"JavaScript", "Django"},
		},
		{
			name:   "longest match wins",
			input:  "SQL Server, C++ and Node.js",
			expect: []string{"SQL Server", "C++", "Node.js"},
		},
		{
			name:   "short names need canonical casing",
			input:  "I mostly go with Python and Django",
			expect: []string{"Python", "Django"},
		},
		{
			name:   "short names in canonical casing",
			input:  "Go, C and R for statistics",
			expect: []string{"Go", "C", "R"},
		},
		{
			name:   "short names keep their aliases",
			input:  "GOLANG and c# mostly",
			expect: []string{"Go", "C#"},
		},
		{
			name:   "fallback tokenization",
			input:  "Widgetscript and FooBarDB",
			expect: []string{"Widgetscript", "FooBarDB"},
		},
		{
			name:   "fallback drops separators and duplicates",
			input:  "Foo; bar / foo & Baz",
			expect: []string{"Foo", "bar", "Baz"},
		},
		{
			name:   "empty",
			input:  "",
			expect: []string{},
		},
		{
			name:   "whitespace only",
			input:  "   \n\t ",
			expect: []string{},
		},
		{
			name:   "only the word and",
			input:  "and",
			expect: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, Parse(tt.input))
		})
	}
}

func TestNewSkipsEmptyEntries(t *testing.T) {
	p := New([]Technology{
		{Name: "  "},
		{Name: "Zig", Aliases: []string{"", "ziglang"}},
	})

	assert.Equal(t, []string{"Zig"}, p.Parse("ziglang"))
	assert.Equal(t, []string{"Zig"}, p.Parse("I write ZIG"))
}
