package techstack

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parser recognizes technology names in free-form text.
type Parser struct {
	needles []needle
}

type needle struct {
	name string
	text string
	// exact needles match only in their canonical casing.
	exact bool
}

type match struct {
	start int
	end   int
	name  string
}

var defaultParser = New(DefaultCatalog)

// Parse runs the default catalog parser.
func Parse(text string) []string {
	return defaultParser.Parse(text)
}

// New builds a parser for the provided catalog. Entries with an empty name are skipped.
func New(catalog []Technology) *Parser {
	p := &Parser{}
	for _, tech := range catalog {
		name := strings.TrimSpace(tech.Name)
		if name == "" {
			continue
		}

		if isShortWord(name) {
			p.needles = append(p.needles, needle{name: name, text: name, exact: true})
		} else {
			p.needles = append(p.needles, needle{name: name, text: strings.ToLower(name)})
		}
		for _, alias := range tech.Aliases {
			alias = strings.ToLower(strings.TrimSpace(alias))
			if alias == "" {
				continue
			}
			p.needles = append(p.needles, needle{name: name, text: alias})
		}
	}
	return p
}

// Parse returns the canonical names of catalog technologies found in text,
// ordered by where they first appear. Names of one or two letters, like Go or
// R, are matched only in their canonical casing. When nothing from the catalog matches,
// the text is split into tokens which are returned as is.
func (p *Parser) Parse(text string) []string {
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		return []string{}
	}

	if found := p.match(normalized); len(found) > 0 {
		return found
	}

	return tokenize(normalized)
}

func (p *Parser) match(text string) []string {
	lower := strings.ToLower(text)

	var matches []match
	for _, n := range p.needles {
		haystack := lower
		if n.exact {
			haystack = text
		}

		for offset := 0; offset < len(haystack); {
			idx := strings.Index(haystack[offset:], n.text)
			if idx == -1 {
				break
			}

			start := offset + idx
			end := start + len(n.text)
			if atBoundary(haystack, start, end) {
				matches = append(matches, match{start: start, end: end, name: n.name})
			}
			offset = start + 1
		}
	}

	// Leftmost first, longest first on ties, so "SQL Server" beats "SQL".
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].start != matches[j].start {
			return matches[i].start < matches[j].start
		}
		return matches[i].end > matches[j].end
	})

	result := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	claimed := 0
	for _, m := range matches {
		if m.start < claimed {
			continue
		}
		claimed = m.end

		if _, ok := seen[m.name]; ok {
			continue
		}
		seen[m.name] = struct{}{}
		result = append(result, m.name)
	}

	return result
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

func isShortWord(name string) bool {
	if utf8.RuneCountInString(name) > 2 {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case ',', ';', '/', '&', '|':
			return true
		default:
			return unicode.IsSpace(r)
		}
	})

	tokens := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		token := strings.Trim(field, ".!?:()[]\"'")
		if token == "" || strings.EqualFold(token, "and") {
			continue
		}

		key := strings.ToLower(token)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tokens = append(tokens, token)
	}

	return tokens
}
