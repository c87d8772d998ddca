// Package terms surfaces candidate medical terms from free encounter text by
// applying categorized pattern rules.
package terms

import (
	"regexp"
	"sort"
	"strings"
)

// Set is an unordered collection of distinct terms.
type Set map[string]bool

func (s Set) Add(term string) { s[term] = true }

func (s Set) Has(term string) bool { return s[term] }

// Sorted returns the members in lexical order. Used wherever a set has to
// render into deterministic output.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for term := range s {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}

// Extractor matches the category rule tables against free text. Patterns
// compile once at construction; the zero value is not usable.
type Extractor struct {
	compiled map[Category][]*regexp.Regexp
}

// NewExtractor compiles the default clinical rule tables.
func NewExtractor() *Extractor {
	return NewRuleExtractor(categoryRules)
}

// NewRuleExtractor compiles a caller-supplied rule table. Every rule is
// wrapped in case-insensitive word boundaries, so rules stay readable at the
// call site. Panics on an invalid pattern, same as regexp.MustCompile.
func NewRuleExtractor(rules map[Category][]string) *Extractor {
	compiled := make(map[Category][]*regexp.Regexp, len(rules))
	for cat, patterns := range rules {
		res := make([]*regexp.Regexp, 0, len(patterns))
		for _, pattern := range patterns {
			res = append(res, regexp.MustCompile(`(?i)\b`+pattern+`\b`))
		}
		compiled[cat] = res
	}
	return &Extractor{compiled: compiled}
}

// Extract returns, per category, the distinct substrings of text matched by
// that category's rules. Matches keep their original casing; duplicates
// within a category collapse.
func (e *Extractor) Extract(text string) map[Category]Set {
	out := make(map[Category]Set, len(e.compiled))
	for cat, res := range e.compiled {
		set := Set{}
		for _, re := range res {
			for _, match := range re.FindAllString(text, -1) {
				set.Add(match)
			}
		}
		out[cat] = set
	}
	return out
}

// WarningSentences scans a description field sentence by sentence and
// returns, verbatim and in original order, every sentence containing a
// warning indicator. Unlike Extract it never deduplicates.
func (e *Extractor) WarningSentences(description string) []string {
	var out []string
	for _, sentence := range strings.Split(description, ".") {
		lower := strings.ToLower(sentence)
		for _, indicator := range warningIndicators {
			if strings.Contains(lower, indicator) {
				out = append(out, strings.TrimSpace(sentence))
				break
			}
		}
	}
	return out
}
