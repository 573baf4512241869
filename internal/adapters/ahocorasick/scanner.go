// Package ahocorasick implements the ports.KeywordScanner interface using an
// Aho-Corasick automaton. One pass over the content finds every keyword in
// the set, so scanning cost does not grow with the number of templates.
package ahocorasick

import (
	aho "github.com/petar-dambovaliev/aho-corasick"
)

// Scanner implements ports.KeywordScanner. The automaton is compiled once
// at construction; Match is safe for concurrent use.
type Scanner struct {
	automaton aho.AhoCorasick
	keywords  []string
}

// NewScanner compiles an automaton from the given keywords. Matching is
// case-sensitive; callers lowercase both keywords and content.
func NewScanner(keywords []string) *Scanner {
	kw := make([]string, len(keywords))
	copy(kw, keywords)

	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	return &Scanner{
		automaton: builder.Build(kw),
		keywords:  kw,
	}
}

// Match returns the distinct keywords found in content, or nil when none
// match.
func (s *Scanner) Match(content string) []string {
	if len(s.keywords) == 0 {
		return nil
	}
	matches := s.automaton.FindAll(content)
	if len(matches) == 0 {
		return nil
	}

	// Deduplicate by keyword
	seen := make(map[string]bool, len(matches))
	var result []string
	for i := range matches {
		kw := s.keywords[matches[i].Pattern()]
		if !seen[kw] {
			seen[kw] = true
			result = append(result, kw)
		}
	}
	return result
}
