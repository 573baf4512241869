package risk

import (
	"strings"

	"github.com/calder/vouch/internal/domain/statement"
)

// Template is one known institution's statement signature: the keywords
// whose presence in body text or header identifies its layout.
type Template struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// DefaultTemplates returns the built-in institution catalog.
func DefaultTemplates() []Template {
	return []Template{
		{Name: "RBC", Keywords: []string{"Royal Bank", "RBC", "Royal"}},
		{Name: "TD", Keywords: []string{"TD Bank", "Toronto-Dominion", "TD Canada"}},
		{Name: "BMO", Keywords: []string{"Bank of Montreal", "BMO", "BMO Bank"}},
		{Name: "Scotiabank", Keywords: []string{"Scotiabank", "Scotia", "Bank of Nova Scotia"}},
		{Name: "CIBC", Keywords: []string{"CIBC", "Canadian Imperial", "Imperial Bank"}},
	}
}

// TemplateKeywords flattens the catalog into the distinct lowercased
// keyword set the scanner is built from.
func TemplateKeywords(templates []Template) []string {
	seen := make(map[string]bool)
	var keywords []string
	for _, tpl := range templates {
		for _, kw := range tpl.Keywords {
			lower := strings.ToLower(kw)
			if !seen[lower] {
				seen[lower] = true
				keywords = append(keywords, lower)
			}
		}
	}
	return keywords
}

func keywordOwners(templates []Template) map[string]string {
	owners := make(map[string]string)
	for _, tpl := range templates {
		for _, kw := range tpl.Keywords {
			lower := strings.ToLower(kw)
			if _, taken := owners[lower]; !taken {
				owners[lower] = tpl.Name
			}
		}
	}
	return owners
}

// RecognizeTemplate scans the first five rows' descriptions and then the
// header for known institution keywords. It returns the matched template
// name (empty when unknown) and a recognition confidence: 0.9 for a body
// match, 0.85 for a header-only match, 0.3 otherwise.
func (d *Detector) RecognizeTemplate(t *statement.Table) (string, float64) {
	if len(t.Rows) == 0 {
		return "", 0
	}

	var parts []string
	for i := 0; i < len(t.Rows) && i < 5; i++ {
		if t.Rows[i].Description != "" {
			parts = append(parts, t.Rows[i].Description)
		}
	}
	body := strings.ToLower(strings.Join(parts, " "))
	if name := d.resolveTemplate(d.scanner.Match(body)); name != "" {
		return name, 0.9
	}

	if len(t.Header.Columns) > 0 {
		header := strings.ToLower(strings.Join(t.Header.Columns, " "))
		if name := d.resolveTemplate(d.scanner.Match(header)); name != "" {
			return name, 0.85
		}
	}

	return "", 0.3
}

// resolveTemplate maps matched keywords back to the first owning
// template in catalog order.
func (d *Detector) resolveTemplate(matched []string) string {
	if len(matched) == 0 {
		return ""
	}
	hits := make(map[string]bool, len(matched))
	for _, kw := range matched {
		if owner, ok := d.owner[kw]; ok {
			hits[owner] = true
		}
	}
	for _, tpl := range d.order {
		if hits[tpl.Name] {
			return tpl.Name
		}
	}
	return ""
}

// containsScanner is the scanner used when no automaton is injected: a
// plain substring pass over the keyword list.
type containsScanner []string

func (c containsScanner) Match(content string) []string {
	var hits []string
	for _, kw := range c {
		if strings.Contains(content, kw) {
			hits = append(hits, kw)
		}
	}
	return hits
}
