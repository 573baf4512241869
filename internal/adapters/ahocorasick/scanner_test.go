package ahocorasick

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanner_SingleKeyword(t *testing.T) {
	s := NewScanner([]string{"scotia"})
	assert.Equal(t, []string{"scotia"}, s.Match("transfer to scotia branch"))
}

func TestScanner_MultipleKeywords(t *testing.T) {
	s := NewScanner([]string{"rbc", "scotia", "td canada"})
	assert.Equal(t, []string{"rbc", "scotia"}, s.Match("rbc transfer to scotia account"))
}

func TestScanner_DeduplicatesRepeats(t *testing.T) {
	s := NewScanner([]string{"rbc"})
	assert.Equal(t, []string{"rbc"}, s.Match("rbc rbc rbc"))
}

func TestScanner_NoMatch(t *testing.T) {
	s := NewScanner([]string{"cibc"})
	assert.Nil(t, s.Match("hello world"))
}

func TestScanner_EmptyKeywordSet(t *testing.T) {
	s := NewScanner(nil)
	assert.Nil(t, s.Match("anything at all"))
}

func TestScanner_CaseSensitive(t *testing.T) {
	// Caller normalizes case before matching.
	s := NewScanner([]string{"rbc"})
	assert.Nil(t, s.Match("RBC PAYMENT"))
}

func TestScanner_CopiesKeywordSlice(t *testing.T) {
	keywords := []string{"scotia"}
	s := NewScanner(keywords)
	keywords[0] = "mutated"

	assert.Equal(t, []string{"scotia"}, s.Match("scotia deposit"))
}
