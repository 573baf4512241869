package ports

// KeywordScanner finds known keywords in a block of text using
// multi-pattern matching. One pass over the content finds every
// matching keyword regardless of how many the set holds; callers
// normalize case before matching.
type KeywordScanner interface {
	// Match returns the distinct keywords found in content, or nil
	// when none match.
	Match(content string) []string
}
