package services

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Filler words stripped before keyword matching. Includes storefront-specific
// verbs ("find", "show") that say nothing about the product itself.
var stopWords = map[string]struct{}{
	"i": {}, "me": {}, "my": {}, "we": {}, "our": {}, "you": {}, "your": {},
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "do": {}, "does": {}, "did": {}, "have": {}, "has": {},
	"had": {}, "will": {}, "would": {}, "could": {}, "should": {}, "can": {},
	"may": {}, "might": {}, "shall": {}, "not": {}, "no": {}, "nor": {},
	"but": {}, "or": {}, "and": {}, "if": {}, "then": {}, "so": {}, "than": {},
	"too": {}, "very": {}, "just": {}, "about": {}, "above": {}, "after": {},
	"all": {}, "also": {}, "any": {}, "because": {}, "before": {}, "between": {},
	"both": {}, "by": {}, "each": {}, "for": {}, "from": {}, "get": {},
	"got": {}, "here": {}, "how": {}, "in": {}, "into": {}, "it": {}, "its": {},
	"like": {}, "make": {}, "more": {}, "most": {}, "much": {}, "need": {},
	"of": {}, "on": {}, "one": {}, "only": {}, "other": {}, "out": {},
	"over": {}, "own": {}, "same": {}, "some": {}, "such": {}, "that": {},
	"their": {}, "them": {}, "there": {}, "these": {}, "they": {}, "this": {},
	"to": {}, "up": {}, "us": {}, "want": {}, "what": {}, "when": {},
	"where": {}, "which": {}, "while": {}, "who": {}, "with": {},
	"find": {}, "show": {}, "give": {}, "looking": {}, "something": {},
	"anything": {}, "please": {},
}

// Currency symbols survive so "under €50" keeps its budget hint.
var keywordStripRe = regexp.MustCompile(`[^\w\s€$]`)

// ExtractKeywords lowercases the text, strips punctuation and drops stop
// words and single-character tokens. Used for the planner fallback and for
// post-retrieval relevance scoring.
func ExtractKeywords(text string) []string {
	cleaned := keywordStripRe.ReplaceAllString(strings.ToLower(text), " ")
	words := strings.Fields(cleaned)
	keywords := make([]string, 0, len(words))
	for _, word := range words {
		if utf8.RuneCountInString(word) <= 1 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		keywords = append(keywords, word)
	}
	return keywords
}
