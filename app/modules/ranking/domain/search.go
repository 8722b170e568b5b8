package rankingdomain

import (
	"regexp"
	"strings"
)

// MaxSearchTerms caps how many terms a name search uses.
const MaxSearchTerms = 5

var nonWordChars = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// SearchTerms splits a name search argument into at most MaxSearchTerms
// terms. Anything other than letters, digits, underscores and whitespace
// separates terms.
func SearchTerms(arg string) []string {
	terms := strings.Fields(nonWordChars.ReplaceAllString(arg, " "))
	if len(terms) > MaxSearchTerms {
		terms = terms[:MaxSearchTerms]
	}
	return terms
}
