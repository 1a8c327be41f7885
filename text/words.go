package text

import (
	"regexp"
	"strings"
	"unicode"
)

// Punctuation causes problems for downstream matching. We want to remove
// trailing punctuation but leave embedded punctuation (e.g. map "foo:" but
// keep http://foo/bar), strip possessives, and watch out for
// apostrophe/leftquote/rightquote hell.
var (
	trailingPunct = regexp.MustCompile(`\. |, |: |\?|\.$|,$|:$|;|'s|\x{2018}s|\x{2019}s|"`)
	allPunct      = regexp.MustCompile(`\.|,|:|;|'s|\?|\x{2018}s|\x{2019}s|"`)
	multiSpace    = regexp.MustCompile(` +`)
)

// DePunctuate removes trailing punctuation and possessives, collapsing runs of
// spaces to one.
func DePunctuate(text string) string {
	if text == "" {
		return text
	}
	text = trailingPunct.ReplaceAllString(strings.TrimSpace(text), " ")
	return strings.TrimSpace(multiSpace.ReplaceAllString(text, " "))
}

// DePunctuateAll removes all punctuation, embedded or not.
func DePunctuateAll(text string) string {
	text = allPunct.ReplaceAllString(strings.TrimSpace(text), " ")
	return strings.TrimSpace(multiSpace.ReplaceAllString(text, " "))
}

// DeSpace removes every space.
func DeSpace(text string) string {
	return strings.ReplaceAll(strings.TrimSpace(text), " ", "")
}

// CarefulToLower lowercases each word unless the word is all caps, which
// usually marks an acronym worth preserving.
func CarefulToLower(text string) string {
	words := strings.Split(text, " ")
	for i, w := range words {
		if !allUpper(w) {
			words[i] = strings.ToLower(w)
		}
	}
	return strings.Join(words, " ")
}

func allUpper(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
	}
	return true
}
