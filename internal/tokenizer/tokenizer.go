// Package tokenizer splits document fields and query strings into normalized words.
package tokenizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// acronymRegex handles cases like "HTTPRequest" -> "HTTP Request"
var acronymRegex = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)

// camelCaseRegex handles cases like "theOffice" -> "the Office" or "myAPI" -> "my API"
var camelCaseRegex = regexp.MustCompile(`([a-z0-9])([A-Z])`)

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// Tokenize converts a string into a slice of tokens.
// It splits camel/PascalCase, lowercases the string, and splits on anything
// that is not a letter or a digit.
func Tokenize(text string) []string {
	processed := acronymRegex.ReplaceAllString(text, "$1 $2")
	processed = camelCaseRegex.ReplaceAllString(processed, "$1 $2")

	tokens := strings.FieldsFunc(strings.ToLower(processed), isSeparator)
	if tokens == nil {
		return []string{}
	}
	return tokens
}

// QueryTerms tokenizes a user query. lastIsPrefix is true when the query does
// not end with a separator, meaning the user may still be typing the last word.
func QueryTerms(query string) (words []string, lastIsPrefix bool) {
	words = Tokenize(query)
	if len(words) == 0 {
		return words, false
	}
	last, _ := utf8.DecodeLastRuneInString(query)
	return words, !isSeparator(last)
}
