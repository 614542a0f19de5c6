// Package amharic normalizes and tokenizes Ge'ez-script message text
// ahead of entity labeling and extraction.
package amharic

import (
	"regexp"
	"strings"
)

// Ethiopic punctuation and numeral characters stripped during normalization.
var punctuation = regexp.MustCompile(`[፡።፣፤፥፦፧፨,፠፩፪፫፬፭፮፯፰፱፲፳፴፵፶፷፸፹፺፻፿]`)

var whitespace = regexp.MustCompile(`\s+`)

// asciiEdge trims ASCII punctuation clinging to token boundaries, the way a
// word tokenizer separates "ዋጋ:" or "(ቦሌ)" into clean word tokens.
const asciiEdge = `!"#$%&'()*+-./:;<=>?@[\]^_{|}~` + "`"

// Normalize strips Ethiopic punctuation and numerals and collapses all
// whitespace runs to single spaces. Normalize is idempotent.
func Normalize(text string) string {
	text = punctuation.ReplaceAllString(text, "")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Tokenize splits normalized text into word tokens. ASCII punctuation glued
// to a word is split off and dropped; empty tokens never appear.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, asciiEdge)
		if f == "" {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// Preprocess normalizes then tokenizes message text.
func Preprocess(text string) []string {
	return Tokenize(Normalize(text))
}
