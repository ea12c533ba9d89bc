package ats

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxPhraseSize is the longest phrase emitted alongside word tokens.
const maxPhraseSize = 3

// Normalize lower-cases text, strips punctuation other than the characters
// that carry meaning in technical terms (+ # . -), collapses whitespace, and
// produces word tokens plus every adjacent bigram and trigram.
// It never fails; empty or whitespace-only input yields empty Tokens.
func Normalize(text string) Tokens {
	cleaned := stripPunctuation(foldAccents(text))

	var words []Token
	for _, field := range strings.Fields(cleaned) {
		raw := trimWord(field)
		if raw == "" {
			continue
		}
		words = append(words, Token{
			Text:  strings.ToLower(raw),
			Raw:   raw,
			Start: len(words),
			Size:  1,
		})
	}

	return Tokens{
		Words:   words,
		Phrases: buildPhrases(words),
	}
}

// foldAccents maps "Résumé" to "Resume" so accented and plain spellings compare equal.
func foldAccents(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return folded
}

func stripPunctuation(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return r
		case r == '+', r == '#', r == '.', r == '-':
			return r
		default:
			return ' '
		}
	}, text)
}

// trimWord removes sentence punctuation around a word while keeping
// inner dots and dashes ("node.js", "ci-cd"), a leading dot (".net") and
// trailing "+"/"#" ("c++", "c#").
func trimWord(word string) string {
	word = strings.TrimRight(word, ".")
	word = strings.Trim(word, "-")
	if strings.HasPrefix(word, "..") {
		word = strings.TrimLeft(word, ".")
	}
	if !strings.ContainsFunc(word, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) {
		return ""
	}
	return word
}

func buildPhrases(words []Token) []Token {
	var phrases []Token
	for size := 2; size <= maxPhraseSize; size++ {
		for i := 0; i+size <= len(words); i++ {
			phrases = append(phrases, joinTokens(words[i:i+size], i))
		}
	}
	return phrases
}

func joinTokens(words []Token, start int) Token {
	texts := make([]string, len(words))
	raws := make([]string, len(words))
	for i, w := range words {
		texts[i] = w.Text
		raws[i] = w.Raw
	}
	return Token{
		Text:  strings.Join(texts, " "),
		Raw:   strings.Join(raws, " "),
		Start: start,
		Size:  len(words),
	}
}
