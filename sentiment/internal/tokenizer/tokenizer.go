package tokenizer

import (
	"strings"
	"unicode"
)

// MarkupArtifact is what survives of an HTML line break ("<br />") once the
// markup characters are split away. It is not an English stop word, so it has
// to be dropped on its own.
const MarkupArtifact = "br"

type Tokenizer struct {
	StopWords StopWordSet
	Artifact  string
}

func NewTokenizer() *Tokenizer {
	return &Tokenizer{
		StopWords: DefaultStopWords(),
		Artifact:  MarkupArtifact,
	}
}

// NewTokenizerWith builds a tokenizer around an explicit stop-word set and
// artifact literal. An empty artifact disables artifact removal.
func NewTokenizerWith(stopWords StopWordSet, artifact string) *Tokenizer {
	return &Tokenizer{
		StopWords: stopWords,
		Artifact:  artifact,
	}
}

// Tokenize splits text into lowercase words and drops stop words, the markup
// artifact and anything that is not purely alphabetic.
func (t *Tokenizer) Tokenize(text string) []string {
	words := t.Split(text)

	tokens := make([]string, 0, len(words))

	for _, word := range words {
		if t.Drops(word) {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// Drops reports whether word is a stop word, the markup artifact or not
// purely alphabetic.
func (t *Tokenizer) Drops(word string) bool {
	if t.StopWords.Contains(word) {
		return true
	}
	if t.Artifact != "" && word == t.Artifact {
		return true
	}
	return !t.IsValidToken(word)
}

// Split returns every word-like unit of text, lowercased and unfiltered.
// A word is a run of letters and digits, optionally joined by apostrophes
// ("don't", "film's"). Punctuation is never a token.
func (t *Tokenizer) Split(text string) []string {
	text = t.normalize(text)

	var words []string
	var sb strings.Builder
	runes := []rune(text)

	flush := func() {
		if sb.Len() == 0 {
			return
		}
		words = append(words, sb.String())
		sb.Reset()
	}

	for i, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		case r == '\'' && sb.Len() > 0 && i+1 < len(runes) && isWordRune(runes[i+1]):
			sb.WriteRune(r)
		default:
			flush()
		}
	}
	flush()

	return words
}

func (t *Tokenizer) normalize(text string) string {
	text = strings.ToLower(text)

	text = strings.ReplaceAll(text, "’", "'")
	text = strings.ReplaceAll(text, "‘", "'")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&amp;", " ")

	return text
}

// IsValidToken reports whether every rune of word is a letter.
func (t *Tokenizer) IsValidToken(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
