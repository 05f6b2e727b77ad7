package tokenizer

import (
	"bufio"
	"bytes"
	_ "embed"
	"sort"
	"strings"
)

//go:embed stopwords_en.txt
var stopWordsRaw []byte

// StopWordSet is a read-only set of surface forms. Matching is exact and
// case-sensitive. The zero value is an empty set.
type StopWordSet struct {
	words map[string]struct{}
}

// NewStopWordSet copies words into a new set; later changes to the slice do
// not affect it.
func NewStopWordSet(words ...string) StopWordSet {
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		if word == "" {
			continue
		}
		set[word] = struct{}{}
	}
	return StopWordSet{words: set}
}

// DefaultStopWords returns the embedded English list (snowball plus SMART).
func DefaultStopWords() StopWordSet {
	var words []string
	scanner := bufio.NewScanner(bytes.NewReader(stopWordsRaw))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return NewStopWordSet(words...)
}

func (s StopWordSet) Contains(word string) bool {
	_, ok := s.words[word]
	return ok
}

func (s StopWordSet) Len() int {
	return len(s.words)
}

// Words returns the members in lexicographic order.
func (s StopWordSet) Words() []string {
	words := make([]string, 0, len(s.words))
	for word := range s.words {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}
