package textprocessor

import (
	"sync"

	"github.com/kljensen/snowball"
)

// maxStemPasses bounds the re-stemming loop in Stem.
const maxStemPasses = 4

// Stemmer reduces English words to their snowball stem. Stem is a fixed
// point: Stem(Stem(w)) == Stem(w). Results are cached and the stemmer is
// safe for concurrent use.
type Stemmer struct {
	language string
	cache    sync.Map
}

func NewStemmer() *Stemmer {
	return &Stemmer{language: "english"}
}

func (s *Stemmer) Stem(word string) string {
	if v, ok := s.cache.Load(word); ok {
		return v.(string)
	}

	stem := word
	for i := 0; i < maxStemPasses; i++ {
		next, err := snowball.Stem(stem, s.language, true)
		if err != nil || next == stem || next == "" {
			break
		}
		stem = next
	}

	s.cache.Store(word, stem)
	if stem != word {
		s.cache.Store(stem, stem)
	}
	return stem
}
