package textprocessor

import "sort"

// Vocabulary is an ordered set of distinct terms. Terms are kept in
// lexicographic order, so two vocabularies built from the same terms are
// equal element by element. A Vocabulary is never modified after it is built.
type Vocabulary struct {
	terms []string
	index map[string]int
}

func NewVocabulary(terms []string) Vocabulary {
	index := make(map[string]int, len(terms))
	for _, term := range terms {
		index[term] = 0
	}

	sorted := make([]string, 0, len(index))
	for term := range index {
		sorted = append(sorted, term)
	}
	sort.Strings(sorted)

	for i, term := range sorted {
		index[term] = i
	}
	return Vocabulary{terms: sorted, index: index}
}

func (v Vocabulary) Len() int {
	return len(v.terms)
}

// Terms returns a copy of the terms in column order.
func (v Vocabulary) Terms() []string {
	return append([]string(nil), v.terms...)
}

func (v Vocabulary) Term(i int) string {
	return v.terms[i]
}

// Index returns the column of term, or -1.
func (v Vocabulary) Index(term string) int {
	i, ok := v.index[term]
	if !ok {
		return -1
	}
	return i
}

func (v Vocabulary) Contains(term string) bool {
	_, ok := v.index[term]
	return ok
}

// Equal reports whether both vocabularies hold the same terms in the same order.
func (v Vocabulary) Equal(other Vocabulary) bool {
	if len(v.terms) != len(other.terms) {
		return false
	}
	for i := range v.terms {
		if v.terms[i] != other.terms[i] {
			return false
		}
	}
	return true
}
