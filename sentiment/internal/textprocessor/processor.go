package textprocessor

import (
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/corpus"
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/tokenizer"
)

// Options configures one normalization pass. StopWords is held by value and
// never shared with other passes.
type Options struct {
	StopWords tokenizer.StopWordSet
	Artifact  string
	Stem      bool
}

func DefaultOptions() Options {
	return Options{
		StopWords: tokenizer.DefaultStopWords(),
		Artifact:  tokenizer.MarkupArtifact,
		Stem:      true,
	}
}

// TokenRecord is one surviving token of one review.
type TokenRecord struct {
	ReviewID  int
	Sentiment corpus.Sentiment
	Word      string
}

// Result is the output of a normalization pass: the token records in review
// order and the vocabulary they span.
type Result struct {
	Tokens     []TokenRecord
	Vocabulary Vocabulary
}

type TextProcessor struct {
	tokenizer *tokenizer.Tokenizer
	stemmer   *Stemmer
	stem      bool
}

func NewTextProcessor(opts Options) *TextProcessor {
	return &TextProcessor{
		tokenizer: tokenizer.NewTokenizerWith(opts.StopWords, opts.Artifact),
		stemmer:   NewStemmer(),
		stem:      opts.Stem,
	}
}

// Process tokenizes and filters text, then stems the survivors when stemming
// is enabled. A stem that is itself filtered ("wells" -> "well") is dropped.
func (tp *TextProcessor) Process(text string) []string {
	tokens := tp.tokenizer.Tokenize(text)
	if !tp.stem {
		return tokens
	}

	stemmed := tokens[:0]
	for _, token := range tokens {
		stem := tp.stemmer.Stem(token)
		if tp.tokenizer.Drops(stem) {
			continue
		}
		stemmed = append(stemmed, stem)
	}
	return stemmed
}

// ProcessReview turns one review into its token records. A review whose
// tokens are all filtered out yields nil.
func (tp *TextProcessor) ProcessReview(review corpus.Review) []TokenRecord {
	words := tp.Process(review.Text)
	if len(words) == 0 {
		return nil
	}

	records := make([]TokenRecord, len(words))
	for i, word := range words {
		records[i] = TokenRecord{
			ReviewID:  review.ID,
			Sentiment: review.Sentiment,
			Word:      word,
		}
	}
	return records
}

// Normalize processes reviews sequentially.
func (tp *TextProcessor) Normalize(reviews []corpus.Review) Result {
	perReview := make([][]TokenRecord, len(reviews))
	for i, review := range reviews {
		perReview[i] = tp.ProcessReview(review)
	}
	return collect(perReview)
}

func collect(perReview [][]TokenRecord) Result {
	total := 0
	for _, records := range perReview {
		total += len(records)
	}

	tokens := make([]TokenRecord, 0, total)
	seen := make(map[string]struct{})
	var terms []string
	for _, records := range perReview {
		for _, record := range records {
			tokens = append(tokens, record)
			if _, ok := seen[record.Word]; !ok {
				seen[record.Word] = struct{}{}
				terms = append(terms, record.Word)
			}
		}
	}

	return Result{
		Tokens:     tokens,
		Vocabulary: NewVocabulary(terms),
	}
}

// GroupByReview returns each review's words keyed by review ID.
func GroupByReview(tokens []TokenRecord) map[int][]string {
	grouped := make(map[int][]string)
	for _, t := range tokens {
		grouped[t.ReviewID] = append(grouped[t.ReviewID], t.Word)
	}
	return grouped
}
