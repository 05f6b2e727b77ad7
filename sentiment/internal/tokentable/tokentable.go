// Package tokentable writes and reads the normalized token table, one token
// per row with the columns sentiment, word and review_id.
package tokentable

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/corpus"
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/textprocessor"
)

const (
	SentimentColumn = "sentiment"
	WordColumn      = "word"
	ReviewIDColumn  = "review_id"
)

// Columns is the header of the table, in order.
var Columns = []string{SentimentColumn, WordColumn, ReviewIDColumn}

func frame(tokens []textprocessor.TokenRecord) dataframe.DataFrame {
	sentiments := make([]string, len(tokens))
	words := make([]string, len(tokens))
	ids := make([]int, len(tokens))
	for i, t := range tokens {
		sentiments[i] = t.Sentiment.String()
		words[i] = t.Word
		ids[i] = t.ReviewID
	}
	return dataframe.New(
		series.New(sentiments, series.String, SentimentColumn),
		series.New(words, series.String, WordColumn),
		series.New(ids, series.Int, ReviewIDColumn),
	)
}

// Write writes tokens in order. An empty token list writes the header only.
func Write(w io.Writer, tokens []textprocessor.TokenRecord) error {
	if err := frame(tokens).WriteCSV(w); err != nil {
		return fmt.Errorf("write token table: %w", err)
	}
	return nil
}

// WriteFile writes the table to path, creating parent directories.
func WriteFile(path string, tokens []textprocessor.TokenRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, tokens); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read parses a table written by Write. Column order does not matter.
func Read(r io.Reader) ([]textprocessor.TokenRecord, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read token table: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read token table: missing header")
	}
	for _, col := range Columns {
		if !contains(records[0], col) {
			return nil, fmt.Errorf("read token table: missing column %q", col)
		}
	}
	if len(records) == 1 {
		return []textprocessor.TokenRecord{}, nil
	}

	df := dataframe.LoadRecords(records,
		dataframe.NaNValues(nil),
		dataframe.WithTypes(map[string]series.Type{
			SentimentColumn: series.String,
			WordColumn:      series.String,
			ReviewIDColumn:  series.Int,
		}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("read token table: %w", df.Err)
	}

	sentiments := df.Col(SentimentColumn).Records()
	words := df.Col(WordColumn).Records()
	ids, err := df.Col(ReviewIDColumn).Int()
	if err != nil {
		return nil, fmt.Errorf("read token table: %s: %w", ReviewIDColumn, err)
	}

	tokens := make([]textprocessor.TokenRecord, df.Nrow())
	for i := range tokens {
		s, err := corpus.ParseSentiment(sentiments[i])
		if err != nil {
			return nil, fmt.Errorf("read token table: row %d: %w", i+1, err)
		}
		tokens[i] = textprocessor.TokenRecord{ReviewID: ids[i], Sentiment: s, Word: words[i]}
	}
	return tokens, nil
}

func ReadFile(path string) ([]textprocessor.TokenRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
