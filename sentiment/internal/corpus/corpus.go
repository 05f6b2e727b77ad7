// Package corpus loads the labelled review dataset.
//
// The input is a CSV file with a header row naming at least the columns
// "review" and "sentiment". Column order is free and extra columns are
// ignored. Each data row becomes one Review whose ID is its 0-based position
// among the data rows.
package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	ReviewColumn    = "review"
	SentimentColumn = "sentiment"
)

type Sentiment int

const (
	Negative Sentiment = iota
	Positive
)

// Sentiments lists both labels in their canonical order.
var Sentiments = []Sentiment{Negative, Positive}

func (s Sentiment) String() string {
	switch s {
	case Negative:
		return "negative"
	case Positive:
		return "positive"
	}
	return fmt.Sprintf("Sentiment(%d)", int(s))
}

// ParseSentiment accepts "positive" or "negative", ignoring case and
// surrounding space.
func ParseSentiment(s string) (Sentiment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "negative":
		return Negative, nil
	case "positive":
		return Positive, nil
	}
	return 0, fmt.Errorf("unknown sentiment %q", s)
}

type Review struct {
	ID        int
	Text      string
	Sentiment Sentiment
}

type Options struct {
	// StripMarkup replaces the HTML fragments in review text with their text
	// content before the review is handed on.
	StripMarkup bool
}

// DataLoadError reports a corpus that could not be read or does not match
// the expected two-column schema.
type DataLoadError struct {
	Path string
	Err  error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("load corpus %s: %v", e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// Load reads the corpus at path.
func Load(path string, opts Options) ([]Review, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: err}
	}
	defer file.Close()

	reviews, err := Read(file, opts)
	if err != nil {
		var dle *DataLoadError
		if errors.As(err, &dle) {
			dle.Path = path
			return nil, dle
		}
		return nil, &DataLoadError{Path: path, Err: err}
	}
	return reviews, nil
}

// Read parses a corpus from r. Errors are *DataLoadError with an empty Path.
func Read(r io.Reader, opts Options) ([]Review, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &DataLoadError{Err: errors.New("empty file")}
	}
	if err != nil {
		return nil, &DataLoadError{Err: fmt.Errorf("read header: %w", err)}
	}

	reviewIdx, err := findColIndex(header, ReviewColumn)
	if err != nil {
		return nil, &DataLoadError{Err: err}
	}
	sentimentIdx, err := findColIndex(header, SentimentColumn)
	if err != nil {
		return nil, &DataLoadError{Err: err}
	}

	var reviews []Review
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &DataLoadError{Err: fmt.Errorf("read row %d: %w", line, err)}
		}
		if reviewIdx >= len(record) || sentimentIdx >= len(record) {
			return nil, &DataLoadError{Err: fmt.Errorf("row %d has %d columns", line, len(record))}
		}

		sentiment, err := ParseSentiment(record[sentimentIdx])
		if err != nil {
			return nil, &DataLoadError{Err: fmt.Errorf("row %d: %w", line, err)}
		}

		text := record[reviewIdx]
		if opts.StripMarkup {
			text = StripMarkup(text)
		}

		reviews = append(reviews, Review{
			ID:        len(reviews),
			Text:      text,
			Sentiment: sentiment,
		})
	}

	return reviews, nil
}

// CountBySentiment tallies reviews per label.
func CountBySentiment(reviews []Review) map[Sentiment]int {
	counts := make(map[Sentiment]int, len(Sentiments))
	for _, r := range reviews {
		counts[r.Sentiment]++
	}
	return counts
}

func findColIndex(header []string, target string) (int, error) {
	for i, colName := range header {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(colName, "\ufeff")), target) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("column %q not found in header", target)
}
