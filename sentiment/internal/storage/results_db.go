package storage

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/corpus"
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/evaluation"
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/frequency"
	"github.com/deidaraiorek/imdbsentiment/sentiment/internal/topics"
)

type ResultsDB struct {
	db *sql.DB
}

func NewResultsDB(dbPath string) (*ResultsDB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open results database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	resultsDB := &ResultsDB{
		db: db,
	}

	if err := resultsDB.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return resultsDB, nil
}

func (rdb *ResultsDB) initSchema() error {
	_, err := rdb.db.Exec(Schema)
	return err
}

func (rdb *ResultsDB) Close() error {
	return rdb.db.Close()
}

func (rdb *ResultsDB) SetMetadata(key, value string) error {
	_, err := rdb.db.Exec(
		"INSERT OR REPLACE INTO run_metadata (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)",
		key, value,
	)
	return err
}

func (rdb *ResultsDB) GetMetadata(key string) (string, error) {
	var value string
	err := rdb.db.QueryRow(
		"SELECT value FROM run_metadata WHERE key = ?",
		key,
	).Scan(&value)
	return value, err
}

// SaveTermTable replaces the stored term statistics with table.
func (rdb *ResultsDB) SaveTermTable(table *frequency.Table) error {
	tx, err := rdb.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM label_terms"); err != nil {
		return fmt.Errorf("failed to clear label terms: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM terms"); err != nil {
		return fmt.Errorf("failed to clear terms: %w", err)
	}

	getTermStmt, err := tx.Prepare("SELECT term_id FROM terms WHERE term = ?")
	if err != nil {
		return err
	}
	defer getTermStmt.Close()

	insertTermStmt, err := tx.Prepare("INSERT INTO terms (term, label_frequency, idf) VALUES (?, 1, ?)")
	if err != nil {
		return err
	}
	defer insertTermStmt.Close()

	updateLFStmt, err := tx.Prepare("UPDATE terms SET label_frequency = label_frequency + 1 WHERE term_id = ?")
	if err != nil {
		return err
	}
	defer updateLFStmt.Close()

	insertLabelTermStmt, err := tx.Prepare(
		"INSERT INTO label_terms (term_id, sentiment, term_frequency, tf, tfidf) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		return err
	}
	defer insertLabelTermStmt.Close()

	for _, s := range corpus.Sentiments {
		for _, st := range table.Terms(s) {
			var termID int64

			err := getTermStmt.QueryRow(st.Term).Scan(&termID)
			if err == sql.ErrNoRows {
				result, err := insertTermStmt.Exec(st.Term, st.IDF)
				if err != nil {
					return fmt.Errorf("failed to insert term %q: %w", st.Term, err)
				}
				termID, err = result.LastInsertId()
				if err != nil {
					return err
				}
			} else if err != nil {
				return fmt.Errorf("failed to query term %q: %w", st.Term, err)
			} else {
				if _, err := updateLFStmt.Exec(termID); err != nil {
					return fmt.Errorf("failed to update label frequency for term %q: %w", st.Term, err)
				}
			}

			if _, err := insertLabelTermStmt.Exec(termID, s.String(), st.Count, st.TF, st.TFIDF); err != nil {
				return fmt.Errorf("failed to insert %s statistics for term %q: %w", s, st.Term, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// TopTerms reads back the n highest ranked terms of sentiment, ties ordered
// by term. n <= 0 reads every term.
func (rdb *ResultsDB) TopTerms(s corpus.Sentiment, n int, by frequency.Metric) ([]frequency.TermStat, error) {
	if n <= 0 {
		n = -1
	}
	order := "lt.term_frequency DESC"
	if by == frequency.ByTFIDF {
		order = "lt.tfidf DESC"
	}

	rows, err := rdb.db.Query(`
		SELECT t.term, lt.term_frequency, lt.tf, t.idf, lt.tfidf
		FROM label_terms lt
		JOIN terms t ON t.term_id = lt.term_id
		WHERE lt.sentiment = ?
		ORDER BY `+order+`, t.term ASC
		LIMIT ?`,
		s.String(), n,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query top terms: %w", err)
	}
	defer rows.Close()

	var stats []frequency.TermStat
	for rows.Next() {
		var st frequency.TermStat
		if err := rows.Scan(&st.Term, &st.Count, &st.TF, &st.IDF, &st.TFIDF); err != nil {
			return nil, fmt.Errorf("failed to scan term: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// SaveTopics replaces the stored topic model with the top n terms of each
// topic.
func (rdb *ResultsDB) SaveTopics(model *topics.Model, n int) error {
	tx, err := rdb.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM topic_terms"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM topics"); err != nil {
		return err
	}

	insertTopicStmt, err := tx.Prepare("INSERT INTO topics (topic, documents) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer insertTopicStmt.Close()

	insertTermStmt, err := tx.Prepare("INSERT INTO topic_terms (topic, rank, term, weight) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer insertTermStmt.Close()

	for topic, docs := range model.DominantTopicCounts() {
		if _, err := insertTopicStmt.Exec(topic, docs); err != nil {
			return fmt.Errorf("failed to insert topic %d: %w", topic, err)
		}

		terms, err := model.TopTerms(topic, n)
		if err != nil {
			return err
		}
		for rank, wt := range terms {
			if _, err := insertTermStmt.Exec(topic, rank+1, wt.Term, wt.Weight); err != nil {
				return fmt.Errorf("failed to insert term %q of topic %d: %w", wt.Term, topic, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// TopicTerms reads back the stored terms of topic in rank order.
func (rdb *ResultsDB) TopicTerms(topic int) ([]topics.WeightedTerm, error) {
	rows, err := rdb.db.Query(
		"SELECT term, weight FROM topic_terms WHERE topic = ? ORDER BY rank",
		topic,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []topics.WeightedTerm
	for rows.Next() {
		var wt topics.WeightedTerm
		if err := rows.Scan(&wt.Term, &wt.Weight); err != nil {
			return nil, err
		}
		terms = append(terms, wt)
	}
	return terms, rows.Err()
}

// SaveMetrics stores the evaluation of one classifier and its ROC curve,
// replacing any earlier result for the same model.
func (rdb *ResultsDB) SaveMetrics(model string, m evaluation.Metrics, fitTime time.Duration) error {
	tx, err := rdb.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM roc_points WHERE model = ?", model); err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO model_metrics
		    (model, tp, tn, fp, fn, accuracy, kappa, sensitivity, specificity, auc, fit_seconds, evaluated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		model, m.TP, m.TN, m.FP, m.FN, m.Accuracy, m.Kappa, m.Sensitivity, m.Specificity, m.AUC, fitTime.Seconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to save metrics for %s: %w", model, err)
	}

	insertPointStmt, err := tx.Prepare("INSERT INTO roc_points (model, point, fpr, tpr, threshold) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer insertPointStmt.Close()

	for i := range m.ROC.FPR {
		threshold := sql.NullFloat64{}
		if t := m.ROC.Thresholds[i]; !math.IsInf(t, 0) && !math.IsNaN(t) {
			threshold = sql.NullFloat64{Float64: t, Valid: true}
		}
		if _, err := insertPointStmt.Exec(model, i, m.ROC.FPR[i], m.ROC.TPR[i], threshold); err != nil {
			return fmt.Errorf("failed to insert roc point %d for %s: %w", i, model, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Metrics reads back the stored evaluation of model, ROC curve included.
func (rdb *ResultsDB) Metrics(model string) (evaluation.Metrics, error) {
	var m evaluation.Metrics
	err := rdb.db.QueryRow(`
		SELECT tp, tn, fp, fn, accuracy, kappa, sensitivity, specificity, auc
		FROM model_metrics WHERE model = ?`,
		model,
	).Scan(&m.TP, &m.TN, &m.FP, &m.FN, &m.Accuracy, &m.Kappa, &m.Sensitivity, &m.Specificity, &m.AUC)
	if err != nil {
		return evaluation.Metrics{}, err
	}

	rows, err := rdb.db.Query(
		"SELECT fpr, tpr, threshold FROM roc_points WHERE model = ? ORDER BY point",
		model,
	)
	if err != nil {
		return evaluation.Metrics{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var fpr, tpr float64
		var threshold sql.NullFloat64
		if err := rows.Scan(&fpr, &tpr, &threshold); err != nil {
			return evaluation.Metrics{}, err
		}
		t := math.Inf(1)
		if threshold.Valid {
			t = threshold.Float64
		}
		m.ROC.FPR = append(m.ROC.FPR, fpr)
		m.ROC.TPR = append(m.ROC.TPR, tpr)
		m.ROC.Thresholds = append(m.ROC.Thresholds, t)
	}
	return m, rows.Err()
}

// Models lists the evaluated models by descending AUC.
func (rdb *ResultsDB) Models() ([]string, error) {
	rows, err := rdb.db.Query("SELECT model FROM model_metrics ORDER BY auc DESC, model")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var models []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		models = append(models, name)
	}
	return models, rows.Err()
}
