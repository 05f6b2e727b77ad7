package storage

const Schema = `
-- Terms dictionary: every term of the descriptive pass
CREATE TABLE IF NOT EXISTS terms (
    term_id INTEGER PRIMARY KEY AUTOINCREMENT,
    term TEXT UNIQUE NOT NULL,
    label_frequency INTEGER DEFAULT 0,   -- number of labels using the term
    idf REAL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_terms_term ON terms(term);

-- Per-label statistics: each label is one aggregate document
CREATE TABLE IF NOT EXISTS label_terms (
    term_id INTEGER NOT NULL,
    sentiment TEXT NOT NULL,
    term_frequency INTEGER NOT NULL,
    tf REAL DEFAULT 0,
    tfidf REAL DEFAULT 0,
    PRIMARY KEY (term_id, sentiment),
    FOREIGN KEY (term_id) REFERENCES terms(term_id)
);
CREATE INDEX IF NOT EXISTS idx_label_terms_count ON label_terms(sentiment, term_frequency DESC);
CREATE INDEX IF NOT EXISTS idx_label_terms_tfidf ON label_terms(sentiment, tfidf DESC);

-- Topic model: heaviest terms per topic and documents dominated by it
CREATE TABLE IF NOT EXISTS topics (
    topic INTEGER PRIMARY KEY,
    documents INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS topic_terms (
    topic INTEGER NOT NULL,
    rank INTEGER NOT NULL,
    term TEXT NOT NULL,
    weight REAL NOT NULL,
    PRIMARY KEY (topic, rank),
    FOREIGN KEY (topic) REFERENCES topics(topic)
);

-- Held-out evaluation per classifier
CREATE TABLE IF NOT EXISTS model_metrics (
    model TEXT PRIMARY KEY,
    tp INTEGER NOT NULL,
    tn INTEGER NOT NULL,
    fp INTEGER NOT NULL,
    fn INTEGER NOT NULL,
    accuracy REAL NOT NULL,
    kappa REAL NOT NULL,
    sensitivity REAL NOT NULL,
    specificity REAL NOT NULL,
    auc REAL NOT NULL,
    fit_seconds REAL DEFAULT 0,
    evaluated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS roc_points (
    model TEXT NOT NULL,
    point INTEGER NOT NULL,
    fpr REAL NOT NULL,
    tpr REAL NOT NULL,
    threshold REAL,                       -- NULL for the +Inf cutoff
    PRIMARY KEY (model, point),
    FOREIGN KEY (model) REFERENCES model_metrics(model)
);

-- Run metadata: seed, sample size and other settings of the last run
CREATE TABLE IF NOT EXISTS run_metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

INSERT OR IGNORE INTO run_metadata (key, value) VALUES
    ('schema_version', '1'),
    ('run_complete', 'false');
`
