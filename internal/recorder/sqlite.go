package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"invest-sentinel/internal/logger"
)

// SQLiteRecorder persists analysis history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

var _ Recorder = (*SQLiteRecorder)(nil)

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so history reads do not block run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info(context.Background(), "Sqlite recorder opened", "path", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_history (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			ticker           TEXT NOT NULL,
			current_price    REAL,
			predicted_price  REAL,
			sentiment_score  REAL,
			confidence_score REAL,
			model_kind       TEXT,
			trained          INTEGER,
			timestamp        INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_ticker_ts ON analysis_history(ticker, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) Record(rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	trained := 0
	if rec.Trained {
		trained = 1
	}

	_, err := r.db.Exec(`INSERT INTO analysis_history
		(ticker, current_price, predicted_price, sentiment_score, confidence_score, model_kind, trained, timestamp)
		VALUES (?,?,?,?,?,?,?,?)`,
		rec.Ticker, rec.Price, rec.Predicted, rec.Sentiment,
		rec.Confidence, rec.ModelKind, trained, ts.Unix(),
	)
	return err
}

// History returns the newest records for a ticker, most recent first.
func (r *SQLiteRecorder) History(ticker string, limit int) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(`SELECT id, ticker, current_price, predicted_price,
		sentiment_score, confidence_score, model_kind, trained, timestamp
		FROM analysis_history WHERE ticker = ?
		ORDER BY timestamp DESC, id DESC LIMIT ?`, ticker, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var trained int
		var ts int64
		if err := rows.Scan(&rec.ID, &rec.Ticker, &rec.Price, &rec.Predicted,
			&rec.Sentiment, &rec.Confidence, &rec.ModelKind, &trained, &ts); err != nil {
			return nil, err
		}
		rec.Trained = trained != 0
		rec.Timestamp = time.Unix(ts, 0)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	logger.Info(context.Background(), "Closing sqlite recorder")
	return r.db.Close()
}
