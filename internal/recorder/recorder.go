package recorder

import "time"

// Record is one persisted analysis run.
type Record struct {
	ID         int64
	Ticker     string
	Price      float64
	Predicted  float64
	Sentiment  float64
	Confidence float64
	ModelKind  string
	Trained    bool
	Timestamp  time.Time
}

// Recorder persists analysis history for later review.
type Recorder interface {
	Record(rec *Record) error
	History(ticker string, limit int) ([]Record, error)
	Close() error
}
