package recorder

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteRecorderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	r, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	base := time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := r.Record(&Record{
			Ticker:     "600519.SH",
			Price:      1700 + float64(i),
			Predicted:  1710 + float64(i),
			Sentiment:  0.3,
			Confidence: 0.7,
			ModelKind:  "RandomForest",
			Trained:    true,
			Timestamp:  base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	if err := r.Record(&Record{Ticker: "000001.SZ", Price: 10, Predicted: 10.1}); err != nil {
		t.Fatalf("record other ticker: %v", err)
	}

	recs, err := r.History("600519.SH", 2)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	// newest first
	if recs[0].Price != 1702 || recs[1].Price != 1701 {
		t.Errorf("order wrong: %v, %v", recs[0].Price, recs[1].Price)
	}
	if recs[0].ModelKind != "RandomForest" || !recs[0].Trained {
		t.Errorf("fields lost: %+v", recs[0])
	}
	if !recs[0].Timestamp.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("timestamp = %v", recs[0].Timestamp)
	}
}

func TestSQLiteRecorderHistoryEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	r, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	recs, err := r.History("600519.SH", 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("len = %d, want 0", len(recs))
	}
}

func TestNoopRecorder(t *testing.T) {
	n := NewNoopRecorder()
	if err := n.Record(&Record{Ticker: "X"}); err != nil {
		t.Fatal(err)
	}
	recs, err := n.History("X", 1)
	if err != nil || recs != nil {
		t.Errorf("noop history = %v, %v", recs, err)
	}
	if err := n.Close(); err != nil {
		t.Fatal(err)
	}
}
