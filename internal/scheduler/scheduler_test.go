package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"invest-sentinel/internal/types"
)

type countingAnalyzer struct {
	mu      sync.Mutex
	tickers []string
	err     error
}

func (c *countingAnalyzer) Run(_ context.Context, ticker string) (*types.AnalysisResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickers = append(c.tickers, ticker)
	if c.err != nil {
		return nil, c.err
	}
	return &types.AnalysisResult{Ticker: ticker}, nil
}

func TestRunNowCoversAllTickers(t *testing.T) {
	a := &countingAnalyzer{}
	s := New(context.Background(), a, []string{"600519.SH", "000001.SZ"}, 0)
	s.RunNow()

	if len(a.tickers) != 2 {
		t.Fatalf("runs = %d, want 2", len(a.tickers))
	}
	if a.tickers[0] != "600519.SH" || a.tickers[1] != "000001.SZ" {
		t.Errorf("order = %v", a.tickers)
	}
}

func TestRunNowContinuesAfterFailure(t *testing.T) {
	a := &countingAnalyzer{err: errors.New("upstream down")}
	s := New(context.Background(), a, []string{"A", "B", "C"}, 0)
	s.RunNow()

	if len(a.tickers) != 3 {
		t.Errorf("runs = %d, want all tickers attempted", len(a.tickers))
	}
}

func TestRunNowStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := &countingAnalyzer{}
	s := New(ctx, a, []string{"A", "B"}, 0)
	s.RunNow()

	if len(a.tickers) != 0 {
		t.Errorf("runs = %d, want 0 after cancel", len(a.tickers))
	}
}

func TestRegisterRejectsBadCron(t *testing.T) {
	s := New(context.Background(), &countingAnalyzer{}, nil, 0)
	if err := s.Register("not a cron spec"); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}

func TestRegisterAcceptsValidCron(t *testing.T) {
	s := New(context.Background(), &countingAnalyzer{}, nil, 0)
	if err := s.Register("0 0 9 * * 1-5"); err != nil {
		t.Fatalf("register: %v", err)
	}
}
