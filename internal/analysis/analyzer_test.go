package analysis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"invest-sentinel/internal/interfaces"
	"invest-sentinel/internal/predict"
	"invest-sentinel/internal/recorder"
	"invest-sentinel/internal/store"
	"invest-sentinel/internal/types"
)

type fakeMarket struct {
	price  float64
	series types.PriceSeries
	err    error
}

func (f *fakeMarket) FetchSeries(_ context.Context, _ string) (float64, types.PriceSeries, error) {
	return f.price, f.series, f.err
}

type fakeSentiment struct {
	report types.SentimentReport
}

func (f *fakeSentiment) GetSentiment(_ context.Context, _ string) types.SentimentReport {
	return f.report
}

type fakePredictor struct {
	result types.PredictionResult
}

func (f *fakePredictor) PredictNext(_ context.Context, _ types.PriceSeries, price, _ float64) types.PredictionResult {
	r := f.result
	r.Price = price
	return r
}

func (f *fakePredictor) ModelInfo() types.ModelInfo { return types.ModelInfo{} }

type captureRecorder struct {
	records []recorder.Record
	err     error
}

func (c *captureRecorder) Record(rec *recorder.Record) error {
	if c.err != nil {
		return c.err
	}
	c.records = append(c.records, *rec)
	return nil
}

func (c *captureRecorder) History(_ string, _ int) ([]recorder.Record, error) { return nil, nil }
func (c *captureRecorder) Close() error                                       { return nil }

type fakeRenderer struct {
	path string
	err  error
}

func (f *fakeRenderer) RenderAnalysis(_ context.Context, _ *types.AnalysisResult, _ types.PriceSeries) (string, error) {
	return f.path, f.err
}

func testSeries(n int) types.PriceSeries {
	series := make(types.PriceSeries, n)
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range series {
		c := 100 + float64(i)
		series[i] = types.PriceBar{Date: base.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000}
	}
	return series
}

func newTestAnalyzer(t *testing.T, market *fakeMarket, sent *fakeSentiment, rec recorder.Recorder, rend chartRenderer) *Analyzer {
	t.Helper()
	t.Setenv("SENTINEL_LOG_DIR", t.TempDir())
	a := New(store.Default(), market, sent, rec, rend)
	a.newPredictor = func(_ context.Context, ticker string, _ types.PriceSeries) interfaces.Predictor {
		return &fakePredictor{result: types.PredictionResult{
			Ticker: ticker, Predicted: 105.5, Confidence: 0.8, ModelKind: "RandomForest", Trained: true,
		}}
	}
	return a
}

func TestRunHappyPath(t *testing.T) {
	rec := &captureRecorder{}
	a := newTestAnalyzer(t,
		&fakeMarket{price: 104, series: testSeries(30)},
		&fakeSentiment{report: types.SentimentReport{Score: 0.4, Label: "positive"}},
		rec,
		&fakeRenderer{path: "/tmp/chart.html"},
	)

	res, err := a.Run(context.Background(), "600519.sh")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Ticker != "600519.SH" {
		t.Errorf("ticker = %q, want upper-cased", res.Ticker)
	}
	if res.Price != 104 || res.Prediction.Predicted != 105.5 {
		t.Errorf("result = %+v", res)
	}
	if res.Sentiment.Score != 0.4 {
		t.Errorf("sentiment = %v", res.Sentiment.Score)
	}
	if res.Bars != 30 {
		t.Errorf("bars = %d", res.Bars)
	}
	if res.ChartPath != "/tmp/chart.html" {
		t.Errorf("chart path = %q", res.ChartPath)
	}
	if len(rec.records) != 1 {
		t.Fatalf("records = %d, want 1", len(rec.records))
	}
	got := rec.records[0]
	if got.Ticker != "600519.SH" || got.Predicted != 105.5 || !got.Trained {
		t.Errorf("record = %+v", got)
	}
}

func TestRunUpstreamFailureIsTerminal(t *testing.T) {
	upstream := fmt.Errorf("%w: connection refused", predict.ErrUpstreamUnavailable)
	rec := &captureRecorder{}
	a := newTestAnalyzer(t, &fakeMarket{err: upstream}, &fakeSentiment{}, rec, nil)

	res, err := a.Run(context.Background(), "600519.SH")
	if res != nil {
		t.Errorf("result should be nil, got %+v", res)
	}
	if !errors.Is(err, predict.ErrUpstreamUnavailable) {
		t.Errorf("err = %v, want ErrUpstreamUnavailable", err)
	}
	if len(rec.records) != 0 {
		t.Errorf("nothing should be recorded on terminal failure")
	}
}

func TestRunRecorderFailureDegrades(t *testing.T) {
	rec := &captureRecorder{err: errors.New("disk full")}
	a := newTestAnalyzer(t,
		&fakeMarket{price: 104, series: testSeries(30)},
		&fakeSentiment{},
		rec,
		nil,
	)

	res, err := a.Run(context.Background(), "600519.SH")
	if err != nil {
		t.Fatalf("Run should not fail on recorder error: %v", err)
	}
	if res == nil || res.Prediction.Predicted != 105.5 {
		t.Errorf("result = %+v", res)
	}
}

func TestRunRunlogFailureDegrades(t *testing.T) {
	// a file where the log directory should be makes every append fail
	blocked := filepath.Join(t.TempDir(), "logs")
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := &captureRecorder{}
	a := newTestAnalyzer(t,
		&fakeMarket{price: 104, series: testSeries(30)},
		&fakeSentiment{},
		rec,
		nil,
	)
	t.Setenv("SENTINEL_LOG_DIR", blocked)

	res, err := a.Run(context.Background(), "600519.SH")
	if err != nil {
		t.Fatalf("Run should not fail on run log error: %v", err)
	}
	if res == nil || res.Prediction.Predicted != 105.5 {
		t.Errorf("result = %+v", res)
	}
	if len(rec.records) != 1 {
		t.Errorf("recorder should still receive the run")
	}
}

func TestRunRendererFailureDegrades(t *testing.T) {
	a := newTestAnalyzer(t,
		&fakeMarket{price: 104, series: testSeries(30)},
		&fakeSentiment{},
		&captureRecorder{},
		&fakeRenderer{err: errors.New("no disk")},
	)

	res, err := a.Run(context.Background(), "600519.SH")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ChartPath != "" {
		t.Errorf("chart path should be empty on render failure, got %q", res.ChartPath)
	}
}

func TestRunRealPredictorUntrainedFallback(t *testing.T) {
	t.Setenv("SENTINEL_LOG_DIR", t.TempDir())
	cfg := store.Default()
	cfg.Predictor.NoiseSeed = 7

	a := New(cfg,
		&fakeMarket{price: 102, series: testSeries(4)},
		&fakeSentiment{report: types.SentimentReport{Score: 0.0, Label: "neutral"}},
		&captureRecorder{},
		nil,
	)

	res, err := a.Run(context.Background(), "600519.SH")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Prediction.Trained {
		t.Error("4 bars should not be enough to train")
	}
	if res.Prediction.ModelKind != "Simple" {
		t.Errorf("model kind = %q", res.Prediction.ModelKind)
	}
	lo, hi := 102*0.98, 102*1.02
	if res.Prediction.Predicted < lo-0.01 || res.Prediction.Predicted > hi+0.01 {
		t.Errorf("predicted %v outside noise bounds [%v, %v]", res.Prediction.Predicted, lo, hi)
	}
}
