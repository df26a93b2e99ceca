package predict

import (
	"math"
	"testing"
	"time"

	"invest-sentinel/internal/types"
)

func mkSeries(closes []float64, volumes []float64) types.PriceSeries {
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	s := make(types.PriceSeries, len(closes))
	for i, c := range closes {
		v := 1000.0
		if volumes != nil {
			v = volumes[i]
		}
		s[i] = types.PriceBar{
			Date:   base.AddDate(0, 0, i),
			Open:   c * 0.99,
			High:   c * 1.01,
			Low:    c * 0.98,
			Close:  c,
			Volume: v,
		}
	}
	return s
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildFeatures_SingleBar(t *testing.T) {
	s := mkSeries([]float64{42.5}, nil)
	feats := BuildFeatures(s)

	if len(feats) != 1 {
		t.Fatalf("expected 1 vector, got %d", len(feats))
	}
	f := feats[0]
	if !almostEqual(f.PrevClose, 42.5) {
		t.Errorf("previous close should degrade to current close, got %f", f.PrevClose)
	}
	if f.Volatility5 != 0 {
		t.Errorf("volatility of a single bar must be 0, got %f", f.Volatility5)
	}
	if !almostEqual(f.MovingAvg5, 42.5) {
		t.Errorf("moving average of a single bar must equal close, got %f", f.MovingAvg5)
	}
}

func TestBuildFeatures_MovingAverageFullWindow(t *testing.T) {
	closes := []float64{10, 11, 12, 13, 14, 15, 16, 17}
	feats := BuildFeatures(mkSeries(closes, nil))

	if len(feats) != len(closes) {
		t.Fatalf("expected %d vectors, got %d", len(closes), len(feats))
	}
	for i := 4; i < len(closes); i++ {
		want := (closes[i-4] + closes[i-3] + closes[i-2] + closes[i-1] + closes[i]) / 5
		if !almostEqual(feats[i].MovingAvg5, want) {
			t.Errorf("moving_avg_5[%d] = %f, want %f", i, feats[i].MovingAvg5, want)
		}
	}
}

func TestBuildFeatures_WindowClampsForShortPrefix(t *testing.T) {
	closes := []float64{10, 20, 30}
	feats := BuildFeatures(mkSeries(closes, nil))

	if !almostEqual(feats[1].MovingAvg5, 15) {
		t.Errorf("moving_avg_5[1] = %f, want 15 (mean of 2 bars)", feats[1].MovingAvg5)
	}
	if !almostEqual(feats[2].MovingAvg5, 20) {
		t.Errorf("moving_avg_5[2] = %f, want 20 (mean of 3 bars)", feats[2].MovingAvg5)
	}
	if !almostEqual(feats[1].PrevClose, 10) {
		t.Errorf("previous_close[1] = %f, want 10", feats[1].PrevClose)
	}
	// one return value inside the window
	if feats[1].Volatility5 != 0 {
		t.Errorf("volatility over a single return must be 0, got %f", feats[1].Volatility5)
	}
}

func TestBuildFeatures_VolumeAverage(t *testing.T) {
	closes := []float64{10, 10, 10, 10, 10, 10}
	volumes := []float64{100, 200, 300, 400, 500, 600}
	feats := BuildFeatures(mkSeries(closes, volumes))

	if !almostEqual(feats[5].VolumeMA5, 400) {
		t.Errorf("volume_ma_5[5] = %f, want 400", feats[5].VolumeMA5)
	}
	// flat closes: zero returns, zero dispersion
	if feats[5].Volatility5 != 0 {
		t.Errorf("volatility of flat closes must be 0, got %f", feats[5].Volatility5)
	}
}

func TestBuildFeatures_VolatilitySampleStdDev(t *testing.T) {
	// returns over the full window: 0.1, -0.1/1.1... use simple numbers
	closes := []float64{100, 110, 99, 108.9, 100}
	feats := BuildFeatures(mkSeries(closes, nil))

	returns := make([]float64, 4)
	for i := 1; i < 5; i++ {
		returns[i-1] = closes[i]/closes[i-1] - 1
	}
	m := (returns[0] + returns[1] + returns[2] + returns[3]) / 4
	var ss float64
	for _, r := range returns {
		ss += (r - m) * (r - m)
	}
	want := math.Sqrt(ss / 3)

	if !almostEqual(feats[4].Volatility5, want) {
		t.Errorf("volatility_5[4] = %f, want %f", feats[4].Volatility5, want)
	}
}
