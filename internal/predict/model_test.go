package predict

import (
	"math"
	"math/rand"
	"testing"
)

func syntheticRows(n int, seed int64) ([][]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	rows := make([][]float64, n)
	targets := make([]float64, n)
	for i := range rows {
		rows[i] = []float64{rng.Float64() * 10, rng.Float64() * 5, rng.Float64() * 100, rng.Float64()}
		targets[i] = 1 + 2*rows[i][0] - rows[i][1] + 0.5*rows[i][2] + 3*rows[i][3]
	}
	return rows, targets
}

func TestLinearRecoversExactRelation(t *testing.T) {
	rows, targets := syntheticRows(40, 7)

	lin := NewLinear()
	if err := lin.Fit(rows, targets); err != nil {
		t.Fatalf("fit: %v", err)
	}

	probe := []float64{3, 2, 50, 0.5}
	want := 1 + 2*3.0 - 2.0 + 0.5*50 + 3*0.5
	got := lin.Predict(probe)
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("predict = %f, want %f", got, want)
	}
}

func TestLinearRejectsEmptyInput(t *testing.T) {
	lin := NewLinear()
	if err := lin.Fit(nil, nil); err == nil {
		t.Fatal("expected error for empty training set")
	}
}

func TestForestDeterministicForFixedSeed(t *testing.T) {
	rows, targets := syntheticRows(60, 11)
	cfg := ForestConfig{Trees: 20, MaxDepth: 5, MinLeaf: 2, Seed: 42}

	f1 := NewForest(cfg)
	f2 := NewForest(cfg)
	if err := f1.Fit(rows, targets); err != nil {
		t.Fatalf("fit 1: %v", err)
	}
	if err := f2.Fit(rows, targets); err != nil {
		t.Fatalf("fit 2: %v", err)
	}

	probe := []float64{5, 2.5, 50, 0.5}
	if p1, p2 := f1.Predict(probe), f2.Predict(probe); p1 != p2 {
		t.Errorf("same seed produced different predictions: %f vs %f", p1, p2)
	}
}

func TestForestConstantTargets(t *testing.T) {
	rows, _ := syntheticRows(30, 3)
	targets := make([]float64, len(rows))
	for i := range targets {
		targets[i] = 77.0
	}

	f := NewForest(ForestConfig{Trees: 10, Seed: 1})
	if err := f.Fit(rows, targets); err != nil {
		t.Fatalf("fit: %v", err)
	}
	if got := f.Predict(rows[0]); math.Abs(got-77.0) > 1e-9 {
		t.Errorf("constant targets should predict the constant, got %f", got)
	}
}

func TestForestFitsTrainingShape(t *testing.T) {
	rows, targets := syntheticRows(80, 5)

	f := NewForest(ForestConfig{Trees: 30, MaxDepth: 6, MinLeaf: 2, Seed: 9})
	if err := f.Fit(rows, targets); err != nil {
		t.Fatalf("fit: %v", err)
	}

	// in-sample predictions should explain most of the variance
	if r2 := holdoutR2(f, rows, targets); r2 < 0.7 {
		t.Errorf("in-sample R² = %f, expected a reasonable fit", r2)
	}
}

func TestScalerStandardizes(t *testing.T) {
	rows := [][]float64{{1, 10}, {2, 10}, {3, 10}}
	s := FitScaler(rows)

	got := s.Transform([]float64{2, 10})
	if got[0] != 0 {
		t.Errorf("mean row should map to 0, got %f", got[0])
	}
	// constant feature must not divide by zero
	if got[1] != 0 || math.IsNaN(got[1]) {
		t.Errorf("constant feature should center to 0, got %f", got[1])
	}

	hi := s.Transform([]float64{3, 10})
	lo := s.Transform([]float64{1, 10})
	if !almostEqual(hi[0], -lo[0]) {
		t.Errorf("symmetric values should standardize symmetrically: %f vs %f", hi[0], lo[0])
	}
}
