package predict

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"invest-sentinel/internal/logger"
)

// testRatio is the held-out share of the 80/20 train/test split.
const testRatio = 0.2

// TrainedModel pairs the selected regressor with the standardization
// parameters fitted at training time. Immutable once built; safe to share
// read-only, never rebuilt in place.
type TrainedModel struct {
	model  Model
	scaler *Scaler
	TestR2 float64
}

// Kind names the selected regressor.
func (m *TrainedModel) Kind() string { return m.model.Kind() }

// Predict standardizes one raw feature row and runs inference.
func (m *TrainedModel) Predict(row []float64) float64 {
	return m.model.Predict(m.scaler.Transform(row))
}

// trainSelect splits the aligned rows with a seeded shuffle, standardizes
// on the training partition, fits every candidate in its fixed order and
// keeps the one with the strictly highest held-out R². Ties keep the first
// evaluated candidate.
func trainSelect(ctx context.Context, rows [][]float64, targets []float64, splitSeed int64, forestCfg ForestConfig) (*TrainedModel, error) {
	n := len(rows)
	if n != len(targets) {
		return nil, fmt.Errorf("%w: %d rows vs %d targets", ErrTrainingFailed, n, len(targets))
	}

	testN := int(math.Ceil(float64(n) * testRatio))
	trainN := n - testN
	if trainN < 2 || testN < 1 {
		return nil, fmt.Errorf("%w: %d rows cannot be split", ErrDataInsufficient, n)
	}

	perm := rand.New(rand.NewSource(splitSeed)).Perm(n)
	trainX := make([][]float64, 0, trainN)
	trainY := make([]float64, 0, trainN)
	testX := make([][]float64, 0, testN)
	testY := make([]float64, 0, testN)
	for i, k := range perm {
		if i < trainN {
			trainX = append(trainX, rows[k])
			trainY = append(trainY, targets[k])
		} else {
			testX = append(testX, rows[k])
			testY = append(testY, targets[k])
		}
	}

	scaler := FitScaler(trainX)
	scaledTrain := scaler.TransformAll(trainX)
	scaledTest := scaler.TransformAll(testX)

	var best Model
	bestScore := math.Inf(-1)
	for _, cand := range candidates(forestCfg) {
		if err := cand.Fit(scaledTrain, trainY); err != nil {
			logger.Warn(ctx, "Candidate model fit failed", "model", cand.Kind(), "error", err)
			continue
		}
		score := holdoutR2(cand, scaledTest, testY)
		logger.Debug(ctx, "Candidate model scored", "model", cand.Kind(), "r2", score)
		if score > bestScore {
			bestScore = score
			best = cand
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: no candidate could be fitted", ErrTrainingFailed)
	}

	return &TrainedModel{model: best, scaler: scaler, TestR2: bestScore}, nil
}

func holdoutR2(m Model, rows [][]float64, targets []float64) float64 {
	estimates := make([]float64, len(rows))
	for i, row := range rows {
		estimates[i] = m.Predict(row)
	}
	r2 := stat.RSquaredFrom(estimates, targets, nil)
	if math.IsNaN(r2) {
		return math.Inf(-1)
	}
	return r2
}
