package predict

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"invest-sentinel/internal/logger"
	"invest-sentinel/internal/types"
)

// Options control predictor construction. Zero values fall back to the
// reference defaults.
type Options struct {
	MinBars      int   // raw bars required before training is attempted
	MinTrainRows int   // aligned rows required after the first-row drop
	SplitSeed    int64 // train/test shuffle seed
	NoiseSeed    int64 // fallback-path RNG seed; 0 seeds from the clock
	Forest       ForestConfig
}

func (o *Options) applyDefaults() {
	if o.MinBars == 0 {
		o.MinBars = 10
	}
	if o.MinTrainRows == 0 {
		o.MinTrainRows = 5
	}
	if o.SplitSeed == 0 {
		o.SplitSeed = 42
	}
	if o.Forest.Seed == 0 {
		o.Forest.Seed = 42
	}
}

// Predictor binds a ticker to an optionally trained model. Built once per
// analysis request; the trained state never mutates afterwards, so a built
// Predictor is safe to share read-only. The fallback RNG is the only moving
// part and is owned exclusively by this instance.
type Predictor struct {
	ticker  string
	opts    Options
	model   *TrainedModel // nil while untrained
	trained bool
	rng     *rand.Rand
}

// New constructs a predictor and trains it best-effort from the given
// series. Training failure is never an error: the predictor simply stays
// untrained and serves the simple fallback path.
func New(ctx context.Context, ticker string, series types.PriceSeries, opts Options) *Predictor {
	opts.applyDefaults()

	noiseSeed := opts.NoiseSeed
	if noiseSeed == 0 {
		noiseSeed = time.Now().UnixNano()
	}
	p := &Predictor{
		ticker: strings.ToUpper(ticker),
		opts:   opts,
		rng:    rand.New(rand.NewSource(noiseSeed)),
	}

	if err := p.train(ctx, series); err != nil {
		logger.Fallback(ctx, p.ticker, "training", err, "bars", len(series))
	}
	return p
}

func (p *Predictor) train(ctx context.Context, series types.PriceSeries) error {
	if len(series) < p.opts.MinBars {
		return fmt.Errorf("%w: %d bars, need %d", ErrDataInsufficient, len(series), p.opts.MinBars)
	}

	features := BuildFeatures(series)
	closes := series.Closes()

	// the first row has no genuine previous close
	rows := make([][]float64, 0, len(features)-1)
	for _, f := range features[1:] {
		rows = append(rows, f.Row())
	}
	targets := closes[1:]

	if len(rows) < p.opts.MinTrainRows {
		return fmt.Errorf("%w: %d usable rows, need %d", ErrDataInsufficient, len(rows), p.opts.MinTrainRows)
	}

	model, err := trainSelect(ctx, rows, targets, p.opts.SplitSeed, p.opts.Forest)
	if err != nil {
		return err
	}

	p.model = model
	p.trained = true
	logger.Info(ctx, "Model trained", "ticker", p.ticker, "model", model.Kind(), "r2", model.TestR2, "rows", len(rows))
	return nil
}

// PredictNext produces the sentiment-adjusted estimate for the next step.
// It never fails for model-internal reasons: every internal failure is
// logged and recovered through the simple path.
func (p *Predictor) PredictNext(ctx context.Context, series types.PriceSeries, currentPrice, sentiment float64) types.PredictionResult {
	if p.trained {
		base, err := p.predictBase(series)
		if err == nil {
			predicted := adjust(base, currentPrice, sentiment)
			return types.PredictionResult{
				Ticker:     p.ticker,
				Price:      currentPrice,
				Predicted:  predicted,
				Confidence: confidence(currentPrice, predicted, true),
				ModelKind:  p.model.Kind(),
				Trained:    true,
			}
		}
		logger.Fallback(ctx, p.ticker, "inference", err, "bars", len(series))
	}

	predicted := simplePredict(p.rng, currentPrice, sentiment)
	return types.PredictionResult{
		Ticker:     p.ticker,
		Price:      currentPrice,
		Predicted:  predicted,
		Confidence: confidence(currentPrice, predicted, false),
		ModelKind:  "Simple",
		Trained:    false,
	}
}

// predictBase rebuilds features over the most recent bars and runs the
// trained model on the last vector.
func (p *Predictor) predictBase(series types.PriceSeries) (float64, error) {
	if len(series) < featureWindow {
		return 0, fmt.Errorf("%w: %d bars, need %d", ErrDataInsufficient, len(series), featureWindow)
	}

	recent := series[len(series)-featureWindow:]
	features := BuildFeatures(recent)
	last := features[len(features)-1].Row()

	base := p.model.Predict(last)
	if math.IsNaN(base) || math.IsInf(base, 0) || base <= 0 {
		return 0, fmt.Errorf("%w: non-finite base estimate %v", ErrInferenceFailed, base)
	}
	return base, nil
}

// IsTrained reports whether a model was selected at construction.
func (p *Predictor) IsTrained() bool { return p.trained }

// ModelInfo describes the predictor state for diagnostics and display.
func (p *Predictor) ModelInfo() types.ModelInfo {
	kind := "Simple"
	if p.trained {
		kind = p.model.Kind()
	}
	return types.ModelInfo{
		Ticker:    p.ticker,
		IsTrained: p.trained,
		ModelKind: kind,
		Features:  types.FeatureNames,
	}
}
