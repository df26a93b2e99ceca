package predictobs

import (
	"context"
	"time"

	"invest-sentinel/internal/interfaces"
	"invest-sentinel/internal/logger"
	"invest-sentinel/internal/trace"
	"invest-sentinel/internal/types"
)

type observablePredictor struct {
	predictor interfaces.Predictor
}

var _ interfaces.Predictor = (*observablePredictor)(nil)

// Wrap adds span and log middleware around a predictor.
func Wrap(p interfaces.Predictor) interfaces.Predictor {
	return &observablePredictor{predictor: p}
}

func (op *observablePredictor) PredictNext(ctx context.Context, series types.PriceSeries, currentPrice, sentiment float64) types.PredictionResult {
	ctx, span := trace.StartSpan(ctx, "predictor.PredictNext")
	defer span.End()

	start := time.Now()
	result := op.predictor.PredictNext(ctx, series, currentPrice, sentiment)

	logger.Prediction(ctx, result.Ticker, result.ModelKind,
		result.Price, result.Predicted, sentiment, result.Confidence,
		"trained", result.Trained,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result
}

func (op *observablePredictor) ModelInfo() types.ModelInfo {
	return op.predictor.ModelInfo()
}
