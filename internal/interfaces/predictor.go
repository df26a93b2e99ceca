package interfaces

import (
	"context"

	"invest-sentinel/internal/types"
)

// Predictor produces a sentiment-adjusted short-horizon price estimate.
// One instance is built per analysis request and trained at most once;
// after construction it is immutable.
type Predictor interface {
	// PredictNext never fails for model-internal reasons: any internal
	// failure falls back to the simple path.
	PredictNext(ctx context.Context, series types.PriceSeries, currentPrice, sentiment float64) types.PredictionResult
	ModelInfo() types.ModelInfo
}
