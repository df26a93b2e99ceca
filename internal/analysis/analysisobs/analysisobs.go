package analysisobs

import (
	"context"
	"time"

	"invest-sentinel/internal/interfaces"
	"invest-sentinel/internal/logger"
	"invest-sentinel/internal/trace"
	"invest-sentinel/internal/types"
)

type observableAnalyzer struct {
	analyzer interfaces.Analyzer
}

var _ interfaces.Analyzer = (*observableAnalyzer)(nil)

func Wrap(a interfaces.Analyzer) interfaces.Analyzer {
	return &observableAnalyzer{
		analyzer: a,
	}
}

func (oa *observableAnalyzer) Run(ctx context.Context, ticker string) (*types.AnalysisResult, error) {
	ctx, span := trace.StartSpan(ctx, "analysis.Run")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting analysis cycle",
		"ticker", ticker,
	)

	result, err := oa.analyzer.Run(ctx, ticker)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Analysis cycle failed", err,
			"ticker", ticker,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Analysis cycle completed",
		"ticker", ticker,
		"predicted", result.Prediction.Predicted,
		"confidence", result.Prediction.Confidence,
		"sentiment", result.Sentiment.Score,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}
