package interfaces

import (
	"context"

	"invest-sentinel/internal/types"
)

// NewsSource supplies recent headlines for a ticker. May return an empty
// slice; that is not an error.
type NewsSource interface {
	Headlines(ctx context.Context, ticker string, max int) ([]types.Headline, error)
}

// SentimentScorer maps headline text to a scalar in [-1, 1]. Empty input
// yields neutral 0.0.
type SentimentScorer interface {
	Score(ctx context.Context, texts []string) float64
	Report(ctx context.Context, headlines []types.Headline) types.SentimentReport
}
