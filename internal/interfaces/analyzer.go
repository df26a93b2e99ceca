package interfaces

import (
	"context"

	"invest-sentinel/internal/types"
)

// Analyzer runs one full analysis cycle for a ticker.
type Analyzer interface {
	Run(ctx context.Context, ticker string) (*types.AnalysisResult, error)
}
