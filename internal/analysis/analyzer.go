package analysis

import (
	"context"
	"strings"
	"time"

	"invest-sentinel/internal/interfaces"
	"invest-sentinel/internal/logger"
	"invest-sentinel/internal/predict"
	"invest-sentinel/internal/predict/predictobs"
	"invest-sentinel/internal/recorder"
	"invest-sentinel/internal/runlog"
	"invest-sentinel/internal/store"
	"invest-sentinel/internal/types"
)

// sentimentProvider is the slice of the news service the pipeline needs.
type sentimentProvider interface {
	GetSentiment(ctx context.Context, ticker string) types.SentimentReport
}

// chartRenderer writes the analysis chart and returns its path.
type chartRenderer interface {
	RenderAnalysis(ctx context.Context, res *types.AnalysisResult, series types.PriceSeries) (string, error)
}

// Analyzer runs the full cycle for one ticker: fetch bars, score news,
// predict the next close, persist the outcome.
type Analyzer struct {
	cfg      *store.Config
	market   interfaces.MarketData
	news     sentimentProvider
	rec      recorder.Recorder
	renderer chartRenderer

	// newPredictor is swappable for tests.
	newPredictor func(ctx context.Context, ticker string, series types.PriceSeries) interfaces.Predictor
}

var _ interfaces.Analyzer = (*Analyzer)(nil)

func New(cfg *store.Config, market interfaces.MarketData, news sentimentProvider, rec recorder.Recorder, renderer chartRenderer) *Analyzer {
	a := &Analyzer{
		cfg:      cfg,
		market:   market,
		news:     news,
		rec:      rec,
		renderer: renderer,
	}
	a.newPredictor = func(ctx context.Context, ticker string, series types.PriceSeries) interfaces.Predictor {
		return predictobs.Wrap(predict.New(ctx, ticker, series, predictorOptions(cfg)))
	}
	return a
}

func predictorOptions(cfg *store.Config) predict.Options {
	return predict.Options{
		MinBars:      cfg.Predictor.MinBars,
		MinTrainRows: cfg.Predictor.MinTrainRows,
		SplitSeed:    cfg.Predictor.SplitSeed,
		NoiseSeed:    cfg.Predictor.NoiseSeed,
		Forest: predict.ForestConfig{
			Trees:    cfg.Predictor.Forest.Trees,
			MaxDepth: cfg.Predictor.Forest.MaxDepth,
			MinLeaf:  cfg.Predictor.Forest.MinLeaf,
			Seed:     cfg.Predictor.Forest.Seed,
		},
	}
}

// Run executes one analysis cycle. Only an unavailable market upstream is
// terminal; every other collaborator failure degrades and is logged.
func (a *Analyzer) Run(ctx context.Context, ticker string) (*types.AnalysisResult, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	logger.Debug(ctx, "Starting analysis run", "ticker", ticker)

	price, series, err := a.market.FetchSeries(ctx, ticker)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch market data", err, "ticker", ticker)
		return nil, err
	}
	logger.Debug(ctx, "Bars fetched", "ticker", ticker, "count", len(series), "price", price)

	sentiment := a.news.GetSentiment(ctx, ticker)
	logger.Info(ctx, "Sentiment scored",
		"ticker", ticker,
		"score", sentiment.Score,
		"label", sentiment.Label,
		"headlines", len(sentiment.Headlines),
	)

	p := a.newPredictor(ctx, ticker, series)
	prediction := p.PredictNext(ctx, series, price, sentiment.Score)

	result := &types.AnalysisResult{
		Ticker:     ticker,
		Time:       time.Now(),
		Price:      price,
		Prediction: prediction,
		Sentiment:  sentiment,
		Bars:       len(series),
	}

	if err := a.rec.Record(&recorder.Record{
		Ticker:     ticker,
		Price:      price,
		Predicted:  prediction.Predicted,
		Sentiment:  sentiment.Score,
		Confidence: prediction.Confidence,
		ModelKind:  prediction.ModelKind,
		Trained:    prediction.Trained,
		Timestamp:  result.Time,
	}); err != nil {
		logger.ErrorWithErr(ctx, "Failed to record analysis", err, "ticker", ticker)
	}

	if err := runlog.Append(runlog.Entry{
		Ticker:     ticker,
		Price:      price,
		Predicted:  prediction.Predicted,
		Sentiment:  sentiment.Score,
		Confidence: prediction.Confidence,
		ModelKind:  prediction.ModelKind,
	}); err != nil {
		logger.Warn(ctx, "Failed to append run log entry", "ticker", ticker, "error", err)
	}

	if a.renderer != nil {
		path, err := a.renderer.RenderAnalysis(ctx, result, series)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to render chart", err, "ticker", ticker)
		} else {
			result.ChartPath = path
		}
	}

	logger.Info(ctx, "Analysis run completed",
		"ticker", ticker,
		"price", price,
		"predicted", prediction.Predicted,
		"confidence", prediction.Confidence,
		"model", prediction.ModelKind,
	)
	return result, nil
}
