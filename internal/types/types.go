package types

import "time"

// PriceBar is one daily OHLCV observation. Bars are immutable once fetched
// and ordered strictly ascending by Date within a PriceSeries.
type PriceBar struct {
	Date                   time.Time
	Open, High, Low, Close float64
	Volume                 float64
}

// PriceSeries is an ordered sequence of bars, strictly increasing by date,
// no duplicate dates.
type PriceSeries []PriceBar

// Closes returns the close column in series order.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Volumes returns the volume column in series order.
func (s PriceSeries) Volumes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Volume
	}
	return out
}

// FeatureVector is the fixed model input derived for one bar.
type FeatureVector struct {
	MovingAvg5  float64
	PrevClose   float64
	VolumeMA5   float64
	Volatility5 float64
}

// Row returns the vector in the fixed feature order used by training.
func (f FeatureVector) Row() []float64 {
	return []float64{f.MovingAvg5, f.PrevClose, f.VolumeMA5, f.Volatility5}
}

// FeatureNames lists the feature order of FeatureVector.Row.
var FeatureNames = []string{"moving_avg_5", "previous_close", "volume_ma_5", "volatility_5"}

// PredictionResult is the output of one prediction call.
type PredictionResult struct {
	Ticker     string  `json:"ticker"`
	Price      float64 `json:"price"`
	Predicted  float64 `json:"predicted"`
	Confidence float64 `json:"confidence"`
	ModelKind  string  `json:"model_kind"`
	Trained    bool    `json:"trained"`
}

// ModelInfo describes the model state behind a predictor, for display.
type ModelInfo struct {
	Ticker    string   `json:"ticker"`
	IsTrained bool     `json:"is_trained"`
	ModelKind string   `json:"model_kind"`
	Features  []string `json:"features"`
}

// Headline is one scraped news item.
type Headline struct {
	Title  string `json:"title"`
	URL    string `json:"url,omitempty"`
	Source string `json:"source,omitempty"`
}

// SentimentReport aggregates per-headline sentiment for a ticker.
type SentimentReport struct {
	Score     float64    `json:"score"` // [-1,1], 0.0 when no headlines
	Label     string     `json:"label"`
	Positive  int        `json:"positive"`
	Negative  int        `json:"negative"`
	Neutral   int        `json:"neutral"`
	PerItem   []float64  `json:"per_item,omitempty"`
	Headlines []Headline `json:"headlines,omitempty"`
}

// AnalysisResult is what one full pipeline run hands back to the caller.
type AnalysisResult struct {
	Ticker     string           `json:"ticker"`
	Time       time.Time        `json:"time"`
	Price      float64          `json:"price"`
	Prediction PredictionResult `json:"prediction"`
	Sentiment  SentimentReport  `json:"sentiment"`
	Bars       int              `json:"bars"`
	ChartPath  string           `json:"chart_path,omitempty"`
}
