package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"invest-sentinel/internal/logger"
	"invest-sentinel/internal/news"
	"invest-sentinel/internal/types"
)

const maWindow = 5

// Renderer writes analysis charts as standalone HTML files.
type Renderer struct {
	outputDir string
}

func NewRenderer(outputDir string) *Renderer {
	return &Renderer{outputDir: outputDir}
}

// RenderAnalysis renders the candlestick chart with a moving average overlay,
// the predicted close marker, and a headline keyword chart. Returns the path
// of the written HTML file.
func (r *Renderer) RenderAnalysis(ctx context.Context, res *types.AnalysisResult, series types.PriceSeries) (string, error) {
	if len(series) == 0 {
		return "", fmt.Errorf("render: empty series")
	}
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}

	page := components.NewPage()
	page.AddCharts(r.klineChart(res, series))

	if kw := keywordChart(res.Sentiment.Headlines); kw != nil {
		page.AddCharts(kw)
	}

	path := filepath.Join(r.outputDir, timestampedName(res.Ticker, res.Time))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	logger.Info(ctx, "Chart rendered", "ticker", res.Ticker, "path", path)
	return path, nil
}

func (r *Renderer) klineChart(res *types.AnalysisResult, series types.PriceSeries) *charts.Kline {
	kline := charts.NewKLine()
	kline.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    res.Ticker + " daily",
			Subtitle: fmt.Sprintf("predicted close %.2f (confidence %.0f%%)", res.Prediction.Predicted, res.Prediction.Confidence*100),
		}),
		charts.WithYAxisOpts(opts.YAxis{Scale: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{Start: 50, End: 100}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	dates := make([]string, len(series))
	bars := make([]opts.KlineData, len(series))
	for i, b := range series {
		dates[i] = b.Date.Format("2006-01-02")
		bars[i] = opts.KlineData{Value: [4]float64{b.Open, b.Close, b.Low, b.High}}
	}

	kline.SetXAxis(dates).AddSeries("price", bars,
		charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
			Name:  "predicted",
			YAxis: res.Prediction.Predicted,
		}),
	)

	kline.Overlap(maLine(dates, series.Closes()))
	return kline
}

func maLine(dates []string, closes []float64) *charts.Line {
	points := make([]opts.LineData, len(closes))
	for i := range closes {
		lo := i - maWindow + 1
		if lo < 0 {
			lo = 0
		}
		var sum float64
		for _, c := range closes[lo : i+1] {
			sum += c
		}
		points[i] = opts.LineData{Value: sum / float64(i+1-lo)}
	}

	line := charts.NewLine()
	line.SetXAxis(dates).AddSeries("MA5", points,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
	)
	return line
}

// keywordChart builds a bar chart of the most frequent headline keywords.
// Returns nil when there are no headlines to chart.
func keywordChart(headlines []types.Headline) *charts.Bar {
	if len(headlines) == 0 {
		return nil
	}
	texts := make([]string, len(headlines))
	for i, h := range headlines {
		texts[i] = h.Title
	}
	words, counts := news.KeywordCounts(texts, 10)
	if len(words) == 0 {
		return nil
	}

	values := make([]opts.BarData, len(counts))
	for i, c := range counts {
		values[i] = opts.BarData{Value: c}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Headline keywords"}),
	)
	bar.SetXAxis(words).AddSeries("mentions", values)
	return bar
}

// timestampedName is kept separate so tests can pin the clock.
func timestampedName(ticker string, t time.Time) string {
	return fmt.Sprintf("%s_%s.html", ticker, t.Format("20060102_150405"))
}
