package marketdata

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"invest-sentinel/internal/api"
	"invest-sentinel/internal/interfaces"
	"invest-sentinel/internal/logger"
	"invest-sentinel/internal/predict"
	"invest-sentinel/internal/types"
)

// TushareClient fetches daily OHLCV bars from the Tushare pro HTTP API.
// The API answers a column-oriented table: a fields list plus item rows.
type TushareClient struct {
	client       *api.Client
	token        string
	lookbackDays int
}

var _ interfaces.MarketData = (*TushareClient)(nil)

// NewTushareClient builds a client for the given endpoint and token.
func NewTushareClient(baseURL, token string, lookbackDays int, timeout time.Duration) *TushareClient {
	return &TushareClient{
		client: api.NewClient(
			api.WithBaseURL(baseURL),
			api.WithTimeout(timeout),
		),
		token:        token,
		lookbackDays: lookbackDays,
	}
}

type tushareRequest struct {
	APIName string         `json:"api_name"`
	Token   string         `json:"token"`
	Params  map[string]any `json:"params"`
	Fields  string         `json:"fields"`
}

type tushareResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Fields []string `json:"fields"`
		Items  [][]any  `json:"items"`
	} `json:"data"`
}

// FetchSeries returns the last close and the ascending daily series for a
// ticker. An empty upstream answer is terminal for the request.
func (c *TushareClient) FetchSeries(ctx context.Context, ticker string) (float64, types.PriceSeries, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -c.lookbackDays)

	req := tushareRequest{
		APIName: "daily",
		Token:   c.token,
		Params: map[string]any{
			"ts_code":    ticker,
			"start_date": start.Format("20060102"),
			"end_date":   end.Format("20060102"),
		},
		Fields: "trade_date,open,high,low,close,vol",
	}

	resp, err := c.client.POST(ctx, "", req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", predict.ErrUpstreamUnavailable, err)
	}

	var parsed tushareResponse
	if err := resp.ParseJSON(&parsed); err != nil {
		return 0, nil, fmt.Errorf("%w: %v", predict.ErrUpstreamUnavailable, err)
	}
	if parsed.Code != 0 {
		return 0, nil, fmt.Errorf("%w: upstream code %d: %s", predict.ErrUpstreamUnavailable, parsed.Code, parsed.Msg)
	}
	if len(parsed.Data.Items) == 0 {
		return 0, nil, fmt.Errorf("%w: no bars for %s", predict.ErrUpstreamUnavailable, ticker)
	}

	series, err := buildSeries(parsed.Data.Fields, parsed.Data.Items)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", predict.ErrUpstreamUnavailable, err)
	}

	current := series[len(series)-1].Close
	logger.Info(ctx, "Market data fetched", "ticker", ticker, "bars", len(series), "price", current)
	return current, series, nil
}

// buildSeries converts the column-oriented answer into an ascending,
// duplicate-free PriceSeries.
func buildSeries(fields []string, items [][]any) (types.PriceSeries, error) {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[f] = i
	}
	maxIdx := 0
	for _, f := range []string{"trade_date", "open", "high", "low", "close", "vol"} {
		i, ok := idx[f]
		if !ok {
			return nil, fmt.Errorf("missing field %q in upstream answer", f)
		}
		if i > maxIdx {
			maxIdx = i
		}
	}

	series := make(types.PriceSeries, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if len(item) <= maxIdx {
			return nil, fmt.Errorf("truncated row: %d values, need %d", len(item), maxIdx+1)
		}
		dateStr, ok := item[idx["trade_date"]].(string)
		if !ok {
			return nil, fmt.Errorf("non-string trade_date %v", item[idx["trade_date"]])
		}
		if seen[dateStr] {
			return nil, fmt.Errorf("duplicate trade date %s", dateStr)
		}
		seen[dateStr] = true

		date, err := time.Parse("20060102", dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse trade date %q: %w", dateStr, err)
		}

		bar := types.PriceBar{Date: date}
		for _, col := range []struct {
			name string
			dst  *float64
		}{
			{"open", &bar.Open},
			{"high", &bar.High},
			{"low", &bar.Low},
			{"close", &bar.Close},
			{"vol", &bar.Volume},
		} {
			v, err := toFloat(item[idx[col.name]])
			if err != nil {
				return nil, fmt.Errorf("parse %s on %s: %w", col.name, dateStr, err)
			}
			*col.dst = v
		}
		series = append(series, bar)
	}

	// tushare answers newest-first
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series, nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case string:
		return strconv.ParseFloat(x, 64)
	case nil:
		return 0, fmt.Errorf("null value")
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}
