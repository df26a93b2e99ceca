package predict

import (
	"gonum.org/v1/gonum/stat"

	"invest-sentinel/internal/types"
)

// featureWindow is the trailing window (in bars) behind every feature.
const featureWindow = 5

// BuildFeatures derives one FeatureVector per bar, same order and length as
// the input. Windows clamp to available data, so short series never error:
//
//   - MovingAvg5 / VolumeMA5: mean over [max(0,i-4), i]
//   - PrevClose: close[i-1], degrading to close[0] at i == 0
//   - Volatility5: sample std dev of percentage returns inside the window,
//     0 when the window yields fewer than two returns
//
// The first row has no genuine previous close; dropping it is the trainer's
// job, not this function's.
func BuildFeatures(series types.PriceSeries) []types.FeatureVector {
	closes := series.Closes()
	volumes := series.Volumes()

	out := make([]types.FeatureVector, len(series))
	for i := range series {
		start := i - (featureWindow - 1)
		if start < 0 {
			start = 0
		}

		prev := closes[i]
		if i > 0 {
			prev = closes[i-1]
		}

		out[i] = types.FeatureVector{
			MovingAvg5:  stat.Mean(closes[start:i+1], nil),
			PrevClose:   prev,
			VolumeMA5:   stat.Mean(volumes[start:i+1], nil),
			Volatility5: windowVolatility(closes[start : i+1]),
		}
	}
	return out
}

// windowVolatility is the sample standard deviation of the percentage
// returns close[t]/close[t-1]-1 inside one window.
func windowVolatility(closes []float64) float64 {
	if len(closes) < 3 {
		// zero or one return value
		return 0
	}
	returns := make([]float64, 0, len(closes)-1)
	for t := 1; t < len(closes); t++ {
		returns = append(returns, closes[t]/closes[t-1]-1)
	}
	return stat.StdDev(returns, nil)
}
