package predict

import (
	"math"
	"math/rand"
)

// Sentiment blending constants, carried unchanged from the reference
// behavior: a fixed 30% sentiment weight and fixed threshold bands,
// regardless of asset volatility.
const (
	sentimentWeight = 0.3
	maxDeviation    = 0.05 // hard band around the current price
)

// sentimentMultiplier maps a [-1,1] sentiment scalar to a price multiplier
// via fixed threshold bands.
func sentimentMultiplier(sentiment float64) float64 {
	switch {
	case sentiment >= 0.5:
		return 1.005
	case sentiment >= 0.2:
		return 1.002
	case sentiment <= -0.5:
		return 0.995
	case sentiment <= -0.2:
		return 0.998
	default:
		return 1.0
	}
}

// adjust blends a model estimate with sentiment and clamps the result to a
// hard ±5% band around the current price. The clamp is the correctness
// guarantee: no model output can produce a runaway estimate.
func adjust(base, currentPrice, sentiment float64) float64 {
	mult := sentimentMultiplier(sentiment)
	adjusted := base*(1-sentimentWeight) + base*mult*sentimentWeight

	lower := currentPrice * (1 - maxDeviation)
	upper := currentPrice * (1 + maxDeviation)
	adjusted = math.Max(lower, math.Min(upper, adjusted))

	return round2(adjusted)
}

// simplePredict is the fallback when no trained model is available: the
// current price nudged by sentiment (at most 2%) and benign uniform noise.
func simplePredict(rng *rand.Rand, currentPrice, sentiment float64) float64 {
	sentimentFactor := 1 + sentiment*0.02
	randomFactor := 0.98 + rng.Float64()*0.04
	return round2(currentPrice * sentimentFactor * randomFactor)
}

// confidence buckets the predicted move size; smaller moves score higher.
// A trained model adds 0.1, capped at 1.0.
func confidence(currentPrice, prediction float64, trained bool) float64 {
	change := math.Abs(prediction-currentPrice) / currentPrice

	var c float64
	switch {
	case change <= 0.01:
		c = 0.9
	case change <= 0.03:
		c = 0.7
	case change <= 0.05:
		c = 0.5
	default:
		c = 0.3
	}
	if trained {
		c += 0.1
	}
	return math.Min(1.0, c)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
