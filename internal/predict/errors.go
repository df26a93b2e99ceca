package predict

import "errors"

// Failure taxonomy for the prediction pipeline. Only ErrUpstreamUnavailable
// is allowed to fail a whole analysis request; the rest are recovered
// internally and must be logged where caught.
var (
	// ErrDataInsufficient: fewer usable bars than training or inference
	// needs. Normal for thinly-traded or newly listed instruments.
	ErrDataInsufficient = errors.New("insufficient price data")

	// ErrTrainingFailed: a candidate fit or scoring step failed.
	ErrTrainingFailed = errors.New("model training failed")

	// ErrInferenceFailed: the feature or prediction step failed for one call.
	ErrInferenceFailed = errors.New("model inference failed")

	// ErrUpstreamUnavailable: the market data source has no data.
	ErrUpstreamUnavailable = errors.New("market data unavailable")
)
