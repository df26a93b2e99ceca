package predict

import (
	"gonum.org/v1/gonum/stat"
)

// Scaler holds per-feature standardization parameters, fitted once on the
// training partition and frozen afterwards.
type Scaler struct {
	Mean []float64
	Std  []float64
}

// FitScaler learns zero-mean unit-variance parameters from the given rows.
func FitScaler(rows [][]float64) *Scaler {
	if len(rows) == 0 {
		return &Scaler{}
	}
	d := len(rows[0])
	s := &Scaler{
		Mean: make([]float64, d),
		Std:  make([]float64, d),
	}
	col := make([]float64, len(rows))
	for j := 0; j < d; j++ {
		for i, row := range rows {
			col[i] = row[j]
		}
		s.Mean[j] = stat.Mean(col, nil)
		s.Std[j] = stat.PopStdDev(col, nil)
		if s.Std[j] == 0 {
			// constant feature, leave it centered only
			s.Std[j] = 1
		}
	}
	return s
}

// Transform standardizes one row with the fitted parameters.
func (s *Scaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return out
}

// TransformAll standardizes a batch of rows.
func (s *Scaler) TransformAll(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = s.Transform(row)
	}
	return out
}
