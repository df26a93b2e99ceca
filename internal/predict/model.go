package predict

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Model is one regression candidate. The candidate set is closed and
// ordered; see candidates().
type Model interface {
	Kind() string
	Fit(rows [][]float64, targets []float64) error
	Predict(row []float64) float64
}

// candidates returns the candidate models in their fixed evaluation order.
// The order is part of the contract: R² ties keep the first entry.
func candidates(cfg ForestConfig) []Model {
	return []Model{
		NewForest(cfg),
		NewLinear(),
	}
}

// Linear is an ordinary-least-squares regressor with intercept.
type Linear struct {
	coef      []float64
	intercept float64
}

func NewLinear() *Linear { return &Linear{} }

func (l *Linear) Kind() string { return "LinearRegression" }

// Fit solves the least-squares problem over the design matrix [1 | rows].
func (l *Linear) Fit(rows [][]float64, targets []float64) error {
	n := len(rows)
	if n == 0 || len(targets) != n {
		return fmt.Errorf("%w: %d rows, %d targets", ErrTrainingFailed, n, len(targets))
	}
	d := len(rows[0])

	a := mat.NewDense(n, d+1, nil)
	for i, row := range rows {
		a.Set(i, 0, 1)
		for j, v := range row {
			a.Set(i, j+1, v)
		}
	}
	b := mat.NewVecDense(n, targets)

	var beta mat.VecDense
	if err := beta.SolveVec(a, b); err != nil {
		// an ill-conditioned solve still yields a usable solution
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return fmt.Errorf("%w: ols solve: %v", ErrTrainingFailed, err)
		}
	}

	l.intercept = beta.AtVec(0)
	l.coef = make([]float64, d)
	for j := 0; j < d; j++ {
		l.coef[j] = beta.AtVec(j + 1)
	}
	for _, c := range l.coef {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: non-finite coefficients", ErrTrainingFailed)
		}
	}
	return nil
}

func (l *Linear) Predict(row []float64) float64 {
	out := l.intercept
	for j, v := range row {
		out += l.coef[j] * v
	}
	return out
}
