package vecmath

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Backend scores a batch of row vectors against a query vector.
type Backend interface {
	CosineScores(query []float64, rows [][]float64) ([]float64, error)
}

var ErrDimensionMismatch = errors.New("vector dimension mismatch")

type gonumBackend struct{}

// NewGonumBackend returns a Backend built on gonum dense matrices.
func NewGonumBackend() Backend {
	return gonumBackend{}
}

// CosineScores returns cos(query, row) for every row. A zero-norm query or row scores 0.
func (gonumBackend) CosineScores(query []float64, rows [][]float64) ([]float64, error) {
	if len(rows) == 0 {
		return []float64{}, nil
	}
	dim := len(query)
	if dim == 0 {
		return make([]float64, len(rows)), nil
	}

	data := make([]float64, 0, len(rows)*dim)
	for i, row := range rows {
		if len(row) != dim {
			return nil, fmt.Errorf("%w: row %d has %d columns, query has %d", ErrDimensionMismatch, i, len(row), dim)
		}
		data = append(data, row...)
	}

	m := mat.NewDense(len(rows), dim, data)
	q := mat.NewVecDense(dim, append([]float64(nil), query...))

	var dots mat.VecDense
	dots.MulVec(m, q)

	qNorm := floats.Norm(query, 2)
	scores := make([]float64, len(rows))
	for i, row := range rows {
		denom := qNorm * floats.Norm(row, 2)
		if denom == 0 {
			continue
		}
		s := dots.AtVec(i) / denom
		if math.IsNaN(s) || math.IsInf(s, 0) {
			continue
		}
		scores[i] = s
	}

	return scores, nil
}

// selfTest checks that a backend computes known cosines before it is trusted.
func selfTest(b Backend) error {
	got, err := b.CosineScores([]float64{1, 0, 1}, [][]float64{{1, 0, 1}, {0, 1, 0}, {0, 0, 0}})
	if err != nil {
		return fmt.Errorf("self test: %w", err)
	}
	want := []float64{1, 0, 0}
	if len(got) != len(want) {
		return fmt.Errorf("self test: got %d scores, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			return fmt.Errorf("self test: score %d = %v, want %v", i, got[i], want[i])
		}
	}
	return nil
}
