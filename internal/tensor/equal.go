package tensor

import (
	"math"
	"slices"

	"github.com/danmuck/sparten/internal/axis"
)

// Equal reports whether a and b share the same axes (by identity), the same
// block layout and the same storage. Sort bookkeeping is not compared.
func Equal[IT axis.Index, VT axis.Value](a, b *COO[IT, VT]) bool {
	return slices.Equal(a.shape, b.shape) &&
		slices.Equal(a.sparse, b.sparse) &&
		slices.Equal(a.dense, b.dense) &&
		slices.Equal(a.indices, b.indices) &&
		slices.Equal(a.values, b.values)
}

// ApproxEqual compares the materialized dense arrays of a and b within tol,
// so tensors that only differ in block order or duplicate splitting compare
// equal. Axes must match per position in bounds, not identity.
func ApproxEqual[IT axis.Index, VT axis.Value](a, b *COO[IT, VT], tol float64) (bool, error) {
	if len(a.shape) != len(b.shape) {
		return false, nil
	}
	for i, ax := range a.shape {
		bx := b.shape[i]
		if ax.Lower() != bx.Lower() || ax.Upper() != bx.Upper() {
			return false, nil
		}
	}
	da, err := a.Dense()
	if err != nil {
		return false, err
	}
	db, err := b.Dense()
	if err != nil {
		return false, err
	}
	for i := range da {
		if math.Abs(float64(da[i]-db[i])) > tol {
			return false, nil
		}
	}
	return true, nil
}
