package algos

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/danmuck/sparten/internal/axis"
	"github.com/danmuck/sparten/internal/tensor"
)

var ErrDensity = errors.New("random: density must lie in [0, 1]")

// RandomCOO creates a fully sparse tensor with unique uniform coordinates
// and values drawn from a normal distribution. density is the filled
// fraction of the coordinate space; the block count is rounded from it.
//
// Needs O(n) auxiliary memory for coordinate de-duplication.
func RandomCOO[IT axis.Index, VT axis.Value](rng *rand.Rand, shape axis.Axes[IT], density, mean, stddev float64) (*tensor.COO[IT, VT], error) {
	if density < 0 || density > 1 || math.IsNaN(density) {
		return nil, fmt.Errorf("%w: %v", ErrDensity, density)
	}
	t, err := tensor.NewCOO[IT, VT](shape, nil)
	if err != nil {
		return nil, err
	}
	total, err := axis.Size(shape)
	if err != nil {
		return nil, err
	}
	want := int(math.Round(float64(total) * density))
	if want == 0 {
		return t, nil
	}

	lens := axis.Lens(shape)
	strides := make([]int, len(shape))
	stride := 1
	for k := len(shape) - 1; k >= 0; k-- {
		strides[k] = stride
		stride *= lens[k]
	}

	seen := make(map[int]struct{}, want)
	index := make([]IT, len(shape))
	block := make([]VT, 1)
	for len(seen) < want {
		off := 0
		for k, ax := range shape {
			i := IT(rng.Uint64N(uint64(lens[k])))
			index[k] = ax.Lower() + i
			off += int(i) * strides[k]
		}
		if _, dup := seen[off]; dup {
			continue
		}
		seen[off] = struct{}{}
		block[0] = VT(mean + stddev*rng.NormFloat64())
		if err := t.Push(index, block); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// RandomDenseMatrix creates a fully dense 2-axis tensor over the given axes
// with values drawn from a normal distribution. The axis pointers are kept,
// so the rows axis can be an axis shared with another tensor.
func RandomDenseMatrix[IT axis.Index, VT axis.Value](rng *rand.Rand, rows, cols *axis.Axis[IT], mean, stddev float64) (*tensor.COO[IT, VT], error) {
	data := make([]VT, rows.Len()*cols.Len())
	for i := range data {
		data[i] = VT(mean + stddev*rng.NormFloat64())
	}
	return tensor.NewDenseMatrix(rows, cols, data)
}
