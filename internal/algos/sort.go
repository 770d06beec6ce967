package algos

import (
	"errors"
	"fmt"

	"github.com/danmuck/sparten/internal/axis"
	"github.com/danmuck/sparten/internal/tensor"
)

var ErrSortOrder = errors.New("sort: order is not a permutation of the sparse axes")

// Sort arranges the blocks of t lexicographically by the given sparse axis
// order, in place, and records the order on the tensor. Index rows and value
// blocks move together.
func Sort[IT axis.Index, VT axis.Value](t *tensor.COO[IT, VT], order axis.Axes[IT]) error {
	sparse := t.SparseAxes()
	if len(order) != len(sparse) {
		return fmt.Errorf("%w: %d axes ordered, tensor has %d", ErrSortOrder, len(order), len(sparse))
	}
	cols, err := axis.MustMap(order, sparse)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSortOrder, err)
	}
	seen := make([]bool, len(sparse))
	for _, c := range cols {
		if seen[c] {
			return fmt.Errorf("%w: axis %s appears twice", ErrSortOrder, sparse[c])
		}
		seen[c] = true
	}

	raw := t.Raw()
	nCols := len(sparse)
	bs := t.BlockSize()
	key := make([]IT, len(cols))

	// Compare block row against the pivot key held in key.
	cmpRow := func(row int) int {
		base := row * nCols
		for k, c := range cols {
			a, b := raw.Indices[base+c], key[k]
			if a < b {
				return -1
			}
			if a > b {
				return 1
			}
		}
		return 0
	}
	swap := func(i, j int) {
		bi, bj := i*nCols, j*nCols
		for c := 0; c < nCols; c++ {
			raw.Indices[bi+c], raw.Indices[bj+c] = raw.Indices[bj+c], raw.Indices[bi+c]
		}
		vi, vj := i*bs, j*bs
		for c := 0; c < bs; c++ {
			raw.Values[vi+c], raw.Values[vj+c] = raw.Values[vj+c], raw.Values[vi+c]
		}
	}

	var sortRange func(from, to int)
	sortRange = func(from, to int) {
		if to-from < 2 {
			return
		}
		// key survives until the recursive calls, which refill it.
		pivot := from + (to-from)/2
		copyKey(key, raw.Indices[pivot*nCols:(pivot+1)*nCols], cols)
		i, j := from, to-1
		for i <= j {
			for cmpRow(i) < 0 {
				i++
			}
			for cmpRow(j) > 0 {
				j--
			}
			if i <= j {
				swap(i, j)
				i++
				j--
			}
		}
		sortRange(from, j+1)
		sortRange(i, to)
	}
	sortRange(0, t.NumBlocks())

	t.MarkSorted(order)
	return nil
}

func copyKey[IT axis.Index](key, row []IT, cols []int) {
	for k, c := range cols {
		key[k] = row[c]
	}
}
