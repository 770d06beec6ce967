package tensor

import (
	"fmt"
	"iter"

	"github.com/danmuck/sparten/internal/axis"
)

// Iter walks every stored element in storage order (blocks, then dense
// offsets inside each block). The yielded index covers all axes in shape
// order. The index slice is reused between iterations; clone it to retain.
func (t *COO[IT, VT]) Iter() iter.Seq2[[]IT, VT] {
	sparsePos := axis.Map(t.sparse, t.shape)
	densePos := axis.Map(t.dense, t.shape)
	denseLens := axis.Lens(t.dense)
	strides := denseStrides(denseLens)

	return func(yield func([]IT, VT) bool) {
		buf := make([]IT, len(t.shape))
		for b := 0; b < t.blocks; b++ {
			row := t.IndexRow(b)
			for c, pos := range sparsePos {
				buf[pos] = row[c]
			}
			block := t.Block(b)
			for off, v := range block {
				for k, pos := range densePos {
					buf[pos] = t.dense[k].Lower() + IT(off/strides[k]%denseLens[k])
				}
				if !yield(buf, v) {
					return
				}
			}
		}
	}
}

// At looks up the element at a full logical index by scanning blocks.
// Linear in the number of blocks; meant for tools and tests, not kernels.
func (t *COO[IT, VT]) At(index []IT) (VT, bool) {
	var zero VT
	if len(index) != len(t.shape) {
		return zero, false
	}
	sparsePos := axis.Map(t.sparse, t.shape)
	densePos := axis.Map(t.dense, t.shape)
	denseLens := axis.Lens(t.dense)
	strides := denseStrides(denseLens)

	off := 0
	for k, pos := range densePos {
		i := index[pos]
		if !t.dense[k].Contains(i) {
			return zero, false
		}
		off += int(i-t.dense[k].Lower()) * strides[k]
	}
scan:
	for b := 0; b < t.blocks; b++ {
		row := t.IndexRow(b)
		for c, pos := range sparsePos {
			if row[c] != index[pos] {
				continue scan
			}
		}
		return t.Block(b)[off], true
	}
	return zero, false
}

// Dense materializes the tensor as a row-major array over the full shape.
// Duplicate coordinates accumulate.
func (t *COO[IT, VT]) Dense() ([]VT, error) {
	size, err := axis.Size(t.shape)
	if err != nil {
		return nil, err
	}
	lens := axis.Lens(t.shape)
	strides := denseStrides(lens)
	out := make([]VT, size)
	for index, v := range t.Iter() {
		off := 0
		for p, i := range index {
			if !t.shape[p].Contains(i) {
				return nil, fmt.Errorf("%w: coordinate %v outside %s", ErrIndexOutOfAxis, i, t.shape[p])
			}
			off += int(i-t.shape[p].Lower()) * strides[p]
		}
		out[off] += v
	}
	return out, nil
}

// denseStrides returns row-major strides for the given dimension lengths.
func denseStrides(lens []int) []int {
	strides := make([]int, len(lens))
	size := 1
	for k := len(lens) - 1; k >= 0; k-- {
		strides[k] = size
		size *= lens[k]
	}
	return strides
}
