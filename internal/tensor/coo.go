package tensor

import (
	"errors"
	"fmt"
	"slices"

	"github.com/danmuck/sparten/internal/axis"
)

var (
	ErrShapeMismatch  = errors.New("tensor: shape does not match dense mask")
	ErrIndexRank      = errors.New("tensor: index has wrong number of coordinates")
	ErrIndexOutOfAxis = errors.New("tensor: index outside its axis range")
	ErrBlockShape     = errors.New("tensor: block has wrong number of elements")
	ErrDataSize       = errors.New("tensor: data length does not match shape")
	ErrCorrupt        = errors.New("tensor: raw parts are inconsistent")
)

// COO is a semi-sparse coordinate tensor.
//
// The shape is partitioned into sparse axes and dense axes. Storage holds one
// block per non-zero sparse coordinate: Indices keeps one row of sparse
// coordinates per block, Values keeps one dense block (all dense-axis
// elements, row-major) per block. A fully sparse tensor has block size 1; a
// fully dense tensor has no index rows and a single block.
type COO[IT axis.Index, VT axis.Value] struct {
	name      string
	shape     axis.Axes[IT]
	sparse    axis.Axes[IT]
	dense     axis.Axes[IT]
	indices   []IT
	values    []VT
	blocks    int
	blockSize int
	sorted    bool
	sortOrder axis.Axes[IT]
}

// Raw exposes the storage of a COO tensor to kernels. Mutating it without
// preserving the layout invariants corrupts the tensor; FromRaw re-validates.
type Raw[IT axis.Index, VT axis.Value] struct {
	Name       string
	Shape      axis.Axes[IT]
	SparseAxes axis.Axes[IT]
	DenseAxes  axis.Axes[IT]
	Indices    []IT
	Values     []VT
	Sorted     bool
	SortOrder  axis.Axes[IT]
}

// NewCOO creates an empty tensor. denseMask marks which shape axes are dense;
// the rest are sparse. A nil mask means fully sparse.
func NewCOO[IT axis.Index, VT axis.Value](shape axis.Axes[IT], denseMask []bool) (*COO[IT, VT], error) {
	if denseMask == nil {
		denseMask = make([]bool, len(shape))
	}
	if len(shape) != len(denseMask) {
		return nil, fmt.Errorf("%w: %d axes, %d mask entries", ErrShapeMismatch, len(shape), len(denseMask))
	}
	t := &COO[IT, VT]{shape: slices.Clone(shape), sorted: true}
	for i, ax := range shape {
		if denseMask[i] {
			t.dense = append(t.dense, ax)
		} else {
			t.sparse = append(t.sparse, ax)
		}
	}
	size, err := axis.Size(t.dense)
	if err != nil {
		return nil, err
	}
	t.blockSize = size
	t.sortOrder = slices.Clone(t.sparse)
	return t, nil
}

// FromDense wraps row-major data as a fully dense tensor with a single block.
func FromDense[IT axis.Index, VT axis.Value](shape axis.Axes[IT], data []VT) (*COO[IT, VT], error) {
	mask := make([]bool, len(shape))
	for i := range mask {
		mask[i] = true
	}
	t, err := NewCOO[IT, VT](shape, mask)
	if err != nil {
		return nil, err
	}
	if len(data) != t.blockSize {
		return nil, fmt.Errorf("%w: got %d elements, shape holds %d", ErrDataSize, len(data), t.blockSize)
	}
	t.values = slices.Clone(data)
	t.blocks = 1
	return t, nil
}

// NewDenseMatrix wraps row-major data as a fully dense 2-axis tensor, the
// matrix operand of TTM.
func NewDenseMatrix[IT axis.Index, VT axis.Value](rows, cols *axis.Axis[IT], data []VT) (*COO[IT, VT], error) {
	return FromDense(axis.Axes[IT]{rows, cols}, data)
}

// FromRaw assembles a tensor from raw storage, validating the layout.
func FromRaw[IT axis.Index, VT axis.Value](r Raw[IT, VT]) (*COO[IT, VT], error) {
	t := &COO[IT, VT]{
		name:      r.Name,
		shape:     slices.Clone(r.Shape),
		sparse:    slices.Clone(r.SparseAxes),
		dense:     slices.Clone(r.DenseAxes),
		indices:   r.Indices,
		values:    r.Values,
		sorted:    r.Sorted,
		sortOrder: slices.Clone(r.SortOrder),
	}
	if len(t.sparse)+len(t.dense) != len(t.shape) {
		return nil, fmt.Errorf("%w: axis partition does not cover the shape", ErrCorrupt)
	}
	if _, err := axis.MustMap(t.sparse, t.shape); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if _, err := axis.MustMap(t.dense, t.shape); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	size, err := axis.Size(t.dense)
	if err != nil {
		return nil, err
	}
	t.blockSize = size
	switch {
	case len(t.sparse) > 0:
		if len(t.indices)%len(t.sparse) != 0 {
			return nil, fmt.Errorf("%w: ragged index rows", ErrCorrupt)
		}
		t.blocks = len(t.indices) / len(t.sparse)
	case t.blockSize > 0:
		if len(t.values)%t.blockSize != 0 {
			return nil, fmt.Errorf("%w: ragged value blocks", ErrCorrupt)
		}
		t.blocks = len(t.values) / t.blockSize
	default:
		t.blocks = 0
	}
	if len(t.values) != t.blocks*t.blockSize {
		return nil, fmt.Errorf("%w: %d values for %d blocks of %d", ErrCorrupt, len(t.values), t.blocks, t.blockSize)
	}
	for b := 0; b < t.blocks; b++ {
		row := t.indices[b*len(t.sparse) : (b+1)*len(t.sparse)]
		for c, ax := range t.sparse {
			if !ax.Contains(row[c]) {
				return nil, fmt.Errorf("%w: block %d coordinate %v outside %s", ErrCorrupt, b, row[c], ax)
			}
		}
	}
	if t.sorted {
		if _, err := axis.MustMap(t.sortOrder, t.sparse); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	}
	return t, nil
}

// Raw returns the tensor's storage. The slices alias the tensor.
func (t *COO[IT, VT]) Raw() Raw[IT, VT] {
	return Raw[IT, VT]{
		Name:       t.name,
		Shape:      t.shape,
		SparseAxes: t.sparse,
		DenseAxes:  t.dense,
		Indices:    t.indices,
		Values:     t.values,
		Sorted:     t.sorted,
		SortOrder:  t.sortOrder,
	}
}

func (t *COO[IT, VT]) Name() string        { return t.name }
func (t *COO[IT, VT]) SetName(name string) { t.name = name }

// Shape returns all axes in logical order.
func (t *COO[IT, VT]) Shape() axis.Axes[IT] { return t.shape }

// SparseAxes returns the sparse part of the shape, in storage column order.
func (t *COO[IT, VT]) SparseAxes() axis.Axes[IT] { return t.sparse }

// DenseAxes returns the dense part of the shape, in block dimension order.
func (t *COO[IT, VT]) DenseAxes() axis.Axes[IT] { return t.dense }

func (t *COO[IT, VT]) NDim() int      { return len(t.shape) }
func (t *COO[IT, VT]) NumBlocks() int { return t.blocks }
func (t *COO[IT, VT]) BlockSize() int { return t.blockSize }

// NumNonZeros counts stored elements, including stored zeros.
func (t *COO[IT, VT]) NumNonZeros() int { return t.blocks * t.blockSize }

// SortOrder returns the sparse axis order the blocks are sorted by, if any.
func (t *COO[IT, VT]) SortOrder() (axis.Axes[IT], bool) {
	if !t.sorted {
		return nil, false
	}
	return t.sortOrder, true
}

// MarkSorted records that blocks are lexicographically sorted by order.
// Kernels call this after arranging the rows themselves.
func (t *COO[IT, VT]) MarkSorted(order axis.Axes[IT]) {
	t.sortOrder = slices.Clone(order)
	t.sorted = true
}

// ClearSortOrder forgets any recorded sort order.
func (t *COO[IT, VT]) ClearSortOrder() { t.sorted = false }

// IndexRow returns the sparse coordinates of block b. The slice aliases the
// tensor.
func (t *COO[IT, VT]) IndexRow(b int) []IT {
	n := len(t.sparse)
	return t.indices[b*n : (b+1)*n : (b+1)*n]
}

// Block returns the dense values of block b. The slice aliases the tensor.
func (t *COO[IT, VT]) Block(b int) []VT {
	return t.values[b*t.blockSize : (b+1)*t.blockSize : (b+1)*t.blockSize]
}

// Push appends one block. index holds one coordinate per sparse axis, block
// holds one element per dense coordinate. Pushing invalidates the sort order.
func (t *COO[IT, VT]) Push(index []IT, block []VT) error {
	if len(index) != len(t.sparse) {
		return fmt.Errorf("%w: got %d, want %d", ErrIndexRank, len(index), len(t.sparse))
	}
	for c, ax := range t.sparse {
		if !ax.Contains(index[c]) {
			return fmt.Errorf("%w: coordinate %v outside %s", ErrIndexOutOfAxis, index[c], ax)
		}
	}
	if len(block) != t.blockSize {
		return fmt.Errorf("%w: got %d, want %d", ErrBlockShape, len(block), t.blockSize)
	}
	t.sorted = false
	t.indices = append(t.indices, index...)
	t.values = append(t.values, block...)
	t.blocks++
	return nil
}

// Clone returns a deep copy sharing only the axis pointers. Axes are shared
// on purpose: the copy still spans the same dimensions.
func (t *COO[IT, VT]) Clone() *COO[IT, VT] {
	c := *t
	c.shape = slices.Clone(t.shape)
	c.sparse = slices.Clone(t.sparse)
	c.dense = slices.Clone(t.dense)
	c.indices = slices.Clone(t.indices)
	c.values = slices.Clone(t.values)
	c.sortOrder = slices.Clone(t.sortOrder)
	return &c
}
