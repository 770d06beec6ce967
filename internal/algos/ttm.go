package algos

import (
	"context"
	"errors"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/danmuck/sparten/internal/axis"
	"github.com/danmuck/sparten/internal/tensor"
	"github.com/danmuck/sparten/internal/trace"
)

var (
	ErrNotMatrix     = errors.New("ttm: operand is not a single-block dense 2-axis matrix")
	ErrNoCommonAxis  = errors.New("ttm: matrix rows axis is not a sparse axis of the tensor")
	ErrTwoCommonAxes = errors.New("ttm: matrix shares more than one axis with the tensor")
	ErrUnsorted      = errors.New("ttm: tensor is not sorted with the common axis last")
)

// ctxCheckEvery bounds how many chunks a worker computes between
// cancellation checks.
const ctxCheckEvery = 256

// TTM multiplies a semi-sparse tensor by a dense matrix along their shared
// axis.
//
// The matrix must be a fully dense 2-axis tensor whose rows axis is one of
// the tensor's sparse axes, and the tensor must be sorted with that common
// axis last. Sparse fibers along the common axis collapse into one output
// block each; the matrix columns axis becomes a new trailing dense axis of
// the result. A fully sparse tensor is simply the block-size-1 case.
type TTM[IT axis.Index, VT axis.Value] struct {
	Tensor *tensor.COO[IT, VT]
	Matrix *tensor.COO[IT, VT]

	// Workers sets the parallelism of the value phase: 1 forces the serial
	// kernel, 0 uses GOMAXPROCS.
	Workers int

	Tracer *trace.Tracer
}

// Execute runs the multiplication. The context cancels the value phase
// between chunk spans.
func (m *TTM[IT, VT]) Execute(ctx context.Context) (*tensor.COO[IT, VT], error) {
	defer m.Tracer.Span("ttm")()

	t, mat := m.Tensor, m.Matrix
	if mat.NDim() != 2 || len(mat.SparseAxes()) != 0 || mat.NumBlocks() != 1 {
		return nil, ErrNotMatrix
	}
	matAxes := mat.DenseAxes()
	common, colsAxis := matAxes[0], matAxes[1]
	pos := axis.Map(matAxes, t.SparseAxes())
	if pos[0] < 0 {
		return nil, ErrNoCommonAxis
	}
	if pos[1] >= 0 {
		return nil, ErrTwoCommonAxes
	}
	commonCol := pos[0]

	order, ok := t.SortOrder()
	if !ok || len(order) == 0 || order[len(order)-1] != common {
		return nil, ErrUnsorted
	}

	raw := t.Raw()
	nCols := len(raw.SparseAxes)
	bs := t.BlockSize()
	nb := t.NumBlocks()
	matVals := mat.Block(0)
	ncols := colsAxis.Len()

	outIdx, chunkOffsets := m.computeIndices(raw.Indices, nb, nCols, commonCol)
	outVals, err := m.computeValues(ctx, raw, matVals, chunkOffsets, common, commonCol, bs, ncols)
	if err != nil {
		return nil, err
	}

	outShape := make(axis.Axes[IT], len(raw.Shape))
	for i, ax := range raw.Shape {
		if ax == common {
			ax = colsAxis
		}
		outShape[i] = ax
	}
	outSparse := withoutAxis(raw.SparseAxes, common)
	outOrder := withoutAxis(order, common)
	outDense := slices.Clone(raw.DenseAxes)
	outDense = append(outDense, colsAxis)

	return tensor.FromRaw(tensor.Raw[IT, VT]{
		Shape:      outShape,
		SparseAxes: outSparse,
		DenseAxes:  outDense,
		Indices:    outIdx,
		Values:     outVals,
		Sorted:     true,
		SortOrder:  outOrder,
	})
}

// computeIndices collapses runs of blocks that differ only on the common
// axis into chunks: one output index row per chunk, plus the input row
// offsets delimiting each chunk.
func (m *TTM[IT, VT]) computeIndices(indices []IT, nb, nCols, commonCol int) ([]IT, []int) {
	defer m.Tracer.Span("ttm.indices")()

	var outIdx []IT
	var chunkOffsets []int
	last := -1
	for i := 0; i < nb; i++ {
		if last >= 0 && rowEqExcept(indices, last, i, nCols, commonCol) {
			continue
		}
		row := indices[i*nCols : (i+1)*nCols]
		for c, v := range row {
			if c != commonCol {
				outIdx = append(outIdx, v)
			}
		}
		chunkOffsets = append(chunkOffsets, i)
		last = i
	}
	chunkOffsets = append(chunkOffsets, nb)
	return outIdx, chunkOffsets
}

func (m *TTM[IT, VT]) computeValues(
	ctx context.Context,
	raw tensor.Raw[IT, VT],
	matVals []VT,
	chunkOffsets []int,
	common *axis.Axis[IT],
	commonCol, bs, ncols int,
) ([]VT, error) {
	numChunks := len(chunkOffsets) - 1
	outBS := bs * ncols
	outVals := make([]VT, numChunks*outBS)
	nCols := len(raw.SparseAxes)

	computeChunk := func(i int) {
		out := outVals[i*outBS : (i+1)*outBS]
		for j := chunkOffsets[i]; j < chunkOffsets[i+1]; j++ {
			r := int(raw.Indices[j*nCols+commonCol] - common.Lower())
			blk := raw.Values[j*bs : (j+1)*bs]
			mrow := matVals[r*ncols : (r+1)*ncols]
			for k, tv := range blk {
				o := out[k*ncols : (k+1)*ncols]
				for c, mv := range mrow {
					o[c] += tv * mv
				}
			}
		}
	}

	workers := m.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers <= 1 || numChunks < 2 {
		defer m.Tracer.Span("ttm.values")()
		for i := 0; i < numChunks; i++ {
			if i%ctxCheckEvery == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
			computeChunk(i)
		}
		return outVals, nil
	}

	defer m.Tracer.Span("ttm.values_parallel")()
	g, gctx := errgroup.WithContext(ctx)
	span := (numChunks + workers - 1) / workers
	for start := 0; start < numChunks; start += span {
		end := min(start+span, numChunks)
		g.Go(func() error {
			for i := start; i < end; i++ {
				if (i-start)%ctxCheckEvery == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				computeChunk(i)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outVals, nil
}

// rowEqExcept compares index rows a and b, ignoring column except. Scans
// from the last column, where sorted rows differ soonest.
func rowEqExcept[IT axis.Index](indices []IT, a, b, nCols, except int) bool {
	ba, bb := a*nCols, b*nCols
	for c := nCols - 1; c >= 0; c-- {
		if c != except && indices[ba+c] != indices[bb+c] {
			return false
		}
	}
	return true
}

func withoutAxis[IT axis.Index](axes axis.Axes[IT], drop *axis.Axis[IT]) axis.Axes[IT] {
	out := make(axis.Axes[IT], 0, len(axes))
	for _, ax := range axes {
		if ax != drop {
			out = append(out, ax)
		}
	}
	return out
}
