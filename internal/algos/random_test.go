package algos

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/danmuck/sparten/internal/axis"
)

func TestRandomCOO(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	shape := axis.Axes[uint32]{
		axis.Range[uint32](0, 10),
		axis.Range[uint32](5, 15),
		axis.Range[uint32](0, 10),
	}
	tsr, err := RandomCOO[uint32, float32](rng, shape, 0.05, 0, 1)
	if err != nil {
		t.Fatalf("RandomCOO: %v", err)
	}
	if tsr.NumBlocks() != 50 {
		t.Fatalf("density 0.05 of 1000 must give 50 blocks, got %d", tsr.NumBlocks())
	}
	if tsr.BlockSize() != 1 || len(tsr.DenseAxes()) != 0 {
		t.Fatalf("random tensor must be fully sparse")
	}
	seen := make(map[string]struct{})
	for b := 0; b < tsr.NumBlocks(); b++ {
		row := tsr.IndexRow(b)
		for c, ax := range shape {
			if !ax.Contains(row[c]) {
				t.Fatalf("block %d coordinate %v outside %s", b, row[c], ax)
			}
		}
		key := fmt.Sprint(row)
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate coordinate %v", row)
		}
		seen[key] = struct{}{}
	}
}

func TestRandomCOOZeroDensity(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	shape := axis.Axes[uint32]{axis.Of[uint32](10)}
	tsr, err := RandomCOO[uint32, float32](rng, shape, 0, 0, 1)
	if err != nil {
		t.Fatalf("RandomCOO: %v", err)
	}
	if tsr.NumBlocks() != 0 {
		t.Fatalf("zero density must give an empty tensor, got %d blocks", tsr.NumBlocks())
	}
}

func TestRandomCOOBadDensity(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	shape := axis.Axes[uint32]{axis.Of[uint32](10)}
	for _, d := range []float64{-0.1, 1.1} {
		if _, err := RandomCOO[uint32, float32](rng, shape, d, 0, 1); !errors.Is(err, ErrDensity) {
			t.Fatalf("density %v: expected ErrDensity, got %v", d, err)
		}
	}
}

func TestRandomDenseMatrix(t *testing.T) {
	rng := rand.New(rand.NewPCG(2, 2))
	rows := axis.New[uint32]("j", 0, 6)
	cols := axis.New[uint32]("r", 0, 4)
	mat, err := RandomDenseMatrix[uint32, float32](rng, rows, cols, 0, 1)
	if err != nil {
		t.Fatalf("RandomDenseMatrix: %v", err)
	}
	if mat.NumBlocks() != 1 || mat.BlockSize() != 24 {
		t.Fatalf("layout: blocks=%d blockSize=%d", mat.NumBlocks(), mat.BlockSize())
	}
	if mat.Shape()[0] != rows || mat.Shape()[1] != cols {
		t.Fatalf("matrix must keep the axis identities")
	}
}

func TestRandomCOODeterministic(t *testing.T) {
	shape := axis.Axes[uint32]{axis.Of[uint32](8), axis.Of[uint32](8)}
	a, err := RandomCOO[uint32, float32](rand.New(rand.NewPCG(3, 3)), shape, 0.2, 0, 1)
	if err != nil {
		t.Fatalf("RandomCOO: %v", err)
	}
	b, err := RandomCOO[uint32, float32](rand.New(rand.NewPCG(3, 3)), shape, 0.2, 0, 1)
	if err != nil {
		t.Fatalf("RandomCOO: %v", err)
	}
	ar, br := a.Raw(), b.Raw()
	if fmt.Sprint(ar.Indices) != fmt.Sprint(br.Indices) || fmt.Sprint(ar.Values) != fmt.Sprint(br.Values) {
		t.Fatalf("same seed must give the same tensor")
	}
}
