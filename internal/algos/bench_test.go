package algos

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/danmuck/sparten/internal/axis"
	"github.com/danmuck/sparten/internal/tensor"
)

func benchTensor(b *testing.B) (*tensor.COO[uint32, float32], *tensor.COO[uint32, float32]) {
	b.Helper()
	rng := rand.New(rand.NewPCG(42, 42))
	shape := axis.Axes[uint32]{
		axis.New[uint32]("i", 0, 64),
		axis.New[uint32]("j", 0, 64),
		axis.New[uint32]("k", 0, 64),
	}
	tsr, err := RandomCOO[uint32, float32](rng, shape, 0.02, 0, 1)
	if err != nil {
		b.Fatalf("RandomCOO: %v", err)
	}
	common := shape[2]
	cols := axis.New[uint32]("r", 0, 16)
	mat, err := RandomDenseMatrix[uint32, float32](rng, common, cols, 0, 1)
	if err != nil {
		b.Fatalf("RandomDenseMatrix: %v", err)
	}
	if err := Sort(tsr, axis.Axes[uint32]{shape[0], shape[1], common}); err != nil {
		b.Fatalf("Sort: %v", err)
	}
	return tsr, mat
}

func BenchmarkTTMSerial(b *testing.B) {
	tsr, mat := benchTensor(b)
	task := &TTM[uint32, float32]{Tensor: tsr, Matrix: mat, Workers: 1}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := task.Execute(context.Background()); err != nil {
			b.Fatalf("Execute: %v", err)
		}
	}
}

func BenchmarkTTMParallel(b *testing.B) {
	tsr, mat := benchTensor(b)
	task := &TTM[uint32, float32]{Tensor: tsr, Matrix: mat}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := task.Execute(context.Background()); err != nil {
			b.Fatalf("Execute: %v", err)
		}
	}
}

func BenchmarkSort(b *testing.B) {
	tsr, _ := benchTensor(b)
	shape := tsr.Shape()
	order := axis.Axes[uint32]{shape[2], shape[1], shape[0]}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		cp := tsr.Clone()
		b.StartTimer()
		if err := Sort(cp, order); err != nil {
			b.Fatalf("Sort: %v", err)
		}
	}
}
