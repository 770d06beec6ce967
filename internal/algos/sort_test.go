package algos

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/danmuck/sparten/internal/axis"
	"github.com/danmuck/sparten/internal/tensor"
)

func buildUnsorted(t *testing.T) (*tensor.COO[uint32, float32], axis.Axes[uint32]) {
	t.Helper()
	shape := axis.Axes[uint32]{
		axis.New[uint32]("i", 0, 4),
		axis.New[uint32]("j", 0, 4),
		axis.New[uint32]("k", 0, 2),
	}
	tsr, err := tensor.NewCOO[uint32, float32](shape, []bool{false, false, true})
	if err != nil {
		t.Fatalf("NewCOO: %v", err)
	}
	rows := [][]uint32{
		{3, 1}, {0, 2}, {2, 0}, {0, 1}, {3, 0}, {1, 3}, {2, 0},
	}
	for n, row := range rows {
		base := float32(10 * (n + 1))
		if err := tsr.Push(row, []float32{base, base + 1}); err != nil {
			t.Fatalf("push: %v", err)
		}
	}
	return tsr, shape
}

// snapshot pairs each index row with its block so the multiset can be
// compared across a sort.
func snapshot(tsr *tensor.COO[uint32, float32]) map[string]int {
	m := make(map[string]int)
	for b := 0; b < tsr.NumBlocks(); b++ {
		key := fmt.Sprint(tsr.IndexRow(b), tsr.Block(b))
		m[key]++
	}
	return m
}

func TestSortLexicographic(t *testing.T) {
	tsr, shape := buildUnsorted(t)
	before := snapshot(tsr)

	order := axis.Axes[uint32]{shape[0], shape[1]}
	if err := Sort(tsr, order); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	got, ok := tsr.SortOrder()
	if !ok || got[0] != shape[0] || got[1] != shape[1] {
		t.Fatalf("sort order not recorded")
	}
	for b := 1; b < tsr.NumBlocks(); b++ {
		prev, cur := tsr.IndexRow(b-1), tsr.IndexRow(b)
		if slices.Compare(prev, cur) > 0 {
			t.Fatalf("blocks %d,%d out of order: %v > %v", b-1, b, prev, cur)
		}
	}
	if after := snapshot(tsr); !mapsEqual(before, after) {
		t.Fatalf("sort changed the block multiset")
	}
}

func TestSortReversedOrder(t *testing.T) {
	tsr, shape := buildUnsorted(t)
	order := axis.Axes[uint32]{shape[1], shape[0]}
	if err := Sort(tsr, order); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	// Lexicographic on (j, i): compare column 1 first.
	for b := 1; b < tsr.NumBlocks(); b++ {
		prev, cur := tsr.IndexRow(b-1), tsr.IndexRow(b)
		pk := [2]uint32{prev[1], prev[0]}
		ck := [2]uint32{cur[1], cur[0]}
		if slices.Compare(pk[:], ck[:]) > 0 {
			t.Fatalf("blocks %d,%d out of order: %v > %v", b-1, b, prev, cur)
		}
	}
}

func TestSortMovesBlocksWithRows(t *testing.T) {
	tsr, shape := buildUnsorted(t)
	if err := Sort(tsr, axis.Axes[uint32]{shape[0], shape[1]}); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	// Block pushed at (0, 1) carried values {40, 41}.
	v, ok := tsr.At([]uint32{0, 1, 0})
	if !ok || v != 40 {
		t.Fatalf("At(0,1,0) after sort: %v %v", v, ok)
	}
}

func TestSortBadOrder(t *testing.T) {
	tsr, shape := buildUnsorted(t)
	cases := []struct {
		name  string
		order axis.Axes[uint32]
	}{
		{"short", axis.Axes[uint32]{shape[0]}},
		{"foreign axis", axis.Axes[uint32]{shape[0], axis.Of[uint32](4)}},
		{"duplicate axis", axis.Axes[uint32]{shape[0], shape[0]}},
		{"dense axis", axis.Axes[uint32]{shape[0], shape[2]}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := Sort(tsr, tc.order); !errors.Is(err, ErrSortOrder) {
				t.Fatalf("expected ErrSortOrder, got %v", err)
			}
		})
	}
}

func TestSortEmptyAndSingle(t *testing.T) {
	shape := axis.Axes[uint32]{axis.Of[uint32](4)}
	tsr, err := tensor.NewCOO[uint32, float32](shape, nil)
	if err != nil {
		t.Fatalf("NewCOO: %v", err)
	}
	if err := Sort(tsr, shape); err != nil {
		t.Fatalf("sort empty: %v", err)
	}
	if err := tsr.Push([]uint32{2}, []float32{1}); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := Sort(tsr, shape); err != nil {
		t.Fatalf("sort single: %v", err)
	}
	if _, ok := tsr.SortOrder(); !ok {
		t.Fatalf("sort order not recorded")
	}
}

func mapsEqual(a, b map[string]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
