package axis

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

var (
	ErrAxisNotFound = errors.New("axis: axis not found")
	ErrSizeOverflow = errors.New("axis: coordinate space overflows")
)

// Axes is an ordered list of axes, typically the shape of a tensor.
type Axes[IT Index] []*Axis[IT]

// Map locates each `from` axis inside `to` by identity. Missing axes map
// to -1. Quadratic, but tensors rarely have more than 4 or 5 axes.
func Map[IT Index](from, to Axes[IT]) []int {
	out := make([]int, len(from))
	for i, ax := range from {
		out[i] = -1
		for j, cand := range to {
			if cand == ax {
				out[i] = j
				break
			}
		}
	}
	return out
}

// MustMap is Map, but an absent axis is an error.
func MustMap[IT Index](from, to Axes[IT]) ([]int, error) {
	out := Map(from, to)
	for i, pos := range out {
		if pos < 0 {
			return nil, fmt.Errorf("%w: %s", ErrAxisNotFound, from[i])
		}
	}
	return out, nil
}

// Lens returns the length of every axis.
func Lens[IT Index](axes Axes[IT]) []int {
	out := make([]int, len(axes))
	for i, ax := range axes {
		out[i] = ax.Len()
	}
	return out
}

// Size returns the number of coordinates in the space spanned by axes.
// The empty list spans the single scalar coordinate.
func Size[IT Index](axes Axes[IT]) (int, error) {
	size := uint64(1)
	for _, ax := range axes {
		hi, lo := bits.Mul64(size, uint64(ax.Len()))
		if hi != 0 || lo > uint64(int(^uint(0)>>1)) {
			return 0, ErrSizeOverflow
		}
		size = lo
	}
	return int(size), nil
}

// Format renders axes for log output, e.g. "i[0..3) x [0..2) x k[0..3)".
func Format[IT Index](axes Axes[IT]) string {
	if len(axes) == 0 {
		return "scalar"
	}
	parts := make([]string, len(axes))
	for i, ax := range axes {
		parts[i] = ax.String()
	}
	return strings.Join(parts, " x ")
}
