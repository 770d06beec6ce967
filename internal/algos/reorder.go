package algos

import (
	"errors"
	"fmt"
)

var ErrBadPermutation = errors.New("reorder: order is not a permutation")

// Forward gathers: out[i] = s[order[i]].
func Forward[T any](s []T, order []int) ([]T, error) {
	if err := checkPermutation(len(s), order); err != nil {
		return nil, err
	}
	out := make([]T, len(order))
	for i, o := range order {
		out[i] = s[o]
	}
	return out, nil
}

// Backward scatters: out[order[i]] = s[i]. It is the inverse of Forward for
// the same order.
func Backward[T any](s []T, order []int) ([]T, error) {
	if err := checkPermutation(len(s), order); err != nil {
		return nil, err
	}
	out := make([]T, len(order))
	for i, o := range order {
		out[o] = s[i]
	}
	return out, nil
}

// ForwardInPlace gathers in place by walking permutation cycles. Takes O(n)
// time and no extra space; order is rewritten to the identity.
func ForwardInPlace[T any](s []T, order []int) error {
	if err := checkPermutation(len(s), order); err != nil {
		return err
	}
	for i := range order {
		if order[i] == i {
			continue
		}
		tmp := s[i]
		j := i
		for {
			k := order[j]
			order[j] = j
			if k == i {
				s[j] = tmp
				break
			}
			s[j] = s[k]
			j = k
		}
	}
	return nil
}

// BackwardInPlace scatters in place by walking permutation cycles. Takes
// O(n) time and no extra space; order is rewritten to the identity.
func BackwardInPlace[T any](s []T, order []int) error {
	if err := checkPermutation(len(s), order); err != nil {
		return err
	}
	for i := range order {
		for order[i] != i {
			j := order[i]
			s[i], s[j] = s[j], s[i]
			order[i], order[j] = order[j], order[i]
		}
	}
	return nil
}

func checkPermutation(n int, order []int) error {
	if len(order) != n {
		return fmt.Errorf("%w: %d entries for %d elements", ErrBadPermutation, len(order), n)
	}
	seen := make([]bool, n)
	for _, o := range order {
		if o < 0 || o >= n {
			return fmt.Errorf("%w: index %d out of range", ErrBadPermutation, o)
		}
		if seen[o] {
			return fmt.Errorf("%w: index %d appears twice", ErrBadPermutation, o)
		}
		seen[o] = true
	}
	return nil
}
