package algos

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

var (
	shuffled      = strings.Split("H I B F D E C A J G", " ")
	alphabet      = strings.Split("A B C D E F G H I J", " ")
	forwardOrder  = []int{7, 2, 6, 4, 5, 3, 9, 0, 1, 8}
	backwardOrder = []int{7, 8, 1, 5, 3, 4, 2, 0, 9, 6}
)

func TestForward(t *testing.T) {
	got, err := Forward(shuffled, forwardOrder)
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if !slices.Equal(got, alphabet) {
		t.Fatalf("got %v", got)
	}
}

func TestBackward(t *testing.T) {
	got, err := Backward(shuffled, backwardOrder)
	if err != nil {
		t.Fatalf("Backward: %v", err)
	}
	if !slices.Equal(got, alphabet) {
		t.Fatalf("got %v", got)
	}
}

func TestBackwardInvertsForward(t *testing.T) {
	fwd, err := Forward(shuffled, forwardOrder)
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	back, err := Backward(fwd, forwardOrder)
	if err != nil {
		t.Fatalf("Backward: %v", err)
	}
	if !slices.Equal(back, shuffled) {
		t.Fatalf("got %v", back)
	}
}

func TestForwardInPlace(t *testing.T) {
	s := slices.Clone(shuffled)
	order := slices.Clone(forwardOrder)
	if err := ForwardInPlace(s, order); err != nil {
		t.Fatalf("ForwardInPlace: %v", err)
	}
	if !slices.Equal(s, alphabet) {
		t.Fatalf("got %v", s)
	}
	for i, o := range order {
		if o != i {
			t.Fatalf("order not rewritten to identity: %v", order)
		}
	}
}

func TestBackwardInPlace(t *testing.T) {
	s := slices.Clone(shuffled)
	order := slices.Clone(backwardOrder)
	if err := BackwardInPlace(s, order); err != nil {
		t.Fatalf("BackwardInPlace: %v", err)
	}
	if !slices.Equal(s, alphabet) {
		t.Fatalf("got %v", s)
	}
}

func TestReorderBadPermutation(t *testing.T) {
	s := []int{1, 2, 3}
	cases := []struct {
		name  string
		order []int
	}{
		{"short", []int{0, 1}},
		{"out of range", []int{0, 1, 3}},
		{"negative", []int{0, -1, 2}},
		{"duplicate", []int{0, 0, 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Forward(s, tc.order); !errors.Is(err, ErrBadPermutation) {
				t.Fatalf("Forward: expected ErrBadPermutation, got %v", err)
			}
			if _, err := Backward(s, tc.order); !errors.Is(err, ErrBadPermutation) {
				t.Fatalf("Backward: expected ErrBadPermutation, got %v", err)
			}
			if err := ForwardInPlace(s, slices.Clone(tc.order)); !errors.Is(err, ErrBadPermutation) {
				t.Fatalf("ForwardInPlace: expected ErrBadPermutation, got %v", err)
			}
		})
	}
}
