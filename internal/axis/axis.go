package axis

import "fmt"

// Index is the set of types usable as tensor coordinates. Narrow types keep
// index storage small; they overflow on very large tensors.
type Index interface {
	~int32 | ~uint32 | ~int64 | ~uint64 | ~int
}

// Value is the set of types usable as tensor elements.
type Value interface {
	~float32 | ~float64
}

// Axis is one labeled dimension of a tensor, covering the half-open index
// range [lower, upper).
//
// Axes carry identity: two axes are the same dimension if and only if they
// are the same *Axis pointer. Kernels rely on this to recognize a dimension
// shared between two tensors, so label or range equality is never enough.
// WithLabel, WithRange, Extend and Intersect all return fresh axes that are
// not the same dimension as their inputs.
type Axis[IT Index] struct {
	label string
	lower IT
	upper IT
}

// New creates a labeled axis over [lower, upper).
func New[IT Index](label string, lower, upper IT) *Axis[IT] {
	return &Axis[IT]{label: label, lower: lower, upper: upper}
}

// Range creates an anonymous axis over [lower, upper).
func Range[IT Index](lower, upper IT) *Axis[IT] {
	return &Axis[IT]{lower: lower, upper: upper}
}

// Of creates an anonymous zero-based axis over [0, upper).
func Of[IT Index](upper IT) *Axis[IT] {
	return &Axis[IT]{upper: upper}
}

// Label returns the axis label, empty when anonymous.
func (a *Axis[IT]) Label() string { return a.label }

// Lower returns the inclusive lower bound.
func (a *Axis[IT]) Lower() IT { return a.lower }

// Upper returns the exclusive upper bound.
func (a *Axis[IT]) Upper() IT { return a.upper }

// Len returns the number of indices on the axis. An inverted range has
// length 0.
func (a *Axis[IT]) Len() int {
	if a.upper <= a.lower {
		return 0
	}
	return int(a.upper - a.lower)
}

// Empty reports whether the axis covers no indices.
func (a *Axis[IT]) Empty() bool { return a.upper <= a.lower }

// Contains reports whether i lies inside the axis range.
func (a *Axis[IT]) Contains(i IT) bool { return a.lower <= i && i < a.upper }

// WithLabel returns a new axis with the same range and a new label.
// The result is a different dimension from the receiver.
func (a *Axis[IT]) WithLabel(label string) *Axis[IT] {
	return &Axis[IT]{label: label, lower: a.lower, upper: a.upper}
}

// WithRange returns a new axis with the same label and a new range.
// The result is a different dimension from the receiver.
func (a *Axis[IT]) WithRange(lower, upper IT) *Axis[IT] {
	return &Axis[IT]{label: a.label, lower: lower, upper: upper}
}

// Extend returns a new anonymous axis covering both input ranges.
func (a *Axis[IT]) Extend(b *Axis[IT]) *Axis[IT] {
	return &Axis[IT]{lower: min(a.lower, b.lower), upper: max(a.upper, b.upper)}
}

// Intersect returns a new anonymous axis covering the common part of both
// input ranges. The result may be empty.
func (a *Axis[IT]) Intersect(b *Axis[IT]) *Axis[IT] {
	return &Axis[IT]{lower: max(a.lower, b.lower), upper: min(a.upper, b.upper)}
}

func (a *Axis[IT]) String() string {
	if a.label == "" {
		return fmt.Sprintf("[%v..%v)", a.lower, a.upper)
	}
	return fmt.Sprintf("%s[%v..%v)", a.label, a.lower, a.upper)
}
