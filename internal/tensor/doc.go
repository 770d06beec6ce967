// Package tensor owns sparse tensor storage.
//
// Ownership boundary:
// - semi-sparse COO layout (index rows + dense value blocks)
//
// - structural invariants between indices, values and axes
//
// - element iteration and dense materialization
//
// Kernels live in internal/algos and reach storage through Raw. The package
// does not own axis identity; that is internal/axis.
package tensor
