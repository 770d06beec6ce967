// Package algos owns the kernels that operate on COO tensors.
//
// Ownership boundary:
// - block sorting by sparse axis order
//
// - random tensor and matrix generation
//
// - tensor-times-matrix (serial and parallel)
//
// - permutation utilities shared by the kernels
//
// Kernels mutate or read storage through tensor.Raw and are responsible for
// leaving every tensor in a valid state, including its sort-order bookkeeping.
package algos
