// Package tnsio reads and writes the .tns text tensor format.
//
// The format is line oriented: a header naming the axis count and per-axis
// bounds, then one element per line (coordinates followed by the value,
// whitespace separated). The canonical header has three lines (axis count,
// inclusive lower bounds, exclusive upper bounds); a legacy two-line header
// (axis count, then zero-based axis lengths) is accepted on read.
//
// All read errors carry 1-based line numbers.
package tnsio
