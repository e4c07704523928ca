// Package cell defines the numeric cell types shared by the table tools.
//
// A run picks exactly one Mode before any row is read. The Mode selects the
// Go type every cell, metric and accumulator of that run is instantiated
// with:
//
//   - Unsigned: uint64 (wraparound arithmetic)
//   - Signed:   int64 (two's-complement wraparound arithmetic)
//   - Float:    float64 (IEEE-754)
//
// The helpers in this package are generic over Value so that a single
// implementation of each algorithm serves all three modes.
package cell
