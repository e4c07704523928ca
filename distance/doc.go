// Package distance provides the per-cell distance contributions used to
// build column distance matrices.
//
// # Supported Metrics
//
//   - MetricCanberra: |a-b| / (|a|+|b|), zero when both cells are zero
//   - MetricManhattan: |a-b|
//   - MetricBinaryManhattan: 1 when exactly one of a, b exceeds the cutoff
//
// All functions are generic over cell.Value; the mode of a run picks the
// instantiation once.
//
// # Usage
//
//	fn, err := distance.Provider[float64](distance.MetricBinaryManhattan, 0.5)
//	d := fn(0.2, 3.0) // 1
package distance
