// Package distmat accumulates condensed pairwise distance matrices over a
// stream of table rows and renders them as text grids.
//
// # Layout
//
// Only the strict upper triangle of the symmetric k×k matrix is stored, in a
// flat slice of k·(k-1)/2 cells. Pair (a, b) with a < b lives at
//
//	a·(2k-a-1)/2 + (b-a-1)
//
// which is the position reached by iterating a ascending in the outer loop
// and b ascending from a+1 in the inner loop.
//
// # Lifecycle
//
// An Accumulator is created empty. The first Observe call fixes the sample
// count k and allocates the buffer; every later row must have exactly k
// cells and is folded into the existing buffer without allocating.
//
//	acc := distmat.New[float64](distance.Manhattan[float64])
//	for _, row := range rows {
//	    if err := acc.Observe(row); err != nil { ... }
//	}
//	_ = distmat.Render(os.Stdout, acc)
package distmat
