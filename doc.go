// Package tabledist computes pairwise distance matrices between the columns
// of large delimited tables, and filters table rows by simple per-row
// statistics.
//
// Each data row contributes one term per column pair; the terms are summed
// into a condensed upper-triangle accumulator that is sized from the first
// row, so memory stays O(k²) in the number of columns no matter how many
// rows are streamed.
//
// # Quick Start
//
//	summary, err := tabledist.Distance(ctx, os.Stdin, os.Stdout, tabledist.DistanceConfig{
//	    Mode:   cell.Float,
//	    Metric: distance.MetricCanberra,
//	    Table:  table.Options{SkipRows: 1, SkipCols: 1},
//	})
//
// Filtering keeps the rows whose median reaches a threshold:
//
//	res, err := tabledist.Filter(ctx, in, out, tabledist.FilterConfig{
//	    Mode:      cell.Unsigned,
//	    Method:    filter.MethodMedian,
//	    Threshold: "2",
//	})
//	fmt.Println(res.Report.Kept(), "rows kept")
//
// # Cell Modes
//
// Cells are read as unsigned, signed or floating point numbers. The mode is
// chosen once per run; all arithmetic (including integer wraparound and
// integer division in the Canberra metric) happens in that mode.
//
// # Resources
//
// WithResourceController bounds the memory the accumulator may reserve.
// A table that needs more fails with ErrMemoryLimit before any row is
// folded.
package tabledist
