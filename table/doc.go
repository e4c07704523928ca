// Package table reads line-oriented delimited tables one row at a time.
//
// The first Options.SkipRows lines are handed to the handler untouched as
// header lines. Every later line is split into fields, the first
// Options.SkipCols fields are dropped as labels and the rest are parsed as
// cells of the run's mode. Only one row is held in memory at a time.
package table
