package distmat

import (
	"bufio"
	"io"
	"strconv"

	"github.com/hupe1980/tabledist/cell"
)

const (
	fieldSep    = '\t'
	placeholder = "."
)

// Render writes acc as a tab-separated square grid.
//
// When sample names are attached, a label row (".", then every name) and a
// label column precede the values. Cell (r, c) holds 0 on the diagonal, "."
// below it, and the accumulated distance above it; only the upper triangle
// is computed, so it is never mirrored. Every field, including the last of a
// line, is followed by a tab. Values are printed with six decimals whatever
// the mode.
func Render[T cell.Value](w io.Writer, acc *Accumulator[T]) error {
	bw := bufio.NewWriter(w)
	k := acc.Samples()
	names := acc.SampleNames()
	labeled := len(names) > 0

	var num []byte
	idx := 0
	for r := 0; r < k; r++ {
		if r == 0 && labeled {
			bw.WriteString(placeholder)
			bw.WriteByte(fieldSep)
			for _, name := range names {
				bw.WriteString(name)
				bw.WriteByte(fieldSep)
			}
			bw.WriteByte('\n')
		}
		if labeled {
			bw.WriteString(names[r])
			bw.WriteByte(fieldSep)
		}
		for c := 0; c < k; c++ {
			switch {
			case c == r:
				num = strconv.AppendFloat(num[:0], 0, 'f', 6, 64)
				bw.Write(num)
			case c < r:
				bw.WriteString(placeholder)
			default:
				num = strconv.AppendFloat(num[:0], cell.Float64(acc.buf[idx]), 'f', 6, 64)
				bw.Write(num)
				idx++
			}
			bw.WriteByte(fieldSep)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
