package table

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/hupe1980/tabledist/cell"
)

// DefaultSeparator separates fields when Options.Separator is empty.
const DefaultSeparator = "\t"

// ErrInvalidOptions is returned for negative skip counts.
var ErrInvalidOptions = errors.New("invalid table options")

// Options controls how lines are split.
type Options struct {
	// Separator lists the delimiter characters. Every character is a
	// delimiter on its own and runs of delimiters never produce empty
	// fields. Defaults to DefaultSeparator.
	Separator string

	// SkipRows is the number of leading lines handed to Handler.Header.
	SkipRows int

	// SkipCols is the number of leading fields of each line that are labels.
	SkipCols int
}

func (o Options) separator() string {
	if o.Separator == "" {
		return DefaultSeparator
	}
	return o.Separator
}

func (o Options) validate() error {
	if o.SkipRows < 0 {
		return fmt.Errorf("%w: skip rows %d", ErrInvalidOptions, o.SkipRows)
	}
	if o.SkipCols < 0 {
		return fmt.Errorf("%w: skip columns %d", ErrInvalidOptions, o.SkipCols)
	}
	return nil
}

// Handler consumes the lines of a table.
//
// line is the raw text including its line terminator, if any. cells is
// reused between calls and is only valid for the duration of Row.
type Handler[T cell.Value] interface {
	Header(index int, line string) error
	Row(line string, cells []T) error
}

// HandlerFuncs adapts plain functions to Handler. Nil functions ignore
// their lines.
type HandlerFuncs[T cell.Value] struct {
	HeaderFunc func(index int, line string) error
	RowFunc    func(line string, cells []T) error
}

func (h HandlerFuncs[T]) Header(index int, line string) error {
	if h.HeaderFunc == nil {
		return nil
	}
	return h.HeaderFunc(index, line)
}

func (h HandlerFuncs[T]) Row(line string, cells []T) error {
	if h.RowFunc == nil {
		return nil
	}
	return h.RowFunc(line, cells)
}

// LineError attaches the 1-based input line number to an error raised while
// handling that line.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Stats counts what Scan saw.
type Stats struct {
	Lines      int
	HeaderRows int
	DataRows   int
	BlankRows  int
}

// SplitFields splits line on any character of sep, dropping empty fields.
// The line terminator, if any, is removed first.
func SplitFields(line, sep string) []string {
	line = TrimEOL(line)
	if len(sep) == 1 && sep[0] < utf8.RuneSelf {
		c := sep[0]
		return strings.FieldsFunc(line, func(r rune) bool { return r == rune(c) })
	}
	return strings.FieldsFunc(line, func(r rune) bool { return strings.ContainsRune(sep, r) })
}

// TrimEOL removes a trailing "\n" or "\r\n".
func TrimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// HeaderFields returns the fields of a header line after the label columns.
func HeaderFields(line string, opts Options) []string {
	fields := SplitFields(line, opts.separator())
	if opts.SkipCols >= len(fields) {
		return nil
	}
	return fields[opts.SkipCols:]
}

// Scan reads r to the end, dispatching every line to h.
//
// Lines that contain no fields at all are skipped in the data section.
// A token that does not parse in the active mode aborts the scan with a
// *cell.ParseError wrapped in a *LineError. Scan checks ctx between
// lines.
func Scan[T cell.Value](ctx context.Context, r io.Reader, opts Options, h Handler[T]) (Stats, error) {
	var st Stats
	if err := opts.validate(); err != nil {
		return st, err
	}
	sep := opts.separator()

	br := bufio.NewReaderSize(r, 64*1024)
	var cells []T
	for {
		if err := ctx.Err(); err != nil {
			return st, err
		}

		line, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return st, &LineError{Line: st.Lines + 1, Err: readErr}
		}
		if len(line) == 0 {
			return st, nil
		}
		st.Lines++

		if st.HeaderRows < opts.SkipRows {
			if err := h.Header(st.HeaderRows, line); err != nil {
				return st, &LineError{Line: st.Lines, Err: err}
			}
			st.HeaderRows++
		} else {
			fields := SplitFields(line, sep)
			if len(fields) == 0 {
				st.BlankRows++
			} else {
				cells = cells[:0]
				if opts.SkipCols < len(fields) {
					for _, tok := range fields[opts.SkipCols:] {
						v, err := cell.Parse[T](tok)
						if err != nil {
							return st, &LineError{Line: st.Lines, Err: err}
						}
						cells = append(cells, v)
					}
				}
				if err := h.Row(line, cells); err != nil {
					return st, &LineError{Line: st.Lines, Err: err}
				}
				st.DataRows++
			}
		}

		if readErr != nil {
			return st, nil
		}
	}
}
