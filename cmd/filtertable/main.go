// Command filtertable filters the rows of a large table by a per-row
// statistic.
package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/tabledist"
	"github.com/hupe1980/tabledist/cell"
	"github.com/hupe1980/tabledist/filter"
	"github.com/hupe1980/tabledist/internal/cli"
	"github.com/hupe1980/tabledist/storage"
)

const (
	flagMedian   = "median"
	flagNonzero  = "nonzero"
	flagKeptRows = "kept-rows"
)

func main() {
	os.Exit(cli.Execute(newCommand(), os.Args[1:]))
}

func newCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filtertable [-r ROWS -c COLS -i INFILE -o OUTFILE -s SEP] -m | -z THRESH",
		Short: "Filter a large table row-wise.",
		Long: `Filter a large table row-wise.

Skipped rows are copied to the output unchanged. Every other row is kept,
byte for byte, when its median (-m) or its number of non-zero cells (-z)
is at least THRESH.

Every flag can also be set from the environment as FILTERTABLE_<FLAG>,
e.g. FILTERTABLE_SKIP_ROWS.`,
		Args: cobra.NoArgs,
		RunE: run,
	}

	f := cmd.Flags()
	f.StringP(flagMedian, "m", "", "Use median method of filtering, with threshold `THRESH`.")
	f.StringP(flagNonzero, "z", "", "Use number of non-zero cells to filter, with threshold `THRESH`.")
	f.String(flagKeptRows, "", "Write the zero-based ordinals of kept data rows to `FILE`.")
	cmd.MarkFlagsOneRequired(flagMedian, flagNonzero)
	cmd.MarkFlagsMutuallyExclusive(flagMedian, flagNonzero)

	cli.AddCommonFlags(cmd, cell.Unsigned)
	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	v, err := cli.NewViper(cmd, "FILTERTABLE")
	if err != nil {
		return err
	}
	common, err := cli.LoadCommon(v)
	if err != nil {
		return err
	}

	cfg := tabledist.FilterConfig{
		Mode:  common.Mode,
		Table: common.Table,
	}
	if cli.Changed(cmd.Flags(), flagMedian) {
		cfg.Method = filter.MethodMedian
		cfg.Threshold = v.GetString(flagMedian)
	} else {
		cfg.Method = filter.MethodNonzero
		cfg.Threshold = v.GetString(flagNonzero)
	}

	env := cli.NewEnv(cmd, common)
	ctx := cmd.Context()

	var summary *tabledist.FilterSummary
	err = env.Stream(ctx, common.Input, common.Output, func(r io.Reader, w io.Writer) error {
		var ferr error
		summary, ferr = tabledist.Filter(ctx, r, w, cfg, env.Options()...)
		return ferr
	})
	if err != nil {
		return err
	}

	if path := v.GetString(flagKeptRows); path != "" {
		return writeKeptRows(ctx, env.Resolver, path, summary.Report)
	}
	return nil
}

func writeKeptRows(ctx context.Context, resolver *storage.Resolver, path string, report *filter.Report) error {
	out, err := resolver.CreateOutput(ctx, path)
	if err != nil {
		return err
	}
	if err := report.WriteKeptRows(out); err != nil {
		out.Abort()
		return err
	}
	return out.Close()
}
