// Command tabledist calculates a distance matrix between the columns of a
// table.
package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/tabledist"
	"github.com/hupe1980/tabledist/cell"
	"github.com/hupe1980/tabledist/distance"
	"github.com/hupe1980/tabledist/internal/cli"
)

const (
	flagCanberra        = "canberra"
	flagManhattan       = "manhattan"
	flagBinaryManhattan = "binary-manhattan"
)

func main() {
	os.Exit(cli.Execute(newCommand(), os.Args[1:]))
}

func newCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tabledist [-r ROWS -c COLS -i INFILE -o OUTFILE -s SEP] -C | -m | -M CUTOFF",
		Short: "Calculate a distance matrix between columns in a table.",
		Long: `Calculate a distance matrix between columns in a table.

Every data row adds one term per column pair. The matrix is written as a
tab-separated upper triangle; when rows are skipped, the first skipped
line names the columns.

Every flag can also be set from the environment as TABLEDIST_<FLAG>,
e.g. TABLEDIST_MINIO_SECRET_KEY.`,
		Args: cobra.NoArgs,
		RunE: run,
	}

	f := cmd.Flags()
	f.BoolP(flagCanberra, "C", false, "Use the Canberra distance.")
	f.BoolP(flagManhattan, "m", false, "Use the Manhattan distance.")
	f.StringP(flagBinaryManhattan, "M", "", "Use the Binary Manhattan distance; cells above `CUTOFF` are present.")
	cmd.MarkFlagsOneRequired(flagCanberra, flagManhattan, flagBinaryManhattan)
	cmd.MarkFlagsMutuallyExclusive(flagCanberra, flagManhattan, flagBinaryManhattan)

	cli.AddCommonFlags(cmd, cell.Float)
	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	v, err := cli.NewViper(cmd, "TABLEDIST")
	if err != nil {
		return err
	}
	common, err := cli.LoadCommon(v)
	if err != nil {
		return err
	}

	cfg := tabledist.DistanceConfig{
		Mode:  common.Mode,
		Table: common.Table,
	}
	switch {
	case cli.Changed(cmd.Flags(), flagCanberra):
		cfg.Metric = distance.MetricCanberra
	case cli.Changed(cmd.Flags(), flagManhattan):
		cfg.Metric = distance.MetricManhattan
	default:
		cfg.Metric = distance.MetricBinaryManhattan
		cfg.Cutoff = v.GetString(flagBinaryManhattan)
	}

	env := cli.NewEnv(cmd, common)
	ctx := cmd.Context()
	return env.Stream(ctx, common.Input, common.Output, func(r io.Reader, w io.Writer) error {
		_, err := tabledist.Distance(ctx, r, w, cfg, env.Options()...)
		return err
	})
}
