package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/waterfall/pkg/chart"
	wio "github.com/matzehuels/waterfall/pkg/io"
	"github.com/matzehuels/waterfall/pkg/pipeline"
)

type prepareOpts struct {
	chart  chartFlags
	sheet  string
	asJSON bool
}

// prepareCommand creates the prepare command, which prints the bars the
// layout engine derives from an input file without drawing anything.
func (c *CLI) prepareCommand() *cobra.Command {
	var opts prepareOpts

	cmd := &cobra.Command{
		Use:   "prepare FILE",
		Short: "Print the prepared bars of a data file",
		Long: `Prepare reads a .json, .toml, .csv or .xlsx file and prints the bars the
chart would draw: their running start and end levels, class and label value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := c.resolveChart(cmd, &opts.chart)
			if err != nil {
				return err
			}
			return c.runPrepare(cmd.Context(), cmd.OutOrStdout(), args[0], resolved, &opts)
		},
	}

	opts.chart.register(cmd, false)
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "worksheet of an .xlsx input (default: first)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print bars as JSON")

	return cmd
}

func (c *CLI) runPrepare(ctx context.Context, w io.Writer, input string, resolved chart.Options, opts *prepareOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner := pipeline.NewRunner(nil, nil, logger)
	data, err := runner.Import(pipeline.Options{Input: input, Sheet: opts.sheet}, resolved.Mode)
	if err != nil {
		return err
	}
	bars, _, err := runner.Prepare(ctx, data, resolved.EngineConfig())
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Prepared %d bars from %s", len(bars), input))

	if opts.asJSON {
		return wio.WriteJSON(w, bars)
	}
	if len(bars) == 0 {
		printInfo("No bars (every value was empty)")
		return nil
	}
	_, err = fmt.Fprintln(w, barsTable(bars, resolved.Formatter()))
	return err
}
