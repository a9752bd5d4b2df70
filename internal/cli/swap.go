package cli

import (
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/untangle/pkg/errors"
	uio "github.com/matzehuels/untangle/pkg/io"
	"github.com/matzehuels/untangle/pkg/ordering"
)

func (c *CLI) swapCommand() *cobra.Command {
	var (
		row         int
		iterations  int
		temperature float64
		seed        uint64
		cooldown    bool
		groupKey    string
		normalize   bool
		output      string
	)
	cmd := &cobra.Command{
		Use:   "swap <graph.json>",
		Short: "Tune a single row at a fixed temperature",
		Long: `Swap runs adjacent-swap passes over one row while every other row stays
fixed. At temperature 0 (the default) only swaps that remove crossings, or
ties taken by the tie-break rule, are accepted, so the count never grows.

With --cooldown the row is annealed along the [anneal] schedule of the
configuration instead, one pass per temperature from initial_temp down to
min_temp, and the best order seen is kept.

The reordered graph is written to -o, or to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cooldown && (cmd.Flags().Changed("temperature") || cmd.Flags().Changed("iterations")) {
				return errs.New(errs.ErrCodeUsage, "--cooldown takes its schedule from the configuration, not --temperature or --iterations")
			}
			g, err := c.loadGraph(args[0], normalize)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = c.cfg.Seed
			}
			tieBreak := c.cfg.TieBreak
			orderer := ordering.Annealing{
				Params:         c.cfg.Anneal,
				Seed:           &seed,
				TieBreak:       &tieBreak,
				PassesPerLayer: c.cfg.PassesPerLayer,
				GroupBy:        ordering.GroupFuncFor(groupKey),
				Logger:         loggerFromContext(cmd.Context()),
			}
			var (
				orders map[int][]string
				res    ordering.TuneResult
			)
			if cooldown {
				orders, res, err = orderer.Cooldown(g, row)
			} else {
				orders, res, err = orderer.Tune(g, row, iterations, temperature)
			}
			if err != nil {
				return err
			}
			if err := ordering.Apply(g, orders); err != nil {
				return err
			}

			if output == "" {
				return uio.WriteJSON(g, stdout)
			}
			if err := uio.ExportJSON(g, output); err != nil {
				return err
			}
			printSuccess("Tuned row %d", res.Row)
			printCrossings(res.Initial, res.Final)
			printFile(output)
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&row, "layer", 0, "row to tune")
	f.IntVar(&iterations, "iterations", 10, "maximum passes over the row")
	f.Float64Var(&temperature, "temperature", 0, "fixed annealing temperature")
	f.Uint64Var(&seed, "seed", 0, "random seed (default from config)")
	f.BoolVar(&cooldown, "cooldown", false, "anneal the row along the configured cooling schedule")
	f.StringVar(&groupKey, "group-key", "", `keep nodes grouped by "group" or a "/"-separated metadata path`)
	f.BoolVar(&normalize, "normalize", false, "layer the graph first")
	f.StringVarP(&output, "output", "o", "", "output graph file (default stdout)")
	return cmd
}
