package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/untangle/pkg/errors"
	uio "github.com/matzehuels/untangle/pkg/io"
	"github.com/matzehuels/untangle/pkg/pipeline"
)

// optimizeOpts holds the optimize flags. Only flags the user set override
// the loaded configuration.
type optimizeOpts struct {
	output    string
	formats   string
	noCache   bool
	refresh   bool
	normalize bool
	groupKey  string

	initialTemp float64
	coolingRate float64
	minTemp     float64
	iterations  int
	reheats     int
	seed        uint64
	tieBreak    float64
	passes      int
}

func (c *CLI) optimizeCommand() *cobra.Command {
	var opts optimizeOpts
	cmd := &cobra.Command{
		Use:   "optimize <graph.json>",
		Short: "Reduce crossings by simulated annealing",
		Long: `Optimize anneals the row orders of a graph and writes a result document
holding the crossing counts, the new row orders and the reordered graph.
Without -o the document is printed to stdout.

Results are cached by graph and settings; --no-cache disables the cache and
--refresh recomputes and overwrites a cached entry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOptimize(cmd.Context(), args[0], c.pipelineOptions(cmd, &opts), &opts)
		},
	}

	d := c.cfg
	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "result file (default stdout)")
	f.StringVarP(&opts.formats, "format", "f", "", "also render the result: dot, svg (comma-separated, needs -o)")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore cached results and recompute")
	f.BoolVar(&opts.normalize, "normalize", false, "layer the graph first (break cycles, subdivide long edges)")
	f.StringVar(&opts.groupKey, "group-key", "", `keep nodes grouped by "group" or a "/"-separated metadata path`)
	f.Float64Var(&opts.initialTemp, "t0", d.Anneal.InitialTemp, "initial temperature")
	f.Float64Var(&opts.coolingRate, "alpha", d.Anneal.CoolingRate, "cooling rate in (0, 1]")
	f.Float64Var(&opts.minTemp, "tmin", d.Anneal.MinTemp, "minimum temperature before a reheat")
	f.IntVar(&opts.iterations, "iterations", d.Anneal.MaxIterations, "maximum number of sweeps")
	f.IntVar(&opts.reheats, "reheats", d.Anneal.Reheats, "number of reheats")
	f.Uint64Var(&opts.seed, "seed", d.Seed, "random seed")
	f.Float64Var(&opts.tieBreak, "tie-break", d.TieBreak, "probability of taking a swap that changes nothing")
	f.IntVar(&opts.passes, "passes", d.PassesPerLayer, "passes per row and temperature")
	return cmd
}

// pipelineOptions starts from the configuration and applies set flags.
func (c *CLI) pipelineOptions(cmd *cobra.Command, o *optimizeOpts) pipeline.Options {
	opts := pipeline.OptionsFromConfig(c.cfg)
	opts.Normalize = o.normalize
	opts.GroupKey = o.groupKey
	opts.Refresh = o.refresh
	if o.formats != "" {
		opts.Formats = strings.Split(o.formats, ",")
	}

	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	set("t0", func() { opts.Params.InitialTemp = o.initialTemp })
	set("alpha", func() { opts.Params.CoolingRate = o.coolingRate })
	set("tmin", func() { opts.Params.MinTemp = o.minTemp })
	set("iterations", func() { opts.Params.MaxIterations = o.iterations })
	set("reheats", func() { opts.Params.Reheats = o.reheats })
	set("seed", func() { opts.Seed = &o.seed })
	set("tie-break", func() { opts.TieBreak = &o.tieBreak })
	set("passes", func() { opts.PassesPerLayer = o.passes })
	return opts
}

func (c *CLI) runOptimize(ctx context.Context, path string, opts pipeline.Options, o *optimizeOpts) error {
	logger := loggerFromContext(ctx)
	if len(opts.Formats) > 0 && o.output == "" {
		return errs.New(errs.ErrCodeUsage, "--format needs -o to name the output files")
	}

	g, err := uio.ImportAny(path)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, o.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Optimizing %s", filepath.Base(path)))
	opts.Logger = logger
	opts.Hooks = spinner
	if o.output != "" && logger.GetLevel() > log.DebugLevel {
		spinner.Start()
	}
	res, err := runner.Run(ctx, g, opts)
	spinner.Stop()

	if err != nil && !(pipeline.IsCanceled(err) && res != nil) {
		return err
	}
	if err != nil {
		printWarning("Interrupted after %d sweeps, keeping the best order found", res.Sweeps)
	}

	doc := res.Document()
	if o.output == "" {
		if err := uio.WriteResult(doc, stdout); err != nil {
			return err
		}
		logger.Info("optimized", "crossings", fmt.Sprintf("%d -> %d", res.InitialCrossings, res.Crossings),
			"sweeps", res.Sweeps, "reason", res.Reason, "cached", res.Cached)
		return err
	}

	if werr := uio.ExportResult(doc, o.output); werr != nil {
		return werr
	}
	printSuccess("Optimized %s", filepath.Base(path))
	printStats(res.Stats.Nodes, res.Stats.Edges, res.Graph.RowCount(), res.Cached)
	printCrossings(res.InitialCrossings, res.Crossings)
	printKeyValue("sweeps", fmt.Sprintf("%d (%s)", res.Sweeps, res.Reason))
	if res.Stats.Subdividers > 0 || res.Stats.Reversed > 0 {
		printDetail("normalized: %d reversed, %d subdividers", res.Stats.Reversed, res.Stats.Subdividers)
	}
	printFile(o.output)
	for name, data := range res.Artifacts {
		out := strings.TrimSuffix(o.output, filepath.Ext(o.output)) + "." + name
		if werr := os.WriteFile(out, data, 0o644); werr != nil {
			return werr
		}
		printFile(out)
	}
	prog.done("Done")
	return err
}
