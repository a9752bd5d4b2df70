package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/untangle/pkg/render"
)

func (c *CLI) renderCommand() *cobra.Command {
	var (
		format    string
		output    string
		detailed  bool
		noWeights bool
		normalize bool
	)
	cmd := &cobra.Command{
		Use:   "render <graph.json|result.json>",
		Short: "Draw a graph as DOT or SVG in its current row order",
		Long: `Render draws one rank per row with the nodes in their stored order. Pass a
result document from optimize to draw the optimized order. Edge thickness
grows with weight.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			g, err := c.loadGraph(args[0], normalize)
			if err != nil {
				return err
			}
			data, err := render.Render(cmd.Context(), g, f, render.Options{
				Detailed:    detailed,
				ShowWeights: !noWeights,
			})
			if err != nil {
				return err
			}
			if output == "" {
				_, err = stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Rendered %s", format)
			printFile(output)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&format, "format", "f", string(render.FormatDOT), "output format: dot, svg")
	f.StringVarP(&output, "output", "o", "", "output file (default stdout)")
	f.BoolVar(&detailed, "detailed", false, "add rows and metadata to node labels")
	f.BoolVar(&noWeights, "no-weights", false, "omit edge weight labels")
	f.BoolVar(&normalize, "normalize", false, "layer the graph first")
	return cmd
}
