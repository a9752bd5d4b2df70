package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/untangle/pkg/ordering"
)

func (c *CLI) countCommand() *cobra.Command {
	var (
		normalize bool
		perRow    bool
	)
	cmd := &cobra.Command{
		Use:   "count <graph.json>",
		Short: "Print the weighted crossing count of a graph",
		Long: `Count prints the total weighted edge crossings of a graph in its current
row order. A result document is counted in its optimized order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadGraph(args[0], normalize)
			if err != nil {
				return err
			}
			total, pairs, err := ordering.Count(g)
			if err != nil {
				return err
			}
			if !perRow {
				fmt.Fprintln(stdout, total)
				return nil
			}
			for _, p := range pairs {
				printKeyValue(fmt.Sprintf("rows %d-%d", p.Upper, p.Upper+1), StyleNumber.Render(fmt.Sprint(p.Crossings)))
			}
			printKeyValue("total", StyleNumber.Render(fmt.Sprint(total)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&normalize, "normalize", false, "layer the graph first (break cycles, subdivide long edges)")
	cmd.Flags().BoolVar(&perRow, "per-row", false, "break the count down by adjacent row pair")
	return cmd
}
