package main

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/agentcrew/crew"
)

var plotCmd = &cobra.Command{
	Use:   "plot <crew.yaml>",
	Short: "Print the crew dependency graph in Graphviz DOT format",
	Long: `Plot prints one node per agent and one edge per dependency, pointing from
the dependency to the dependent. Render it with Graphviz:

  agentcrew plot crew.yaml | dot -Tpng -o crew.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Tools are resolved by name only, so the builtin set is enough here.
		c, err := crew.LoadFile(args[0], func(o *crew.Options) {
			o.Logger = logger
			o.ToolRegistry = builtinRegistry()
		})
		if err != nil {
			return err
		}

		if _, err := c.TopologicalSort(); err != nil {
			logger.Warn("crew.plot.unschedulable", "error", err)
		}

		return c.WriteDOT(cmd.OutOrStdout())
	},
}
