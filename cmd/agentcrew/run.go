package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hupe1980/agentcrew/crew"
	"github.com/hupe1980/agentcrew/logging"
	"github.com/hupe1980/agentcrew/tool"
)

var runOutDir string

var runCmd = &cobra.Command{
	Use:   "run <crew.yaml>",
	Short: "Run a crew of agents defined in YAML",
	Long: `Run loads a crew definition, orders the agents by their dependencies and
runs them one at a time. Each agent's output is passed as context to the
agents that depend on it.

Agents may use the builtin tools by name: sum_two_elements,
multiply_two_elements, compute_log, write_str_to_txt and
fetch_top_hacker_news_stories. Files written by write_str_to_txt are placed
in --out.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newModel(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		c, err := crew.LoadFile(args[0], func(o *crew.Options) {
			o.Logger = logger
			o.Console = logging.NewConsole(out)
			o.MaxRounds = cfg.React.MaxRounds
			o.ToolRegistry = tool.NewRegistry(tool.Builtins(runOutDir)...)
			o.AgentOptions = []crew.AgentOption{crew.WithModel(m)}
		})
		if err != nil {
			return err
		}

		results, err := c.Run(cmd.Context())
		if err != nil {
			printStatus(out, "✗", fmt.Sprintf("crew %s stopped after %d agent(s)", c.Name(), len(results)), color.FgRed)
			return err
		}

		printStatus(out, "✓", fmt.Sprintf("crew %s finished: %d agent(s)", c.Name(), len(results)), color.FgGreen)

		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runOutDir, "out", ".", "directory for files written by tools")
}
