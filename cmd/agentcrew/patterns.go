package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hupe1980/agentcrew/agent"
	"github.com/hupe1980/agentcrew/logging"
	"github.com/hupe1980/agentcrew/tool"
)

var (
	reflectSteps  int
	reflectSystem string
	reactRounds   int
	toolsOutDir   string
)

func builtinRegistry() *tool.Registry {
	return tool.NewRegistry(tool.Builtins(toolsOutDir)...)
}

var reflectCmd = &cobra.Command{
	Use:   "reflect <prompt>...",
	Short: "Draft an answer and refine it through self-critique",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newModel(cfg)
		if err != nil {
			return err
		}

		steps := cfg.Reflection.Steps
		if cmd.Flags().Changed("steps") {
			steps = reflectSteps
		}

		out := cmd.OutOrStdout()
		a := agent.NewReflectionAgent(m, func(o *agent.ReflectionAgentOptions) {
			o.Steps = steps
			o.GenerationSystemPrompt = reflectSystem
			o.Logger = logger
			o.Console = logging.NewConsole(out)
		})

		final, err := a.Run(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		logging.NewConsole(out).Print(color.FgYellow, "Final Output:", final)

		return nil
	},
}

var reactCmd = &cobra.Command{
	Use:   "react <question>...",
	Short: "Answer a question with the ReAct loop over the builtin tools",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newModel(cfg)
		if err != nil {
			return err
		}

		rounds := cfg.React.MaxRounds
		if cmd.Flags().Changed("max-rounds") {
			rounds = reactRounds
		}

		out := cmd.OutOrStdout()
		a := agent.NewReactAgent(m, func(o *agent.ReactAgentOptions) {
			o.MaxRounds = rounds
			o.Tools = tool.Builtins(toolsOutDir)
			o.Logger = logger
			o.Console = logging.NewConsole(out)
		})

		answer, err := a.Run(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		fmt.Fprintln(out, answer)

		return nil
	},
}

var toolCmd = &cobra.Command{
	Use:   "tool <message>...",
	Short: "Let the model call the builtin tools once, then answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newModel(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		a := agent.NewToolAgent(m, tool.Builtins(toolsOutDir), func(o *agent.ToolAgentOptions) {
			o.Logger = logger
			o.Console = logging.NewConsole(out)
		})

		answer, err := a.Run(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		fmt.Fprintln(out, answer)

		return nil
	},
}

func init() {
	reflectCmd.Flags().IntVar(&reflectSteps, "steps", 10, "maximum generate/critique cycles (default from reflection.steps)")
	reflectCmd.Flags().StringVar(&reflectSystem, "system", "", "extra instructions for the generator")

	reactCmd.Flags().IntVar(&reactRounds, "max-rounds", 10, "maximum reasoning rounds (default from react.max_rounds)")

	for _, c := range []*cobra.Command{reactCmd, toolCmd} {
		c.Flags().StringVar(&toolsOutDir, "out", ".", "directory for files written by tools")
	}
}
