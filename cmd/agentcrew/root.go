package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hupe1980/agentcrew/config"
	"github.com/hupe1980/agentcrew/logging"
)

var (
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger logging.Logger = logging.NoOpLogger{}
)

var rootCmd = &cobra.Command{
	Use:   "agentcrew",
	Short: "Agentic patterns for LLMs: reflection, tool use, ReAct planning and multi-agent crews",
	Long: `agentcrew drives a chat model through four agentic patterns:

- reflect: draft an answer and refine it with self-critique
- tool:    let the model call builtin tools once, then answer
- react:   reason and act in a loop until the model responds
- run:     execute a crew of dependent agents defined in YAML

Settings are read from $XDG_CONFIG_HOME/agentcrew/config.yaml, a
.agentcrew.yaml in the working directory or a parent, and the environment
(OPENAI_API_KEY, OPENAI_API_BASE, ANTHROPIC_API_KEY, AGENTCREW_*).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.ErrOrStderr())
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: user and project config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(reflectCmd)
	rootCmd.AddCommand(reactCmd)
	rootCmd.AddCommand(toolCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the configuration and builds the logger shared by all commands.
func setup(logOut io.Writer) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFromPath(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if verbose {
		level = logging.LogLevelDebug
	}

	logger = logging.NewSlogLogger(level, cfg.Log.Format, logOut)

	return nil
}

// printStatus prints a colored status symbol followed by message.
func printStatus(w io.Writer, symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Fprintf(w, "%s %s\n", c.Sprint(symbol), message)
}
