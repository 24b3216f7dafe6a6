// Package cli wires the toolflow commands. Each command loads the CSV
// log fresh; only the view command keeps state between renders.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/adrien/toolflow/internal/config"
	"github.com/adrien/toolflow/internal/loader"
)

// NewRootCommand creates the 'toolflow' root command.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "toolflow",
		Short:         "Dashboard over a CSV log of AI-agent tool invocations",
		Long: `toolflow loads a CSV log of AI-agent tool invocations and renders
per-tool summaries, per-step breakdowns, and the tool-to-tool
transition flow graph as terminal tables, JSON, a static HTML
report, or an interactive terminal dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", "", "path to config file (default ~/.config/toolflow/config.toml)")

	cmd.AddCommand(NewSummaryCommand())
	cmd.AddCommand(NewStepsCommand())
	cmd.AddCommand(NewGraphCommand())
	cmd.AddCommand(NewReportCommand())
	cmd.AddCommand(NewViewCommand())
	return cmd
}

// loadConfig resolves the effective config, honoring the --config
// persistent flag. Warnings go to the command's error stream.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var result *config.LoadResult
	var err error
	if path != "" {
		result, err = config.LoadFrom(path)
	} else {
		result, err = config.Load()
	}
	if err != nil {
		return config.Config{}, fmt.Errorf("config error: %w", err)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "config warning: %s\n", w)
	}
	return result.Config, nil
}

// loadRecords parses the log and reports per-row warnings to stderr.
func loadRecords(cmd *cobra.Command, path string) (*loader.Result, error) {
	res, err := loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
	return res, nil
}

// splitTools parses a comma-separated --tools value.
func splitTools(s string) []string {
	if s == "" {
		return nil
	}
	var tools []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tools = append(tools, t)
		}
	}
	return tools
}

// setupColor disables ANSI colors when the destination is not a
// terminal, so piped output stays clean.
func setupColor(out io.Writer) {
	f, ok := out.(*os.File)
	if !ok {
		color.NoColor = true
		return
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		color.NoColor = true
	}
}
