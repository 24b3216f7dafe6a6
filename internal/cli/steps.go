package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/adrien/toolflow/internal/aggregate"
)

// NewStepsCommand creates the 'toolflow steps' command.
func NewStepsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "steps <log.csv>",
		Short: "Per-step breakdown across pipeline positions",
		Args:  cobra.ExactArgs(1),
		RunE:  runSteps,
	}
	cmd.Flags().String("tools", "", "comma-separated tool subset")
	cmd.Flags().Bool("json", false, "emit JSON instead of a table")
	return cmd
}

func runSteps(cmd *cobra.Command, args []string) error {
	res, err := loadRecords(cmd, args[0])
	if err != nil {
		return err
	}

	toolsFlag, _ := cmd.Flags().GetString("tools")
	steps := aggregate.SummarizeBySteps(res.Records, splitTools(toolsFlag))
	order := aggregate.SortedSteps(steps)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		ordered := make([]aggregate.StepSummary, 0, len(order))
		for _, s := range order {
			ordered = append(ordered, steps[s])
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(ordered)
	}

	out := cmd.OutOrStdout()
	setupColor(out)

	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)

	bold.Fprintf(out, "%-6s %8s %8s %12s %12s %10s  %s\n",
		"STEP", "CALLS", "ERR%", "MEAN DUR", "MEAN TOKENS", "S/TOKEN", "TOOLS")
	for _, step := range order {
		s := steps[step]
		var tools []string
		for _, ts := range s.ToolCounts {
			tools = append(tools, fmt.Sprintf("%s(%.0f%%)", ts.ToolName, ts.Pct))
		}
		fmt.Fprintf(out, "%-6d %8d %7.1f%% %11.3fs %12.1f %10.4f  %s\n",
			s.Step, s.Count, s.ErrorRate*100, s.MeanDuration,
			s.MeanTokens, s.MeanSecondsPerToken, strings.Join(tools, " "))
	}
	dim.Fprintf(out, "%d steps\n", len(order))
	return nil
}
