package cli

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/adrien/toolflow/internal/aggregate"
)

// NewSummaryCommand creates the 'toolflow summary' command.
func NewSummaryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary <log.csv>",
		Short: "Per-tool summary statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  runSummary,
	}
	cmd.Flags().String("tools", "", "comma-separated tool subset")
	cmd.Flags().Bool("json", false, "emit JSON instead of a table")
	return cmd
}

func runSummary(cmd *cobra.Command, args []string) error {
	res, err := loadRecords(cmd, args[0])
	if err != nil {
		return err
	}

	toolsFlag, _ := cmd.Flags().GetString("tools")
	subset := splitTools(toolsFlag)

	summaries := aggregate.Summarize(res.Records)
	names := aggregate.SortedTools(summaries)
	if len(subset) > 0 {
		allowed := make(map[string]bool, len(subset))
		for _, t := range subset {
			allowed[t] = true
		}
		kept := names[:0]
		for _, n := range names {
			if allowed[n] {
				kept = append(kept, n)
			}
		}
		names = kept
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		ordered := make([]aggregate.ToolSummary, 0, len(names))
		for _, n := range names {
			ordered = append(ordered, summaries[n])
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(ordered)
	}

	out := cmd.OutOrStdout()
	setupColor(out)

	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)
	red := color.New(color.FgRed)

	bold.Fprintf(out, "%-24s %8s %8s %8s %12s %12s %6s\n",
		"TOOL", "CALLS", "ERRORS", "ERR%", "MEAN DUR", "MEAN TOKENS", "UCS")
	for _, name := range names {
		s := summaries[name]
		fmt.Fprintf(out, "%-24s %8d ", name, s.Count)
		if s.ErrorCount > 0 {
			red.Fprintf(out, "%8d", s.ErrorCount)
		} else {
			fmt.Fprintf(out, "%8d", s.ErrorCount)
		}
		fmt.Fprintf(out, " %7.1f%% %11.3fs %12.1f %6d\n",
			s.ErrorRate*100, s.MeanDuration, s.MeanTotalTokens, s.UseCaseCount)
	}
	dim.Fprintf(out, "%d tools, %d records\n", len(names), len(res.Records))
	return nil
}
