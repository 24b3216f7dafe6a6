package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adrien/toolflow/internal/flow"
)

// NewGraphCommand creates the 'toolflow graph' command. It prints the
// transition graph JSON consumed by chart renderers: 0-based
// contiguous node indices referenced by edges, a tool color map, and
// the step count.
func NewGraphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph <log.csv>",
		Short: "Tool transition graph as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runGraph,
	}
	cmd.Flags().String("mode", "all", `view mode: "all" or "errors"`)
	cmd.Flags().String("tools", "", "comma-separated tool subset")
	return cmd
}

func runGraph(cmd *cobra.Command, args []string) error {
	modeFlag, _ := cmd.Flags().GetString("mode")
	mode, ok := flow.ParseMode(modeFlag)
	if !ok {
		return fmt.Errorf("unknown mode %q: want %q or %q", modeFlag, "all", "errors")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	res, err := loadRecords(cmd, args[0])
	if err != nil {
		return err
	}

	toolsFlag, _ := cmd.Flags().GetString("tools")
	g := flow.Build(res.Records, flow.Options{
		Tools:   splitTools(toolsFlag),
		Mode:    mode,
		Palette: cfg.Palette.Colors,
	})

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(g)
}
