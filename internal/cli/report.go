package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/adrien/toolflow/internal/flow"
	"github.com/adrien/toolflow/internal/report"
)

// NewReportCommand creates the 'toolflow report' command.
func NewReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <log.csv>",
		Short: "Write a static HTML dashboard",
		Args:  cobra.ExactArgs(1),
		RunE:  runReport,
	}
	cmd.Flags().StringP("output", "o", "toolflow-report.html", "output HTML path")
	cmd.Flags().String("mode", "all", `view mode: "all" or "errors"`)
	cmd.Flags().String("tools", "", "comma-separated tool subset")
	cmd.Flags().String("title", "", "report title (default: log file name)")
	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
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

	title, _ := cmd.Flags().GetString("title")
	if title == "" {
		title = "toolflow: " + filepath.Base(args[0])
	}

	toolsFlag, _ := cmd.Flags().GetString("tools")
	data := report.Build(title, res.Records, res.Warnings, flow.Options{
		Tools:   splitTools(toolsFlag),
		Mode:    mode,
		Palette: cfg.Palette.Colors,
	})

	outPath, _ := cmd.Flags().GetString("output")
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close()

	if err := report.Write(f, data); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
	return nil
}
