package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/adrien/toolflow/internal/dataset"
	"github.com/adrien/toolflow/internal/loader"
	"github.com/adrien/toolflow/internal/tui"
)

// NewViewCommand creates the 'toolflow view' command: the interactive
// terminal dashboard, reloading automatically when the log changes.
func NewViewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view <log.csv>",
		Short: "Interactive terminal dashboard",
		Args:  cobra.ExactArgs(1),
		RunE:  runView,
	}
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store := dataset.NewStore()

	// The watcher is the single generation source for loads, so file
	// events and manual reloads share the last-load-wins guard. It
	// works without Start for manual-only reloading.
	debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
	watcher := loader.NewWatcher(args[0], debounce, func(gen uint64, res *loader.Result, err error) {
		store.Replace(gen, res, err)
	})

	if cfg.Watch.Enabled {
		if err := watcher.Start(); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	// Initial load, synchronous so the first frame has data or a
	// visible load error.
	watcher.Reload()
	if snap := store.Snapshot(); snap.Err != nil {
		return fmt.Errorf("loading %s: %w", args[0], snap.Err)
	}

	model := tui.NewModel(cfg,
		tui.WithDataProvider(store),
		tui.WithReloadRequest(func() { go watcher.Reload() }),
	)

	p := tea.NewProgram(model, tea.WithAltScreen())
	store.OnChange(func() {
		p.Send(tui.ReloadMsg{})
	})

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
