// Package tui is the terminal dashboard: per-tool summary, per-step
// breakdown, and the transition flow view over the loaded table.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/adrien/toolflow/internal/aggregate"
	"github.com/adrien/toolflow/internal/config"
	"github.com/adrien/toolflow/internal/dataset"
	"github.com/adrien/toolflow/internal/flow"
)

type ViewState int

const (
	ViewSummary ViewState = iota
	ViewSteps
	ViewFlow
)

// DataProvider hands the model its current table snapshot.
type DataProvider interface {
	Snapshot() dataset.Snapshot
}

// ReloadMsg tells the model the underlying table changed; send it via
// Program.Send from the store's change callback.
type ReloadMsg struct{}

type tickMsg time.Time

type Model struct {
	view     ViewState
	width    int
	height   int
	keys     KeyMap
	quitting bool

	cfg  config.Config
	data DataProvider

	// onReloadRequest triggers a forced file reload ("r" key); may be nil.
	onReloadRequest func()

	cursor       int
	selectedTool string // non-empty restricts steps/flow views to one tool
	errorsOnly   bool

	// Derived state, fully rebuilt on every data or filter change.
	snap      dataset.Snapshot
	summaries map[string]aggregate.ToolSummary
	toolOrder []string
	steps     map[int]aggregate.StepSummary
	stepOrder []int
	graph     flow.Graph
}

type Option func(*Model)

func WithDataProvider(p DataProvider) Option {
	return func(m *Model) { m.data = p }
}

func WithReloadRequest(fn func()) Option {
	return func(m *Model) { m.onReloadRequest = fn }
}

func NewModel(cfg config.Config, opts ...Option) Model {
	m := Model{
		cfg:  cfg,
		keys: DefaultKeyMap(),
	}
	if cfg.View.DefaultMode == "errors" {
		m.errorsOnly = true
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.recompute()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	interval := time.Duration(m.cfg.Display.RefreshRateMS) * time.Millisecond
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// recompute rebuilds every derived structure from the snapshot. There
// is no incremental path: filter and mode changes replace everything.
func (m *Model) recompute() {
	if m.data != nil {
		m.snap = m.data.Snapshot()
	}

	var toolFilter []string
	if m.selectedTool != "" {
		toolFilter = []string{m.selectedTool}
	}

	mode := flow.ModeAll
	if m.errorsOnly {
		mode = flow.ModeErrors
	}

	m.summaries = aggregate.Summarize(m.snap.Records)
	m.toolOrder = aggregate.SortedTools(m.summaries)
	m.steps = aggregate.SummarizeBySteps(m.snap.Records, toolFilter)
	m.stepOrder = aggregate.SortedSteps(m.steps)
	m.graph = flow.Build(m.snap.Records, flow.Options{
		Tools:   toolFilter,
		Mode:    mode,
		Palette: m.cfg.Palette.Colors,
	})

	if m.cursor >= len(m.toolOrder) {
		m.cursor = len(m.toolOrder) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		return m, m.tick()

	case ReloadMsg:
		m.recompute()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyMatches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case keyMatches(msg, m.keys.NextView):
		m.view = (m.view + 1) % 3
		return m, nil

	case keyMatches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case keyMatches(msg, m.keys.Down):
		if m.cursor < len(m.toolOrder)-1 {
			m.cursor++
		}
		return m, nil

	case keyMatches(msg, m.keys.Select):
		// Toggle the highlighted tool as the active filter.
		if len(m.toolOrder) > 0 {
			tool := m.toolOrder[m.cursor]
			if m.selectedTool == tool {
				m.selectedTool = ""
			} else {
				m.selectedTool = tool
			}
			m.recompute()
		}
		return m, nil

	case keyMatches(msg, m.keys.Errors):
		m.errorsOnly = !m.errorsOnly
		m.recompute()
		return m, nil

	case keyMatches(msg, m.keys.Reload):
		if m.onReloadRequest != nil {
			m.onReloadRequest()
		}
		return m, nil
	}
	return m, nil
}
