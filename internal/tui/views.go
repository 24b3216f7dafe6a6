package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/adrien/toolflow/internal/palette"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.renderHeader())
	sb.WriteByte('\n')

	if len(m.snap.Records) == 0 {
		sb.WriteString(m.renderPlaceholder())
	} else {
		switch m.view {
		case ViewSummary:
			sb.WriteString(m.renderSummary())
		case ViewSteps:
			sb.WriteString(m.renderSteps())
		case ViewFlow:
			sb.WriteString(m.renderFlow())
		}
	}

	sb.WriteByte('\n')
	sb.WriteString(m.renderFooter())
	return sb.String()
}

func (m Model) renderHeader() string {
	viewLabel := map[ViewState]string{
		ViewSummary: " [Summary]",
		ViewSteps:   " [Steps]",
		ViewFlow:    " [Flow]",
	}[m.view]

	var filters []string
	if m.selectedTool != "" {
		filters = append(filters, "tool:"+m.selectedTool)
	}
	if m.errorsOnly {
		filters = append(filters, "errors-only")
	}
	indicator := ""
	if len(filters) > 0 {
		indicator = " (" + strings.Join(filters, ", ") + ")"
	}

	help := "Tab:View  e:Errors  t:Filter  r:Reload  q:Quit "
	left := " toolflow" + viewLabel + indicator
	padding := m.width - lipgloss.Width(left) - lipgloss.Width(help)
	if padding < 0 {
		padding = 0
	}
	return headerStyle.Width(m.width).Render(left + strings.Repeat(" ", padding) + help)
}

func (m Model) renderPlaceholder() string {
	msg := "no records loaded"
	if m.snap.Err != nil {
		msg = "load failed: " + m.snap.Err.Error()
	}
	return "\n  " + dimStyle.Render(msg) + "\n"
}

func (m Model) renderSummary() string {
	lines := []string{
		panelTitleStyle.Render("  Tool Summary"),
		dimStyle.Render(fmt.Sprintf("  %-24s %8s %8s %8s %10s %10s %6s",
			"TOOL", "CALLS", "ERRORS", "ERR%", "MEAN DUR", "TOKENS", "UCS")),
	}

	rows := m.toolOrder
	if max := m.cfg.Display.MaxTableRows; len(rows) > max {
		rows = rows[:max]
	}
	for i, name := range rows {
		s := m.summaries[name]
		errCol := fmt.Sprintf("%8d", s.ErrorCount)
		if s.ErrorCount > 0 {
			errCol = errStyle.Render(errCol)
		}
		line := cursorIndicator(i == m.cursor) +
			toolStyle(m.colorFor(name)).Render(fmt.Sprintf("%-24s", truncate(name, 24))) +
			fmt.Sprintf(" %8s ", formatNumber(int64(s.Count))) +
			errCol +
			fmt.Sprintf(" %8s %10s %10s %6d",
				formatPct(s.ErrorRate),
				formatDuration(s.MeanDuration),
				formatNumber(int64(s.MeanTotalTokens)),
				s.UseCaseCount)
		lines = append(lines, line)
	}
	if len(m.toolOrder) > len(rows) {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("  … %d more tools", len(m.toolOrder)-len(rows))))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderSteps() string {
	lines := []string{
		panelTitleStyle.Render("  Step Breakdown"),
		dimStyle.Render(fmt.Sprintf("  %-6s %8s %8s %10s %10s %10s  %s",
			"STEP", "CALLS", "ERR%", "MEAN DUR", "TOKENS", "S/TOKEN", "TOOLS")),
	}

	for _, step := range m.stepOrder {
		s := m.steps[step]
		var tools []string
		for _, ts := range s.ToolCounts {
			tools = append(tools, fmt.Sprintf("%s %s",
				toolStyle(m.colorFor(ts.ToolName)).Render(ts.ToolName),
				dimStyle.Render(fmt.Sprintf("(%.0f%%)", ts.Pct))))
		}
		lines = append(lines, fmt.Sprintf("  %-6d %8s %8s %10s %10s %10.4f  %s",
			s.Step,
			formatNumber(int64(s.Count)),
			formatPct(s.ErrorRate),
			formatDuration(s.MeanDuration),
			formatNumber(int64(s.MeanTokens)),
			s.MeanSecondsPerToken,
			strings.Join(tools, "  ")))
	}
	return strings.Join(lines, "\n")
}

// renderFlow prints the transition graph as step→step edge listings,
// the terminal stand-in for the Sankey chart.
func (m Model) renderFlow() string {
	title := "  Tool Flow"
	if m.errorsOnly {
		title += " (errors only)"
	}
	lines := []string{panelTitleStyle.Render(title)}

	if len(m.graph.Edges) == 0 {
		lines = append(lines, dimStyle.Render("  no transitions"))
		return strings.Join(lines, "\n")
	}

	for _, e := range m.graph.Edges {
		src := m.graph.Nodes[e.Source]
		dst := m.graph.Nodes[e.Target]
		srcColor := m.colorFor(src.ToolName)
		dstColor := m.colorFor(dst.ToolName)

		weight := fmt.Sprintf("%4d", e.Weight)
		errPart := ""
		if e.ErrorWeight > 0 {
			errPart = errStyle.Render(fmt.Sprintf("  %d err", e.ErrorWeight))
		}
		lines = append(lines, fmt.Sprintf("  %s  %s %s %s  %s%s",
			dimStyle.Render(fmt.Sprintf("%d→%d", src.Step, dst.Step)),
			toolStyle(srcColor).Render(fmt.Sprintf("%-20s", truncate(src.ToolName, 20))),
			dimStyle.Render("→"),
			toolStyle(dstColor).Render(fmt.Sprintf("%-20s", truncate(dst.ToolName, 20))),
			weight, errPart))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	warnings := m.snap.Warnings
	if max := m.cfg.Display.WarningBufferSize; len(warnings) > max {
		warnings = warnings[len(warnings)-max:]
	}
	if len(warnings) == 0 {
		return dimStyle.Render(fmt.Sprintf(" %d records · %d tools · %d steps",
			len(m.snap.Records), len(m.toolOrder), m.graph.StepCount))
	}

	var sb strings.Builder
	sb.WriteString(warnStyle.Render(fmt.Sprintf(" %d load warnings:", len(m.snap.Warnings))))
	for _, w := range warnings {
		sb.WriteByte('\n')
		sb.WriteString(dimStyle.Render("  " + w))
	}
	return sb.String()
}

// colorFor looks up a tool's palette color, falling back to the
// neutral gray for tools missing from the map.
func (m Model) colorFor(tool string) string {
	if c, ok := m.graph.ColorMap[tool]; ok {
		return c
	}
	return palette.Neutral
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n < 1 {
		return ""
	}
	return string(r[:n-1]) + "…"
}
