// Package report renders the loaded table as a single static HTML
// page: KPI cards, per-tool and per-step tables, and the transition
// graph drawn as an inline SVG. No server, no script dependencies.
package report

import (
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/adrien/toolflow/internal/aggregate"
	"github.com/adrien/toolflow/internal/flow"
	"github.com/adrien/toolflow/internal/record"
)

// Data is everything the page template consumes.
type Data struct {
	Title       string
	GeneratedAt time.Time
	Mode        string

	RecordCount  int
	ToolCount    int
	UseCaseCount int
	ErrorRate    float64 // 0-1

	Tools []aggregate.ToolSummary
	Steps []aggregate.StepSummary

	Graph    flow.Graph
	Sankey   Sankey
	Warnings []string
}

// Build shapes records into template data. opts drives the graph
// build; summaries honor the same tool subset.
func Build(title string, records []record.Record, warnings []string, opts flow.Options) Data {
	summaries := aggregate.Summarize(records)
	steps := aggregate.SummarizeBySteps(records, opts.Tools)
	graph := flow.Build(records, opts)

	names := aggregate.SortedTools(summaries)
	if len(opts.Tools) > 0 {
		allowed := make(map[string]bool, len(opts.Tools))
		for _, t := range opts.Tools {
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

	d := Data{
		Title:       title,
		GeneratedAt: time.Now(),
		Mode:        modeName(opts.Mode),
		ToolCount:   len(names),
		Graph:       graph,
		Sankey:      layoutSankey(graph),
		Warnings:    warnings,
	}

	useCases := make(map[string]struct{})
	errors := 0
	for _, r := range records {
		d.RecordCount++
		if r.HasError {
			errors++
		}
		if r.Subdir != "" {
			useCases[r.Subdir] = struct{}{}
		}
	}
	d.UseCaseCount = len(useCases)
	if d.RecordCount > 0 {
		d.ErrorRate = float64(errors) / float64(d.RecordCount)
	}

	for _, name := range names {
		d.Tools = append(d.Tools, summaries[name])
	}
	for _, step := range aggregate.SortedSteps(steps) {
		d.Steps = append(d.Steps, steps[step])
	}
	return d
}

// Write renders the page to w.
func Write(w io.Writer, d Data) error {
	if err := page.Execute(w, d); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

func modeName(m flow.Mode) string {
	if m == flow.ModeErrors {
		return "errors"
	}
	return "all"
}

var funcMap = template.FuncMap{
	"fmtDuration": func(s float64) string {
		if s == 0 {
			return "—"
		}
		if s < 1 {
			return fmt.Sprintf("%.0fms", s*1000)
		}
		return fmt.Sprintf("%.1fs", s)
	},
	"fmtPct": func(rate float64) string {
		return fmt.Sprintf("%.1f%%", rate*100)
	},
	"fmtShare": func(pct float64) string {
		return fmt.Sprintf("%.1f%%", pct)
	},
	"fmtTokens": func(n float64) string {
		if n >= 1_000_000 {
			return fmt.Sprintf("%.1fM", n/1_000_000)
		}
		if n >= 1000 {
			return fmt.Sprintf("%.1fk", n/1000)
		}
		return strconv.FormatFloat(n, 'f', -1, 64)
	},
	"fmtTime": func(t time.Time) string {
		return t.Local().Format("Jan 2 15:04:05")
	},
}
