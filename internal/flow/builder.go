// Package flow builds the tool-to-tool transition graph: which tool
// follows which across the steps of each use-case, with per-node and
// per-edge error counts and an errors-only view mode.
//
// Building is a pure function of the record sequence and options. The
// graph is rebuilt from scratch on every filter or mode change; there
// is no incremental update path.
package flow

import (
	"sort"

	"github.com/adrien/toolflow/internal/palette"
	"github.com/adrien/toolflow/internal/record"
)

// cell accumulates the rows observed at one (use-case, step, tool).
type cell struct {
	count  int
	errors int
}

// stepGroup holds the tools seen at one step of a use-case, in
// first-seen row order.
type stepGroup struct {
	toolOrder []string
	cells     map[string]*cell
}

// useCase is the grouped view of one subdir partition.
type useCase struct {
	steps     map[int]*stepGroup
	stepOrder []int // filled in sorted after grouping
}

// Build constructs the transition graph for records under opts.
// An empty input yields an empty graph, never an error.
func Build(records []record.Record, opts Options) Graph {
	g := Graph{
		Nodes:    []Node{},
		Edges:    []Edge{},
		ColorMap: buildColorMap(records, opts.Palette),
	}

	ucOrder, ucs := group(records, opts.Tools)

	type nodeKey struct {
		tool string
		step int
	}
	nodeIndex := make(map[nodeKey]int)

	type edgeKey struct {
		source, target int
	}
	edgeIndex := make(map[edgeKey]int)

	// Outer iteration is deterministic: use-cases in first-encounter
	// order, steps numerically sorted, tools in first-seen row order.
	for _, name := range ucOrder {
		uc := ucs[name]

		// Single-step use-cases still contribute nodes; the divisor
		// substitutes 1 so the sole step lands at position 0.
		div := len(uc.stepOrder) - 1
		if div < 1 {
			div = 1
		}

		for rank, step := range uc.stepOrder {
			sg := uc.steps[step]
			pos := float64(rank) / float64(div)
			for _, tool := range sg.toolOrder {
				key := nodeKey{tool: tool, step: step}
				idx, ok := nodeIndex[key]
				if !ok {
					// First use-case to see the pair fixes the position.
					idx = len(g.Nodes)
					nodeIndex[key] = idx
					g.Nodes = append(g.Nodes, Node{
						ToolName: tool,
						Step:     step,
						Position: pos,
					})
				}
				c := sg.cells[tool]
				g.Nodes[idx].TotalCount += c.count
				g.Nodes[idx].ErrorCount += c.errors
			}
		}

		for i := 0; i+1 < len(uc.stepOrder); i++ {
			from := uc.steps[uc.stepOrder[i]]
			to := uc.steps[uc.stepOrder[i+1]]
			for _, fromTool := range from.toolOrder {
				src := nodeIndex[nodeKey{tool: fromTool, step: uc.stepOrder[i]}]
				fc := from.cells[fromTool]
				for _, toTool := range to.toolOrder {
					dst := nodeIndex[nodeKey{tool: toTool, step: uc.stepOrder[i+1]}]
					ek := edgeKey{source: src, target: dst}
					ei, ok := edgeIndex[ek]
					if !ok {
						ei = len(g.Edges)
						edgeIndex[ek] = ei
						g.Edges = append(g.Edges, Edge{Source: src, Target: dst})
					}
					// Every source row transitions; the error weight is
					// the erroring subset of those source rows.
					g.Edges[ei].Weight += fc.count
					g.Edges[ei].ErrorWeight += fc.errors
				}
			}
		}
	}

	if opts.Mode == ModeErrors {
		filterErrors(&g)
	}

	g.StepCount = countSteps(g.Nodes)
	return g
}

// group partitions the usable records by subdir, preserving encounter
// order. Rows missing subdir, tool name, or step are excluded here;
// they still count elsewhere (tool summaries).
func group(records []record.Record, tools []string) ([]string, map[string]*useCase) {
	var allowed map[string]bool
	if len(tools) > 0 {
		allowed = make(map[string]bool, len(tools))
		for _, t := range tools {
			allowed[t] = true
		}
	}

	var order []string
	ucs := make(map[string]*useCase)

	for _, r := range records {
		if r.Subdir == "" || r.ToolName == "" || !r.HasStep() {
			continue
		}
		if allowed != nil && !allowed[r.ToolName] {
			continue
		}

		uc, ok := ucs[r.Subdir]
		if !ok {
			uc = &useCase{steps: make(map[int]*stepGroup)}
			ucs[r.Subdir] = uc
			order = append(order, r.Subdir)
		}

		sg, ok := uc.steps[r.Step]
		if !ok {
			sg = &stepGroup{cells: make(map[string]*cell)}
			uc.steps[r.Step] = sg
		}

		c, ok := sg.cells[r.ToolName]
		if !ok {
			c = &cell{}
			sg.cells[r.ToolName] = c
			sg.toolOrder = append(sg.toolOrder, r.ToolName)
		}
		c.count++
		if r.HasError {
			c.errors++
		}
	}

	for _, uc := range ucs {
		uc.stepOrder = make([]int, 0, len(uc.steps))
		for step := range uc.steps {
			uc.stepOrder = append(uc.stepOrder, step)
		}
		sort.Ints(uc.stepOrder)
	}
	return order, ucs
}

// buildColorMap derives the tool color map from the unfiltered input
// so identity assignment does not depend on the selection subset.
func buildColorMap(records []record.Record, colors []string) map[string]string {
	tools := make([]string, 0, len(records))
	for _, r := range records {
		tools = append(tools, r.ToolName)
	}
	if len(colors) == 0 {
		colors = palette.Default
	}
	return palette.ColorsFrom(colors, tools)
}

// filterErrors rebuilds the graph in place keeping only nodes with at
// least one error and edges with at least one erroring source row
// whose endpoints both survive. Indices are re-assigned contiguously.
func filterErrors(g *Graph) {
	remap := make(map[int]int, len(g.Nodes))
	kept := []Node{}
	for i, n := range g.Nodes {
		if n.ErrorCount == 0 {
			continue
		}
		remap[i] = len(kept)
		kept = append(kept, n)
	}

	keptEdges := []Edge{}
	for _, e := range g.Edges {
		if e.ErrorWeight == 0 {
			continue
		}
		src, okS := remap[e.Source]
		dst, okT := remap[e.Target]
		if !okS || !okT {
			continue
		}
		e.Source = src
		e.Target = dst
		keptEdges = append(keptEdges, e)
	}

	g.Nodes = kept
	g.Edges = keptEdges
}

func countSteps(nodes []Node) int {
	steps := make(map[int]struct{}, len(nodes))
	for _, n := range nodes {
		steps[n.Step] = struct{}{}
	}
	return len(steps)
}
