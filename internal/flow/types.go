package flow

// Node is one (tool, step) position in the transition graph. The same
// tool at the same step collapses to a single node even when it occurs
// in many use-cases.
type Node struct {
	ToolName string `json:"tool_name"`
	Step     int    `json:"step"`
	// Position is the node's normalized horizontal position in [0,1],
	// fixed by the first use-case that introduces the node. Visual only.
	Position    float64 `json:"position"`
	ErrorCount  int     `json:"error_count"`
	TotalCount  int     `json:"total_count"`
	IsErrorNode bool    `json:"is_error_node"` // reserved for synthetic error nodes; always false in this build
}

// Edge is a weighted directed transition between two nodes, referenced
// by 0-based contiguous indices into Graph.Nodes.
type Edge struct {
	Source      int `json:"source"`
	Target      int `json:"target"`
	Weight      int `json:"weight"`
	ErrorWeight int `json:"error_weight"`
}

// Graph is the full flow graph handed to renderers.
type Graph struct {
	Nodes     []Node            `json:"nodes"`
	Edges     []Edge            `json:"edges"`
	ColorMap  map[string]string `json:"color_map"`
	StepCount int               `json:"step_count"`
}

// Mode selects between the full graph and the error-only view.
type Mode int

const (
	// ModeAll builds the complete transition graph.
	ModeAll Mode = iota
	// ModeErrors rebuilds the graph keeping only error-bearing nodes
	// and edges. Indices are re-assigned; they are not stable across a
	// mode switch.
	ModeErrors
)

// ParseMode maps the user-facing mode names to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "", "all":
		return ModeAll, true
	case "errors":
		return ModeErrors, true
	}
	return ModeAll, false
}

// Options controls a graph build.
type Options struct {
	// Tools restricts the graph to the given tool subset when non-empty.
	Tools []string
	Mode  Mode
	// Palette overrides the default color palette when non-empty. The
	// color map is always derived from the unfiltered tool set so a
	// tool keeps its color across subsets and modes.
	Palette []string
}
