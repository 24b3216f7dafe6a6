package report

import (
	"fmt"
	"sort"

	"github.com/adrien/toolflow/internal/flow"
	"github.com/adrien/toolflow/internal/palette"
)

// Sankey is the computed SVG layout for the transition graph. All
// geometry is resolved in Go; the template just emits shapes.
type Sankey struct {
	Width   int
	Height  int
	Nodes   []SankeyNode
	Ribbons []Ribbon
	Empty   bool
}

type SankeyNode struct {
	X, Y, W, H float64
	Color      string
	Label      string
	Tooltip    string
}

type Ribbon struct {
	Path    string // SVG path data
	Width   float64
	Color   string
	Tooltip string
}

const (
	svgWidth   = 960
	nodeWidth  = 12.0
	rowGap     = 10.0
	minNodeH   = 14.0
	maxNodeH   = 80.0
	marginX    = 60.0
	marginY    = 20.0
	labelSpace = 6.0
)

// layoutSankey positions nodes in columns by step rank and connects
// them with cubic ribbons. Node height scales with the node's total
// count relative to the busiest node.
func layoutSankey(g flow.Graph) Sankey {
	if len(g.Nodes) == 0 {
		return Sankey{Width: svgWidth, Height: 120, Empty: true}
	}

	// Column per distinct step, ranked ascending.
	steps := make([]int, 0, g.StepCount)
	seen := make(map[int]bool)
	for _, n := range g.Nodes {
		if !seen[n.Step] {
			seen[n.Step] = true
			steps = append(steps, n.Step)
		}
	}
	sort.Ints(steps)
	colOf := make(map[int]int, len(steps))
	for i, s := range steps {
		colOf[s] = i
	}

	maxCount := 1
	colNodes := make([][]int, len(steps))
	for i, n := range g.Nodes {
		c := colOf[n.Step]
		colNodes[c] = append(colNodes[c], i)
		if n.TotalCount > maxCount {
			maxCount = n.TotalCount
		}
	}

	colGap := float64(svgWidth) - 2*marginX - nodeWidth
	if len(steps) > 1 {
		colGap /= float64(len(steps) - 1)
	}

	sk := Sankey{Width: svgWidth}
	sk.Nodes = make([]SankeyNode, len(g.Nodes))
	height := 0.0

	for c, idxs := range colNodes {
		y := marginY
		for _, i := range idxs {
			n := g.Nodes[i]
			h := minNodeH + (maxNodeH-minNodeH)*float64(n.TotalCount)/float64(maxCount)
			color := g.ColorMap[n.ToolName]
			if color == "" {
				color = palette.Neutral
			}
			if n.ErrorCount > 0 {
				color = palette.ErrorShade(color)
			}
			sk.Nodes[i] = SankeyNode{
				X:     marginX + float64(c)*colGap,
				Y:     y,
				W:     nodeWidth,
				H:     h,
				Color: color,
				Label: n.ToolName,
				Tooltip: fmt.Sprintf("%s @ step %d: %d calls, %d errors",
					n.ToolName, n.Step, n.TotalCount, n.ErrorCount),
			}
			y += h + rowGap
		}
		if y > height {
			height = y
		}
	}
	sk.Height = int(height + marginY)

	maxWeight := 1
	for _, e := range g.Edges {
		if e.Weight > maxWeight {
			maxWeight = e.Weight
		}
	}
	for _, e := range g.Edges {
		src := sk.Nodes[e.Source]
		dst := sk.Nodes[e.Target]
		x0 := src.X + src.W
		y0 := src.Y + src.H/2
		x1 := dst.X
		y1 := dst.Y + dst.H/2
		mid := (x0 + x1) / 2

		w := 2 + 10*float64(e.Weight)/float64(maxWeight)
		color := src.Color
		if e.ErrorWeight > 0 {
			color = palette.ErrorShade(color)
		}
		sk.Ribbons = append(sk.Ribbons, Ribbon{
			Path:  fmt.Sprintf("M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f", x0, y0, mid, y0, mid, y1, x1, y1),
			Width: w,
			Color: color,
			Tooltip: fmt.Sprintf("%s → %s: %d (%d errors)",
				g.Nodes[e.Source].ToolName, g.Nodes[e.Target].ToolName, e.Weight, e.ErrorWeight),
		})
	}
	return sk
}
