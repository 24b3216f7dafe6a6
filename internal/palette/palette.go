// Package palette assigns each tool a stable color. The assignment is
// a pure function of the sorted distinct tool list, so a tool keeps
// its color across view modes, selection subsets, and repeated runs.
package palette

import (
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Default is the built-in chart palette, cycled by index when there
// are more tools than colors.
var Default = []string{
	"#f59e0b", // amber
	"#8b5cf6", // violet
	"#3b82f6", // blue
	"#10b981", // emerald
	"#ef4444", // red
	"#14b8a6", // teal
	"#ec4899", // pink
	"#84cc16", // lime
	"#6366f1", // indigo
	"#f97316", // orange
}

const (
	// Neutral is returned for tools that are not in the list at all.
	Neutral = "#9ca3af"
	// errorRed anchors error shading.
	errorRed = "#dc2626"
)

// ColorFor returns the color for tool given the sorted distinct tool
// list. The list must already be sorted and deduplicated; position in
// it is the only input to the assignment.
func ColorFor(sortedTools []string, tool string) string {
	return colorFrom(Default, sortedTools, tool)
}

func colorFrom(colors, sortedTools []string, tool string) string {
	if len(colors) == 0 {
		return Neutral
	}
	i := sort.SearchStrings(sortedTools, tool)
	if i >= len(sortedTools) || sortedTools[i] != tool {
		return Neutral
	}
	return colors[i%len(colors)]
}

// Colors builds the full tool→color map from any tool list. The input
// may be unsorted and contain duplicates or empty names.
func Colors(tools []string) map[string]string {
	return ColorsFrom(Default, tools)
}

// ColorsFrom is Colors with a caller-supplied palette (e.g. from
// configuration).
func ColorsFrom(colors, tools []string) map[string]string {
	distinct := make(map[string]struct{}, len(tools))
	for _, t := range tools {
		if t != "" {
			distinct[t] = struct{}{}
		}
	}
	sorted := make([]string, 0, len(distinct))
	for t := range distinct {
		sorted = append(sorted, t)
	}
	sort.Strings(sorted)

	m := make(map[string]string, len(sorted))
	for _, t := range sorted {
		m[t] = colorFrom(colors, sorted, t)
	}
	return m
}

// ErrorShade blends a tool color halfway toward the error red, for
// rendering error-bearing nodes and edges. An unparsable input yields
// the error red itself.
func ErrorShade(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return errorRed
	}
	red, _ := colorful.Hex(errorRed)
	return c.BlendLab(red, 0.5).Hex()
}

// Valid reports whether s parses as a #rrggbb color.
func Valid(s string) bool {
	_, err := colorful.Hex(s)
	return err == nil
}
