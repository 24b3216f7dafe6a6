package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adrien/toolflow/internal/flow"
	"github.com/adrien/toolflow/internal/record"
)

func sampleRecords() []record.Record {
	return []record.Record{
		{ToolName: "read", Subdir: "u1", Step: 1, Duration: record.Float(0.5), TotalTokens: record.Int(200)},
		{ToolName: "grep", Subdir: "u1", Step: 2, Duration: record.Float(1.2), HasError: true},
		{ToolName: "read", Subdir: "u2", Step: 1, Duration: record.Float(0.4)},
		{ToolName: "edit", Subdir: "u2", Step: 2, Duration: record.Float(0.8)},
	}
}

func TestBuild_KPIs(t *testing.T) {
	d := Build("test", sampleRecords(), nil, flow.Options{})

	assert.Equal(t, 4, d.RecordCount)
	assert.Equal(t, 3, d.ToolCount)
	assert.Equal(t, 2, d.UseCaseCount)
	assert.InDelta(t, 0.25, d.ErrorRate, 1e-9)
	require.Len(t, d.Tools, 3)
	// Sorted lexicographically.
	assert.Equal(t, "edit", d.Tools[0].ToolName)
	assert.Equal(t, "grep", d.Tools[1].ToolName)
	assert.Equal(t, "read", d.Tools[2].ToolName)
}

func TestBuild_ToolSubset(t *testing.T) {
	d := Build("test", sampleRecords(), nil, flow.Options{Tools: []string{"read"}})

	require.Len(t, d.Tools, 1)
	assert.Equal(t, "read", d.Tools[0].ToolName)
	assert.Equal(t, 1, d.ToolCount)
	// Whole-log KPIs stay unfiltered.
	assert.Equal(t, 4, d.RecordCount)
}

func TestWrite_RendersPage(t *testing.T) {
	d := Build("my dashboard", sampleRecords(), []string{"line 3: bad step"}, flow.Options{})

	var sb strings.Builder
	require.NoError(t, Write(&sb, d))
	html := sb.String()

	assert.Contains(t, html, "my dashboard")
	assert.Contains(t, html, "read")
	assert.Contains(t, html, "grep")
	assert.Contains(t, html, "<svg")
	assert.Contains(t, html, "line 3: bad step")
}

func TestWrite_EmptyTable(t *testing.T) {
	d := Build("empty", nil, nil, flow.Options{})

	var sb strings.Builder
	require.NoError(t, Write(&sb, d))

	assert.Contains(t, sb.String(), "no transitions to display")
	assert.Equal(t, 0, d.RecordCount)
	assert.Zero(t, d.ErrorRate)
}

func TestLayoutSankey_Geometry(t *testing.T) {
	g := flow.Build(sampleRecords(), flow.Options{})
	sk := layoutSankey(g)

	require.False(t, sk.Empty)
	require.Len(t, sk.Nodes, len(g.Nodes))
	require.Len(t, sk.Ribbons, len(g.Edges))

	// Step-1 nodes sit left of step-2 nodes.
	var x1, x2 float64
	for i, n := range g.Nodes {
		switch n.Step {
		case 1:
			x1 = sk.Nodes[i].X
		case 2:
			x2 = sk.Nodes[i].X
		}
	}
	assert.Less(t, x1, x2)

	for _, n := range sk.Nodes {
		assert.NotEmpty(t, n.Color)
		assert.Greater(t, n.H, 0.0)
	}
	for _, r := range sk.Ribbons {
		assert.True(t, strings.HasPrefix(r.Path, "M "))
		assert.Greater(t, r.Width, 0.0)
	}
}
