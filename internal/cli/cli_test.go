package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adrien/toolflow/internal/flow"
)

const testCSV = `tool_name,subdir,step,duration,has_error,total_tokens
read,u1,1,0.5,false,200
grep,u1,2,1.25,true,90
read,u2,1,0.4,false,150
edit,u2,2,0.8,false,300
`

func writeTestLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "log.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o644))
	return path
}

// runCommand executes the root command with args and captures stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// An absent config path isolates tests from any user config.
	args = append(args, "--config", filepath.Join(t.TempDir(), "absent.toml"))

	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSummaryCommand_Table(t *testing.T) {
	out, err := runCommand(t, "summary", writeTestLog(t))
	require.NoError(t, err)

	assert.Contains(t, out, "TOOL")
	assert.Contains(t, out, "read")
	assert.Contains(t, out, "grep")
	assert.Contains(t, out, "edit")
	assert.Contains(t, out, "3 tools, 4 records")
}

func TestSummaryCommand_JSON(t *testing.T) {
	out, err := runCommand(t, "summary", writeTestLog(t), "--json")
	require.NoError(t, err)

	var summaries []struct {
		ToolName  string  `json:"tool_name"`
		Count     int     `json:"count"`
		ErrorRate float64 `json:"error_rate"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	require.Len(t, summaries, 3)
	assert.Equal(t, "edit", summaries[0].ToolName)
	assert.Equal(t, "read", summaries[2].ToolName)
	assert.Equal(t, 2, summaries[2].Count)
}

func TestSummaryCommand_ToolSubset(t *testing.T) {
	out, err := runCommand(t, "summary", writeTestLog(t), "--tools", "read")
	require.NoError(t, err)
	assert.Contains(t, out, "read")
	assert.NotContains(t, out, "grep")
}

func TestStepsCommand(t *testing.T) {
	out, err := runCommand(t, "steps", writeTestLog(t))
	require.NoError(t, err)
	assert.Contains(t, out, "STEP")
	assert.Contains(t, out, "2 steps")
}

func TestGraphCommand(t *testing.T) {
	out, err := runCommand(t, "graph", writeTestLog(t))
	require.NoError(t, err)

	var g flow.Graph
	require.NoError(t, json.Unmarshal([]byte(out), &g))
	assert.Len(t, g.Nodes, 3)
	assert.Len(t, g.Edges, 2)
	assert.Equal(t, 2, g.StepCount)
	assert.Len(t, g.ColorMap, 3)
}

func TestGraphCommand_ErrorsMode(t *testing.T) {
	out, err := runCommand(t, "graph", writeTestLog(t), "--mode", "errors")
	require.NoError(t, err)

	var g flow.Graph
	require.NoError(t, json.Unmarshal([]byte(out), &g))
	// Only grep@2 carries an error, and its incoming edge has no
	// erroring source rows, so it stands alone.
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, "grep", g.Nodes[0].ToolName)
	assert.Empty(t, g.Edges)
}

func TestGraphCommand_BadMode(t *testing.T) {
	_, err := runCommand(t, "graph", writeTestLog(t), "--mode", "sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sideways")
}

func TestReportCommand(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "report.html")
	out, err := runCommand(t, "report", writeTestLog(t), "-o", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	html, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<svg")
	assert.Contains(t, string(html), "read")
}

func TestCommands_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.csv")
	for _, sub := range []string{"summary", "steps", "graph"} {
		_, err := runCommand(t, sub, missing)
		assert.Error(t, err, "subcommand %s", sub)
	}
}

func TestSplitTools(t *testing.T) {
	assert.Nil(t, splitTools(""))
	assert.Equal(t, []string{"a", "b"}, splitTools("a, b"))
	assert.Equal(t, []string{"a"}, splitTools("a,,"))
}
