package loader

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `tool_name,subdir,step,duration,has_error,token_count,total_tokens
read,u1,1,0.5,false,120,200
grep,u1,2,1.25,true,80,90
edit,u2,1,0.1,false,,
`

func TestParse_Basic(t *testing.T) {
	res, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, res.Records, 3)
	assert.Empty(t, res.Warnings)

	r := res.Records[0]
	assert.Equal(t, "read", r.ToolName)
	assert.Equal(t, "u1", r.Subdir)
	assert.Equal(t, 1, r.Step)
	require.NotNil(t, r.Duration)
	assert.InDelta(t, 0.5, *r.Duration, 1e-9)
	assert.False(t, r.HasError)
	require.NotNil(t, r.TokenCount)
	assert.Equal(t, 120, *r.TokenCount)

	assert.True(t, res.Records[1].HasError)

	// Blank optional cells are absent, not zero.
	assert.Nil(t, res.Records[2].TokenCount)
	assert.Nil(t, res.Records[2].TotalTokens)
}

func TestParse_MissingRequiredColumn(t *testing.T) {
	_, err := Parse(strings.NewReader("tool_name,subdir,step\nread,u1,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
	assert.Contains(t, err.Error(), "duration")
	assert.Contains(t, err.Error(), "has_error")
}

func TestParse_EmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing header row")
}

func TestParse_BadRowsSkippedWithWarnings(t *testing.T) {
	csv := "tool_name,subdir,step,duration,has_error\n" +
		"read,u1,1,0.5,false\n" +
		"grep,u1,nope,1.0,false\n" + // unparsable step: dropped
		"edit,u1,2,-3,false\n" + // negative duration: dropped
		"short,row\n" + // wrong field count: dropped
		"write,u1,3,0.2,true\n"

	res, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Len(t, res.Records, 2)
	assert.Len(t, res.Warnings, 3)
	for _, w := range res.Warnings {
		assert.Contains(t, w, "skipped")
	}
}

func TestParse_BlankRequiredCellsBecomeAbsent(t *testing.T) {
	csv := "tool_name,subdir,step,duration,has_error\n" +
		"read,,,,\n"

	res, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	r := res.Records[0]
	assert.Equal(t, "read", r.ToolName)
	assert.Empty(t, r.Subdir)
	assert.False(t, r.HasStep())
	assert.Nil(t, r.Duration)
	assert.False(t, r.HasError)
}

func TestParse_BoolCoercion(t *testing.T) {
	csv := "tool_name,subdir,step,duration,has_error\n" +
		"a,u1,1,1,TRUE\n" +
		"b,u1,1,1,1\n" +
		"c,u1,1,1,yes\n" +
		"d,u1,1,1,0\n" +
		"e,u1,1,1,whatever\n"

	res, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, res.Records, 5)

	assert.True(t, res.Records[0].HasError)
	assert.True(t, res.Records[1].HasError)
	assert.True(t, res.Records[2].HasError)
	assert.False(t, res.Records[3].HasError)
	// Unrecognized value: assumed false, with a warning.
	assert.False(t, res.Records[4].HasError)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "has_error")
}

func TestParse_UnknownColumnWarned(t *testing.T) {
	csv := "tool_name,subdir,step,duration,has_error,mystery\n" +
		"read,u1,1,0.5,false,x\n"

	res, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "mystery")
	assert.Len(t, res.Records, 1)
}

func TestParse_HeaderCaseAndBOM(t *testing.T) {
	csv := "\ufeffTool_Name,SUBDIR,Step,Duration,Has_Error\n" +
		"read,u1,1,0.5,false\n"

	res, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "read", res.Records[0].ToolName)
}

func TestParse_CachedTokensPctRange(t *testing.T) {
	csv := "tool_name,subdir,step,duration,has_error,cached_tokens_pct\n" +
		"a,u1,1,1,false,0.75\n" +
		"b,u1,1,1,false,1.5\n" // out of [0,1]: absent with warning

	res, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	require.NotNil(t, res.Records[0].CachedTokensPct)
	assert.InDelta(t, 0.75, *res.Records[0].CachedTokensPct, 1e-9)
	assert.Nil(t, res.Records[1].CachedTokensPct)
	assert.Len(t, res.Warnings, 1)
}

func TestParse_Timestamps(t *testing.T) {
	csv := "tool_name,subdir,step,duration,has_error,timestamp\n" +
		"a,u1,1,1,false,2026-03-01T10:00:00Z\n" +
		"b,u1,1,1,false,garbage\n"

	res, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.False(t, res.Records[0].Timestamp.IsZero())
	assert.True(t, res.Records[1].Timestamp.IsZero())
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

func TestWatcher_ManualReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	var mu sync.Mutex
	var gens []uint64
	var lastCount int

	w := NewWatcher(path, 0, func(gen uint64, res *Result, err error) {
		mu.Lock()
		defer mu.Unlock()
		require.NoError(t, err)
		gens = append(gens, gen)
		lastCount = len(res.Records)
	})

	// Reload works without Start: no file events, just explicit loads.
	w.Reload()
	w.Reload()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, gens, 2)
	assert.Less(t, gens[0], gens[1], "generations must increase")
	assert.Equal(t, 3, lastCount)
}
