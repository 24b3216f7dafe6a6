// Package loader parses the tool-invocation CSV log into records.
//
// Parsing is tolerant by design: a malformed row is dropped with a
// warning and parsing continues; only a missing required header column
// or an unreadable source is a hard error.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/adrien/toolflow/internal/record"
)

// Result is the outcome of one load: the parsed records plus any
// per-row warnings collected along the way.
type Result struct {
	Records  []record.Record
	Warnings []string
}

// maxWarnings bounds the warning list so a pathological file cannot
// balloon memory; further warnings are collapsed into a single count.
const maxWarnings = 50

var requiredColumns = []string{"tool_name", "subdir", "step", "duration", "has_error"}

var optionalColumns = map[string]bool{
	"token_count":       true,
	"prompt_tokens":     true,
	"completion_tokens": true,
	"total_tokens":      true,
	"cached_tokens_pct": true,
	"timestamp":         true,
}

// LoadFile reads and parses the CSV log at path.
func LoadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	res, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return res, nil
}

// Parse reads a CSV log with a header row from r.
func Parse(r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // row-length checks produce warnings, not errors
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty input: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	res := &Result{}
	suppressed := 0
	warnf := func(format string, args ...any) {
		if len(res.Warnings) >= maxWarnings {
			suppressed++
			return
		}
		res.Warnings = append(res.Warnings, fmt.Sprintf(format, args...))
	}

	cols, err := mapHeader(header, warnf)
	if err != nil {
		return nil, err
	}

	line := 1
	for {
		line++
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			warnf("line %d: %v (row skipped)", line, err)
			continue
		}
		if len(row) != len(header) {
			warnf("line %d: expected %d fields, got %d (row skipped)", line, len(header), len(row))
			continue
		}
		rec, ok := parseRow(row, cols, line, warnf)
		if ok {
			res.Records = append(res.Records, rec)
		}
	}

	if suppressed > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%d further warnings suppressed", suppressed))
	}
	return res, nil
}

// mapHeader resolves column name -> index, case-insensitively. All
// required columns must be present; unknown columns are warned about
// and ignored.
func mapHeader(header []string, warnf func(string, ...any)) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[name]; dup {
			warnf("duplicate column %q; keeping the first", name)
			continue
		}
		cols[name] = i
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	known := make(map[string]bool, len(requiredColumns))
	for _, c := range requiredColumns {
		known[c] = true
	}
	for name := range cols {
		if !known[name] && !optionalColumns[name] {
			warnf("unknown column %q ignored", name)
		}
	}
	return cols, nil
}

// parseRow converts one CSV row into a Record. A non-blank required
// cell that fails to parse drops the whole row; blank cells become
// absent values. Optional cells degrade to absent on their own.
func parseRow(row []string, cols map[string]int, line int, warnf func(string, ...any)) (record.Record, bool) {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rec := record.Record{
		ToolName: cell("tool_name"),
		Subdir:   cell("subdir"),
	}

	if s := cell("step"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			warnf("line %d: bad step %q (row skipped)", line, s)
			return record.Record{}, false
		}
		rec.Step = n
	}

	if s := cell("duration"); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f < 0 {
			warnf("line %d: bad duration %q (row skipped)", line, s)
			return record.Record{}, false
		}
		rec.Duration = &f
	}

	b, ok := parseBool(cell("has_error"))
	if !ok {
		warnf("line %d: unrecognized has_error %q, assuming false", line, cell("has_error"))
	}
	rec.HasError = b

	rec.TokenCount = parseOptInt(cell("token_count"), line, "token_count", warnf)
	rec.PromptTokens = parseOptInt(cell("prompt_tokens"), line, "prompt_tokens", warnf)
	rec.CompletionTokens = parseOptInt(cell("completion_tokens"), line, "completion_tokens", warnf)
	rec.TotalTokens = parseOptInt(cell("total_tokens"), line, "total_tokens", warnf)

	if s := cell("cached_tokens_pct"); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 && f <= 1 {
			rec.CachedTokensPct = &f
		} else {
			warnf("line %d: bad cached_tokens_pct %q, treated as absent", line, s)
		}
	}

	if s := cell("timestamp"); s != "" {
		rec.Timestamp = parseTimestamp(s)
	}

	return rec, true
}

func parseOptInt(s string, line int, col string, warnf func(string, ...any)) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		warnf("line %d: bad %s %q, treated as absent", line, col, s)
		return nil
	}
	return &n
}

func parseBool(s string) (value, ok bool) {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "y":
		return true, true
	case "false", "0", "no", "n", "":
		return false, true
	}
	return false, false
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
