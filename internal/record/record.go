// Package record defines the typed view of one tool-invocation log row.
// Records are built once by the loader and never mutated afterwards.
package record

import "time"

// Record is a single tool invocation from the CSV log.
//
// Optional numeric fields are pointers: nil means the cell was blank or
// unparsable and must be excluded from averages, not counted as zero.
// Step 0 means the step column was absent for this row; valid steps
// start at 1.
type Record struct {
	ToolName string
	Subdir   string // use-case / workflow instance identifier; empty = absent
	Step     int

	Duration         *float64 // seconds
	TokenCount       *int
	PromptTokens     *int
	CompletionTokens *int
	TotalTokens      *int
	CachedTokensPct  *float64 // [0,1]

	HasError  bool
	Timestamp time.Time // zero = absent
}

// HasStep reports whether the row carried a usable step value.
func (r Record) HasStep() bool { return r.Step >= 1 }

// Float returns a pointer to v, for building records in tests and fixtures.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
