// Package aggregate computes per-tool and per-step summary statistics
// from the loaded record table. All functions are pure computations
// with no side effects.
package aggregate

import (
	"sort"

	"github.com/adrien/toolflow/internal/record"
)

// meanAcc accumulates a sum over only the rows where the field was
// present, so absent cells are excluded from the mean instead of
// dragging it toward zero.
type meanAcc struct {
	sum float64
	n   int
}

func (a *meanAcc) addFloat(v *float64) {
	if v != nil {
		a.sum += *v
		a.n++
	}
}

func (a *meanAcc) addInt(v *int) {
	if v != nil {
		a.sum += float64(*v)
		a.n++
	}
}

func (a meanAcc) mean() float64 {
	if a.n == 0 {
		return 0
	}
	return a.sum / float64(a.n)
}

type toolAcc struct {
	count    int
	errors   int
	duration meanAcc
	total    meanAcc
	prompt   meanAcc
	compl    meanAcc
	steps    map[int]int
	subdirs  map[string]struct{}
}

// Summarize computes a ToolSummary for each distinct non-empty tool
// name (case-sensitive). An empty input yields an empty map, never an
// error; every ratio guards its zero denominator.
func Summarize(records []record.Record) map[string]ToolSummary {
	accs := make(map[string]*toolAcc)

	for _, r := range records {
		if r.ToolName == "" {
			continue
		}
		acc, ok := accs[r.ToolName]
		if !ok {
			acc = &toolAcc{
				steps:   make(map[int]int),
				subdirs: make(map[string]struct{}),
			}
			accs[r.ToolName] = acc
		}
		acc.count++
		if r.HasError {
			acc.errors++
		}
		acc.duration.addFloat(r.Duration)
		acc.total.addInt(r.TotalTokens)
		acc.prompt.addInt(r.PromptTokens)
		acc.compl.addInt(r.CompletionTokens)
		if r.HasStep() {
			acc.steps[r.Step]++
		}
		if r.Subdir != "" {
			acc.subdirs[r.Subdir] = struct{}{}
		}
	}

	// Iterate tools in sorted order so output construction is stable
	// and reproducible.
	names := make([]string, 0, len(accs))
	for name := range accs {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make(map[string]ToolSummary, len(accs))
	for _, name := range names {
		acc := accs[name]
		s := ToolSummary{
			ToolName:             name,
			Count:                acc.count,
			ErrorCount:           acc.errors,
			MeanDuration:         acc.duration.mean(),
			MeanTotalTokens:      acc.total.mean(),
			MeanPromptTokens:     acc.prompt.mean(),
			MeanCompletionTokens: acc.compl.mean(),
			StepHistogram:        acc.steps,
			UseCaseCount:         len(acc.subdirs),
		}
		if acc.count > 0 {
			s.ErrorRate = float64(acc.errors) / float64(acc.count)
		}
		result[name] = s
	}
	return result
}

// SortedTools returns the summary keys in lexicographic order.
func SortedTools(summaries map[string]ToolSummary) []string {
	names := make([]string, 0, len(summaries))
	for name := range summaries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type stepAcc struct {
	count    int
	errors   int
	duration meanAcc
	tokens   meanAcc
	perToken meanAcc
	tools    map[string]int
}

// SummarizeBySteps computes a StepSummary for each distinct step
// present in the records. When toolFilter is non-empty, rows whose
// tool is not in the filter are excluded first. Rows without a step
// value do not contribute to any step.
func SummarizeBySteps(records []record.Record, toolFilter []string) map[int]StepSummary {
	var allowed map[string]bool
	if len(toolFilter) > 0 {
		allowed = make(map[string]bool, len(toolFilter))
		for _, t := range toolFilter {
			allowed[t] = true
		}
	}

	accs := make(map[int]*stepAcc)
	for _, r := range records {
		if !r.HasStep() {
			continue
		}
		if allowed != nil && !allowed[r.ToolName] {
			continue
		}
		acc, ok := accs[r.Step]
		if !ok {
			acc = &stepAcc{tools: make(map[string]int)}
			accs[r.Step] = acc
		}
		acc.count++
		if r.HasError {
			acc.errors++
		}
		acc.duration.addFloat(r.Duration)
		acc.tokens.addInt(r.TokenCount)
		if r.ToolName != "" {
			acc.tools[r.ToolName]++
		}

		// Seconds per token guards a zero or absent token count by
		// substituting 1, keeping the row in the average.
		if r.Duration != nil {
			tokens := 0
			if r.TokenCount != nil {
				tokens = *r.TokenCount
			}
			if tokens < 1 {
				tokens = 1
			}
			v := *r.Duration / float64(tokens)
			acc.perToken.addFloat(&v)
		}
	}

	result := make(map[int]StepSummary, len(accs))
	for step, acc := range accs {
		s := StepSummary{
			Step:                step,
			Count:               acc.count,
			ToolCounts:          toolShares(acc.tools, acc.count),
			MeanDuration:        acc.duration.mean(),
			MeanTokens:          acc.tokens.mean(),
			MeanSecondsPerToken: acc.perToken.mean(),
		}
		if acc.count > 0 {
			s.ErrorRate = float64(acc.errors) / float64(acc.count)
		}
		result[step] = s
	}
	return result
}

// SortedSteps returns the step keys in ascending numeric order.
func SortedSteps(summaries map[int]StepSummary) []int {
	steps := make([]int, 0, len(summaries))
	for step := range summaries {
		steps = append(steps, step)
	}
	sort.Ints(steps)
	return steps
}

// toolShares converts a tool count map into a slice sorted by count
// descending, name ascending on ties.
func toolShares(tools map[string]int, total int) []ToolShare {
	shares := make([]ToolShare, 0, len(tools))
	for name, count := range tools {
		share := ToolShare{ToolName: name, Count: count}
		if total > 0 {
			share.Pct = float64(count) / float64(total) * 100
		}
		shares = append(shares, share)
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}
		return shares[i].ToolName < shares[j].ToolName
	})
	return shares
}
