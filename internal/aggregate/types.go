package aggregate

// ToolSummary holds the per-tool statistics shown in listings and KPI
// cards. Means are computed over rows where the field is present;
// a field absent in every row yields 0.
type ToolSummary struct {
	ToolName             string      `json:"tool_name"`
	Count                int         `json:"count"`
	ErrorCount           int         `json:"error_count"`
	ErrorRate            float64     `json:"error_rate"` // 0-1
	MeanDuration         float64     `json:"mean_duration"`
	MeanTotalTokens      float64     `json:"mean_total_tokens"`
	MeanPromptTokens     float64     `json:"mean_prompt_tokens"`
	MeanCompletionTokens float64     `json:"mean_completion_tokens"`
	StepHistogram        map[int]int `json:"step_histogram"`
	UseCaseCount         int         `json:"use_case_count"`
}

// ToolShare is one tool's slice of a step's invocations.
type ToolShare struct {
	ToolName string  `json:"tool_name"`
	Count    int     `json:"count"`
	Pct      float64 `json:"pct"` // 0-100, share of the step's total
}

// StepSummary holds the per-step breakdown.
type StepSummary struct {
	Step                int         `json:"step"`
	Count               int         `json:"count"`
	ToolCounts          []ToolShare `json:"tool_counts"`
	MeanDuration        float64     `json:"mean_duration"`
	ErrorRate           float64     `json:"error_rate"` // 0-1
	MeanTokens          float64     `json:"mean_tokens"`
	MeanSecondsPerToken float64     `json:"mean_seconds_per_token"`
}
