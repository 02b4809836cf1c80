package eval

import (
	"github.com/ysarda/symboval/pkg/types"
)

// EvaluationResult records one problem attempt against the remote model
type EvaluationResult struct {
	ProblemID         int              `json:"problem_id"`
	Principle         types.Principle  `json:"principle"`
	Difficulty        types.Difficulty `json:"difficulty"`
	ExpectedAnswer    string           `json:"expected_answer"`
	ModelResponse     string           `json:"model_response"`
	ExtractedAnswer   *string          `json:"extracted_answer"`
	IsCorrect         bool             `json:"is_correct"`
	RequiresReasoning bool             `json:"requires_reasoning"`
	Model             string           `json:"model"`
	PromptTokens      int              `json:"prompt_tokens"`
	CompletionTokens  int              `json:"completion_tokens"`
	Latency           float64          `json:"latency"`
	Timestamp         string           `json:"timestamp"`
}

// Breakdown is the correct/total/accuracy triple for one result grouping
type Breakdown struct {
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
	Accuracy float64 `json:"accuracy"`
}

// EvaluationSummary aggregates a list of results. It is derived data,
// recomputed from the full result list each time.
type EvaluationSummary struct {
	RunID             string               `json:"run_id"`
	TotalProblems     int                  `json:"total_problems"`
	Correct           int                  `json:"correct"`
	Incorrect         int                  `json:"incorrect"`
	Accuracy          float64              `json:"accuracy"`
	ByPrinciple       map[string]Breakdown `json:"by_principle"`
	ByDifficulty      map[string]Breakdown `json:"by_difficulty"`
	TotalTokens       int                  `json:"total_tokens"`
	TotalCostEstimate float64              `json:"total_cost_estimate"`
	AvgLatency        float64              `json:"avg_latency"`
	Model             string               `json:"model"`
	Timestamp         string               `json:"timestamp"`
}
