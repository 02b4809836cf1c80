package eval

import (
	"encoding/json"
	"fmt"
	"os"
)

// resultsFile is the on-disk schema of a persisted evaluation run
type resultsFile struct {
	Results []EvaluationResult `json:"results"`
	Summary *EvaluationSummary `json:"summary,omitempty"`
}

// SaveResults writes results (and the summary, when non-nil) to a
// pretty-printed JSON file.
func SaveResults(path string, results []EvaluationResult, summary *EvaluationSummary) error {
	data, err := json.MarshalIndent(resultsFile{Results: results, Summary: summary}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// LoadResults reads a persisted evaluation run. The summary is nil when the
// file was saved without one.
func LoadResults(path string) ([]EvaluationResult, *EvaluationSummary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read results: %w", err)
	}
	var file resultsFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, nil, fmt.Errorf("parse results: %w", err)
	}
	return file.Results, file.Summary, nil
}
