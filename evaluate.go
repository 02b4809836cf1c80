package symboval

import (
	"context"
	"fmt"
	"time"

	"github.com/ysarda/symboval/pkg/eval"
	"github.com/ysarda/symboval/pkg/types"
)

// EvaluateOptions configures a full evaluation cycle. Problems and Prompts
// are generated when absent, from the same seed so the prompt legends match
// the problems' symbol mapping.
type EvaluateOptions struct {
	// Problems to evaluate; generated when nil
	Problems []types.Problem

	// Prompts corresponding one-to-one to Problems; generated when nil
	Prompts []string

	// NumProblems is how many problems to generate when Problems is nil
	// (default 10).
	NumProblems int

	// Generation controls, used only when generating
	Principles       []types.Principle
	Difficulty       types.Difficulty
	Balanced         bool
	StandardNotation bool
	NumExamples      int
	IncludeThinking  bool
	Seed             int64

	// Model and sampling controls
	Model       string
	Temperature float64
	MaxTokens   int

	// Delay is the fixed spacing between remote calls (default 500ms)
	Delay time.Duration

	// Verbose prints per-problem progress to stdout
	Verbose bool

	// SaveTo persists results and summary to the named JSON file when set
	SaveTo string

	// APIKey overrides the configuration store lookup
	APIKey string

	// SiteURL and AppName populate the OpenRouter attribution headers
	SiteURL string
	AppName string
}

// Evaluate runs a full evaluation cycle: generate problems and prompts when
// absent, send each prompt to the remote model, score the answers, and
// summarize. A cycle that yields zero results is an error.
func Evaluate(ctx context.Context, opts EvaluateOptions) ([]eval.EvaluationResult, eval.EvaluationSummary, error) {
	seed := resolveSeed(opts.Seed)

	genOpts := Options{
		Principles:       opts.Principles,
		Difficulty:       opts.Difficulty,
		Balanced:         opts.Balanced,
		StandardNotation: opts.StandardNotation,
		NumExamples:      opts.NumExamples,
		IncludeThinking:  opts.IncludeThinking,
		Seed:             seed,
	}

	problemList := opts.Problems
	if problemList == nil {
		n := opts.NumProblems
		if n <= 0 {
			n = 10
		}
		generated, err := GenerateProblems(n, genOpts)
		if err != nil {
			return nil, eval.EvaluationSummary{}, err
		}
		problemList = generated
	}

	promptList := opts.Prompts
	if promptList == nil {
		built, err := GeneratePrompts(problemList, len(problemList), genOpts)
		if err != nil {
			return nil, eval.EvaluationSummary{}, err
		}
		promptList = built
	}

	evaluator, err := eval.NewEvaluator(opts.APIKey, opts.SiteURL, opts.AppName)
	if err != nil {
		return nil, eval.EvaluationSummary{}, err
	}

	results, err := evaluator.EvaluateProblems(ctx, problemList, promptList, eval.Options{
		Model:       opts.Model,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Delay:       opts.Delay,
		Verbose:     opts.Verbose,
	})
	if err != nil {
		return nil, eval.EvaluationSummary{}, err
	}
	if len(results) == 0 {
		return nil, eval.EvaluationSummary{}, fmt.Errorf("evaluation produced no results")
	}

	summary, err := evaluator.Summarize(results)
	if err != nil {
		return nil, eval.EvaluationSummary{}, err
	}

	if opts.SaveTo != "" {
		if err := eval.SaveResults(opts.SaveTo, results, &summary); err != nil {
			return nil, eval.EvaluationSummary{}, err
		}
	}
	return results, summary, nil
}
