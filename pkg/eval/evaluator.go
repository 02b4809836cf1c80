package eval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ysarda/symboval/pkg/config"
	"github.com/ysarda/symboval/pkg/inference"
	"github.com/ysarda/symboval/pkg/types"
)

const (
	// DefaultModel is used when no model is requested
	DefaultModel = "anthropic/claude-3.5-sonnet"

	// DefaultTolerance is the absolute difference under which two numeric
	// answers count as equal
	DefaultTolerance = 0.01

	// DefaultDelay is the fixed spacing between consecutive remote calls
	DefaultDelay = 500 * time.Millisecond

	// costPerMillionTokens is a rough blended token rate for cost estimates
	costPerMillionTokens = 3.0
)

var (
	// ErrNoAPIKey is returned at evaluator construction when no key is
	// configured anywhere.
	ErrNoAPIKey = errors.New("no api key found")

	// ErrEmptyResults is returned when a summary is requested over zero
	// results.
	ErrEmptyResults = errors.New("cannot summarize empty results")
)

// Answer extraction patterns, in precedence order.
var (
	answerIsRe  = regexp.MustCompile(`(?i)answer\s*(?:is|:)\s*([+-]?\d+(?:\.\d+)?)`)
	equalsEndRe = regexp.MustCompile(`=\s*([+-]?\d+(?:\.\d+)?)\s*$`)
	numberRe    = regexp.MustCompile(`[+-]?\d+(?:\.\d+)?`)
)

// CompletionClient is the remote-model surface the evaluator depends on
type CompletionClient interface {
	Complete(ctx context.Context, prompt string, opts inference.CompletionOptions) (*inference.ModelResponse, error)
}

// Options controls a single evaluation run
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Delay       time.Duration
	Verbose     bool
	Extra       map[string]interface{}
}

// Evaluator sends prompts to a remote model and scores the returned answers
// against known ground truth. Runs are strictly sequential: each remote call
// completes (or fails) before the next begins.
type Evaluator struct {
	client CompletionClient
	logger *slog.Logger
}

// NewEvaluator constructs an evaluator against OpenRouter. An empty apiKey
// falls back to the configuration store (environment variable first); if no
// key is available anywhere the construction fails with ErrNoAPIKey.
func NewEvaluator(apiKey, siteURL, appName string) (*Evaluator, error) {
	if apiKey == "" {
		apiKey = config.GetAPIKey(config.DefaultProvider)
		if apiKey == "" {
			return nil, fmt.Errorf("%w: set it with config.SetAPIKey or pass it to NewEvaluator", ErrNoAPIKey)
		}
	}
	client, err := inference.NewClient(apiKey, siteURL, appName)
	if err != nil {
		return nil, err
	}
	return NewEvaluatorWithClient(client), nil
}

// NewEvaluatorWithClient constructs an evaluator over an existing client
func NewEvaluatorWithClient(client CompletionClient) *Evaluator {
	return &Evaluator{
		client: client,
		logger: slog.Default().With("component", "evaluator"),
	}
}

// ExtractAnswer pulls a candidate numeric answer out of free-form response
// text. Precedence: an "answer is X" / "Answer: X" phrase, then a number
// immediately preceding a trailing "=", then the last standalone number
// anywhere in the response. The boolean is false when nothing matches.
func ExtractAnswer(response string) (string, bool) {
	response = strings.TrimSpace(response)

	if m := answerIsRe.FindStringSubmatch(response); m != nil {
		return m[1], true
	}
	if m := equalsEndRe.FindStringSubmatch(response); m != nil {
		return m[1], true
	}
	if all := numberRe.FindAllString(response, -1); len(all) > 0 {
		return all[len(all)-1], true
	}
	return "", false
}

// CheckAnswer compares an extracted answer against the expected one. Both are
// parsed as numbers and compared within tolerance; if either fails to parse
// the comparison falls back to exact trimmed string equality.
func CheckAnswer(extracted, expected string, tolerance float64) bool {
	extractedNum, err1 := strconv.ParseFloat(strings.TrimSpace(extracted), 64)
	expectedNum, err2 := strconv.ParseFloat(strings.TrimSpace(expected), 64)
	if err1 == nil && err2 == nil {
		return math.Abs(extractedNum-expectedNum) < tolerance
	}
	return strings.TrimSpace(extracted) == strings.TrimSpace(expected)
}

// EvaluateProblem runs one problem through the remote model and scores it
func (e *Evaluator) EvaluateProblem(ctx context.Context, problem types.Problem, prompt string, opts Options, problemID int) (EvaluationResult, error) {
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}

	resp, err := e.client.Complete(ctx, prompt, inference.CompletionOptions{
		Model:       model,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Extra:       opts.Extra,
	})
	if err != nil {
		return EvaluationResult{}, err
	}

	var extractedPtr *string
	extracted, found := ExtractAnswer(resp.Response)
	if found {
		extractedPtr = &extracted
	}

	return EvaluationResult{
		ProblemID:         problemID,
		Principle:         problem.Principle,
		Difficulty:        problem.Difficulty,
		ExpectedAnswer:    problem.Answer,
		ModelResponse:     resp.Response,
		ExtractedAnswer:   extractedPtr,
		IsCorrect:         found && CheckAnswer(extracted, problem.Answer, DefaultTolerance),
		RequiresReasoning: problem.RequiresReasoning,
		Model:             resp.Model,
		PromptTokens:      resp.PromptTokens,
		CompletionTokens:  resp.CompletionTokens,
		Latency:           resp.Latency.Seconds(),
		Timestamp:         time.Now().Format(time.RFC3339),
	}, nil
}

// EvaluateProblems runs every (problem, prompt) pair in order. A failed
// remote call is converted into a synthetic failed result so the batch always
// returns one entry per input pair. A fixed delay is inserted between
// consecutive calls, skipped after the last.
func (e *Evaluator) EvaluateProblems(ctx context.Context, problems []types.Problem, promptTexts []string, opts Options) ([]EvaluationResult, error) {
	if len(problems) != len(promptTexts) {
		return nil, fmt.Errorf("number of problems (%d) must match number of prompts (%d)", len(problems), len(promptTexts))
	}
	delay := opts.Delay
	if delay == 0 {
		delay = DefaultDelay
	}
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}

	results := make([]EvaluationResult, 0, len(problems))
	for i, problem := range problems {
		if opts.Verbose {
			fmt.Printf("Evaluating problem %d/%d... ", i+1, len(problems))
		}

		result, err := e.EvaluateProblem(ctx, problem, promptTexts[i], opts, i)
		if err != nil {
			e.logger.Warn("problem evaluation failed", "problem_id", i, "error", err)
			if opts.Verbose {
				fmt.Printf("Error: %v\n", err)
			}
			result = EvaluationResult{
				ProblemID:         i,
				Principle:         problem.Principle,
				Difficulty:        problem.Difficulty,
				ExpectedAnswer:    problem.Answer,
				ModelResponse:     "ERROR: " + err.Error(),
				ExtractedAnswer:   nil,
				IsCorrect:         false,
				RequiresReasoning: problem.RequiresReasoning,
				Model:             model,
				Timestamp:         time.Now().Format(time.RFC3339),
			}
		} else if opts.Verbose {
			status := "✗"
			if result.IsCorrect {
				status = "✓"
			}
			extracted := "<none>"
			if result.ExtractedAnswer != nil {
				extracted = *result.ExtractedAnswer
			}
			fmt.Printf("%s (%s vs %s)\n", status, extracted, result.ExpectedAnswer)
		}
		results = append(results, result)

		if i < len(problems)-1 {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return results, nil
}

// Summarize computes aggregate statistics over a run's results
func (e *Evaluator) Summarize(results []EvaluationResult) (EvaluationSummary, error) {
	if len(results) == 0 {
		return EvaluationSummary{}, ErrEmptyResults
	}

	total := len(results)
	correct := 0
	totalTokens := 0
	totalLatency := 0.0
	byPrinciple := make(map[string]Breakdown)
	byDifficulty := make(map[string]Breakdown)

	for _, r := range results {
		if r.IsCorrect {
			correct++
		}
		totalTokens += r.PromptTokens + r.CompletionTokens
		totalLatency += r.Latency

		p := byPrinciple[string(r.Principle)]
		p.Total++
		if r.IsCorrect {
			p.Correct++
		}
		byPrinciple[string(r.Principle)] = p

		d := byDifficulty[string(r.Difficulty)]
		d.Total++
		if r.IsCorrect {
			d.Correct++
		}
		byDifficulty[string(r.Difficulty)] = d
	}

	for k, b := range byPrinciple {
		b.Accuracy = float64(b.Correct) / float64(b.Total)
		byPrinciple[k] = b
	}
	for k, b := range byDifficulty {
		b.Accuracy = float64(b.Correct) / float64(b.Total)
		byDifficulty[k] = b
	}

	return EvaluationSummary{
		RunID:             uuid.NewString(),
		TotalProblems:     total,
		Correct:           correct,
		Incorrect:         total - correct,
		Accuracy:          float64(correct) / float64(total),
		ByPrinciple:       byPrinciple,
		ByDifficulty:      byDifficulty,
		TotalTokens:       totalTokens,
		TotalCostEstimate: float64(totalTokens) / 1_000_000 * costPerMillionTokens,
		AvgLatency:        totalLatency / float64(total),
		Model:             results[0].Model,
		Timestamp:         time.Now().Format(time.RFC3339),
	}, nil
}
