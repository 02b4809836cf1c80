// Package symboval generates synthetic arithmetic word-problems rendered in
// an obfuscated symbol notation, builds prompts for a language model, and
// scores the model's answers against known ground truth. It is an evaluation
// harness for probing symbolic reasoning versus pattern matching on familiar
// notation.
//
// The functions in this package are a convenience surface over the pkg/
// packages, which can also be used directly.
package symboval

import (
	"fmt"
	"time"

	"github.com/ysarda/symboval/pkg/problems"
	"github.com/ysarda/symboval/pkg/prompts"
	"github.com/ysarda/symboval/pkg/symbols"
	"github.com/ysarda/symboval/pkg/types"
)

// DefaultExampleCount is the legend size used when none is requested
const DefaultExampleCount = 5

// ZeroExamples requests a legend that explicitly states no examples are
// provided. (A zero NumExamples field means "use the default".)
const ZeroExamples = -1

// Options configures the convenience generation helpers. The zero value
// generates a medium-difficulty basic-arithmetic problem in novel notation
// with a fresh time-derived seed.
type Options struct {
	// Principles to draw from. GenerateProblem uses the first entry
	// (default basic_arithmetic); GenerateProblems samples uniformly from
	// the list (default: every registered principle).
	Principles []types.Principle

	// Difficulty defaults to medium
	Difficulty types.Difficulty

	// Balanced generates an equal number of problems per registered
	// principle instead of sampling.
	Balanced bool

	// StandardNotation skips the novel-notation mapping entirely
	StandardNotation bool

	// NumExamples is the requested legend size; zero means
	// DefaultExampleCount and ZeroExamples means none.
	NumExamples int

	// IncludeThinking asks for step-by-step reasoning in the response
	IncludeThinking bool

	// Seed drives all randomness; zero draws a seed from the clock
	Seed int64
}

func resolveSeed(seed int64) int64 {
	if seed == 0 {
		return time.Now().UnixNano()
	}
	return seed
}

func resolveExampleCount(n int) int {
	switch {
	case n == 0:
		return DefaultExampleCount
	case n < 0:
		return 0
	default:
		return n
	}
}

// defaultMapper builds the standard mapping session: numbers 0-19, the four
// arithmetic operators, and the four relation tokens.
func defaultMapper(seed int64) (*symbols.Mapper, error) {
	mapper := symbols.NewMapper(seed)
	numbers := make([]int, 20)
	for i := range numbers {
		numbers[i] = i
	}
	_, err := mapper.CreateCompleteMapping(numbers, []string{"+", "-", "*", "/"}, []string{"=", "<", ">", "?"}, nil)
	if err != nil {
		return nil, fmt.Errorf("build default mapping: %w", err)
	}
	return mapper, nil
}

func sessionMapper(opts Options, seed int64) (*symbols.Mapper, error) {
	if opts.StandardNotation {
		return nil, nil
	}
	return defaultMapper(seed)
}

// GenerateProblem generates a single problem
func GenerateProblem(opts Options) (types.Problem, error) {
	seed := resolveSeed(opts.Seed)

	principle := types.PrincipleBasicArithmetic
	if len(opts.Principles) > 0 {
		principle = opts.Principles[0]
	}
	difficulty := opts.Difficulty
	if difficulty == "" {
		difficulty = types.DifficultyMedium
	}

	mapper, err := sessionMapper(opts, seed)
	if err != nil {
		return types.Problem{}, err
	}
	return problems.NewGenerator(seed).GenerateProblem(principle, difficulty, mapper)
}

// GenerateProblems generates n problems. With Balanced set, n is divided
// across every declared principle and each registered one contributes that
// many problems.
func GenerateProblems(n int, opts Options) ([]types.Problem, error) {
	seed := resolveSeed(opts.Seed)

	difficulty := opts.Difficulty
	if difficulty == "" {
		difficulty = types.DifficultyMedium
	}

	mapper, err := sessionMapper(opts, seed)
	if err != nil {
		return nil, err
	}
	generator := problems.NewGenerator(seed)

	if opts.Balanced {
		perPrinciple := n / len(types.Principles)
		if perPrinciple < 1 {
			perPrinciple = 1
		}
		return generator.GenerateBalancedSet(perPrinciple, difficulty, mapper)
	}
	return generator.GenerateProblemSet(n, opts.Principles, difficulty, mapper)
}

// GeneratePrompt builds a complete prompt for a problem, generating the
// problem first when nil is passed. The legend always covers every mapped
// glyph appearing in the problem.
func GeneratePrompt(problem *types.Problem, opts Options) (string, error) {
	seed := resolveSeed(opts.Seed)
	opts.Seed = seed

	if problem == nil {
		p, err := GenerateProblem(opts)
		if err != nil {
			return "", err
		}
		problem = &p
	}

	mapper, err := defaultMapper(seed)
	if err != nil {
		return "", err
	}
	builder := prompts.NewBuilder(mapper, seed)
	return builder.BuildPrompt(*problem, resolveExampleCount(opts.NumExamples), !opts.StandardNotation, opts.IncludeThinking), nil
}

// GeneratePrompts builds one prompt per problem, generating n problems first
// when nil is passed.
func GeneratePrompts(problemList []types.Problem, n int, opts Options) ([]string, error) {
	seed := resolveSeed(opts.Seed)
	opts.Seed = seed

	if problemList == nil {
		generated, err := GenerateProblems(n, opts)
		if err != nil {
			return nil, err
		}
		problemList = generated
	}

	mapper, err := defaultMapper(seed)
	if err != nil {
		return nil, err
	}
	builder := prompts.NewBuilder(mapper, seed)

	out := make([]string, 0, len(problemList))
	for _, p := range problemList {
		out = append(out, builder.BuildPrompt(p, resolveExampleCount(opts.NumExamples), !opts.StandardNotation, opts.IncludeThinking))
	}
	return out, nil
}
