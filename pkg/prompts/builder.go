package prompts

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/ysarda/symboval/pkg/symbols"
	"github.com/ysarda/symboval/pkg/types"
)

// SystemPrompt is the fixed instruction prepended to every prompt
const SystemPrompt = "You are a mathematical reasoning assistant. You will be given problems " +
	"using novel mathematical notation. Your task is to solve these problems " +
	"by understanding the underlying mathematical relationships. " +
	"Provide only the final answer in the same notation as the problem."

// operatorNames renders arithmetic operator tokens in legend lines
var operatorNames = map[string]string{
	"+": "plus",
	"-": "minus",
	"*": "times",
	"/": "divided by",
}

// principleDescriptions phrases what each principle tests
var principleDescriptions = map[types.Principle]string{
	types.PrincipleCommutativity:   "the order of operations doesn't change the result",
	types.PrincipleAssociativity:   "how operations are grouped doesn't change the result",
	types.PrincipleDistributivity:  "multiplication distributes over addition",
	types.PrincipleIdentity:        "certain elements don't change values when applied",
	types.PrincipleBasicArithmetic: "basic mathematical operations",
	types.PrincipleMultiStep:       "problems requiring multiple sequential operations",
}

// ComparativePrompts pairs the standard- and novel-notation renderings of the
// same problem.
type ComparativePrompts struct {
	Standard string `json:"standard"`
	Novel    string `json:"novel"`
}

// ParsedResponse splits a model response into its reasoning and answer parts
type ParsedResponse struct {
	Reasoning string `json:"reasoning,omitempty"`
	Answer    string `json:"answer"`
}

// Config is an exportable snapshot of a builder's prompt configuration
type Config struct {
	SystemPrompt   string                  `json:"system_prompt"`
	SymbolMappings symbols.ExportedMapping `json:"symbol_mappings"`
}

// Builder composes prompts from a system instruction, a symbol legend, and a
// problem statement. Legend padding beyond the required symbols is drawn from
// the builder's own random source.
type Builder struct {
	mapper *symbols.Mapper
	rng    *rand.Rand
}

// NewBuilder creates a builder over the given mapper, seeded for legend
// sampling.
func NewBuilder(mapper *symbols.Mapper, seed int64) *Builder {
	return &Builder{
		mapper: mapper,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// ExtractSymbols returns the glyphs in expression that are under the mapper's
// jurisdiction.
func (b *Builder) ExtractSymbols(expression string) map[string]bool {
	found := make(map[string]bool)
	for _, r := range expression {
		glyph := string(r)
		if _, ok := b.mapper.StandardFor(glyph); ok {
			found[glyph] = true
		}
	}
	return found
}

// ExampleSection builds the legend block. Every glyph in required is always
// included, even when that exceeds numExamples; remaining slots up to
// numExamples are padded with distinct random mapping entries. numExamples of
// zero yields a legend stating that no examples are provided.
func (b *Builder) ExampleSection(numExamples int, required map[string]bool) string {
	if numExamples == 0 {
		return "You will solve mathematical problems using novel notation. No examples are provided.\n"
	}

	var pairs []symbols.MappingPair
	if len(required) > 0 {
		// Assignment order keeps the legend deterministic for a given mapper.
		for _, p := range b.mapper.Pairs() {
			if required[p.Novel] {
				pairs = append(pairs, p)
			}
		}
		if remaining := numExamples - len(pairs); remaining > 0 {
			var available []symbols.MappingPair
			for _, p := range b.mapper.Pairs() {
				if !required[p.Novel] {
					available = append(available, p)
				}
			}
			if len(available) > 0 {
				if remaining > len(available) {
					remaining = len(available)
				}
				for _, i := range b.rng.Perm(len(available))[:remaining] {
					pairs = append(pairs, available[i])
				}
			}
		}
	} else {
		pairs = b.mapper.MappingExamples(numExamples)
	}

	var sb strings.Builder
	sb.WriteString("You will be given mathematical problems using a novel notation system. ")
	sb.WriteString("Here are the basic symbol mappings:\n\n")
	for _, p := range pairs {
		fmt.Fprintf(&sb, "  %s represents %s\n", p.Novel, legendMeaning(p.Standard))
	}
	sb.WriteString("\nUsing these mappings, solve the following problems.\n")
	return sb.String()
}

// legendMeaning renders a standard token for a legend line: digits as
// themselves, arithmetic operators by name, "=" as equals, anything else
// literally.
func legendMeaning(standard string) string {
	if isDigits(standard) {
		return standard
	}
	if name, ok := operatorNames[standard]; ok {
		return name
	}
	if standard == "=" {
		return "equals"
	}
	return standard
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ProblemPrompt renders the problem-statement block. includeThinking appends
// instructions to show step-by-step work in a Reasoning/Answer format;
// otherwise the block ends with a bare answer cue.
func (b *Builder) ProblemPrompt(p types.Problem, useNovelNotation, includeThinking bool) string {
	question := p.NovelNotation
	if !useNovelNotation {
		question = p.StandardNotation
	}
	prompt := fmt.Sprintf("Problem: %s\n", question)
	if includeThinking {
		prompt += "\nPlease show your reasoning step-by-step, then provide your final answer.\n"
		prompt += "Format your response as:\nReasoning: [your step-by-step work]\nAnswer: [final answer]\n"
	} else {
		prompt += "\nAnswer: "
	}
	return prompt
}

// BuildPrompt composes a complete single-problem prompt whose legend covers
// every mapped glyph appearing in the problem's notation.
func (b *Builder) BuildPrompt(p types.Problem, numExamples int, useNovelNotation, includeThinking bool) string {
	notation := p.NovelNotation
	if !useNovelNotation {
		notation = p.StandardNotation
	}
	prompt := SystemPrompt + "\n\n"
	prompt += b.ExampleSection(numExamples, b.ExtractSymbols(notation)) + "\n"
	prompt += b.ProblemPrompt(p, useNovelNotation, includeThinking)
	return prompt
}

// BatchPrompt composes one prompt covering several problems, with a single
// legend spanning the union of symbols across the batch followed by numbered
// problem blocks.
func (b *Builder) BatchPrompt(problems []types.Problem, numExamples int, useNovelNotation, includeThinking bool) string {
	prompt := SystemPrompt + "\n\n"

	allSymbols := make(map[string]bool)
	for _, p := range problems {
		notation := p.NovelNotation
		if !useNovelNotation {
			notation = p.StandardNotation
		}
		for glyph := range b.ExtractSymbols(notation) {
			allSymbols[glyph] = true
		}
	}

	prompt += b.ExampleSection(numExamples, allSymbols) + "\n"
	for i, p := range problems {
		prompt += fmt.Sprintf("\n--- Problem %d ---\n", i+1)
		prompt += b.ProblemPrompt(p, useNovelNotation, includeThinking)
		prompt += "\n"
	}
	return prompt
}

// PrincipleTestPrompt composes a batch prompt framed around the principle the
// problems are designed to probe.
func (b *Builder) PrincipleTestPrompt(principle types.Principle, problems []types.Problem, numExamples int) string {
	desc, ok := principleDescriptions[principle]
	if !ok {
		desc = string(principle)
	}
	prompt := SystemPrompt + "\n\n"
	prompt += fmt.Sprintf("These problems test your understanding of %s.\n\n", desc)

	allSymbols := make(map[string]bool)
	for _, p := range problems {
		for glyph := range b.ExtractSymbols(p.NovelNotation) {
			allSymbols[glyph] = true
		}
	}

	prompt += b.ExampleSection(numExamples, allSymbols) + "\n"
	for i, p := range problems {
		prompt += fmt.Sprintf("\n--- Problem %d ---\n", i+1)
		prompt += b.ProblemPrompt(p, true, true)
		prompt += "\n"
	}
	return prompt
}

// ZeroShotPrompt composes a prompt with no legend at all, asking the model to
// infer symbol meanings from context.
func (b *Builder) ZeroShotPrompt(p types.Problem) string {
	prompt := SystemPrompt + "\n\n"
	prompt += "Solve the following problem using the novel notation. "
	prompt += "Infer the meaning from context.\n\n"
	prompt += b.ProblemPrompt(p, true, true)
	return prompt
}

// ComparativePrompt renders the same problem in standard and novel notation
// for side-by-side evaluation.
func (b *Builder) ComparativePrompt(p types.Problem, numExamples int) ComparativePrompts {
	standard := SystemPrompt + "\n\n"
	standard += "Solve the following problem:\n\n"
	standard += b.ProblemPrompt(p, false, true)

	novel := SystemPrompt + "\n\n"
	novel += b.ExampleSection(numExamples, b.ExtractSymbols(p.NovelNotation)) + "\n"
	novel += b.ProblemPrompt(p, true, true)

	return ComparativePrompts{Standard: standard, Novel: novel}
}

// FewShotSequence renders the same problem once per requested example count,
// keyed by count. The zero-example entry uses the zero-shot framing rather
// than an empty legend.
func (b *Builder) FewShotSequence(p types.Problem, exampleCounts []int) map[int]string {
	if exampleCounts == nil {
		exampleCounts = []int{0, 1, 3, 5, 10}
	}
	required := b.ExtractSymbols(p.NovelNotation)

	out := make(map[int]string, len(exampleCounts))
	for _, count := range exampleCounts {
		if count == 0 {
			out[count] = b.ZeroShotPrompt(p)
			continue
		}
		prompt := SystemPrompt + "\n\n"
		prompt += b.ExampleSection(count, required) + "\n"
		prompt += b.ProblemPrompt(p, true, true)
		out[count] = prompt
	}
	return out
}

// ParseResponse splits a model response into reasoning and answer. When both
// "Reasoning:" and "Answer:" markers are present the response is split on the
// answer marker; otherwise all but the last line is treated as reasoning.
// With includeReasoning false the whole trimmed response is the answer.
func (b *Builder) ParseResponse(response string, includeReasoning bool) ParsedResponse {
	if !includeReasoning {
		return ParsedResponse{Answer: strings.TrimSpace(response)}
	}

	if strings.Contains(response, "Reasoning:") && strings.Contains(response, "Answer:") {
		parts := strings.Split(response, "Answer:")
		reasoning := strings.TrimSpace(strings.Replace(parts[0], "Reasoning:", "", 1))
		answer := ""
		if len(parts) > 1 {
			answer = strings.TrimSpace(parts[1])
		}
		return ParsedResponse{Reasoning: reasoning, Answer: answer}
	}

	lines := strings.Split(strings.TrimSpace(response), "\n")
	return ParsedResponse{
		Reasoning: strings.Join(lines[:len(lines)-1], "\n"),
		Answer:    strings.TrimSpace(lines[len(lines)-1]),
	}
}

// ExportConfig returns the builder's prompt configuration snapshot
func (b *Builder) ExportConfig() Config {
	return Config{
		SystemPrompt:   SystemPrompt,
		SymbolMappings: b.mapper.Export(),
	}
}
