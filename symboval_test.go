package symboval

import (
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/ysarda/symboval/pkg/problems"
	"github.com/ysarda/symboval/pkg/types"
)

func TestGenerateProblem_CommutativityMedium(t *testing.T) {
	p, err := GenerateProblem(Options{
		Principles: []types.Principle{types.PrincipleCommutativity},
		Difficulty: types.DifficultyMedium,
		Seed:       42,
	})
	if err != nil {
		t.Fatalf("GenerateProblem failed: %v", err)
	}

	if p.Principle != types.PrincipleCommutativity {
		t.Errorf("principle = %s", p.Principle)
	}
	a, aok := p.Metadata["a"].(int)
	b, bok := p.Metadata["b"].(int)
	if !aok || !bok {
		t.Fatalf("metadata operands missing: %v", p.Metadata)
	}
	if a < 10 || a > 50 || b < 10 || b > 50 {
		t.Errorf("medium operands out of range: a=%d b=%d", a, b)
	}

	op, _ := p.Metadata["operator"].(string)
	want := a + b
	if op == "*" {
		want = a * b
	}
	if p.Answer != strconv.Itoa(want) {
		t.Errorf("answer = %q, want %d", p.Answer, want)
	}

	if p.NovelNotation == p.StandardNotation {
		t.Error("novel notation should differ from standard notation")
	}
	if ok, err := problems.Verify(p); err != nil || !ok {
		t.Errorf("generated problem failed verification: ok=%v err=%v", ok, err)
	}
}

func TestGenerateProblem_Determinism(t *testing.T) {
	opts := Options{
		Principles: []types.Principle{types.PrincipleMultiStep},
		Difficulty: types.DifficultyHard,
		Seed:       7,
	}
	p1, err := GenerateProblem(opts)
	if err != nil {
		t.Fatalf("GenerateProblem failed: %v", err)
	}
	p2, err := GenerateProblem(opts)
	if err != nil {
		t.Fatalf("GenerateProblem failed: %v", err)
	}
	if !reflect.DeepEqual(p1, p2) {
		t.Error("same seed and options should produce identical problems")
	}
}

func TestGenerateProblem_StandardNotation(t *testing.T) {
	p, err := GenerateProblem(Options{StandardNotation: true, Seed: 11})
	if err != nil {
		t.Fatalf("GenerateProblem failed: %v", err)
	}
	if p.NovelNotation != p.StandardNotation {
		t.Error("standard-notation mode should skip the mapping")
	}
}

func TestGenerateProblems(t *testing.T) {
	set, err := GenerateProblems(12, Options{Seed: 5})
	if err != nil {
		t.Fatalf("GenerateProblems failed: %v", err)
	}
	if len(set) != 12 {
		t.Errorf("generated %d problems, want 12", len(set))
	}
}

func TestGenerateProblems_Balanced(t *testing.T) {
	set, err := GenerateProblems(16, Options{Balanced: true, Seed: 5})
	if err != nil {
		t.Fatalf("GenerateProblems failed: %v", err)
	}

	counts := make(map[types.Principle]int)
	for _, p := range set {
		counts[p.Principle]++
	}
	perPrinciple := 16 / len(types.Principles)
	for principle, n := range counts {
		if n != perPrinciple {
			t.Errorf("principle %s has %d problems, want %d", principle, n, perPrinciple)
		}
	}
}

func TestGeneratePrompt_CoverageAndDeterminism(t *testing.T) {
	opts := Options{
		Principles: []types.Principle{types.PrincipleAssociativity},
		Seed:       42,
	}
	p, err := GenerateProblem(opts)
	if err != nil {
		t.Fatalf("GenerateProblem failed: %v", err)
	}
	prompt, err := GeneratePrompt(&p, opts)
	if err != nil {
		t.Fatalf("GeneratePrompt failed: %v", err)
	}

	// The prompt's mapper comes from the same seed, so every mapped glyph
	// in the problem must be explained in the legend.
	mapper, err := defaultMapper(42)
	if err != nil {
		t.Fatalf("rebuild mapper: %v", err)
	}
	for _, r := range p.NovelNotation {
		glyph := string(r)
		if _, ok := mapper.StandardFor(glyph); !ok {
			continue
		}
		if !strings.Contains(prompt, glyph+" represents") {
			t.Errorf("legend missing glyph %q", glyph)
		}
	}
	if !strings.Contains(prompt, "Problem: "+p.NovelNotation) {
		t.Error("prompt missing the problem statement")
	}

	again, err := GeneratePrompt(&p, opts)
	if err != nil {
		t.Fatalf("GeneratePrompt failed: %v", err)
	}
	if prompt != again {
		t.Error("same seed should produce identical prompts")
	}
}

func TestGeneratePrompt_GeneratesWhenNil(t *testing.T) {
	prompt, err := GeneratePrompt(nil, Options{Seed: 3})
	if err != nil {
		t.Fatalf("GeneratePrompt failed: %v", err)
	}
	if !strings.Contains(prompt, "Problem: ") {
		t.Error("prompt missing a problem statement")
	}
}

func TestGeneratePrompt_ZeroExamples(t *testing.T) {
	p, err := GenerateProblem(Options{Seed: 9})
	if err != nil {
		t.Fatalf("GenerateProblem failed: %v", err)
	}
	prompt, err := GeneratePrompt(&p, Options{Seed: 9, NumExamples: ZeroExamples})
	if err != nil {
		t.Fatalf("GeneratePrompt failed: %v", err)
	}
	if !strings.Contains(prompt, "No examples are provided.") {
		t.Error("ZeroExamples should yield the no-examples legend")
	}
	if strings.Contains(prompt, " represents ") {
		t.Error("ZeroExamples prompt must not carry legend lines")
	}
}

func TestGeneratePrompts(t *testing.T) {
	prompts, err := GeneratePrompts(nil, 4, Options{Seed: 13})
	if err != nil {
		t.Fatalf("GeneratePrompts failed: %v", err)
	}
	if len(prompts) != 4 {
		t.Errorf("generated %d prompts, want 4", len(prompts))
	}
}

func TestResolveExampleCount(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, DefaultExampleCount},
		{ZeroExamples, 0},
		{3, 3},
	}
	for _, tt := range tests {
		if got := resolveExampleCount(tt.in); got != tt.want {
			t.Errorf("resolveExampleCount(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
