package prompts

import (
	"strings"
	"testing"

	"github.com/ysarda/symboval/pkg/symbols"
	"github.com/ysarda/symboval/pkg/types"
)

func buildMapper(t *testing.T) *symbols.Mapper {
	t.Helper()
	m := symbols.NewMapper(42)
	numbers := make([]int, 11)
	for i := range numbers {
		numbers[i] = i
	}
	if _, err := m.CreateCompleteMapping(numbers, []string{"+", "-", "*", "/"}, []string{"=", "?"}, nil); err != nil {
		t.Fatalf("CreateCompleteMapping failed: %v", err)
	}
	return m
}

func novelProblem(t *testing.T, m *symbols.Mapper, standard string) types.Problem {
	t.Helper()
	return types.Problem{
		Question:         standard,
		Answer:           "8",
		Principle:        types.PrincipleBasicArithmetic,
		Difficulty:       types.DifficultyEasy,
		StandardNotation: standard,
		NovelNotation:    m.TranslateExpression(standard),
	}
}

func TestBuildPrompt_LegendCoversProblemSymbols(t *testing.T) {
	m := buildMapper(t)
	b := NewBuilder(m, 1)
	p := novelProblem(t, m, "3 + 5 = ?")

	// Even with fewer example slots than the problem uses, every glyph in
	// the problem must appear in the legend.
	prompt := b.BuildPrompt(p, 1, true, false)
	for glyph := range b.ExtractSymbols(p.NovelNotation) {
		line := glyph + " represents"
		if !strings.Contains(prompt, line) {
			t.Errorf("legend missing required glyph %q", glyph)
		}
	}
	if !strings.Contains(prompt, SystemPrompt) {
		t.Error("prompt missing system instruction")
	}
	if !strings.Contains(prompt, "Problem: "+p.NovelNotation) {
		t.Error("prompt missing novel-notation problem statement")
	}
}

func TestBuildPrompt_StandardNotation(t *testing.T) {
	m := buildMapper(t)
	b := NewBuilder(m, 1)
	p := novelProblem(t, m, "3 + 5 = ?")

	prompt := b.BuildPrompt(p, 5, false, false)
	if !strings.Contains(prompt, "Problem: 3 + 5 = ?") {
		t.Error("standard prompt should quote the standard notation")
	}
}

func TestExampleSection_ZeroExamples(t *testing.T) {
	m := buildMapper(t)
	b := NewBuilder(m, 1)

	section := b.ExampleSection(0, map[string]bool{"x": true})
	want := "You will solve mathematical problems using novel notation. No examples are provided.\n"
	if section != want {
		t.Errorf("zero-example section = %q, want %q", section, want)
	}
}

func TestExampleSection_OperatorNames(t *testing.T) {
	m := buildMapper(t)
	b := NewBuilder(m, 1)

	required := make(map[string]bool)
	mappings := m.Mappings()
	for _, op := range []string{"+", "/", "="} {
		required[mappings[op]] = true
	}

	section := b.ExampleSection(3, required)
	for std, name := range map[string]string{"+": "plus", "/": "divided by", "=": "equals"} {
		line := mappings[std] + " represents " + name
		if !strings.Contains(section, line) {
			t.Errorf("legend missing %q for %q", line, std)
		}
	}
}

func TestExampleSection_PadsWithoutDuplicates(t *testing.T) {
	m := buildMapper(t)
	b := NewBuilder(m, 1)

	required := map[string]bool{m.Mappings()["3"]: true}
	section := b.ExampleSection(5, required)

	count := strings.Count(section, " represents ")
	if count != 5 {
		t.Fatalf("expected 5 legend lines, got %d", count)
	}
	seen := make(map[string]bool)
	for _, line := range strings.Split(section, "\n") {
		if !strings.Contains(line, " represents ") {
			continue
		}
		glyph := strings.TrimSpace(strings.SplitN(line, " represents ", 2)[0])
		if seen[glyph] {
			t.Errorf("legend repeats glyph %q", glyph)
		}
		seen[glyph] = true
	}
}

func TestProblemPrompt_ThinkingFormat(t *testing.T) {
	m := buildMapper(t)
	b := NewBuilder(m, 1)
	p := novelProblem(t, m, "3 + 5 = ?")

	with := b.ProblemPrompt(p, true, true)
	if !strings.Contains(with, "Reasoning: [your step-by-step work]") {
		t.Error("thinking prompt missing reasoning format instruction")
	}
	without := b.ProblemPrompt(p, true, false)
	if !strings.HasSuffix(without, "\nAnswer: ") {
		t.Errorf("plain prompt should end with an answer cue, got %q", without)
	}
}

func TestBatchPrompt(t *testing.T) {
	m := buildMapper(t)
	b := NewBuilder(m, 1)
	p1 := novelProblem(t, m, "3 + 5 = ?")
	p2 := novelProblem(t, m, "9 - 4 = ?")

	prompt := b.BatchPrompt([]types.Problem{p1, p2}, 3, true, false)
	if !strings.Contains(prompt, "--- Problem 1 ---") || !strings.Contains(prompt, "--- Problem 2 ---") {
		t.Error("batch prompt missing numbered problem blocks")
	}

	union := make(map[string]bool)
	for glyph := range b.ExtractSymbols(p1.NovelNotation) {
		union[glyph] = true
	}
	for glyph := range b.ExtractSymbols(p2.NovelNotation) {
		union[glyph] = true
	}
	legend := strings.SplitN(prompt, "--- Problem 1 ---", 2)[0]
	for glyph := range union {
		if !strings.Contains(legend, glyph+" represents") {
			t.Errorf("shared legend missing glyph %q", glyph)
		}
	}
}

func TestZeroShotPrompt(t *testing.T) {
	m := buildMapper(t)
	b := NewBuilder(m, 1)
	p := novelProblem(t, m, "3 + 5 = ?")

	prompt := b.ZeroShotPrompt(p)
	if !strings.Contains(prompt, "Infer the meaning from context.") {
		t.Error("zero-shot prompt missing inference instruction")
	}
	if strings.Contains(prompt, " represents ") {
		t.Error("zero-shot prompt must not carry a legend")
	}
}

func TestComparativePrompt(t *testing.T) {
	m := buildMapper(t)
	b := NewBuilder(m, 1)
	p := novelProblem(t, m, "3 + 5 = ?")

	pair := b.ComparativePrompt(p, 5)
	if !strings.Contains(pair.Standard, "Problem: 3 + 5 = ?") {
		t.Error("standard side should quote the standard notation")
	}
	if strings.Contains(pair.Standard, " represents ") {
		t.Error("standard side must not carry a legend")
	}
	if !strings.Contains(pair.Novel, "Problem: "+p.NovelNotation) {
		t.Error("novel side should quote the novel notation")
	}
	if !strings.Contains(pair.Novel, " represents ") {
		t.Error("novel side missing a legend")
	}
}

func TestFewShotSequence(t *testing.T) {
	m := buildMapper(t)
	b := NewBuilder(m, 1)
	p := novelProblem(t, m, "3 + 5 = ?")

	seq := b.FewShotSequence(p, nil)
	for _, count := range []int{0, 1, 3, 5, 10} {
		if _, ok := seq[count]; !ok {
			t.Errorf("missing prompt for %d examples", count)
		}
	}
	if !strings.Contains(seq[0], "Infer the meaning from context.") {
		t.Error("zero-example entry should use the zero-shot framing")
	}
	if !strings.Contains(seq[5], " represents ") {
		t.Error("five-example entry missing a legend")
	}
}

func TestParseResponse(t *testing.T) {
	m := buildMapper(t)
	b := NewBuilder(m, 1)

	tests := []struct {
		name             string
		response         string
		includeReasoning bool
		wantReasoning    string
		wantAnswer       string
	}{
		{
			name:             "markers",
			response:         "Reasoning: add the operands\nAnswer: 8",
			includeReasoning: true,
			wantReasoning:    "add the operands",
			wantAnswer:       "8",
		},
		{
			name:             "no markers last line",
			response:         "First I add.\nThen I check.\n8",
			includeReasoning: true,
			wantReasoning:    "First I add.\nThen I check.",
			wantAnswer:       "8",
		},
		{
			name:             "no reasoning requested",
			response:         "  8  ",
			includeReasoning: false,
			wantAnswer:       "8",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.ParseResponse(tt.response, tt.includeReasoning)
			if got.Reasoning != tt.wantReasoning {
				t.Errorf("reasoning = %q, want %q", got.Reasoning, tt.wantReasoning)
			}
			if got.Answer != tt.wantAnswer {
				t.Errorf("answer = %q, want %q", got.Answer, tt.wantAnswer)
			}
		})
	}
}

func TestExportConfig(t *testing.T) {
	m := buildMapper(t)
	b := NewBuilder(m, 1)

	cfg := b.ExportConfig()
	if cfg.SystemPrompt != SystemPrompt {
		t.Error("export should carry the system prompt")
	}
	if len(cfg.SymbolMappings.Mappings) != len(m.Mappings()) {
		t.Errorf("export carries %d mappings, want %d", len(cfg.SymbolMappings.Mappings), len(m.Mappings()))
	}
}
