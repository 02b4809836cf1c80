package problems

import (
	"encoding/json"
	"testing"

	"github.com/ysarda/symboval/pkg/types"
)

func TestVerify_GeneratedProblems(t *testing.T) {
	g := NewGenerator(17)
	difficulties := []types.Difficulty{types.DifficultyEasy, types.DifficultyMedium, types.DifficultyHard}

	for _, principle := range g.Principles() {
		// multi_step at easy difficulty matches hard's shape, so all three
		// difficulties are valid for every registered template.
		for _, difficulty := range difficulties {
			for i := 0; i < 20; i++ {
				p, err := g.GenerateProblem(principle, difficulty, nil)
				if err != nil {
					t.Fatalf("GenerateProblem(%s, %s) failed: %v", principle, difficulty, err)
				}
				ok, err := Verify(p)
				if err != nil {
					t.Fatalf("Verify(%s %s %q) failed: %v", principle, difficulty, p.Question, err)
				}
				if !ok {
					t.Errorf("Verify rejected %s problem %q with answer %q", principle, p.Question, p.Answer)
				}
			}
		}
	}
}

func TestVerify_AfterJSONRoundTrip(t *testing.T) {
	// Metadata integers come back as float64 after a JSON round trip;
	// verification must still work on loaded problems.
	g := NewGenerator(23)
	p, err := g.GenerateProblem(types.PrincipleMultiStep, types.DifficultyHard, nil)
	if err != nil {
		t.Fatalf("GenerateProblem failed: %v", err)
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal problem: %v", err)
	}
	var loaded types.Problem
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("unmarshal problem: %v", err)
	}

	ok, err := Verify(loaded)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !ok {
		t.Errorf("Verify rejected round-tripped problem %q", loaded.Question)
	}
}

func TestVerify_DetectsWrongAnswer(t *testing.T) {
	p := types.Problem{
		Question:   "3 * (4 + 5) = ?",
		Answer:     "28",
		Principle:  types.PrincipleDistributivity,
		Difficulty: types.DifficultyEasy,
		Metadata:   map[string]interface{}{"a": 3, "b": 4, "c": 5},
	}
	ok, err := Verify(p)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if ok {
		t.Error("Verify accepted an incorrect answer")
	}
}

func TestVerify_UnsupportedPrinciple(t *testing.T) {
	p := types.Problem{
		Principle: types.PrincipleTransitivity,
		Answer:    "1",
		Metadata:  map[string]interface{}{},
	}
	if _, err := Verify(p); err == nil {
		t.Error("expected an error for a principle without metadata support")
	}
}
