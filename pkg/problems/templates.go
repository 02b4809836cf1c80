package problems

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/ysarda/symboval/pkg/symbols"
	"github.com/ysarda/symboval/pkg/types"
)

// Template produces problems for a single mathematical principle
type Template interface {
	// Principle returns the principle this template exercises
	Principle() types.Principle

	// Generate synthesizes one problem at the given difficulty, drawing all
	// randomness from rng. A nil mapper leaves the novel notation equal to
	// the standard notation.
	Generate(rng *rand.Rand, difficulty types.Difficulty, mapper *symbols.Mapper) types.Problem
}

// randRange returns a uniform integer in [min, max]
func randRange(rng *rand.Rand, min, max int) int {
	return min + rng.Intn(max-min+1)
}

// render fills in the notation fields, translating through the mapper when
// one is supplied.
func render(question, answer string, principle types.Principle, difficulty types.Difficulty,
	requiresReasoning bool, metadata map[string]interface{}, mapper *symbols.Mapper) types.Problem {

	novel := question
	if mapper != nil {
		novel = mapper.TranslateExpression(question)
	}
	return types.Problem{
		Question:          question,
		Answer:            answer,
		Principle:         principle,
		Difficulty:        difficulty,
		RequiresReasoning: requiresReasoning,
		StandardNotation:  question,
		NovelNotation:     novel,
		Metadata:          metadata,
	}
}

// CommutativityTemplate phrases problems as "if A op B = C, then B op A = ?"
// so that swapping operand order cannot change the answer.
type CommutativityTemplate struct{}

// Principle returns the commutativity principle
func (CommutativityTemplate) Principle() types.Principle { return types.PrincipleCommutativity }

// Generate synthesizes a commutativity problem
func (CommutativityTemplate) Generate(rng *rand.Rand, difficulty types.Difficulty, mapper *symbols.Mapper) types.Problem {
	var a, b int
	switch difficulty {
	case types.DifficultyEasy:
		a, b = randRange(rng, 1, 10), randRange(rng, 1, 10)
	case types.DifficultyMedium:
		a, b = randRange(rng, 10, 50), randRange(rng, 10, 50)
	default:
		a, b = randRange(rng, 50, 200), randRange(rng, 50, 200)
	}
	op := []string{"+", "*"}[rng.Intn(2)]
	answer := a + b
	if op == "*" {
		answer = a * b
	}
	question := fmt.Sprintf("If %d %s %d = C, then %d %s %d = ?", a, op, b, b, op, a)
	return render(question, strconv.Itoa(answer), types.PrincipleCommutativity, difficulty, true,
		map[string]interface{}{"a": a, "b": b, "operator": op}, mapper)
}

// AssociativityTemplate combines three operands with one operator, grouping
// made explicit with parentheses.
type AssociativityTemplate struct{}

// Principle returns the associativity principle
func (AssociativityTemplate) Principle() types.Principle { return types.PrincipleAssociativity }

// Generate synthesizes an associativity problem
func (AssociativityTemplate) Generate(rng *rand.Rand, difficulty types.Difficulty, mapper *symbols.Mapper) types.Problem {
	var a, b, c int
	switch difficulty {
	case types.DifficultyEasy:
		a, b, c = randRange(rng, 1, 10), randRange(rng, 1, 10), randRange(rng, 1, 10)
	case types.DifficultyMedium:
		a, b, c = randRange(rng, 10, 30), randRange(rng, 10, 30), randRange(rng, 10, 30)
	default:
		a, b, c = randRange(rng, 30, 100), randRange(rng, 30, 100), randRange(rng, 30, 100)
	}
	op := []string{"+", "*"}[rng.Intn(2)]
	answer := a + b + c
	if op == "*" {
		answer = a * b * c
	}
	question := fmt.Sprintf("(%d %s %d) %s %d = ?", a, op, b, op, c)
	return render(question, strconv.Itoa(answer), types.PrincipleAssociativity, difficulty, true,
		map[string]interface{}{"a": a, "b": b, "c": c, "operator": op}, mapper)
}

// DistributivityTemplate always produces the shape a * (b + c)
type DistributivityTemplate struct{}

// Principle returns the distributivity principle
func (DistributivityTemplate) Principle() types.Principle { return types.PrincipleDistributivity }

// Generate synthesizes a distributivity problem
func (DistributivityTemplate) Generate(rng *rand.Rand, difficulty types.Difficulty, mapper *symbols.Mapper) types.Problem {
	var a, b, c int
	switch difficulty {
	case types.DifficultyEasy:
		a, b, c = randRange(rng, 2, 5), randRange(rng, 1, 10), randRange(rng, 1, 10)
	case types.DifficultyMedium:
		a, b, c = randRange(rng, 2, 10), randRange(rng, 5, 20), randRange(rng, 5, 20)
	default:
		a, b, c = randRange(rng, 5, 20), randRange(rng, 10, 50), randRange(rng, 10, 50)
	}
	answer := a * (b + c)
	question := fmt.Sprintf("%d * (%d + %d) = ?", a, b, c)
	return render(question, strconv.Itoa(answer), types.PrincipleDistributivity, difficulty, true,
		map[string]interface{}{"a": a, "b": b, "c": c}, mapper)
}

// BasicArithmeticTemplate produces a single binary operation from + - * /.
// Division at easy difficulty constructs operands so the quotient is exact;
// at medium and hard it uses truncating integer division.
type BasicArithmeticTemplate struct{}

// Principle returns the basic arithmetic principle
func (BasicArithmeticTemplate) Principle() types.Principle { return types.PrincipleBasicArithmetic }

// Generate synthesizes a basic arithmetic problem
func (BasicArithmeticTemplate) Generate(rng *rand.Rand, difficulty types.Difficulty, mapper *symbols.Mapper) types.Problem {
	var a, b int
	switch difficulty {
	case types.DifficultyEasy:
		a, b = randRange(rng, 1, 20), randRange(rng, 1, 20)
	case types.DifficultyMedium:
		a, b = randRange(rng, 10, 100), randRange(rng, 10, 100)
	default:
		a, b = randRange(rng, 50, 500), randRange(rng, 50, 500)
	}
	op := []string{"+", "-", "*", "/"}[rng.Intn(4)]

	var answer int
	switch op {
	case "+":
		answer = a + b
	case "-":
		answer = a - b
	case "*":
		answer = a * b
	default:
		if difficulty == types.DifficultyEasy {
			b = randRange(rng, 1, 10)
			a = b * randRange(rng, 1, 10)
		}
		answer = a / b
	}
	question := fmt.Sprintf("%d %s %d = ?", a, op, b)
	return render(question, strconv.Itoa(answer), types.PrincipleBasicArithmetic, difficulty, false,
		map[string]interface{}{"a": a, "b": b, "operator": op}, mapper)
}

// MultiStepTemplate chains 2 (medium) or 3 (hard and easy) operators across
// random operands, evaluated strictly left to right with no operator
// precedence.
type MultiStepTemplate struct{}

// Principle returns the multi-step principle
func (MultiStepTemplate) Principle() types.Principle { return types.PrincipleMultiStep }

// Generate synthesizes a multi-step problem
func (MultiStepTemplate) Generate(rng *rand.Rand, difficulty types.Difficulty, mapper *symbols.Mapper) types.Problem {
	numOps := 3
	if difficulty == types.DifficultyMedium {
		numOps = 2
	}

	numbers := make([]int, numOps+1)
	for i := range numbers {
		if difficulty == types.DifficultyMedium {
			numbers[i] = randRange(rng, 1, 20)
		} else {
			numbers[i] = randRange(rng, 5, 50)
		}
	}
	ops := make([]string, numOps)
	for i := range ops {
		ops[i] = []string{"+", "-", "*"}[rng.Intn(3)]
	}

	var expr strings.Builder
	expr.WriteString(strconv.Itoa(numbers[0]))
	result := numbers[0]
	for i, op := range ops {
		fmt.Fprintf(&expr, " %s %d", op, numbers[i+1])
		switch op {
		case "+":
			result += numbers[i+1]
		case "-":
			result -= numbers[i+1]
		default:
			result *= numbers[i+1]
		}
	}
	question := expr.String() + " = ?"

	meta := map[string]interface{}{
		"numbers":   intsToInterfaces(numbers),
		"operators": stringsToInterfaces(ops),
	}
	return render(question, strconv.Itoa(result), types.PrincipleMultiStep, difficulty, true, meta, mapper)
}

// IdentityTemplate applies the additive or multiplicative identity, placing
// the identity element before or after the operand at random.
type IdentityTemplate struct{}

// Principle returns the identity principle
func (IdentityTemplate) Principle() types.Principle { return types.PrincipleIdentity }

// Generate synthesizes an identity problem
func (IdentityTemplate) Generate(rng *rand.Rand, difficulty types.Difficulty, mapper *symbols.Mapper) types.Problem {
	a := randRange(rng, 1, 100)

	identityType := "additive"
	op, identity := "+", 0
	if rng.Intn(2) == 1 {
		identityType = "multiplicative"
		op, identity = "*", 1
	}

	var question string
	if rng.Intn(2) == 0 {
		question = fmt.Sprintf("%d %s %d = ?", a, op, identity)
	} else {
		question = fmt.Sprintf("%d %s %d = ?", identity, op, a)
	}
	return render(question, strconv.Itoa(a), types.PrincipleIdentity, difficulty, true,
		map[string]interface{}{"a": a, "identity_type": identityType}, mapper)
}

func intsToInterfaces(xs []int) []interface{} {
	out := make([]interface{}, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}

func stringsToInterfaces(xs []string) []interface{} {
	out := make([]interface{}, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}
