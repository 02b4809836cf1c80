package types

// Principle identifies the mathematical property a problem is designed to probe
type Principle string

const (
	PrincipleCommutativity   Principle = "commutativity"
	PrincipleAssociativity   Principle = "associativity"
	PrincipleDistributivity  Principle = "distributivity"
	PrincipleIdentity        Principle = "identity"
	PrincipleInverse         Principle = "inverse"
	PrincipleTransitivity    Principle = "transitivity"
	PrincipleBasicArithmetic Principle = "basic_arithmetic"
	PrincipleMultiStep       Principle = "multi_step"
)

// Principles lists every declared principle, including those without a
// registered problem template
var Principles = []Principle{
	PrincipleCommutativity,
	PrincipleAssociativity,
	PrincipleDistributivity,
	PrincipleIdentity,
	PrincipleInverse,
	PrincipleTransitivity,
	PrincipleBasicArithmetic,
	PrincipleMultiStep,
}

// Difficulty controls operand magnitude ranges in problem templates
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Problem is a single generated or converted evaluation item. It is a value
// object: created once by a template or converter and never mutated afterward.
type Problem struct {
	Question          string                 `json:"question"`
	Answer            string                 `json:"answer"`
	Principle         Principle              `json:"principle"`
	Difficulty        Difficulty             `json:"difficulty"`
	RequiresReasoning bool                   `json:"requires_reasoning"`
	StandardNotation  string                 `json:"standard_notation"`
	NovelNotation     string                 `json:"novel_notation"`
	Metadata          map[string]interface{} `json:"metadata"`
}

// Message represents a chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
