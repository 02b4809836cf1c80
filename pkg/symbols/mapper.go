package symbols

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
)

// ErrInsufficientSymbols is returned when a mapping category is requested
// with more distinct tokens than the pool has unused glyphs.
var ErrInsufficientSymbols = errors.New("not enough unique symbols")

// MappingPair is a single standard-token to novel-glyph assignment
type MappingPair struct {
	Standard string `json:"standard"`
	Novel    string `json:"novel"`
}

// ExportedMapping is a plain snapshot of a mapper's state, suitable for
// persistence and later reconstruction via FromMapping.
type ExportedMapping struct {
	Seed            int64             `json:"seed"`
	Mappings        map[string]string `json:"mappings"`
	ReverseMappings map[string]string `json:"reverse_mappings"`
}

// Mapper holds a bijective mapping between standard mathematical tokens and
// novel Unicode glyphs. Assignments are immutable for the mapper's lifetime:
// once a glyph is consumed it is never reassigned, so the forward and reverse
// tables stay exact inverses of each other.
type Mapper struct {
	seed     int64
	rng      *rand.Rand
	mappings map[string]string
	reverse  map[string]string
	used     map[string]bool
	order    []string // standard tokens in assignment order
}

// NewMapper creates a mapper whose random glyph selection is driven entirely
// by the given seed. The same seed plus the same call sequence reproduces the
// same mapping.
func NewMapper(seed int64) *Mapper {
	return &Mapper{
		seed:     seed,
		rng:      rand.New(rand.NewSource(seed)),
		mappings: make(map[string]string),
		reverse:  make(map[string]string),
		used:     make(map[string]bool),
	}
}

// FromMapping reconstructs a mapper from a previously exported forward
// mapping table.
func FromMapping(mapping map[string]string, seed int64) *Mapper {
	m := NewMapper(seed)
	// Insert in a stable order so legend sampling stays deterministic.
	standards := make([]string, 0, len(mapping))
	for std := range mapping {
		standards = append(standards, std)
	}
	sort.Strings(standards)
	for _, std := range standards {
		novel := mapping[std]
		m.mappings[std] = novel
		m.reverse[novel] = std
		m.used[novel] = true
		m.order = append(m.order, std)
	}
	return m
}

// Seed returns the seed the mapper was constructed with
func (m *Mapper) Seed() int64 {
	return m.seed
}

// assign draws len(tokens) unused glyphs from pool and records both mapping
// directions. Token-to-glyph pairing follows sample order, not any semantic
// rule.
func (m *Mapper) assign(tokens []string, pool []string) (map[string]string, error) {
	available := make([]string, 0, len(pool))
	for _, sym := range pool {
		if !m.used[sym] {
			available = append(available, sym)
		}
	}
	if len(available) < len(tokens) {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientSymbols, len(tokens), len(available))
	}

	selected := sample(m.rng, available, len(tokens))
	result := make(map[string]string, len(tokens))
	for i, token := range tokens {
		sym := selected[i]
		m.mappings[token] = sym
		m.reverse[sym] = token
		m.used[sym] = true
		m.order = append(m.order, token)
		result[token] = sym
	}
	return result, nil
}

// CreateNumberMapping assigns a glyph to each number. A nil pool uses the
// default number pool.
func (m *Mapper) CreateNumberMapping(numbers []int, pool []string) (map[string]string, error) {
	if pool == nil {
		pool = NumberPool()
	}
	tokens := make([]string, len(numbers))
	for i, n := range numbers {
		tokens[i] = strconv.Itoa(n)
	}
	return m.assign(tokens, pool)
}

// CreateOperatorMapping assigns a glyph to each operator token. A nil pool
// uses the default operator pool.
func (m *Mapper) CreateOperatorMapping(operators []string, pool []string) (map[string]string, error) {
	if pool == nil {
		pool = OperatorPool()
	}
	return m.assign(operators, pool)
}

// CreateRelationMapping assigns a glyph to each relation token. A nil pool
// uses the default relation pool.
func (m *Mapper) CreateRelationMapping(relations []string, pool []string) (map[string]string, error) {
	if pool == nil {
		pool = RelationPool()
	}
	return m.assign(relations, pool)
}

// CreateVariableMapping assigns a glyph to each variable token. A nil pool
// uses the default variable pool.
func (m *Mapper) CreateVariableMapping(variables []string, pool []string) (map[string]string, error) {
	if pool == nil {
		pool = VariablePool()
	}
	return m.assign(variables, pool)
}

// CreateCompleteMapping builds mappings for every non-empty category in one
// call and returns a snapshot of the full forward table.
func (m *Mapper) CreateCompleteMapping(numbers []int, operators, relations, variables []string) (map[string]string, error) {
	if len(numbers) > 0 {
		if _, err := m.CreateNumberMapping(numbers, nil); err != nil {
			return nil, err
		}
	}
	if len(operators) > 0 {
		if _, err := m.CreateOperatorMapping(operators, nil); err != nil {
			return nil, err
		}
	}
	if len(relations) > 0 {
		if _, err := m.CreateRelationMapping(relations, nil); err != nil {
			return nil, err
		}
	}
	if len(variables) > 0 {
		if _, err := m.CreateVariableMapping(variables, nil); err != nil {
			return nil, err
		}
	}
	return m.Mappings(), nil
}

// TranslateExpression replaces every mapped standard token with its glyph in
// a single left-to-right sweep. Candidate tokens are ordered by descending
// length so multi-character tokens are matched before their substrings. This
// is a textual replace, not a tokenizer: a mapped token appearing inside an
// unrelated larger literal can still be rewritten.
func (m *Mapper) TranslateExpression(expression string) string {
	return substitute(expression, m.pairsByLength(false))
}

// ReverseTranslate is the symmetric inverse sweep, with the same substring
// caveats as TranslateExpression.
func (m *Mapper) ReverseTranslate(expression string) string {
	return substitute(expression, m.pairsByLength(true))
}

// MappingExamples returns up to n mapping pairs. When the mapper holds more
// than n assignments, the pairs are a uniform random sample without
// replacement; otherwise all pairs are returned in assignment order.
func (m *Mapper) MappingExamples(n int) []MappingPair {
	all := m.Pairs()
	if len(all) <= n {
		return all
	}
	idx := m.rng.Perm(len(all))[:n]
	out := make([]MappingPair, 0, n)
	for _, i := range idx {
		out = append(out, all[i])
	}
	return out
}

// Pairs returns every assignment in assignment order
func (m *Mapper) Pairs() []MappingPair {
	pairs := make([]MappingPair, 0, len(m.order))
	for _, std := range m.order {
		pairs = append(pairs, MappingPair{Standard: std, Novel: m.mappings[std]})
	}
	return pairs
}

// Mappings returns a copy of the forward mapping table
func (m *Mapper) Mappings() map[string]string {
	out := make(map[string]string, len(m.mappings))
	for k, v := range m.mappings {
		out[k] = v
	}
	return out
}

// ReverseMappings returns a copy of the reverse mapping table
func (m *Mapper) ReverseMappings() map[string]string {
	out := make(map[string]string, len(m.reverse))
	for k, v := range m.reverse {
		out[k] = v
	}
	return out
}

// StandardFor looks up the standard token assigned to a glyph
func (m *Mapper) StandardFor(novel string) (string, bool) {
	std, ok := m.reverse[novel]
	return std, ok
}

// Export returns a plain snapshot of the mapper for persistence
func (m *Mapper) Export() ExportedMapping {
	return ExportedMapping{
		Seed:            m.seed,
		Mappings:        m.Mappings(),
		ReverseMappings: m.ReverseMappings(),
	}
}

// pairsByLength returns the substitution pairs sorted by descending source
// length, ties keeping assignment order.
func (m *Mapper) pairsByLength(reversed bool) []MappingPair {
	pairs := m.Pairs()
	if reversed {
		for i, p := range pairs {
			pairs[i] = MappingPair{Standard: p.Novel, Novel: p.Standard}
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return len(pairs[i].Standard) > len(pairs[j].Standard)
	})
	return pairs
}

// substitute applies each pair's replacement over the whole string in order
func substitute(expression string, pairs []MappingPair) string {
	result := expression
	for _, p := range pairs {
		result = strings.ReplaceAll(result, p.Standard, p.Novel)
	}
	return result
}

// sample draws n distinct elements from items uniformly at random
func sample(rng *rand.Rand, items []string, n int) []string {
	idx := rng.Perm(len(items))[:n]
	out := make([]string, n)
	for i, j := range idx {
		out[i] = items[j]
	}
	return out
}
