package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ysarda/symboval/pkg/symbols"
	"github.com/ysarda/symboval/pkg/types"
)

var (
	operatorRe = regexp.MustCompile(`[+\-*/]`)
	numberRe   = regexp.MustCompile(`\d+`)
)

// Converter normalizes externally sourced question/answer records into the
// same Problem shape the generator produces, inferring principle, difficulty,
// and reasoning requirement heuristically from the text. The inference rules
// are best-effort classification, not guaranteed-correct labeling.
type Converter struct {
	mapper *symbols.Mapper
	logger *slog.Logger
}

// NewConverter creates a converter. A nil mapper leaves the novel notation
// equal to the source text.
func NewConverter(mapper *symbols.Mapper) *Converter {
	return &Converter{
		mapper: mapper,
		logger: slog.Default().With("component", "dataset"),
	}
}

// ParseRecord converts one DeepMind-Mathematics-style record into a Problem.
// The record must carry non-empty "question" and "answer" fields; "module"
// is optional and drives principle inference.
func (c *Converter) ParseRecord(record map[string]interface{}) (types.Problem, error) {
	question := stringField(record, "question")
	answer := stringField(record, "answer")
	if question == "" || answer == "" {
		return types.Problem{}, fmt.Errorf("record missing question or answer")
	}
	module := stringField(record, "module")
	if module == "" {
		module = "unknown"
	}

	novel := question
	if c.mapper != nil {
		novel = c.mapper.TranslateExpression(question)
	}

	return types.Problem{
		Question:          question,
		Answer:            answer,
		Principle:         inferPrinciple(module),
		Difficulty:        inferDifficulty(question),
		RequiresReasoning: requiresReasoning(question, module),
		StandardNotation:  question,
		NovelNotation:     novel,
		Metadata: map[string]interface{}{
			"source":        "deepmind_mathematics",
			"module":        module,
			"original_data": record,
		},
	}, nil
}

// LoadDataset reads a dataset file into Problems. Files ending in .jsonl are
// treated as newline-delimited JSON; anything else must be a JSON array or an
// object with a "problems" key. maxProblems caps the result when positive and
// filterModules keeps only records whose module contains one of the given
// substrings. Malformed records are skipped with a warning; a missing file
// yields an empty result with a warning rather than an error.
func (c *Converter) LoadDataset(path string, maxProblems int, filterModules []string) []types.Problem {
	f, err := os.Open(path)
	if err != nil {
		c.logger.Warn("dataset file not found", "path", path, "error", err)
		return nil
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		return c.loadJSONL(f, maxProblems, filterModules)
	}
	return c.loadJSON(f, path, maxProblems, filterModules)
}

func (c *Converter) loadJSONL(f *os.File, maxProblems int, filterModules []string) []types.Problem {
	var problems []types.Problem
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if maxProblems > 0 && len(problems) >= maxProblems {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var record map[string]interface{}
		if err := json.Unmarshal([]byte(text), &record); err != nil {
			c.logger.Warn("skipping malformed record", "line", line, "error", err)
			continue
		}
		if !moduleAllowed(record, filterModules) {
			continue
		}
		problem, err := c.ParseRecord(record)
		if err != nil {
			c.logger.Warn("skipping record", "line", line, "error", err)
			continue
		}
		problems = append(problems, problem)
	}
	if err := scanner.Err(); err != nil {
		c.logger.Warn("dataset read interrupted", "error", err)
	}
	return problems
}

func (c *Converter) loadJSON(f *os.File, path string, maxProblems int, filterModules []string) []types.Problem {
	var records []map[string]interface{}
	if err := json.NewDecoder(f).Decode(&records); err != nil {
		// Retry as an object holding a "problems" array.
		if _, serr := f.Seek(0, 0); serr != nil {
			c.logger.Warn("failed to load dataset", "path", path, "error", err)
			return nil
		}
		var wrapper struct {
			Problems []map[string]interface{} `json:"problems"`
		}
		if err := json.NewDecoder(f).Decode(&wrapper); err != nil {
			c.logger.Warn("failed to load dataset", "path", path, "error", err)
			return nil
		}
		records = wrapper.Problems
	}

	var problems []types.Problem
	for i, record := range records {
		if maxProblems > 0 && len(problems) >= maxProblems {
			break
		}
		if !moduleAllowed(record, filterModules) {
			continue
		}
		problem, err := c.ParseRecord(record)
		if err != nil {
			c.logger.Warn("skipping record", "index", i, "error", err)
			continue
		}
		problems = append(problems, problem)
	}
	return problems
}

// ConvertCustom converts ad hoc records, reading the question and answer from
// the given keys. Records missing either field are skipped. Every converted
// problem is labeled basic_arithmetic; difficulty and reasoning are inferred
// from the question text.
func (c *Converter) ConvertCustom(records []map[string]interface{}, questionKey, answerKey string) []types.Problem {
	if questionKey == "" {
		questionKey = "question"
	}
	if answerKey == "" {
		answerKey = "answer"
	}

	var problems []types.Problem
	for _, record := range records {
		question := stringField(record, questionKey)
		answer := stringField(record, answerKey)
		if question == "" || answer == "" {
			continue
		}
		novel := question
		if c.mapper != nil {
			novel = c.mapper.TranslateExpression(question)
		}
		problems = append(problems, types.Problem{
			Question:          question,
			Answer:            answer,
			Principle:         types.PrincipleBasicArithmetic,
			Difficulty:        inferDifficulty(question),
			RequiresReasoning: requiresReasoning(question, ""),
			StandardNotation:  question,
			NovelNotation:     novel,
			Metadata: map[string]interface{}{
				"source":        "custom",
				"original_data": record,
			},
		})
	}
	return problems
}

// ExportProblems writes the full problem set as a pretty-printed JSON array
func (c *Converter) ExportProblems(problems []types.Problem, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	data, err := json.MarshalIndent(problems, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal problems: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write problems: %w", err)
	}
	c.logger.Info("exported problems", "count", len(problems), "path", path)
	return nil
}

// parallelRecord is one entry of a parallel-dataset file
type parallelRecord struct {
	Question   string                 `json:"question"`
	Answer     string                 `json:"answer"`
	Principle  types.Principle        `json:"principle"`
	Difficulty types.Difficulty       `json:"difficulty"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// CreateParallelDatasets writes two side-by-side dataset files under dir:
// dataset_standard.json in standard notation and dataset_novel.json in novel
// notation, with the novel answers re-translated through the mapper. It
// returns the two file paths.
func (c *Converter) CreateParallelDatasets(problems []types.Problem, dir string) (string, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create output directory: %w", err)
	}

	standard := make([]parallelRecord, 0, len(problems))
	novel := make([]parallelRecord, 0, len(problems))
	for _, p := range problems {
		standard = append(standard, parallelRecord{
			Question:   p.StandardNotation,
			Answer:     p.Answer,
			Principle:  p.Principle,
			Difficulty: p.Difficulty,
			Metadata:   p.Metadata,
		})
		answer := p.Answer
		if c.mapper != nil {
			answer = c.mapper.TranslateExpression(answer)
		}
		novel = append(novel, parallelRecord{
			Question:   p.NovelNotation,
			Answer:     answer,
			Principle:  p.Principle,
			Difficulty: p.Difficulty,
			Metadata:   p.Metadata,
		})
	}

	standardPath := filepath.Join(dir, "dataset_standard.json")
	novelPath := filepath.Join(dir, "dataset_novel.json")
	if err := writeJSON(standardPath, standard); err != nil {
		return "", "", err
	}
	if err := writeJSON(novelPath, novel); err != nil {
		return "", "", err
	}
	c.logger.Info("created parallel datasets", "dir", dir, "count", len(problems))
	return standardPath, novelPath, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// moduleAllowed reports whether a record's module matches any filter
// substring. Empty filters allow everything.
func moduleAllowed(record map[string]interface{}, filters []string) bool {
	if len(filters) == 0 {
		return true
	}
	module := strings.ToLower(stringField(record, "module"))
	for _, f := range filters {
		if strings.Contains(module, strings.ToLower(f)) {
			return true
		}
	}
	return false
}

// inferPrinciple maps a free-text module label onto a principle by substring
func inferPrinciple(module string) types.Principle {
	m := strings.ToLower(module)
	switch {
	case strings.Contains(m, "arithmetic"), strings.Contains(m, "add"), strings.Contains(m, "mul"):
		return types.PrincipleBasicArithmetic
	case strings.Contains(m, "algebra"):
		return types.PrincipleMultiStep
	case strings.Contains(m, "comparison"):
		return types.PrincipleTransitivity
	default:
		return types.PrincipleBasicArithmetic
	}
}

// inferDifficulty classifies a question by operator count and largest number
func inferDifficulty(question string) types.Difficulty {
	numOps := len(operatorRe.FindAllString(question, -1))
	maxNumber := 0
	for _, digits := range numberRe.FindAllString(question, -1) {
		if n, err := strconv.Atoi(digits); err == nil && n > maxNumber {
			maxNumber = n
		}
	}
	switch {
	case numOps <= 1 && maxNumber < 20:
		return types.DifficultyEasy
	case numOps <= 2 && maxNumber < 100:
		return types.DifficultyMedium
	default:
		return types.DifficultyHard
	}
}

// requiresReasoning reports whether a question likely needs multi-step work
func requiresReasoning(question, module string) bool {
	q := strings.ToLower(question)
	if strings.Contains(q, "if") || strings.Contains(q, "then") {
		return true
	}
	if len(operatorRe.FindAllString(question, -1)) > 1 {
		return true
	}
	m := strings.ToLower(module)
	for _, keyword := range []string{"algebra", "calculus", "polynomials"} {
		if strings.Contains(m, keyword) {
			return true
		}
	}
	return false
}

// stringField reads a record field as its textual form; numbers are rendered
// without a trailing ".0" so integer answers keep their exact text.
func stringField(record map[string]interface{}, key string) string {
	v, ok := record[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
