package problems

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"

	"github.com/ysarda/symboval/pkg/types"
)

// Verify re-checks a problem's recorded answer against an independent
// evaluation of the operands and operators stored in its metadata. The
// expression is rebuilt fully parenthesized so left-to-right semantics
// survive govaluate's operator precedence. Division is floored to match the
// integer division the templates use.
func Verify(p types.Problem) (bool, error) {
	expr, floored, err := verificationExpression(p)
	if err != nil {
		return false, err
	}

	evaluable, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return false, fmt.Errorf("build verification expression %q: %w", expr, err)
	}
	value, err := evaluable.Evaluate(nil)
	if err != nil {
		return false, fmt.Errorf("evaluate verification expression %q: %w", expr, err)
	}
	got, ok := value.(float64)
	if !ok {
		return false, fmt.Errorf("verification expression %q yielded %T, want number", expr, value)
	}
	if floored {
		got = math.Floor(got)
	}

	want, err := strconv.ParseFloat(p.Answer, 64)
	if err != nil {
		return false, fmt.Errorf("parse recorded answer %q: %w", p.Answer, err)
	}
	return math.Abs(got-want) < 1e-9, nil
}

// verificationExpression rebuilds the arithmetic expression a problem's
// metadata describes. The boolean reports whether the result must be floored.
func verificationExpression(p types.Problem) (string, bool, error) {
	meta := p.Metadata

	switch p.Principle {
	case types.PrincipleBasicArithmetic:
		a, b, err := metaOperands(meta, "a", "b")
		if err != nil {
			return "", false, err
		}
		op, err := metaString(meta, "operator")
		if err != nil {
			return "", false, err
		}
		return fmt.Sprintf("%d %s %d", a, op, b), op == "/", nil

	case types.PrincipleCommutativity:
		// Swapped operand order must reproduce the recorded answer.
		a, b, err := metaOperands(meta, "a", "b")
		if err != nil {
			return "", false, err
		}
		op, err := metaString(meta, "operator")
		if err != nil {
			return "", false, err
		}
		return fmt.Sprintf("%d %s %d", b, op, a), false, nil

	case types.PrincipleAssociativity:
		a, b, err := metaOperands(meta, "a", "b")
		if err != nil {
			return "", false, err
		}
		c, err := metaInt(meta, "c")
		if err != nil {
			return "", false, err
		}
		op, err := metaString(meta, "operator")
		if err != nil {
			return "", false, err
		}
		return fmt.Sprintf("(%d %s %d) %s %d", a, op, b, op, c), false, nil

	case types.PrincipleDistributivity:
		a, b, err := metaOperands(meta, "a", "b")
		if err != nil {
			return "", false, err
		}
		c, err := metaInt(meta, "c")
		if err != nil {
			return "", false, err
		}
		return fmt.Sprintf("%d * (%d + %d)", a, b, c), false, nil

	case types.PrincipleIdentity:
		a, err := metaInt(meta, "a")
		if err != nil {
			return "", false, err
		}
		identityType, err := metaString(meta, "identity_type")
		if err != nil {
			return "", false, err
		}
		if identityType == "multiplicative" {
			return fmt.Sprintf("%d * 1", a), false, nil
		}
		return fmt.Sprintf("%d + 0", a), false, nil

	case types.PrincipleMultiStep:
		numbers, err := metaInts(meta, "numbers")
		if err != nil {
			return "", false, err
		}
		operators, err := metaStrings(meta, "operators")
		if err != nil {
			return "", false, err
		}
		if len(numbers) != len(operators)+1 {
			return "", false, fmt.Errorf("multi_step metadata has %d numbers for %d operators", len(numbers), len(operators))
		}
		// Left-parenthesize so left-to-right order is preserved.
		expr := strconv.Itoa(numbers[0])
		for i, op := range operators {
			expr = fmt.Sprintf("(%s %s %d)", expr, op, numbers[i+1])
		}
		return expr, false, nil

	default:
		return "", false, fmt.Errorf("cannot verify principle %q from metadata", p.Principle)
	}
}

func metaOperands(meta map[string]interface{}, aKey, bKey string) (int, int, error) {
	a, err := metaInt(meta, aKey)
	if err != nil {
		return 0, 0, err
	}
	b, err := metaInt(meta, bKey)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// metaInt reads an integer metadata value, accepting the float64 form that
// JSON round-trips produce.
func metaInt(meta map[string]interface{}, key string) (int, error) {
	v, ok := meta[key]
	if !ok {
		return 0, fmt.Errorf("metadata missing %q", key)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("metadata %q is %T, want integer", key, v)
	}
}

func metaString(meta map[string]interface{}, key string) (string, error) {
	v, ok := meta[key]
	if !ok {
		return "", fmt.Errorf("metadata missing %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("metadata %q is %T, want string", key, v)
	}
	return s, nil
}

func metaInts(meta map[string]interface{}, key string) ([]int, error) {
	v, ok := meta[key]
	if !ok {
		return nil, fmt.Errorf("metadata missing %q", key)
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("metadata %q is %T, want array", key, v)
	}
	out := make([]int, len(items))
	for i, item := range items {
		switch n := item.(type) {
		case int:
			out[i] = n
		case float64:
			out[i] = int(n)
		default:
			return nil, fmt.Errorf("metadata %q[%d] is %T, want integer", key, i, item)
		}
	}
	return out, nil
}

func metaStrings(meta map[string]interface{}, key string) ([]string, error) {
	v, ok := meta[key]
	if !ok {
		return nil, fmt.Errorf("metadata missing %q", key)
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("metadata %q is %T, want array", key, v)
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("metadata %q[%d] is %T, want string", key, i, item)
		}
		out[i] = strings.TrimSpace(s)
	}
	return out, nil
}
