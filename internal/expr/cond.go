package expr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// condOps in match order; two-character operators first so "<=" is not read
// as "<". The contains operator only matches between spaces.
var condOps = []string{"==", "!=", "<=", ">=", " contains ", "<", ">"}

// Cond evaluates a condition form: the literals true and false, a bare
// $.path (exists and truthy), or <term> <op> <term> with
// == != < <= > >= contains. Terms are $.path queries, quoted strings,
// numbers, or bare words.
func Cond(form string, snap Snapshot) (bool, error) {
	form = strings.TrimSpace(form)
	switch form {
	case "":
		return false, fmt.Errorf("empty condition")
	case "true":
		return true, nil
	case "false":
		return false, nil
	}

	if op, lhs, rhs, ok := splitCond(form); ok {
		if lhs == "" || rhs == "" {
			return false, fmt.Errorf("bad condition %q", form)
		}
		return compare(op, lhs, rhs, snap)
	}

	if isQuery(form) {
		res, err := lookup(form, snap)
		if err != nil {
			return false, err
		}
		return res.Exists() && truthy(res), nil
	}

	return false, fmt.Errorf("bad condition %q", form)
}

// splitCond finds the first comparison operator outside quoted strings.
func splitCond(form string) (op, lhs, rhs string, ok bool) {
	inQuote := false
	for i := 0; i < len(form); i++ {
		if form[i] == '"' {
			inQuote = !inQuote
			continue
		}
		if inQuote {
			continue
		}
		for _, cand := range condOps {
			if strings.HasPrefix(form[i:], cand) {
				return strings.TrimSpace(cand),
					strings.TrimSpace(form[:i]),
					strings.TrimSpace(form[i+len(cand):]),
					true
			}
		}
	}
	return "", "", "", false
}

// term is one side of a comparison: its string value plus an optional
// numeric interpretation.
type term struct {
	str     string
	num     float64
	numeric bool
}

func resolveTerm(raw string, snap Snapshot) (term, error) {
	if isQuery(raw) {
		res, err := lookup(raw, snap)
		if err != nil {
			return term{}, err
		}
		if !res.Exists() {
			return term{}, fmt.Errorf("path %q not found in snapshot", raw)
		}
		if res.Type == gjson.Number {
			return term{str: res.String(), num: res.Num, numeric: true}, nil
		}
		return term{str: res.String()}, nil
	}
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		if unq, err := strconv.Unquote(raw); err == nil {
			return term{str: unq}, nil
		}
		return term{str: raw[1 : len(raw)-1]}, nil
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return term{str: raw, num: n, numeric: true}, nil
	}
	return term{str: raw}, nil
}

func compare(op, lhs, rhs string, snap Snapshot) (bool, error) {
	a, err := resolveTerm(lhs, snap)
	if err != nil {
		return false, err
	}
	b, err := resolveTerm(rhs, snap)
	if err != nil {
		return false, err
	}

	if op == "contains" {
		return strings.Contains(a.str, b.str), nil
	}

	// Compare numerically when both sides are numbers, lexically otherwise.
	if a.numeric && b.numeric {
		return compareNum(op, a.num, b.num)
	}
	return compareStr(op, a.str, b.str)
}

func compareNum(op string, a, b float64) (bool, error) {
	switch op {
	case "==":
		return a == b, nil
	case "!=":
		return a != b, nil
	case "<":
		return a < b, nil
	case "<=":
		return a <= b, nil
	case ">":
		return a > b, nil
	case ">=":
		return a >= b, nil
	}
	return false, fmt.Errorf("unknown operator %q", op)
}

func compareStr(op string, a, b string) (bool, error) {
	switch op {
	case "==":
		return a == b, nil
	case "!=":
		return a != b, nil
	case "<":
		return a < b, nil
	case "<=":
		return a <= b, nil
	case ">":
		return a > b, nil
	case ">=":
		return a >= b, nil
	}
	return false, fmt.Errorf("unknown operator %q", op)
}

// truthy follows the host-state reading of truth: false, null, zero and the
// empty string are false, everything else is true.
func truthy(res gjson.Result) bool {
	switch res.Type {
	case gjson.True:
		return true
	case gjson.False, gjson.Null:
		return false
	case gjson.Number:
		return res.Num != 0
	case gjson.String:
		return res.Str != ""
	default:
		return res.Raw != ""
	}
}
