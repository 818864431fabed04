package expression

import (
	"strings"

	"github.com/nmishr/flowgate/flow"
)

// EvaluateCondition decides whether a step should run. An empty condition is
// always true. A resolved boolean is used directly, a string is true unless
// empty or literally "false", any other non nil value is true, an unresolved
// or nil value is false.
func EvaluateCondition(condition string, ctx *flow.Context) bool {
	condition = strings.TrimSpace(condition)
	if len(condition) == 0 {
		return true
	}
	if inner, ok := wholeExpression(condition); ok {
		v, resolved := Evaluate(inner, ctx)
		if !resolved {
			return false
		}
		return truthy(v)
	}
	if strings.Contains(condition, "${") {
		return truthy(Interpolate(condition, ctx))
	}
	return truthy(condition)
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return len(val) > 0 && val != "false"
	default:
		return true
	}
}
