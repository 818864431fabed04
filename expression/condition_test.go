package expression

import (
	"testing"

	"github.com/nmishr/flowgate/flow"
	"github.com/nmishr/flowgate/model"
	"github.com/stretchr/testify/require"
)

func TestEvaluateCondition(t *testing.T) {
	ctx := flow.NewContext("session-1", map[string]any{
		"name":  "actor",
		"empty": "",
		"off":   "false",
	}, nil)
	ctx.AddStepResult(model.StepResult{StepId: "ok", IsSuccess: true, Result: "done"})
	ctx.AddStepResult(model.StepResult{StepId: "bad", IsSuccess: false})
	ctx.AddStepResult(model.StepResult{StepId: "num", IsSuccess: true, Result: 42})

	for scenario, tc := range map[string]struct {
		condition string
		expected  bool
	}{
		"empty condition always runs":      {"", true},
		"whitespace condition always runs": {"   ", true},
		"boolean true":                     {"${ok.success}", true},
		"boolean false":                    {"${bad.success}", false},
		"non empty string":                 {"${input.name}", true},
		"empty string":                     {"${input.empty}", false},
		"literal false string":             {"${input.off}", false},
		"unresolved is false":              {"${missing.result}", false},
		"plain literal":                    {"yes", true},
		"plain literal false":              {"false", false},
		"interpolated non empty":           {"name is ${input.name}", true},
		"non string result is true":        {"${num.result}", true},
	} {
		t.Run(scenario, func(t *testing.T) {
			require.Equal(t, tc.expected, EvaluateCondition(tc.condition, ctx))
		})
	}
}
