package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/nmishr/flowgate/flow"
	"github.com/nmishr/flowgate/gateway"
	"github.com/nmishr/flowgate/model"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	id         string
	response   string
	err        error
	operations []string
	params     []map[string]any
}

var _ gateway.Gateway = new(fakeGateway)

func (f *fakeGateway) Id() string {
	return f.id
}

func (f *fakeGateway) Call(ctx context.Context, operation string, params map[string]any) (string, error) {
	f.operations = append(f.operations, operation)
	f.params = append(f.params, params)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeGateway) DiscoverTools(ctx context.Context) []model.ToolDescriptor {
	return []model.ToolDescriptor{{Name: "spawn_actor"}}
}

func (f *fakeGateway) CreateToolProxy(ctx context.Context, operation string) (*gateway.ToolProxy, error) {
	return gateway.NewToolProxy(f, model.ToolDescriptor{Name: operation}), nil
}

func (f *fakeGateway) IsConnected(ctx context.Context) bool {
	return true
}

func newTestEngine(gateways ...gateway.Gateway) *Engine {
	e := NewEngine()
	for _, g := range gateways {
		e.RegisterGateway(g)
	}
	return e
}

func execute(e *Engine, wf *model.WorkflowDefinition, inputs map[string]any) *model.WorkflowResult {
	fctx := flow.NewContext("test-session", inputs, nil)
	return e.ExecuteWorkflow(context.Background(), wf, fctx)
}

func TestExecuteEmptyWorkflow(t *testing.T) {
	e := newTestEngine()
	wf := &model.WorkflowDefinition{
		Id:    "empty",
		Steps: []model.WorkflowStep{},
		Outputs: map[string]model.WorkflowOutput{
			"out": {Source: "${input.missing}"},
		},
	}
	result := execute(e, wf, nil)
	require.True(t, result.IsSuccess)
	require.Empty(t, result.StepResults)
	require.Contains(t, result.Outputs, "out")
	require.Nil(t, result.Outputs["out"])
	require.Equal(t, "empty", result.Metadata["workflowId"])
	require.Equal(t, 0, result.Metadata["stepCount"])
}

func TestDataTransformWorkflow(t *testing.T) {
	e := newTestEngine()
	wf := &model.WorkflowDefinition{
		Id: "transform",
		Steps: []model.WorkflowStep{
			{
				Id:   "a",
				Type: model.STEP_TYPE_DATA_TRANSFORM,
				Parameters: map[string]any{
					"data":      "HELLO",
					"transform": "to_lower",
				},
			},
		},
		Outputs: map[string]model.WorkflowOutput{
			"out": {Source: "${a.result}"},
		},
	}
	result := execute(e, wf, nil)
	require.True(t, result.IsSuccess)
	require.Len(t, result.StepResults, 1)
	require.Equal(t, "hello", result.StepResults[0].Result)
	require.Equal(t, "hello", result.Outputs["out"])
}

func TestConditionSkip(t *testing.T) {
	e := newTestEngine()
	wf := &model.WorkflowDefinition{
		Id: "conditional",
		Steps: []model.WorkflowStep{
			{
				Id:        "skipped",
				Type:      model.STEP_TYPE_DATA_TRANSFORM,
				Condition: "${input.run}",
				Parameters: map[string]any{
					"data":      "x",
					"transform": "to_upper",
				},
			},
			{
				Id:   "after",
				Type: model.STEP_TYPE_DATA_TRANSFORM,
				Parameters: map[string]any{
					"data":      "later",
					"transform": "to_upper",
				},
			},
		},
	}
	result := execute(e, wf, map[string]any{"run": false})
	require.True(t, result.IsSuccess)
	require.Len(t, result.StepResults, 2)
	require.True(t, result.StepResults[0].IsSuccess)
	require.Equal(t, true, result.StepResults[0].Metadata["skipped"])
	require.Equal(t, "Skipped due to condition", result.StepResults[0].Result)
	require.Equal(t, "LATER", result.StepResults[1].Result)
}

func TestFailFast(t *testing.T) {
	e := newTestEngine()
	wf := &model.WorkflowDefinition{
		Id: "failing",
		Steps: []model.WorkflowStep{
			{
				Id:   "step1",
				Type: model.STEP_TYPE_DATA_TRANSFORM,
				Parameters: map[string]any{
					"data": "fine",
				},
			},
			{
				Id:        "step2",
				Type:      model.STEP_TYPE_RPC_CALL,
				Connector: "missing",
				Operation: "anything",
			},
			{
				Id:   "step3",
				Type: model.STEP_TYPE_DATA_TRANSFORM,
				Parameters: map[string]any{
					"data": "never",
				},
			},
		},
	}
	result := execute(e, wf, nil)
	require.False(t, result.IsSuccess)
	require.Len(t, result.StepResults, 2)
	require.False(t, result.StepResults[1].IsSuccess)
	require.Contains(t, result.ErrorMessage, "step2")
	require.Contains(t, result.ErrorMessage, "Gateway not found")
	require.Nil(t, result.Outputs)
}

func TestRpcCallDispatch(t *testing.T) {
	g := &fakeGateway{id: "runtime", response: "spawned"}
	e := newTestEngine(g)
	wf := &model.WorkflowDefinition{
		Id: "rpc",
		Steps: []model.WorkflowStep{
			{
				Id:        "call",
				Type:      model.STEP_TYPE_RPC_CALL,
				Connector: "runtime",
				Operation: "${discover:spawn_actor}",
				Parameters: map[string]any{
					"name":  "hero-${input.n}",
					"count": "${input.count}",
				},
			},
		},
	}
	result := execute(e, wf, map[string]any{"n": "7", "count": 3})
	require.True(t, result.IsSuccess)
	require.Equal(t, []string{"spawn_actor"}, g.operations)
	require.Equal(t, "hero-7", g.params[0]["name"])
	require.Equal(t, 3, g.params[0]["count"])
	require.Equal(t, "spawned", result.StepResults[0].Result)
}

func TestModelUseDispatch(t *testing.T) {
	g := &fakeGateway{id: "model_use", response: "a tale"}
	e := newTestEngine(g)
	wf := &model.WorkflowDefinition{
		Id: "story",
		Steps: []model.WorkflowStep{
			{
				Id:        "gen",
				Type:      model.STEP_TYPE_MODEL_USE,
				Operation: "generate_text",
				Parameters: map[string]any{
					"prompt": "tell me about ${input.topic}",
				},
			},
		},
	}
	result := execute(e, wf, map[string]any{"topic": "dragons"})
	require.True(t, result.IsSuccess)
	require.Equal(t, "tell me about dragons", g.params[0]["prompt"])
	require.Equal(t, "a tale", result.StepResults[0].Result)

	missing := newTestEngine()
	result = execute(missing, wf, nil)
	require.False(t, result.IsSuccess)
	require.Contains(t, result.ErrorMessage, "Gateway not found")
}

func TestUnknownStepType(t *testing.T) {
	e := newTestEngine()
	wf := &model.WorkflowDefinition{
		Id: "bogus",
		Steps: []model.WorkflowStep{
			{Id: "weird", Type: model.StepType("teleport")},
		},
	}
	result := execute(e, wf, nil)
	require.False(t, result.IsSuccess)
	require.Contains(t, result.ErrorMessage, "unknown step type")
}

func TestStepResultExpressionAcrossSteps(t *testing.T) {
	g := &fakeGateway{id: "runtime", response: "ok"}
	e := newTestEngine(g)
	wf := &model.WorkflowDefinition{
		Id: "chained",
		Steps: []model.WorkflowStep{
			{
				Id:   "parse",
				Type: model.STEP_TYPE_DATA_TRANSFORM,
				Parameters: map[string]any{
					"data":      `{"answer": 42}`,
					"transform": "json_parse",
				},
			},
			{
				Id:        "consume",
				Type:      model.STEP_TYPE_RPC_CALL,
				Connector: "runtime",
				Operation: "use_data",
				Parameters: map[string]any{
					"typed":    "${parse.result}",
					"embedded": "got ${parse.success}",
				},
			},
		},
	}
	result := execute(e, wf, nil)
	require.True(t, result.IsSuccess)
	require.Equal(t, map[string]any{"answer": float64(42)}, g.params[0]["typed"])
	require.Equal(t, "got true", g.params[0]["embedded"])
}

func TestTransforms(t *testing.T) {
	for scenario, tc := range map[string]struct {
		params   map[string]any
		expected any
	}{
		"json_stringify": {map[string]any{"data": map[string]any{"a": 1}, "transform": "json_stringify"}, `{"a":1}`},
		"to_upper":       {map[string]any{"data": "abc", "transform": "to_upper"}, "ABC"},
		"json_path":      {map[string]any{"data": map[string]any{"a": map[string]any{"b": "deep"}}, "transform": "json_path", "path": "$.a.b"}, "deep"},
		"pass through":   {map[string]any{"data": "as-is", "transform": "unknown"}, "as-is"},
		"no transform":   {map[string]any{"data": 5}, 5},
	} {
		t.Run(scenario, func(t *testing.T) {
			out, err := applyTransform(tc.params)
			require.NoError(t, err)
			require.Equal(t, tc.expected, out)
		})
	}

	_, err := applyTransform(map[string]any{"data": "{bad", "transform": "json_parse"})
	require.Error(t, err)
}

func TestGetWorkflowPrefixFallback(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.RegisterWorkflow(&model.WorkflowDefinition{Id: "abc"}))

	wf, err := e.GetWorkflow("workflow_abc")
	require.NoError(t, err)
	require.Equal(t, "abc", wf.Id)

	wf, err = e.GetWorkflow("abc")
	require.NoError(t, err)
	require.Equal(t, "abc", wf.Id)

	_, err = e.GetWorkflow("workflow_zzz")
	require.Error(t, err)
}

func TestRegisterWorkflowValidation(t *testing.T) {
	e := newTestEngine()
	err := e.RegisterWorkflow(&model.WorkflowDefinition{
		Id: "dup",
		Steps: []model.WorkflowStep{
			{Id: "s", Type: model.STEP_TYPE_DATA_TRANSFORM},
			{Id: "s", Type: model.STEP_TYPE_DATA_TRANSFORM},
		},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate step id")

	err = e.RegisterWorkflow(&model.WorkflowDefinition{
		Id: "no-connector",
		Steps: []model.WorkflowStep{
			{Id: "s", Type: model.STEP_TYPE_RPC_CALL},
		},
	})
	require.Error(t, err)

	err = e.RegisterWorkflow(&model.WorkflowDefinition{Id: ""})
	require.Error(t, err)
}

func TestRegisterWorkflowUpsert(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.RegisterWorkflow(&model.WorkflowDefinition{Id: "wf", Name: "first"}))
	require.NoError(t, e.RegisterWorkflow(&model.WorkflowDefinition{Id: "wf", Name: "second"}))
	require.NoError(t, e.RegisterWorkflow(&model.WorkflowDefinition{Id: "other"}))

	workflows := e.GetAvailableWorkflows()
	require.Len(t, workflows, 2)
	require.Equal(t, "second", workflows[0].Name)
	require.Equal(t, "other", workflows[1].Id)
}

func TestRemoteErrorPropagates(t *testing.T) {
	g := &fakeGateway{id: "runtime", err: fmt.Errorf("backend unreachable")}
	e := newTestEngine(g)
	wf := &model.WorkflowDefinition{
		Id: "remote-fail",
		Steps: []model.WorkflowStep{
			{Id: "call", Type: model.STEP_TYPE_RPC_CALL, Connector: "runtime", Operation: "x"},
		},
	}
	result := execute(e, wf, nil)
	require.False(t, result.IsSuccess)
	require.Contains(t, result.StepResults[0].ErrorMessage, "backend unreachable")
	require.Contains(t, result.ErrorMessage, "Step 'call' failed")
}
