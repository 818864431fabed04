package engine

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/nmishr/flowgate/analytics"
	"github.com/nmishr/flowgate/expression"
	"github.com/nmishr/flowgate/flow"
	"github.com/nmishr/flowgate/gateway"
	"github.com/nmishr/flowgate/logger"
	"github.com/nmishr/flowgate/model"
	"go.uber.org/zap"
)

var discoverPattern = regexp.MustCompile(`^\$\{discover:(.+)\}$`)

// ExecuteWorkflow runs the definition's steps in order against the context,
// fail fast on the first step failure. It always returns a timed result,
// never an error: anything unexpected is folded into the result.
func (e *Engine) ExecuteWorkflow(ctx context.Context, wf *model.WorkflowDefinition, fctx *flow.Context) (result *model.WorkflowResult) {
	start := time.Now()
	result = &model.WorkflowResult{
		IsSuccess:   true,
		StepResults: make([]model.StepResult, 0, len(wf.Steps)),
	}
	defer func() {
		if r := recover(); r != nil {
			result.IsSuccess = false
			result.ErrorMessage = fmt.Sprintf("workflow execution failed: %v", r)
			logger.Error("workflow execution panicked", zap.String("workflow", wf.Id), zap.Any("panic", r))
		}
		result.ExecutionTime = time.Since(start)
		result.Metadata = map[string]any{
			"workflowId": wf.Id,
			"stepCount":  len(wf.Steps),
		}
		recordExecution(ctx, result)
	}()
	logger.Info("executing workflow", zap.String("workflow", wf.Id), zap.String("session", fctx.SessionId))

	for _, step := range wf.Steps {
		if !expression.EvaluateCondition(step.Condition, fctx) {
			skipped := model.StepResult{
				StepId:    step.Id,
				IsSuccess: true,
				Result:    "Skipped due to condition",
				Metadata:  map[string]any{"skipped": true},
			}
			result.StepResults = append(result.StepResults, skipped)
			fctx.AddStepResult(skipped)
			continue
		}
		stepResult := e.executeStep(ctx, wf, step, fctx)
		result.StepResults = append(result.StepResults, stepResult)
		fctx.AddStepResult(stepResult)
		if !stepResult.IsSuccess {
			result.IsSuccess = false
			result.ErrorMessage = fmt.Sprintf("Step '%s' failed: %s", step.Id, stepResult.ErrorMessage)
			break
		}
	}

	if result.IsSuccess {
		result.Outputs = resolveOutputs(wf.Outputs, fctx)
	}
	return result
}

// resolveOutputs resolves every output source against the final context.
// An unresolved source yields an empty value, never an error.
func resolveOutputs(outputs map[string]model.WorkflowOutput, fctx *flow.Context) map[string]any {
	resolved := make(map[string]any, len(outputs))
	for name, output := range outputs {
		value := expression.Resolve(output.Source, fctx)
		if s, ok := value.(string); ok && s == output.Source && expression.IsWholeExpression(s) {
			value = nil
		}
		resolved[name] = value
	}
	return resolved
}

func (e *Engine) executeStep(ctx context.Context, wf *model.WorkflowDefinition, step model.WorkflowStep, fctx *flow.Context) (stepResult model.StepResult) {
	start := time.Now()
	stepResult = model.StepResult{StepId: step.Id}
	defer func() {
		if r := recover(); r != nil {
			stepResult.IsSuccess = false
			stepResult.ErrorMessage = fmt.Sprintf("step execution panicked: %v", r)
		}
		stepResult.ExecutionTime = time.Since(start)
		if stepResult.IsSuccess {
			analytics.RecordStepSuccess(wf.Id, fctx.SessionId, step.Id, stepResult.Result)
		} else {
			analytics.RecordStepFailure(wf.Id, fctx.SessionId, step.Id, stepResult.ErrorMessage)
		}
	}()

	params := expression.ResolveParams(step.Parameters, fctx)

	var output any
	var err error
	switch step.Type {
	case model.STEP_TYPE_RPC_CALL:
		output, err = e.executeRpcCall(ctx, step, params)
	case model.STEP_TYPE_MODEL_USE:
		output, err = e.executeModelUse(ctx, step, params)
	case model.STEP_TYPE_DATA_TRANSFORM:
		output, err = applyTransform(params)
	default:
		err = fmt.Errorf("unknown step type %s", step.Type)
	}
	if err != nil {
		logger.Error("step failed", zap.String("workflow", wf.Id), zap.String("step", step.Id), zap.Error(err))
		stepResult.IsSuccess = false
		stepResult.ErrorMessage = err.Error()
		return stepResult
	}
	stepResult.IsSuccess = true
	stepResult.Result = output
	return stepResult
}

func (e *Engine) executeRpcCall(ctx context.Context, step model.WorkflowStep, params map[string]any) (any, error) {
	g, ok := e.GetGateway(step.Connector)
	if !ok {
		return nil, fmt.Errorf("Gateway not found: %s", step.Connector)
	}
	return gateway.CallAs[string](ctx, g, resolveOperation(step.Operation), params)
}

func (e *Engine) executeModelUse(ctx context.Context, step model.WorkflowStep, params map[string]any) (any, error) {
	g, ok := e.GetGateway(gateway.GATEWAY_ID_MODEL)
	if !ok {
		return nil, fmt.Errorf("Gateway not found: %s", gateway.GATEWAY_ID_MODEL)
	}
	return gateway.CallAs[string](ctx, g, resolveOperation(step.Operation), params)
}

// resolveOperation substitutes the dynamic discovery form
// "${discover:<name>}" with the literal tool name.
func resolveOperation(operation string) string {
	if m := discoverPattern.FindStringSubmatch(operation); m != nil {
		return m[1]
	}
	return operation
}
