package engine

import (
	"context"

	"github.com/nmishr/flowgate/model"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
)

var (
	MWorkflowExecutions = stats.Int64("flowgate/workflow_executions", "number of workflow executions", stats.UnitDimensionless)
	MWorkflowFailures   = stats.Int64("flowgate/workflow_failures", "number of failed workflow executions", stats.UnitDimensionless)
	MWorkflowLatencyMs  = stats.Float64("flowgate/workflow_latency", "workflow execution latency", stats.UnitMilliseconds)
)

var ExecutionViews = []*view.View{
	{
		Name:        "flowgate/workflow_executions",
		Measure:     MWorkflowExecutions,
		Description: "number of workflow executions",
		Aggregation: view.Count(),
	},
	{
		Name:        "flowgate/workflow_failures",
		Measure:     MWorkflowFailures,
		Description: "number of failed workflow executions",
		Aggregation: view.Count(),
	},
	{
		Name:        "flowgate/workflow_latency",
		Measure:     MWorkflowLatencyMs,
		Description: "workflow execution latency",
		Aggregation: view.Distribution(1, 5, 10, 50, 100, 500, 1000, 5000, 30000),
	},
}

func RegisterViews() error {
	return view.Register(ExecutionViews...)
}

func recordExecution(ctx context.Context, result *model.WorkflowResult) {
	measurements := []stats.Measurement{
		MWorkflowExecutions.M(1),
		MWorkflowLatencyMs.M(float64(result.ExecutionTime.Milliseconds())),
	}
	if !result.IsSuccess {
		measurements = append(measurements, MWorkflowFailures.M(1))
	}
	stats.Record(ctx, measurements...)
}
