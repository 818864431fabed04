package model

import "time"

// StepResult records the outcome of one step execution attempt. It is
// appended to WorkflowResult.StepResults in execution order and stored in the
// flow context keyed by StepId so later steps and outputs can reference it.
type StepResult struct {
	StepId        string         `json:"stepId"`
	IsSuccess     bool           `json:"isSuccess"`
	ErrorMessage  string         `json:"errorMessage,omitempty"`
	Result        any            `json:"result,omitempty"`
	ExecutionTime time.Duration  `json:"executionTime"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

type WorkflowResult struct {
	IsSuccess     bool           `json:"isSuccess"`
	ErrorMessage  string         `json:"errorMessage,omitempty"`
	Outputs       map[string]any `json:"outputs,omitempty"`
	StepResults   []StepResult   `json:"stepResults"`
	ExecutionTime time.Duration  `json:"executionTime"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}
