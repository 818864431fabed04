package model

type StepType string

const STEP_TYPE_RPC_CALL StepType = "rpc_call"
const STEP_TYPE_MODEL_USE StepType = "model_use"
const STEP_TYPE_DATA_TRANSFORM StepType = "data_transform"

// WorkflowDefinition is the immutable description of a workflow. It is
// created at registration time and never mutated during execution;
// re-registering with the same Id replaces it.
type WorkflowDefinition struct {
	Id          string                    `json:"id"`
	Name        string                    `json:"name"`
	Description string                    `json:"description,omitempty"`
	Version     string                    `json:"version,omitempty"`
	Author      string                    `json:"author,omitempty"`
	Metadata    *WorkflowMetadata         `json:"metadata,omitempty"`
	Parameters  []WorkflowParameter       `json:"parameters,omitempty"`
	Steps       []WorkflowStep            `json:"steps"`
	Outputs     map[string]WorkflowOutput `json:"outputs,omitempty"`
}

type WorkflowMetadata struct {
	Category        string   `json:"category,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	RequiredRuntime string   `json:"requiredRuntime,omitempty"`
	RequiredPlugins []string `json:"requiredPlugins,omitempty"`
}

type WorkflowParameter struct {
	Name         string           `json:"name"`
	Type         string           `json:"type"`
	Description  string           `json:"description,omitempty"`
	Required     bool             `json:"required"`
	DefaultValue any              `json:"defaultValue,omitempty"`
	Validation   []ValidationRule `json:"validation,omitempty"`
}

type ValidationRule struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params,omitempty"`
}

type WorkflowStep struct {
	Id         string         `json:"id"`
	Type       StepType       `json:"type"`
	Connector  string         `json:"connector,omitempty"`
	Operation  string         `json:"operation,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Condition  string         `json:"condition,omitempty"`
	// RetryPolicy and TimeoutSeconds are carried for schema compatibility,
	// the executor does not consult them.
	RetryPolicy    *RetryPolicy `json:"retryPolicy,omitempty"`
	TimeoutSeconds int          `json:"timeoutSeconds,omitempty"`
}

type RetryPolicy struct {
	MaxAttempts  int    `json:"maxAttempts"`
	DelaySeconds int    `json:"delaySeconds"`
	Backoff      string `json:"backoff,omitempty"`
}

type WorkflowOutput struct {
	Source      string `json:"source"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}
