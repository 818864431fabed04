package engine

import (
	"fmt"

	"github.com/nmishr/flowgate/model"
)

// ValidateWorkflow checks the structural invariants a definition must hold
// before registration. Duplicate step ids are rejected here so a later step
// can not silently shadow an earlier result in the context map.
func ValidateWorkflow(wf *model.WorkflowDefinition) error {
	if len(wf.Id) == 0 {
		return fmt.Errorf("workflow id can not be empty")
	}
	seen := make(map[string]bool, len(wf.Steps))
	for _, step := range wf.Steps {
		if len(step.Id) == 0 {
			return fmt.Errorf("workflow %s: step id can not be empty", wf.Id)
		}
		if seen[step.Id] {
			return fmt.Errorf("workflow %s: duplicate step id %s", wf.Id, step.Id)
		}
		seen[step.Id] = true
		switch step.Type {
		case model.STEP_TYPE_RPC_CALL:
			if len(step.Connector) == 0 {
				return fmt.Errorf("workflow %s: step %s requires a connector", wf.Id, step.Id)
			}
		case model.STEP_TYPE_MODEL_USE, model.STEP_TYPE_DATA_TRANSFORM:
		default:
			return fmt.Errorf("workflow %s: step %s has unknown type %s", wf.Id, step.Id, step.Type)
		}
	}
	return nil
}
