package metadata

import "github.com/nmishr/flowgate/model"

type WorkflowStorage interface {
	SaveWorkflowDefinition(wf model.WorkflowDefinition) error
	DeleteWorkflowDefinition(id string) error
	GetWorkflowDefinition(id string) (*model.WorkflowDefinition, error)
	ListWorkflowDefinitions() ([]*model.WorkflowDefinition, error)
}
