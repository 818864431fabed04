package metadata

import (
	"fmt"
	"sync"

	"github.com/nmishr/flowgate/model"
)

type inMemoryWorkflowStorage struct {
	mu        sync.RWMutex
	workflows map[string]model.WorkflowDefinition
	order     []string
}

var _ WorkflowStorage = new(inMemoryWorkflowStorage)

func NewInMemoryWorkflowStorage() WorkflowStorage {
	return &inMemoryWorkflowStorage{
		workflows: make(map[string]model.WorkflowDefinition),
	}
}

func (s *inMemoryWorkflowStorage) SaveWorkflowDefinition(wf model.WorkflowDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workflows[wf.Id]; !ok {
		s.order = append(s.order, wf.Id)
	}
	s.workflows[wf.Id] = wf
	return nil
}

func (s *inMemoryWorkflowStorage) DeleteWorkflowDefinition(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workflows[id]; !ok {
		return fmt.Errorf("workflow definition %s not found", id)
	}
	delete(s.workflows, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *inMemoryWorkflowStorage) GetWorkflowDefinition(id string) (*model.WorkflowDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wf, ok := s.workflows[id]
	if !ok {
		return nil, fmt.Errorf("workflow definition %s not found", id)
	}
	return &wf, nil
}

func (s *inMemoryWorkflowStorage) ListWorkflowDefinitions() ([]*model.WorkflowDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	definitions := make([]*model.WorkflowDefinition, 0, len(s.order))
	for _, id := range s.order {
		wf := s.workflows[id]
		definitions = append(definitions, &wf)
	}
	return definitions, nil
}
