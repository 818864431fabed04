package engine

import (
	"fmt"
	"strings"
	"sync"

	"github.com/nmishr/flowgate/gateway"
	"github.com/nmishr/flowgate/logger"
	"github.com/nmishr/flowgate/model"
	"go.uber.org/zap"
)

const workflowIdPrefix = "workflow_"

// Engine owns the workflow and gateway registries and executes workflow
// definitions step by step. Registries are read heavy after startup but may
// be written concurrently with in flight executions, both are mutex guarded.
type Engine struct {
	mu        sync.RWMutex
	workflows map[string]*model.WorkflowDefinition
	order     []string

	gmu      sync.RWMutex
	gateways map[string]gateway.Gateway
}

func NewEngine() *Engine {
	return &Engine{
		workflows: make(map[string]*model.WorkflowDefinition),
		gateways:  make(map[string]gateway.Gateway),
	}
}

// RegisterGateway upserts by gateway id, last write wins.
func (e *Engine) RegisterGateway(g gateway.Gateway) {
	e.gmu.Lock()
	defer e.gmu.Unlock()
	logger.Info("registering gateway", zap.String("gateway", g.Id()))
	e.gateways[g.Id()] = g
}

func (e *Engine) GetGateway(id string) (gateway.Gateway, bool) {
	e.gmu.RLock()
	defer e.gmu.RUnlock()
	g, ok := e.gateways[id]
	return g, ok
}

func (e *Engine) GetGateways() []gateway.Gateway {
	e.gmu.RLock()
	defer e.gmu.RUnlock()
	gateways := make([]gateway.Gateway, 0, len(e.gateways))
	for _, g := range e.gateways {
		gateways = append(gateways, g)
	}
	return gateways
}

// RegisterWorkflow validates the definition and upserts it by id.
func (e *Engine) RegisterWorkflow(wf *model.WorkflowDefinition) error {
	if err := ValidateWorkflow(wf); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.workflows[wf.Id]; !ok {
		e.order = append(e.order, wf.Id)
	}
	e.workflows[wf.Id] = wf
	logger.Info("registered workflow", zap.String("workflow", wf.Id), zap.Int("steps", len(wf.Steps)))
	return nil
}

// GetWorkflow looks up by exact id. Callers that prefix ids with
// "workflow_" are accommodated by retrying with the prefix stripped.
func (e *Engine) GetWorkflow(id string) (*model.WorkflowDefinition, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	wf, ok := e.workflows[id]
	if !ok && strings.HasPrefix(id, workflowIdPrefix) {
		wf, ok = e.workflows[strings.TrimPrefix(id, workflowIdPrefix)]
	}
	if !ok {
		return nil, fmt.Errorf("workflow %s not found", id)
	}
	return wf, nil
}

func (e *Engine) HasWorkflow(id string) bool {
	_, err := e.GetWorkflow(id)
	return err == nil
}

func (e *Engine) GetAvailableWorkflows() []*model.WorkflowDefinition {
	e.mu.RLock()
	defer e.mu.RUnlock()
	workflows := make([]*model.WorkflowDefinition, 0, len(e.order))
	for _, id := range e.order {
		workflows = append(workflows, e.workflows[id])
	}
	return workflows
}
