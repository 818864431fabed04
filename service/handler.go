package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/nmishr/flowgate/engine"
	"github.com/nmishr/flowgate/flow"
	"github.com/nmishr/flowgate/gateway"
	"github.com/nmishr/flowgate/logger"
	"github.com/nmishr/flowgate/metadata"
	"github.com/nmishr/flowgate/model"
	"github.com/nmishr/flowgate/session"
	"go.uber.org/zap"
)

// WorkflowHandler is the orchestration surface consumed by the protocol
// layer. Gateways are registered and stored definitions loaded lazily on the
// first call that needs them.
type WorkflowHandler struct {
	engine   *engine.Engine
	meta     metadata.MetadataService
	sessions session.Store
	gateways []gateway.Gateway

	initOnce    sync.Once
	initErr     error
	initialized bool

	async *asyncExecutor
}

func NewWorkflowHandler(eng *engine.Engine, meta metadata.MetadataService, sessions session.Store, gateways []gateway.Gateway) *WorkflowHandler {
	h := &WorkflowHandler{
		engine:   eng,
		meta:     meta,
		sessions: sessions,
		gateways: gateways,
	}
	h.async = newAsyncExecutor(h)
	return h
}

func (h *WorkflowHandler) ensureInitialized() error {
	h.initOnce.Do(func() {
		for _, g := range h.gateways {
			h.engine.RegisterGateway(g)
		}
		definitions, err := h.meta.GetWorkflowStorage().ListWorkflowDefinitions()
		if err != nil {
			h.initErr = fmt.Errorf("can not load workflow definitions: %w", err)
			return
		}
		for _, wf := range definitions {
			if err := h.engine.RegisterWorkflow(wf); err != nil {
				logger.Error("skipping invalid stored workflow", zap.String("workflow", wf.Id), zap.Error(err))
			}
		}
		h.async.start()
		h.initialized = true
		logger.Info("workflow handler initialized", zap.Int("workflows", len(definitions)), zap.Int("gateways", len(h.gateways)))
	})
	return h.initErr
}

func (h *WorkflowHandler) ListWorkflows() ([]*model.WorkflowDefinition, error) {
	if err := h.ensureInitialized(); err != nil {
		return nil, err
	}
	return h.engine.GetAvailableWorkflows(), nil
}

func (h *WorkflowHandler) HasWorkflow(id string) bool {
	if err := h.ensureInitialized(); err != nil {
		return false
	}
	return h.engine.HasWorkflow(id)
}

func (h *WorkflowHandler) GetWorkflow(id string) (*model.WorkflowDefinition, error) {
	if err := h.ensureInitialized(); err != nil {
		return nil, err
	}
	return h.engine.GetWorkflow(id)
}

// RegisterWorkflow validates the definition, persists it and makes it
// executable.
func (h *WorkflowHandler) RegisterWorkflow(wf model.WorkflowDefinition) error {
	if err := h.ensureInitialized(); err != nil {
		return err
	}
	if err := h.meta.RegisterWorkflow(wf); err != nil {
		return err
	}
	return h.engine.RegisterWorkflow(&wf)
}

// RegisterWorkflowDocument accepts a raw JSON workflow document.
func (h *WorkflowHandler) RegisterWorkflowDocument(doc []byte) (*model.WorkflowDefinition, error) {
	if err := h.ensureInitialized(); err != nil {
		return nil, err
	}
	wf, err := h.meta.RegisterWorkflowDocument(doc)
	if err != nil {
		return nil, err
	}
	if err := h.engine.RegisterWorkflow(wf); err != nil {
		return nil, err
	}
	return wf, nil
}

// ExecuteWorkflow runs the workflow synchronously. An empty session id gets
// a fresh one, a caller supplied id keeps session storage continuity across
// invocations.
func (h *WorkflowHandler) ExecuteWorkflow(ctx context.Context, id string, args map[string]any, sessionId string) (*model.WorkflowResult, error) {
	if err := h.ensureInitialized(); err != nil {
		return nil, err
	}
	wf, err := h.engine.GetWorkflow(id)
	if err != nil {
		return nil, err
	}
	if len(sessionId) == 0 {
		sessionId = uuid.New().String()
	}
	fctx := flow.NewContext(sessionId, args, h.sessions)
	return h.engine.ExecuteWorkflow(ctx, wf, fctx), nil
}

// ExecuteWorkflowAsync queues the workflow for background execution and
// returns an execution id the result can be fetched with later.
func (h *WorkflowHandler) ExecuteWorkflowAsync(id string, args map[string]any, sessionId string) (string, error) {
	if err := h.ensureInitialized(); err != nil {
		return "", err
	}
	if !h.engine.HasWorkflow(id) {
		return "", fmt.Errorf("workflow %s not found", id)
	}
	return h.async.submit(id, args, sessionId)
}

// GetExecutionResult returns the completed result of an async execution.
func (h *WorkflowHandler) GetExecutionResult(executionId string) (*model.WorkflowResult, bool) {
	return h.async.result(executionId)
}

func (h *WorkflowHandler) GetDiagnosticsInfo(ctx context.Context) map[string]any {
	initErr := h.ensureInitialized()
	workflows := h.engine.GetAvailableWorkflows()
	ids := make([]string, 0, len(workflows))
	for _, wf := range workflows {
		ids = append(ids, wf.Id)
	}
	gateways := make(map[string]any)
	for _, g := range h.engine.GetGateways() {
		gateways[g.Id()] = map[string]any{
			"connected": g.IsConnected(ctx),
			"toolCount": len(g.DiscoverTools(ctx)),
		}
	}
	return map[string]any{
		"workflowCount": len(workflows),
		"workflows":     ids,
		"gateways":      gateways,
		"initialized":   h.initialized && initErr == nil,
	}
}

func (h *WorkflowHandler) Stop() {
	h.async.stop()
}
