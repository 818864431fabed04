package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nmishr/flowgate/logger"
	"github.com/nmishr/flowgate/model"
	"github.com/nmishr/flowgate/util"
	c "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const asyncQueueCapacity = 64
const asyncResultTTL = 10 * time.Minute

type executionJob struct {
	executionId string
	workflowId  string
	args        map[string]any
	sessionId   string
}

// asyncExecutor runs queued workflow executions on a background worker and
// keeps finished results for a short while.
type asyncExecutor struct {
	handler *WorkflowHandler
	worker  *util.Worker[executionJob]
	results *c.Cache
	wg      sync.WaitGroup
	started bool
	mu      sync.Mutex
}

func newAsyncExecutor(handler *WorkflowHandler) *asyncExecutor {
	a := &asyncExecutor{
		handler: handler,
		results: c.New(asyncResultTTL, 30*time.Minute),
	}
	a.worker = util.NewWorker("async-workflow-executor", &a.wg, a.execute, asyncQueueCapacity)
	return a
}

func (a *asyncExecutor) start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return
	}
	a.worker.Start()
	a.started = true
}

func (a *asyncExecutor) submit(workflowId string, args map[string]any, sessionId string) (string, error) {
	executionId := uuid.New().String()
	a.worker.Sender() <- executionJob{
		executionId: executionId,
		workflowId:  workflowId,
		args:        args,
		sessionId:   sessionId,
	}
	return executionId, nil
}

func (a *asyncExecutor) execute(job executionJob) error {
	result, err := a.handler.ExecuteWorkflow(context.Background(), job.workflowId, job.args, job.sessionId)
	if err != nil {
		logger.Error("async execution failed", zap.String("workflow", job.workflowId), zap.Error(err))
		result = &model.WorkflowResult{
			IsSuccess:    false,
			ErrorMessage: err.Error(),
		}
	}
	a.results.Set(job.executionId, result, c.DefaultExpiration)
	return nil
}

func (a *asyncExecutor) result(executionId string) (*model.WorkflowResult, bool) {
	if cached, found := a.results.Get(executionId); found {
		return cached.(*model.WorkflowResult), true
	}
	return nil, false
}

func (a *asyncExecutor) stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.started {
		return
	}
	a.worker.Stop()
	a.wg.Wait()
	a.started = false
}
