package flow

import (
	"github.com/nmishr/flowgate/model"
	"github.com/nmishr/flowgate/session"
)

// Context is the per invocation data flow state: the immutable input
// snapshot, accumulated step results, named variables and a handle to session
// scoped storage. It is created by the caller of the engine; the engine only
// reads and writes through it. One execution owns its Context, no locking.
type Context struct {
	SessionId       string
	InputParameters map[string]any
	GlobalVariables map[string]any
	StepResults     map[string]model.StepResult

	sessions session.Store
}

func NewContext(sessionId string, inputs map[string]any, sessions session.Store) *Context {
	snapshot := make(map[string]any, len(inputs))
	for k, v := range inputs {
		snapshot[k] = v
	}
	return &Context{
		SessionId:       sessionId,
		InputParameters: snapshot,
		GlobalVariables: make(map[string]any),
		StepResults:     make(map[string]model.StepResult),
		sessions:        sessions,
	}
}

func (c *Context) Input(name string) (any, bool) {
	v, ok := c.InputParameters[name]
	return v, ok
}

func (c *Context) StepResult(stepId string) (model.StepResult, bool) {
	r, ok := c.StepResults[stepId]
	return r, ok
}

func (c *Context) AddStepResult(result model.StepResult) {
	c.StepResults[result.StepId] = result
}

func (c *Context) SetVariable(name string, value any) {
	c.GlobalVariables[name] = value
}

func (c *Context) Variable(name string) (any, bool) {
	v, ok := c.GlobalVariables[name]
	return v, ok
}

// Session storage survives across invocations sharing the same session id.

func (c *Context) SessionPut(key string, value any) error {
	if c.sessions == nil {
		return nil
	}
	return c.sessions.Put(c.SessionId, key, value)
}

func (c *Context) SessionGet(key string) (any, bool, error) {
	if c.sessions == nil {
		return nil, false, nil
	}
	return c.sessions.Get(c.SessionId, key)
}

func (c *Context) ClearSession() error {
	if c.sessions == nil {
		return nil
	}
	return c.sessions.Clear(c.SessionId)
}
