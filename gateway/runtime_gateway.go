package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nmishr/flowgate/logger"
	"github.com/nmishr/flowgate/model"
	c "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const toolCacheKey = "tools"
const toolCacheTTL = 5 * time.Minute

// ToolResponse is the transport level outcome of one tool invocation.
type ToolResponse struct {
	Content string
	IsError bool
}

// ToolInfo is the transport level description of one invocable tool.
type ToolInfo struct {
	Name        string
	Description string
	InputSchema map[string]any
	Required    []string
}

// ToolClient is the runtime tool routing collaborator: call a tool by name
// with an argument map, list all tools, probe the connection.
type ToolClient interface {
	CallTool(ctx context.Context, name string, args map[string]any) (ToolResponse, error)
	ListTools(ctx context.Context) ([]ToolInfo, error)
	Ping(ctx context.Context) error
}

// runtimeGateway fronts the runtime's tool call protocol. The discovered
// tool list is cached for five minutes, tool proxies are cached without
// expiry. Both caches see concurrent access from in flight executions.
type runtimeGateway struct {
	id      string
	client  ToolClient
	tools   *c.Cache
	proxies *c.Cache
}

var _ Gateway = new(runtimeGateway)

func NewRuntimeGateway(id string, client ToolClient) Gateway {
	return newRuntimeGatewayWithTTL(id, client, toolCacheTTL)
}

func newRuntimeGatewayWithTTL(id string, client ToolClient, ttl time.Duration) *runtimeGateway {
	return &runtimeGateway{
		id:      id,
		client:  client,
		tools:   c.New(ttl, 10*time.Minute),
		proxies: c.New(c.NoExpiration, 10*time.Minute),
	}
}

func (g *runtimeGateway) Id() string {
	return g.id
}

func (g *runtimeGateway) Call(ctx context.Context, operation string, params map[string]any) (string, error) {
	resp, err := g.client.CallTool(ctx, operation, params)
	if err != nil {
		return "", fmt.Errorf("call to operation %s failed: %w", operation, err)
	}
	if resp.IsError {
		return "", errors.New(resp.Content)
	}
	return resp.Content, nil
}

func (g *runtimeGateway) DiscoverTools(ctx context.Context) []model.ToolDescriptor {
	if cached, found := g.tools.Get(toolCacheKey); found {
		return cached.([]model.ToolDescriptor)
	}
	infos, err := g.client.ListTools(ctx)
	if err != nil {
		logger.Warn("tool discovery failed", zap.String("gateway", g.id), zap.Error(err))
		return []model.ToolDescriptor{}
	}
	descriptors := make([]model.ToolDescriptor, 0, len(infos))
	for _, info := range infos {
		descriptors = append(descriptors, toDescriptor(info))
	}
	g.tools.Set(toolCacheKey, descriptors, c.DefaultExpiration)
	return descriptors
}

func toDescriptor(info ToolInfo) model.ToolDescriptor {
	required := make(map[string]bool, len(info.Required))
	for _, name := range info.Required {
		required[name] = true
	}
	params := make([]model.ToolParameter, 0, len(info.InputSchema))
	for name, raw := range info.InputSchema {
		param := model.ToolParameter{
			Name:     name,
			Type:     "string",
			Required: required[name],
		}
		if schema, ok := raw.(map[string]any); ok {
			if t, ok := schema["type"].(string); ok {
				param.Type = t
			}
			if d, ok := schema["description"].(string); ok {
				param.Description = d
			}
		}
		params = append(params, param)
	}
	return model.ToolDescriptor{
		Name:        info.Name,
		Description: info.Description,
		Parameters:  params,
		ReturnType:  "string",
		Metadata:    map[string]string{"source": "runtime"},
	}
}

func (g *runtimeGateway) CreateToolProxy(ctx context.Context, operation string) (*ToolProxy, error) {
	if cached, found := g.proxies.Get(operation); found {
		return cached.(*ToolProxy), nil
	}
	for _, descriptor := range g.DiscoverTools(ctx) {
		if descriptor.Name == operation {
			proxy := NewToolProxy(g, descriptor)
			g.proxies.Set(operation, proxy, c.NoExpiration)
			return proxy, nil
		}
	}
	return nil, fmt.Errorf("tool not found: %s", operation)
}

func (g *runtimeGateway) IsConnected(ctx context.Context) (connected bool) {
	defer func() {
		if r := recover(); r != nil {
			connected = false
		}
	}()
	return g.client.Ping(ctx) == nil
}
