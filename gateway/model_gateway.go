package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nmishr/flowgate/model"
	c "github.com/patrickmn/go-cache"
)

// GATEWAY_ID_MODEL is the fixed registry id model_use steps dispatch to.
const GATEWAY_ID_MODEL = "model_use"

type ModelRequestType string

const MODEL_REQUEST_TEXT ModelRequestType = "text"
const MODEL_REQUEST_VISION ModelRequestType = "vision"
const MODEL_REQUEST_CODE ModelRequestType = "code"

type ModelRequest struct {
	Type        ModelRequestType
	Prompt      string
	ImageData   string
	CodeContext string
	Parameters  map[string]any
}

type ModelResponse struct {
	Success      bool
	Content      string
	ErrorMessage string
}

// ModelClient is the model request collaborator behind the model gateway.
type ModelClient interface {
	Send(ctx context.Context, req ModelRequest) (ModelResponse, error)
}

var modelOperations = map[string]ModelRequestType{
	"generate_text":  MODEL_REQUEST_TEXT,
	"analyze_vision": MODEL_REQUEST_VISION,
	"generate_code":  MODEL_REQUEST_CODE,
}

// modelGateway exposes a small fixed set of operations backed by the model
// request protocol. It has no external dependency to probe, so it always
// reports connected, and its tool list is static.
type modelGateway struct {
	id      string
	client  ModelClient
	proxies *c.Cache
}

var _ Gateway = new(modelGateway)

func NewModelGateway(client ModelClient) Gateway {
	return &modelGateway{
		id:      GATEWAY_ID_MODEL,
		client:  client,
		proxies: c.New(c.NoExpiration, 10*time.Minute),
	}
}

func (g *modelGateway) Id() string {
	return g.id
}

func (g *modelGateway) Call(ctx context.Context, operation string, params map[string]any) (string, error) {
	reqType, ok := modelOperations[operation]
	if !ok {
		return "", fmt.Errorf("unknown model operation %s", operation)
	}
	req := ModelRequest{
		Type:       reqType,
		Parameters: make(map[string]any),
	}
	for k, v := range params {
		switch k {
		case "prompt":
			req.Prompt = fmt.Sprintf("%v", v)
		case "image_data":
			req.ImageData = fmt.Sprintf("%v", v)
		case "code_context":
			req.CodeContext = fmt.Sprintf("%v", v)
		default:
			req.Parameters[k] = v
		}
	}
	resp, err := g.client.Send(ctx, req)
	if err != nil {
		return "", fmt.Errorf("call to operation %s failed: %w", operation, err)
	}
	if !resp.Success {
		return "", errors.New(resp.ErrorMessage)
	}
	return resp.Content, nil
}

func (g *modelGateway) DiscoverTools(ctx context.Context) []model.ToolDescriptor {
	return []model.ToolDescriptor{
		{
			Name:        "generate_text",
			Description: "Generate text from a prompt",
			Parameters: []model.ToolParameter{
				{Name: "prompt", Type: "string", Required: true},
			},
			ReturnType: "string",
			Metadata:   map[string]string{"source": "model"},
		},
		{
			Name:        "analyze_vision",
			Description: "Analyze an image with an optional prompt",
			Parameters: []model.ToolParameter{
				{Name: "prompt", Type: "string", Required: false},
				{Name: "image_data", Type: "string", Required: true},
			},
			ReturnType: "string",
			Metadata:   map[string]string{"source": "model"},
		},
		{
			Name:        "generate_code",
			Description: "Generate code from a prompt and optional context",
			Parameters: []model.ToolParameter{
				{Name: "prompt", Type: "string", Required: true},
				{Name: "code_context", Type: "string", Required: false},
			},
			ReturnType: "string",
			Metadata:   map[string]string{"source": "model"},
		},
	}
}

func (g *modelGateway) CreateToolProxy(ctx context.Context, operation string) (*ToolProxy, error) {
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

func (g *modelGateway) IsConnected(ctx context.Context) bool {
	return true
}
