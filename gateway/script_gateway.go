package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dop251/goja"
	"github.com/nmishr/flowgate/model"
	c "github.com/patrickmn/go-cache"
)

// GATEWAY_ID_SCRIPT is the registry id of the local script gateway.
const GATEWAY_ID_SCRIPT = "script"

// scriptGateway evaluates javascript locally. The step parameters minus the
// expression are bound to $ inside the script, the script's final value is
// returned as JSON text.
type scriptGateway struct {
	id      string
	proxies *c.Cache
}

var _ Gateway = new(scriptGateway)

func NewScriptGateway() Gateway {
	return &scriptGateway{
		id:      GATEWAY_ID_SCRIPT,
		proxies: c.New(c.NoExpiration, 10*time.Minute),
	}
}

func (g *scriptGateway) Id() string {
	return g.id
}

func (g *scriptGateway) Call(ctx context.Context, operation string, params map[string]any) (string, error) {
	if operation != "evaluate" {
		return "", fmt.Errorf("unknown script operation %s", operation)
	}
	expression, ok := params["expression"].(string)
	if !ok || len(expression) == 0 {
		return "", fmt.Errorf("script expression can not be empty")
	}
	scope := make(map[string]any, len(params))
	for k, v := range params {
		if k != "expression" {
			scope[k] = v
		}
	}
	data, err := json.Marshal(scope)
	if err != nil {
		return "", err
	}
	vm := goja.New()
	script := fmt.Sprintf("var $ = %s;\n%s", data, expression)
	val, err := vm.RunString(script)
	if err != nil {
		return "", fmt.Errorf("error executing javascript %w", err)
	}
	res, err := json.Marshal(val.Export())
	if err != nil {
		return "", err
	}
	return string(res), nil
}

func (g *scriptGateway) DiscoverTools(ctx context.Context) []model.ToolDescriptor {
	return []model.ToolDescriptor{
		{
			Name:        "evaluate",
			Description: "Evaluate a javascript expression against the step parameters",
			Parameters: []model.ToolParameter{
				{Name: "expression", Type: "string", Required: true},
			},
			ReturnType: "string",
			Metadata:   map[string]string{"source": "script"},
		},
	}
}

func (g *scriptGateway) CreateToolProxy(ctx context.Context, operation string) (*ToolProxy, error) {
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

func (g *scriptGateway) IsConnected(ctx context.Context) bool {
	return true
}
