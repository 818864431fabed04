package gateway

import (
	"context"

	"github.com/nmishr/flowgate/model"
)

// ToolProxy is a cached shortcut for repeatedly invoking one operation of
// one gateway.
type ToolProxy struct {
	gateway    Gateway
	descriptor model.ToolDescriptor
}

func NewToolProxy(g Gateway, descriptor model.ToolDescriptor) *ToolProxy {
	return &ToolProxy{
		gateway:    g,
		descriptor: descriptor,
	}
}

func (p *ToolProxy) Name() string {
	return p.descriptor.Name
}

func (p *ToolProxy) Descriptor() model.ToolDescriptor {
	return p.descriptor
}

func (p *ToolProxy) Call(ctx context.Context, params map[string]any) (string, error) {
	return p.gateway.Call(ctx, p.descriptor.Name, params)
}
