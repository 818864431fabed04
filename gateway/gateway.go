package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nmishr/flowgate/model"
)

// Gateway is a uniform capability for invoking a named remote operation with
// a parameter map. Implementations front heterogeneous backends (the runtime
// tool router, a model backend, a local script evaluator) and are treated
// polymorphically by the engine.
//
// Gateways are long lived singletons shared by concurrent workflow
// executions; implementations must guard their internal caches.
type Gateway interface {
	Id() string
	// Call invokes the operation and returns the textual wire response.
	// The remote reporting a failure is a call error.
	Call(ctx context.Context, operation string, params map[string]any) (string, error)
	// DiscoverTools enumerates the currently invocable operations. A
	// discovery failure yields an empty set, never an error that would
	// abort the caller.
	DiscoverTools(ctx context.Context) []model.ToolDescriptor
	// CreateToolProxy returns a cached proxy bound to this gateway and
	// operation, discovering tools on a cache miss.
	CreateToolProxy(ctx context.Context, operation string) (*ToolProxy, error)
	// IsConnected is a best effort liveness probe, it never fails hard.
	IsConnected(ctx context.Context) bool
}

// CallAs invokes the operation and converts the textual response into T.
// A string T takes the wire text directly, any other T is decoded from JSON
// with a fallback to the raw text when T can hold it.
func CallAs[T any](ctx context.Context, g Gateway, operation string, params map[string]any) (T, error) {
	var out T
	raw, err := g.Call(ctx, operation, params)
	if err != nil {
		return out, err
	}
	if s, ok := any(&out).(*string); ok {
		*s = raw
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		if v, ok := any(&out).(*any); ok {
			*v = raw
			return out, nil
		}
		return out, fmt.Errorf("can not decode response of operation %s: %w", operation, err)
	}
	return out, nil
}
