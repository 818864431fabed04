package gateway

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeToolClient struct {
	tools     []ToolInfo
	listCalls int
	listErr   error
	response  ToolResponse
	callErr   error
	pingErr   error
	pingPanic bool
}

func (f *fakeToolClient) CallTool(ctx context.Context, name string, args map[string]any) (ToolResponse, error) {
	if f.callErr != nil {
		return ToolResponse{}, f.callErr
	}
	return f.response, nil
}

func (f *fakeToolClient) ListTools(ctx context.Context) ([]ToolInfo, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.tools, nil
}

func (f *fakeToolClient) Ping(ctx context.Context) error {
	if f.pingPanic {
		panic("connection torn down")
	}
	return f.pingErr
}

func TestRuntimeGatewayCall(t *testing.T) {
	client := &fakeToolClient{response: ToolResponse{Content: "done"}}
	g := NewRuntimeGateway("runtime", client)

	out, err := g.Call(context.Background(), "spawn_actor", map[string]any{"name": "x"})
	require.NoError(t, err)
	require.Equal(t, "done", out)

	client.response = ToolResponse{Content: "actor limit reached", IsError: true}
	_, err = g.Call(context.Background(), "spawn_actor", nil)
	require.Error(t, err)
	require.Equal(t, "actor limit reached", err.Error())

	client.callErr = fmt.Errorf("connection reset")
	_, err = g.Call(context.Background(), "spawn_actor", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "call to operation spawn_actor failed")
}

func TestRuntimeGatewayDiscoveryCaching(t *testing.T) {
	client := &fakeToolClient{
		tools: []ToolInfo{
			{
				Name:        "spawn_actor",
				Description: "spawn a named actor",
				InputSchema: map[string]any{
					"name":  map[string]any{"type": "string", "description": "actor name"},
					"count": map[string]any{"type": "number"},
				},
				Required: []string{"name"},
			},
		},
	}
	g := newRuntimeGatewayWithTTL("runtime", client, 50*time.Millisecond)

	tools := g.DiscoverTools(context.Background())
	require.Len(t, tools, 1)
	require.Equal(t, "spawn_actor", tools[0].Name)
	require.Equal(t, "runtime", tools[0].Metadata["source"])
	require.Len(t, tools[0].Parameters, 2)
	for _, p := range tools[0].Parameters {
		switch p.Name {
		case "name":
			require.True(t, p.Required)
			require.Equal(t, "string", p.Type)
			require.Equal(t, "actor name", p.Description)
		case "count":
			require.False(t, p.Required)
			require.Equal(t, "number", p.Type)
		default:
			t.Fatalf("unexpected parameter %s", p.Name)
		}
	}

	g.DiscoverTools(context.Background())
	g.DiscoverTools(context.Background())
	require.Equal(t, 1, client.listCalls)

	time.Sleep(80 * time.Millisecond)
	g.DiscoverTools(context.Background())
	require.Equal(t, 2, client.listCalls)
}

func TestRuntimeGatewayDiscoveryFailure(t *testing.T) {
	client := &fakeToolClient{listErr: fmt.Errorf("listing unavailable")}
	g := NewRuntimeGateway("runtime", client)

	tools := g.DiscoverTools(context.Background())
	require.NotNil(t, tools)
	require.Empty(t, tools)
}

func TestRuntimeGatewayToolProxy(t *testing.T) {
	client := &fakeToolClient{
		tools:    []ToolInfo{{Name: "spawn_actor"}},
		response: ToolResponse{Content: "ok"},
	}
	g := NewRuntimeGateway("runtime", client)

	proxy, err := g.CreateToolProxy(context.Background(), "spawn_actor")
	require.NoError(t, err)
	require.Equal(t, "spawn_actor", proxy.Name())

	again, err := g.CreateToolProxy(context.Background(), "spawn_actor")
	require.NoError(t, err)
	require.Same(t, proxy, again)

	out, err := proxy.Call(context.Background(), map[string]any{"name": "x"})
	require.NoError(t, err)
	require.Equal(t, "ok", out)

	_, err = g.CreateToolProxy(context.Background(), "no_such_tool")
	require.Error(t, err)
	require.Contains(t, err.Error(), "tool not found")
}

func TestRuntimeGatewayIsConnected(t *testing.T) {
	client := &fakeToolClient{}
	g := NewRuntimeGateway("runtime", client)
	require.True(t, g.IsConnected(context.Background()))

	client.pingErr = fmt.Errorf("unreachable")
	require.False(t, g.IsConnected(context.Background()))

	client.pingErr = nil
	client.pingPanic = true
	require.False(t, g.IsConnected(context.Background()))
}
