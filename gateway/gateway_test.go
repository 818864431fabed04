package gateway

import (
	"context"
	"fmt"
	"testing"

	"github.com/nmishr/flowgate/model"
	"github.com/stretchr/testify/require"
)

type staticGateway struct {
	response string
	err      error
}

func (s *staticGateway) Id() string { return "static" }

func (s *staticGateway) Call(ctx context.Context, operation string, params map[string]any) (string, error) {
	return s.response, s.err
}

func (s *staticGateway) DiscoverTools(ctx context.Context) []model.ToolDescriptor {
	return nil
}

func (s *staticGateway) CreateToolProxy(ctx context.Context, operation string) (*ToolProxy, error) {
	return nil, fmt.Errorf("tool not found: %s", operation)
}

func (s *staticGateway) IsConnected(ctx context.Context) bool { return true }

func TestCallAsString(t *testing.T) {
	g := &staticGateway{response: "not json at all"}
	out, err := CallAs[string](context.Background(), g, "op", nil)
	require.NoError(t, err)
	require.Equal(t, "not json at all", out)
}

func TestCallAsDecoded(t *testing.T) {
	type payload struct {
		Count int    `json:"count"`
		Name  string `json:"name"`
	}
	g := &staticGateway{response: `{"count": 2, "name": "actors"}`}
	out, err := CallAs[payload](context.Background(), g, "op", nil)
	require.NoError(t, err)
	require.Equal(t, payload{Count: 2, Name: "actors"}, out)
}

func TestCallAsAnyFallback(t *testing.T) {
	g := &staticGateway{response: "plain text"}
	out, err := CallAs[any](context.Background(), g, "op", nil)
	require.NoError(t, err)
	require.Equal(t, "plain text", out)

	g.response = `[1, 2]`
	out, err = CallAs[any](context.Background(), g, "op", nil)
	require.NoError(t, err)
	require.Equal(t, []any{float64(1), float64(2)}, out)
}

func TestCallAsDecodeError(t *testing.T) {
	g := &staticGateway{response: "plain text"}
	type payload struct{ Count int }
	_, err := CallAs[payload](context.Background(), g, "op", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "can not decode response of operation op")
}

func TestCallAsPropagatesCallError(t *testing.T) {
	g := &staticGateway{err: fmt.Errorf("backend gone")}
	_, err := CallAs[string](context.Background(), g, "op", nil)
	require.Error(t, err)
	require.Equal(t, "backend gone", err.Error())
}
