package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// mcpToolClient adapts an MCP client into the ToolClient contract the
// runtime gateway consumes.
type mcpToolClient struct {
	c *client.Client
}

var _ ToolClient = new(mcpToolClient)

func NewMcpToolClient(c *client.Client) ToolClient {
	return &mcpToolClient{c: c}
}

// DialRuntime connects to the runtime's MCP endpoint and performs the
// initialize handshake.
func DialRuntime(ctx context.Context, endpoint string) (ToolClient, error) {
	c, err := client.NewStreamableHttpClient(endpoint)
	if err != nil {
		return nil, fmt.Errorf("can not create runtime client: %w", err)
	}
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("can not start runtime client: %w", err)
	}
	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "flowgate",
		Version: "1.0.0",
	}
	if _, err := c.Initialize(ctx, initReq); err != nil {
		return nil, fmt.Errorf("runtime initialize failed: %w", err)
	}
	return NewMcpToolClient(c), nil
}

func (m *mcpToolClient) CallTool(ctx context.Context, name string, args map[string]any) (ToolResponse, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := m.c.CallTool(ctx, req)
	if err != nil {
		return ToolResponse{}, err
	}
	var sb strings.Builder
	for _, content := range res.Content {
		if text, ok := content.(mcp.TextContent); ok {
			sb.WriteString(text.Text)
		}
	}
	return ToolResponse{Content: sb.String(), IsError: res.IsError}, nil
}

func (m *mcpToolClient) ListTools(ctx context.Context) ([]ToolInfo, error) {
	res, err := m.c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, err
	}
	infos := make([]ToolInfo, 0, len(res.Tools))
	for _, tool := range res.Tools {
		info := ToolInfo{
			Name:        tool.Name,
			Description: tool.Description,
			Required:    tool.InputSchema.Required,
		}
		if len(tool.InputSchema.Properties) > 0 {
			info.InputSchema = make(map[string]any, len(tool.InputSchema.Properties))
			for k, v := range tool.InputSchema.Properties {
				info.InputSchema[k] = v
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (m *mcpToolClient) Ping(ctx context.Context) error {
	return m.c.Ping(ctx)
}
