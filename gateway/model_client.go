package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// httpModelClient posts model requests to a local backend endpoint speaking
// a plain JSON request/response protocol.
type httpModelClient struct {
	endpoint string
	model    string
	client   *http.Client
}

var _ ModelClient = new(httpModelClient)

func NewHttpModelClient(endpoint string, model string) ModelClient {
	return &httpModelClient{
		endpoint: endpoint,
		model:    model,
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

type modelWireRequest struct {
	Type        string         `json:"type"`
	Model       string         `json:"model,omitempty"`
	Prompt      string         `json:"prompt"`
	ImageData   string         `json:"imageData,omitempty"`
	CodeContext string         `json:"codeContext,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type modelWireResponse struct {
	Success      bool   `json:"success"`
	Content      string `json:"content"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

func (m *httpModelClient) Send(ctx context.Context, req ModelRequest) (ModelResponse, error) {
	body, err := json.Marshal(modelWireRequest{
		Type:        string(req.Type),
		Model:       m.model,
		Prompt:      req.Prompt,
		ImageData:   req.ImageData,
		CodeContext: req.CodeContext,
		Parameters:  req.Parameters,
	})
	if err != nil {
		return ModelResponse{}, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return ModelResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpResp, err := m.client.Do(httpReq)
	if err != nil {
		return ModelResponse{}, err
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return ModelResponse{}, fmt.Errorf("model backend returned status %d", httpResp.StatusCode)
	}
	var wire modelWireResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&wire); err != nil {
		return ModelResponse{}, err
	}
	return ModelResponse{
		Success:      wire.Success,
		Content:      wire.Content,
		ErrorMessage: wire.ErrorMessage,
	}, nil
}
