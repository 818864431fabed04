package model

// ToolDescriptor is gateway-reported metadata describing one callable
// operation. Gateways build these during discovery; some cache them with a
// time based expiry.
type ToolDescriptor struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Parameters  []ToolParameter   `json:"parameters,omitempty"`
	ReturnType  string            `json:"returnType,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type ToolParameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}
