// ABOUTME: Tool schema and tool result types shared by the registry, tools and dispatcher.
// ABOUTME: Field names follow the MCP wire format.

package registry

import "encoding/json"

// Content types for ToolResult blocks.
const (
	ContentTypeText     = "text"
	ContentTypeResource = "resource"
)

// Tool is the discovery entry for a registered tool.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// ToolResult is the result payload of tools/call.
type ToolResult struct {
	Content []Content `json:"content"`
}

// Content is a text block or a resource block, selected by Type.
type Content struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	Resource *Resource `json:"resource,omitempty"`
}

// MarshalJSON writes only the fields belonging to the block's variant, so an
// empty text block still carries "text".
func (c Content) MarshalJSON() ([]byte, error) {
	switch c.Type {
	case ContentTypeText:
		return json.Marshal(struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{c.Type, c.Text})
	case ContentTypeResource:
		return json.Marshal(struct {
			Type     string    `json:"type"`
			Resource *Resource `json:"resource"`
		}{c.Type, c.Resource})
	}
	type plain Content
	return json.Marshal(plain(c))
}

// Resource is an addressable payload embedded in a Content block.
type Resource struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
}

// Arguments are the loosely typed tools/call arguments. Numbers are decoded
// as json.Number so integers survive unchanged.
type Arguments map[string]any
