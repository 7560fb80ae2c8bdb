// ABOUTME: Builders for the two tool result shapes: a text block and a JSON resource block.

package tools

import (
	"encoding/json"
	"fmt"

	"github.com/2389/cassini-mcp/internal/registry"
)

// DefaultResultURI is used by JSONResult when no URI is given.
const DefaultResultURI = "data://result"

// TextResult wraps s as a single text content block.
func TextResult(s string) *registry.ToolResult {
	return &registry.ToolResult{
		Content: []registry.Content{{Type: registry.ContentTypeText, Text: s}},
	}
}

// JSONResult serializes data as indented JSON inside a single resource block.
func JSONResult(data any, uri string) (*registry.ToolResult, error) {
	if uri == "" {
		uri = DefaultResultURI
	}

	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}

	return &registry.ToolResult{
		Content: []registry.Content{{
			Type: registry.ContentTypeResource,
			Resource: &registry.Resource{
				URI:      uri,
				MimeType: "application/json",
				Text:     string(payload),
			},
		}},
	}, nil
}
