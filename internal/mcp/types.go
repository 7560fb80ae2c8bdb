// ABOUTME: JSON-RPC 2.0 envelope types and MCP result payloads.
// ABOUTME: Request ids are kept as raw JSON so responses echo them exactly.

package mcp

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/2389/cassini-mcp/internal/registry"
)

// Protocol constants advertised by initialize.
const (
	ProtocolVersion = "2024-11-05"
	ServerName      = "cassini-mcp-server"
	ServerVersion   = "1.0.0"
)

// Standard JSON-RPC error codes
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// MCP server error codes
const (
	CodeServerError        = -32000
	CodeToolNotFound       = -32001
	CodeToolExecutionError = -32002
)

var errInvalidID = errors.New("id must be a string, number or null")

// ID is a request id as it appeared on the wire. The zero value encodes as null.
type ID json.RawMessage

// NullID is the id used when the request id is unknown.
var NullID = ID("null")

// UnmarshalJSON accepts strings, numbers and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return errInvalidID
	}
	switch c := trimmed[0]; {
	case c == '"', c == '-', c >= '0' && c <= '9':
	case bytes.Equal(trimmed, []byte("null")):
	default:
		return errInvalidID
	}
	*id = append((*id)[:0], trimmed...)
	return nil
}

// MarshalJSON writes the id exactly as received.
func (id ID) MarshalJSON() ([]byte, error) {
	if len(id) == 0 {
		return []byte("null"), nil
	}
	return id, nil
}

// String returns the raw id text, for logging.
func (id ID) String() string {
	if len(id) == 0 {
		return "null"
	}
	return string(id)
}

// Request represents a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      ID              `json:"id"`
}

// Response represents a JSON-RPC 2.0 response. Exactly one of Result and
// Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	ID      ID              `json:"id"`
}

// Error represents a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// InitializeResult is the result of initialize.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      ServerInfo         `json:"serverInfo"`
}

// ServerCapabilities lists the capabilities the server offers.
type ServerCapabilities struct {
	Tools struct{} `json:"tools"`
}

// ServerInfo identifies the server implementation.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ListToolsResult is the result of tools/list.
type ListToolsResult struct {
	Tools []registry.Tool `json:"tools"`
}

// CallToolParams are the params of tools/call.
type CallToolParams struct {
	Name      string             `json:"name"`
	Arguments registry.Arguments `json:"arguments,omitempty"`
}
