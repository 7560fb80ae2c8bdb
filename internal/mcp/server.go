// ABOUTME: JSON-RPC 2.0 dispatcher for the MCP methods initialize, tools/list and tools/call.
// ABOUTME: Handle turns any request bytes into response bytes and never panics past its boundary.

package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/2389/cassini-mcp/internal/metrics"
	"github.com/2389/cassini-mcp/internal/registry"
)

// methodFunc handles one JSON-RPC method and returns either a result to
// serialize or a protocol error.
type methodFunc func(ctx context.Context, req *Request) (any, *Error)

// Config holds configuration for the MCP server.
type Config struct {
	Registry *registry.Registry
	Logger   *slog.Logger
	Metrics  *metrics.Metrics // optional
}

// Server dispatches JSON-RPC requests to the tool registry.
type Server struct {
	registry *registry.Registry
	logger   *slog.Logger
	metrics  *metrics.Metrics
	methods  map[string]methodFunc
}

// NewServer creates a new MCP server with the given configuration.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Registry == nil {
		return nil, errors.New("registry is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		registry: cfg.Registry,
		logger:   logger,
		metrics:  cfg.Metrics,
	}
	s.methods = map[string]methodFunc{
		"initialize": s.handleInitialize,
		"tools/list": s.handleToolsList,
		"tools/call": s.handleToolsCall,
	}
	return s, nil
}

// Handle processes one raw JSON-RPC request and returns the serialized
// response. Every outcome, including panics inside tool handlers, produces a
// well-formed response carrying the best-known request id.
func (s *Server) Handle(ctx context.Context, raw []byte) (out []byte) {
	id := NullID
	method := ""

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic while handling request",
				"method", method,
				"id", id.String(),
				"panic", r,
				"stack", string(debug.Stack()),
			)
			s.metrics.RecordRequest(method, s.isKnown(method), CodeInternalError)
			out = s.encodeError(id, CodeInternalError, "Internal server error", nil)
		}
	}()

	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		s.logger.Warn("failed to parse JSON-RPC request", "error", err)
		s.metrics.RecordRequest("", false, CodeParseError)
		return s.encodeError(NullID, CodeParseError, "Invalid JSON", nil)
	}
	if len(req.ID) > 0 {
		id = req.ID
	}
	method = req.Method

	if req.JSONRPC != "2.0" {
		s.metrics.RecordRequest(method, s.isKnown(method), CodeInvalidRequest)
		return s.encodeError(id, CodeInvalidRequest, "Invalid jsonrpc version", nil)
	}

	handler, ok := s.methods[req.Method]
	if !ok {
		s.metrics.RecordRequest(method, false, CodeMethodNotFound)
		return s.encodeError(id, CodeMethodNotFound, "Method not found: "+req.Method, nil)
	}

	s.logger.Debug("MCP request", "method", req.Method, "id", id.String())

	result, rpcErr := handler(ctx, &req)
	if rpcErr != nil {
		s.metrics.RecordRequest(method, true, rpcErr.Code)
		return s.encode(Response{JSONRPC: "2.0", Error: rpcErr, ID: id})
	}

	payload, err := json.Marshal(result)
	if err != nil {
		s.logger.Error("failed to encode result", "method", req.Method, "error", err)
		s.metrics.RecordRequest(method, true, CodeInternalError)
		return s.encodeError(id, CodeInternalError, "Internal server error", nil)
	}

	s.metrics.RecordRequest(method, true, 0)
	return s.encode(Response{JSONRPC: "2.0", Result: payload, ID: id})
}

func (s *Server) isKnown(method string) bool {
	_, ok := s.methods[method]
	return ok
}

// handleInitialize returns the fixed server identity.
func (s *Server) handleInitialize(_ context.Context, _ *Request) (any, *Error) {
	return InitializeResult{
		ProtocolVersion: ProtocolVersion,
		ServerInfo: ServerInfo{
			Name:    ServerName,
			Version: ServerVersion,
		},
	}, nil
}

// handleToolsList returns every registered tool in registration order.
func (s *Server) handleToolsList(_ context.Context, _ *Request) (any, *Error) {
	tools := s.registry.List()
	s.logger.Debug("tools/list", "count", len(tools))
	return ListToolsResult{Tools: tools}, nil
}

// handleToolsCall decodes the call params and invokes the tool.
func (s *Server) handleToolsCall(ctx context.Context, req *Request) (any, *Error) {
	params, err := decodeCallParams(req.Params)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: "Invalid params: " + err.Error()}
	}
	if params.Name == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "Tool name is required"}
	}

	// Generate request ID for correlation
	requestID := uuid.New().String()

	s.logger.Debug("tools/call",
		"tool_name", params.Name,
		"request_id", requestID,
	)

	start := time.Now()
	result, err := s.registry.Invoke(ctx, params.Name, params.Arguments)
	if err != nil {
		return nil, s.handleToolError(params.Name, requestID, time.Since(start), err)
	}

	s.metrics.RecordToolCall(params.Name, metrics.OutcomeSuccess, time.Since(start))
	s.logger.Debug("tools/call complete",
		"tool_name", params.Name,
		"request_id", requestID,
		"duration", time.Since(start),
	)
	return result, nil
}

// handleToolError maps a registry failure to its protocol error.
func (s *Server) handleToolError(toolName, requestID string, elapsed time.Duration, err error) *Error {
	if errors.Is(err, registry.ErrToolNotFound) {
		s.logger.Warn("tool not found",
			"tool_name", toolName,
			"request_id", requestID,
		)
		s.metrics.RecordToolCall(toolName, metrics.OutcomeNotFound, elapsed)
		return &Error{Code: CodeToolNotFound, Message: err.Error()}
	}

	s.logger.Warn("tool execution failed",
		"tool_name", toolName,
		"request_id", requestID,
		"error", err,
	)
	s.metrics.RecordToolCall(toolName, metrics.OutcomeError, elapsed)

	message := err.Error()
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		message = "tool execution timed out"
	case errors.Is(err, context.Canceled):
		message = "request cancelled"
	}

	return &Error{
		Code:    CodeToolExecutionError,
		Message: message,
		Data:    map[string]string{"request_id": requestID},
	}
}

// decodeCallParams decodes tools/call params keeping argument numbers as
// json.Number so integers survive without float rounding.
func decodeCallParams(raw json.RawMessage) (CallToolParams, error) {
	var params CallToolParams
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return params, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&params); err != nil {
		return params, err
	}
	return params, nil
}

func (s *Server) encodeError(id ID, code int, message string, data any) []byte {
	return s.encode(Response{
		JSONRPC: "2.0",
		Error:   &Error{Code: code, Message: message, Data: data},
		ID:      id,
	})
}

// encode serializes a response. Responses only hold pre-encoded results and
// plain error values, so failure here means a programming error; it still
// degrades to a fixed internal error document.
func (s *Server) encode(resp Response) []byte {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to encode JSON-RPC response", "error", err)
		return []byte(`{"jsonrpc":"2.0","error":{"code":-32603,"message":"Internal server error"},"id":null}`)
	}
	return data
}
