// ABOUTME: Name-keyed table of tool schemas and handlers, listed in registration order.
// ABOUTME: Populated once at startup and read without locking while serving.

package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrInvalidTool indicates a tool definition that cannot be registered.
var ErrInvalidTool = errors.New("invalid tool")

// ErrToolNotFound indicates no tool is registered under the requested name.
var ErrToolNotFound = errors.New("tool not found")

// Handler executes a tool call.
type Handler func(ctx context.Context, args Arguments) (*ToolResult, error)

// ExecutionError wraps a failure raised by a tool handler.
type ExecutionError struct {
	Tool string
	Err  error
}

func (e *ExecutionError) Error() string {
	return e.Err.Error()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

type entry struct {
	tool    Tool
	handler Handler
}

// Registry maps tool names to their schema and handler.
//
// Register is a configuration-time operation: all registrations must happen
// before the registry is shared with request handlers. After that the
// registry is only read, so lookups take no locks.
type Registry struct {
	entries map[string]*entry
	order   []string
	logger  *slog.Logger
}

// New creates an empty Registry.
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		entries: make(map[string]*entry),
		logger:  logger,
	}
}

// Register adds a tool. Registering an existing name replaces its schema and
// handler; the tool keeps its original position in List.
func (r *Registry) Register(tool Tool, handler Handler) error {
	if tool.Name == "" {
		return fmt.Errorf("%w: tool name cannot be empty", ErrInvalidTool)
	}
	if handler == nil {
		return fmt.Errorf("%w: tool '%s' has no handler", ErrInvalidTool, tool.Name)
	}

	if existing, ok := r.entries[tool.Name]; ok {
		r.logger.Warn("tool already registered, replacing", "tool_name", tool.Name)
		existing.tool = tool
		existing.handler = handler
		return nil
	}

	r.entries[tool.Name] = &entry{tool: tool, handler: handler}
	r.order = append(r.order, tool.Name)

	r.logger.Info("=== TOOL REGISTERED ===",
		"tool_name", tool.Name,
		"total_tools", len(r.order),
	)
	return nil
}

// List returns every registered tool in registration order.
func (r *Registry) List() []Tool {
	tools := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.entries[name].tool)
	}
	return tools
}

// Exists reports whether a tool with the given name is registered.
func (r *Registry) Exists(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}

// Invoke runs the named tool.
// Returns an error wrapping ErrToolNotFound for unknown names, or an
// *ExecutionError when the handler fails.
func (r *Registry) Invoke(ctx context.Context, name string, args Arguments) (*ToolResult, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	if args == nil {
		args = Arguments{}
	}

	result, err := e.handler(ctx, args)
	if err != nil {
		return nil, &ExecutionError{Tool: name, Err: err}
	}
	return result, nil
}
