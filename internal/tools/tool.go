// ABOUTME: Tool interface implemented by the observation tools and their registration.
// ABOUTME: Tools hold their repository and logger directly; nothing is resolved per call.

package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/2389/cassini-mcp/internal/registry"
	"github.com/2389/cassini-mcp/internal/store"
)

// Tool pairs a static discovery schema with its execution.
type Tool interface {
	Definition() registry.Tool
	Execute(ctx context.Context, args registry.Arguments) (*registry.ToolResult, error)
}

// Shared JSON-schema fragments for the pagination parameters.
const (
	limitSchema  = `"limit":{"type":"integer","description":"Maximum number of results to return (default: 100, max: 1000)","minimum":1,"maximum":1000}`
	offsetSchema = `"offset":{"type":"integer","description":"Number of results to skip for pagination (default: 0)","minimum":0}`
)

// Observations returns the four master plan tools in their registration order.
func Observations(s store.ObservationStore, logger *slog.Logger) []Tool {
	if logger == nil {
		logger = slog.Default()
	}
	return []Tool{
		NewObservationDetails(s, logger.With("tool", ObservationDetailsName)),
		NewTargetQuery(s, logger.With("tool", TargetQueryName)),
		NewTeamQuery(s, logger.With("tool", TeamQueryName)),
		NewTimeRangeQuery(s, logger.With("tool", TimeRangeQueryName)),
	}
}

// Register adds each tool to the registry under its definition's name.
func Register(reg *registry.Registry, tools ...Tool) error {
	for _, t := range tools {
		def := t.Definition()
		if err := reg.Register(def, t.Execute); err != nil {
			return fmt.Errorf("registering %s: %w", def.Name, err)
		}
	}
	return nil
}

// pagination reads limit and offset with their defaults; limit is clamped,
// offset is returned as given.
func pagination(args registry.Arguments) (limit, offset int) {
	limit = ClampLimit(IntOrDefault(args, "limit", DefaultLimit))
	offset = IntOrDefault(args, "offset", 0)
	return limit, offset
}
