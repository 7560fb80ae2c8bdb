package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/2389/cassini-mcp/internal/registry"
	"github.com/2389/cassini-mcp/internal/store"
)

// TargetQueryName is the registry name of the target query tool.
const TargetQueryName = "query_observations_by_target"

const targetQuerySchema = `{"type":"object","properties":{` +
	`"target":{"type":"string","description":"Target name (e.g., Saturn, Titan, Enceladus, rings)"},` +
	limitSchema + `,` + offsetSchema +
	`},"required":["target"]}`

// TargetQuery lists observations of one target.
type TargetQuery struct {
	store  store.ObservationStore
	logger *slog.Logger
}

// NewTargetQuery creates the target query tool.
func NewTargetQuery(s store.ObservationStore, logger *slog.Logger) *TargetQuery {
	return &TargetQuery{store: s, logger: logger}
}

type targetQueryResult struct {
	Count        int                  `json:"count"`
	Total        int                  `json:"total"`
	Offset       int                  `json:"offset"`
	Limit        int                  `json:"limit"`
	Target       string               `json:"target"`
	Observations []ObservationSummary `json:"observations"`
}

// Definition returns the discovery schema.
func (t *TargetQuery) Definition() registry.Tool {
	return registry.Tool{
		Name:        TargetQueryName,
		Description: "Query Cassini mission observations by observation target. Common targets include: Saturn, Titan, Enceladus, Rhea, Iapetus, Dione, Tethys, rings, and other moons.",
		InputSchema: json.RawMessage(targetQuerySchema),
	}
}

// Execute matches target exactly (case-sensitive) and pages over the matches.
func (t *TargetQuery) Execute(ctx context.Context, args registry.Arguments) (*registry.ToolResult, error) {
	target, err := RequireString(args, "target")
	if err != nil {
		return nil, err
	}
	limit, offset := pagination(args)

	t.logger.Info("querying observations by target",
		"target", target,
		"limit", limit,
		"offset", offset,
	)

	observations, err := t.store.GetByTarget(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("querying target %q: %w", target, err)
	}

	page := summarizeAll(Paginate(observations, offset, limit))
	result := targetQueryResult{
		Count:        len(page),
		Total:        len(observations),
		Offset:       offset,
		Limit:        limit,
		Target:       target,
		Observations: page,
	}

	t.logger.Info("target query complete", "target", target, "total", result.Total, "count", result.Count)

	return JSONResult(result, "cassini://observations/target/"+url.PathEscape(target))
}
