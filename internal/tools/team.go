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

// TeamQueryName is the registry name of the team query tool.
const TeamQueryName = "query_observations_by_team"

const teamQuerySchema = `{"type":"object","properties":{` +
	`"team":{"type":"string","description":"Team or instrument identifier (e.g., ISS, CAPS, RADAR, VIMS)"},` +
	limitSchema + `,` + offsetSchema +
	`},"required":["team"]}`

// TeamQuery lists observations made by one instrument team.
type TeamQuery struct {
	store  store.ObservationStore
	logger *slog.Logger
}

// NewTeamQuery creates the team query tool.
func NewTeamQuery(s store.ObservationStore, logger *slog.Logger) *TeamQuery {
	return &TeamQuery{store: s, logger: logger}
}

type teamQueryResult struct {
	Count        int                  `json:"count"`
	Total        int                  `json:"total"`
	Offset       int                  `json:"offset"`
	Limit        int                  `json:"limit"`
	Team         string               `json:"team"`
	Observations []ObservationSummary `json:"observations"`
}

// Definition returns the discovery schema.
func (t *TeamQuery) Definition() registry.Tool {
	return registry.Tool{
		Name:        TeamQueryName,
		Description: "Query Cassini mission observations by team/instrument identifier. Common teams include: CAPS, CDA, CIRS, ISS, INMS, MAG, MIMI, RADAR, RPWS, RSS, UVIS, VIMS.",
		InputSchema: json.RawMessage(teamQuerySchema),
	}
}

// Execute matches team exactly (case-sensitive) and pages over the matches.
func (t *TeamQuery) Execute(ctx context.Context, args registry.Arguments) (*registry.ToolResult, error) {
	team, err := RequireString(args, "team")
	if err != nil {
		return nil, err
	}
	limit, offset := pagination(args)

	t.logger.Info("querying observations by team",
		"team", team,
		"limit", limit,
		"offset", offset,
	)

	observations, err := t.store.GetByTeam(ctx, team)
	if err != nil {
		return nil, fmt.Errorf("querying team %q: %w", team, err)
	}

	page := summarizeAll(Paginate(observations, offset, limit))
	result := teamQueryResult{
		Count:        len(page),
		Total:        len(observations),
		Offset:       offset,
		Limit:        limit,
		Team:         team,
		Observations: page,
	}

	t.logger.Info("team query complete", "team", team, "total", result.Total, "count", result.Count)

	return JSONResult(result, "cassini://observations/team/"+url.PathEscape(team))
}
