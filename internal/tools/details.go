package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/2389/cassini-mcp/internal/registry"
	"github.com/2389/cassini-mcp/internal/store"
)

// ObservationDetailsName is the registry name of the detail lookup tool.
const ObservationDetailsName = "get_observation_details"

const observationDetailsSchema = `{"type":"object","properties":{` +
	`"id":{"type":"integer","description":"Observation ID","minimum":1}` +
	`},"required":["id"]}`

// ObservationDetails returns every column of one observation.
type ObservationDetails struct {
	store  store.ObservationStore
	logger *slog.Logger
}

// NewObservationDetails creates the detail lookup tool.
func NewObservationDetails(s store.ObservationStore, logger *slog.Logger) *ObservationDetails {
	return &ObservationDetails{store: s, logger: logger}
}

// Definition returns the discovery schema.
func (t *ObservationDetails) Definition() registry.Tool {
	return registry.Tool{
		Name:        ObservationDetailsName,
		Description: "Retrieve complete details for a specific Cassini observation by its ID. Returns all available fields including description and library definition.",
		InputSchema: json.RawMessage(observationDetailsSchema),
	}
}

// Execute looks up the observation. A missing observation is reported as a
// text result, not an error.
func (t *ObservationDetails) Execute(ctx context.Context, args registry.Arguments) (*registry.ToolResult, error) {
	id := IntOrDefault(args, "id", 0)
	if id <= 0 {
		return nil, invalidParameter("id", "ID must be a positive integer")
	}

	t.logger.Info("retrieving observation details", "id", id)

	obs, err := t.store.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return TextResult(fmt.Sprintf("No observation found with ID: %d", id)), nil
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving observation %d: %w", id, err)
	}

	return JSONResult(detail(obs), "cassini://observations/"+strconv.Itoa(id))
}
