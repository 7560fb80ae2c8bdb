package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/2389/cassini-mcp/internal/registry"
	"github.com/2389/cassini-mcp/internal/store"
	"github.com/2389/cassini-mcp/internal/timeparse"
)

// TimeRangeQueryName is the registry name of the time range tool.
const TimeRangeQueryName = "query_observations_by_timerange"

const timeRangeQuerySchema = `{"type":"object","properties":{` +
	`"start_time":{"type":"string","description":"Start of time range in UTC format (YYYY-DDDTHH:MM:SS or YYYY-MM-DD)"},` +
	`"end_time":{"type":"string","description":"End of time range in UTC format (YYYY-DDDTHH:MM:SS or YYYY-MM-DD)"},` +
	limitSchema + `,` + offsetSchema +
	`},"required":["start_time","end_time"]}`

// TimeRangeQuery lists observations whose start time falls in a range.
type TimeRangeQuery struct {
	store  store.ObservationStore
	logger *slog.Logger
}

// NewTimeRangeQuery creates the time range tool.
func NewTimeRangeQuery(s store.ObservationStore, logger *slog.Logger) *TimeRangeQuery {
	return &TimeRangeQuery{store: s, logger: logger}
}

// timeRangeResult has no total: the range is filtered in memory and only
// the page is reported.
type timeRangeResult struct {
	Count        int                  `json:"count"`
	Offset       int                  `json:"offset"`
	Limit        int                  `json:"limit"`
	Observations []ObservationSummary `json:"observations"`
}

// Definition returns the discovery schema.
func (t *TimeRangeQuery) Definition() registry.Tool {
	return registry.Tool{
		Name:        TimeRangeQueryName,
		Description: "Query Cassini mission observations within a specified time range. Returns observation records filtered by start time.",
		InputSchema: json.RawMessage(timeRangeQuerySchema),
	}
}

// Execute parses both boundaries, scans every observation and keeps those
// whose start time is within [start_time, end_time]. Observations with an
// unparsable start time are skipped.
func (t *TimeRangeQuery) Execute(ctx context.Context, args registry.Arguments) (*registry.ToolResult, error) {
	startRaw, err := RequireString(args, "start_time")
	if err != nil {
		return nil, err
	}
	endRaw, err := RequireString(args, "end_time")
	if err != nil {
		return nil, err
	}
	limit, offset := pagination(args)

	start, err := timeparse.Parse(startRaw)
	if err != nil {
		return nil, fmt.Errorf("start_time: %w", err)
	}
	end, err := timeparse.Parse(endRaw)
	if err != nil {
		return nil, fmt.Errorf("end_time: %w", err)
	}

	t.logger.Info("querying observations by time range",
		"start_time", startRaw,
		"end_time", endRaw,
		"limit", limit,
		"offset", offset,
	)

	all, err := t.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading observations: %w", err)
	}

	var matched []*store.Observation
	skipped := 0
	for _, o := range all {
		if o.StartTimeUTC == "" {
			skipped++
			continue
		}
		at, err := timeparse.Parse(o.StartTimeUTC)
		if err != nil {
			skipped++
			continue
		}
		if timeparse.InRange(at, start, end) {
			matched = append(matched, o)
		}
	}
	if skipped > 0 {
		t.logger.Debug("skipped observations with unparsable start time", "skipped", skipped)
	}

	page := summarizeAll(Paginate(matched, offset, limit))
	result := timeRangeResult{
		Count:        len(page),
		Offset:       offset,
		Limit:        limit,
		Observations: page,
	}

	t.logger.Info("time range query complete", "count", result.Count)

	q := url.Values{}
	q.Set("start", startRaw)
	q.Set("end", endRaw)
	return JSONResult(result, "cassini://observations/timerange?"+q.Encode())
}
