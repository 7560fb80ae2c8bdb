// ABOUTME: Snake_case JSON projections of observations returned by the tools.

package tools

import "github.com/2389/cassini-mcp/internal/store"

// ObservationSummary is the row shape of the list tools. It leaves out the
// long description and library_definition columns.
type ObservationSummary struct {
	ID           int     `json:"id"`
	StartTimeUTC string  `json:"start_time_utc"`
	Duration     *string `json:"duration"`
	Date         *string `json:"date"`
	Team         *string `json:"team"`
	SpassType    *string `json:"spass_type"`
	Target       *string `json:"target"`
	RequestName  *string `json:"request_name"`
	Title        *string `json:"title"`
}

// ObservationDetail carries every column of an observation.
type ObservationDetail struct {
	ID                int     `json:"id"`
	StartTimeUTC      string  `json:"start_time_utc"`
	Duration          *string `json:"duration"`
	Date              *string `json:"date"`
	Team              *string `json:"team"`
	SpassType         *string `json:"spass_type"`
	Target            *string `json:"target"`
	RequestName       *string `json:"request_name"`
	LibraryDefinition *string `json:"library_definition"`
	Title             *string `json:"title"`
	Description       *string `json:"description"`
}

func summarize(o *store.Observation) ObservationSummary {
	return ObservationSummary{
		ID:           o.ID,
		StartTimeUTC: o.StartTimeUTC,
		Duration:     o.Duration,
		Date:         o.Date,
		Team:         o.Team,
		SpassType:    o.SpassType,
		Target:       o.Target,
		RequestName:  o.RequestName,
		Title:        o.Title,
	}
}

func summarizeAll(observations []*store.Observation) []ObservationSummary {
	rows := make([]ObservationSummary, len(observations))
	for i, o := range observations {
		rows[i] = summarize(o)
	}
	return rows
}

func detail(o *store.Observation) ObservationDetail {
	return ObservationDetail{
		ID:                o.ID,
		StartTimeUTC:      o.StartTimeUTC,
		Duration:          o.Duration,
		Date:              o.Date,
		Team:              o.Team,
		SpassType:         o.SpassType,
		Target:            o.Target,
		RequestName:       o.RequestName,
		LibraryDefinition: o.LibraryDefinition,
		Title:             o.Title,
		Description:       o.Description,
	}
}
