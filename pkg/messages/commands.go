package messages

import (
	"github.com/google/uuid"
)

// StartRetrieval asks the retrieval actor to search internal documents and
// generate an answer over them. SearchQuery may carry recognized-parameter
// keywords appended to the user's query; PrimaryHint and OriginalQuery are
// the untouched user query.
type StartRetrieval struct {
	RequestID     uuid.UUID
	SearchQuery   string
	PrimaryHint   string
	OriginalQuery string
}

// StartWebsearch asks the websearch actor for external cases. SessionID is
// the per-session correlation id for this agent kind, stable across
// repeated actions.
type StartWebsearch struct {
	SessionID uuid.UUID
	Query     string
}

// StartForecast asks the forecast actor for forward-looking proposals.
type StartForecast struct {
	SessionID uuid.UUID
	Query     string
}
