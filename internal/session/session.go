// Package session holds the per-session state of one analysis: the result
// slots for each agent kind, the correlation identifiers reused across
// repeated actions, and the final-strategy slot populated by the store.
// Nothing here survives a process restart.
package session

import (
	"sync"

	"github.com/google/uuid"

	"advisor/pkg/memory/buffer"
	"advisor/pkg/models"
)

// FinalResult is the terminal content of the final-strategy slot.
type FinalResult struct {
	Raw      string
	Analysis models.Analysis
	Ranked   []models.Strategy
}

// Session is the state of one user session. Slots hold the latest terminal
// result for their agent kind, or nothing plus an unavailable flag (the
// sentinel). The mutex serializes the action and reconciliation cycles of
// this session; slots themselves follow single-writer discipline.
type Session struct {
	ID uuid.UUID

	correlation map[models.AgentKind]uuid.UUID

	Retrieval *models.RetrievalResult
	Websearch *models.WebsearchResult
	Forecast  *models.ForecastResult
	Final     *FinalResult

	unavailable map[models.AgentKind]bool

	// ShowSWOT toggles SWOT visibility per strategy emission index.
	ShowSWOT map[int]bool

	Exchanges buffer.Log

	mu sync.Mutex
}

func newSession() *Session {
	return &Session{
		ID: uuid.New(),
		correlation: map[models.AgentKind]uuid.UUID{
			models.AgentWebsearch:  uuid.New(),
			models.AgentForecast:   uuid.New(),
			models.AgentStrategist: uuid.New(),
		},
		unavailable: map[models.AgentKind]bool{},
		ShowSWOT:    map[int]bool{},
	}
}

// Lock serializes one request/render cycle for this session.
func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// CorrelationID returns the stable per-agent identifier for this session.
func (s *Session) CorrelationID(kind models.AgentKind) uuid.UUID {
	return s.correlation[kind]
}

func (s *Session) CommitRetrieval(r models.RetrievalResult) {
	s.Retrieval = &r
	s.unavailable[models.AgentRetrieval] = false
}

func (s *Session) CommitWebsearch(r models.WebsearchResult) {
	s.Websearch = &r
	s.unavailable[models.AgentWebsearch] = false
}

func (s *Session) CommitForecast(r models.ForecastResult) {
	s.Forecast = &r
	s.unavailable[models.AgentForecast] = false
}

// MarkUnavailable writes the unavailable sentinel for an agent kind: the
// slot is emptied and flagged.
func (s *Session) MarkUnavailable(kind models.AgentKind) {
	s.unavailable[kind] = true
	switch kind {
	case models.AgentRetrieval:
		s.Retrieval = nil
	case models.AgentWebsearch:
		s.Websearch = nil
	case models.AgentForecast:
		s.Forecast = nil
	}
}

func (s *Session) Unavailable(kind models.AgentKind) bool {
	return s.unavailable[kind]
}

// ResetForAction clears the secondary unavailable flags ahead of a new user
// action. Committed results stay until superseded; a populated final slot
// is never cleared.
func (s *Session) ResetForAction() {
	s.unavailable[models.AgentWebsearch] = false
	s.unavailable[models.AgentForecast] = false
	s.unavailable[models.AgentStrategist] = false
}

// UpstreamReady reports whether the retrieval, websearch and forecast slots
// simultaneously hold non-sentinel results.
func (s *Session) UpstreamReady() bool {
	return s.Retrieval != nil && s.Websearch != nil && s.Forecast != nil
}

// ToggleSWOT flips the visibility of one strategy's SWOT table and returns
// the new value. Keyed by emission index, never by rank.
func (s *Session) ToggleSWOT(emissionIndex int) bool {
	s.ShowSWOT[emissionIndex] = !s.ShowSWOT[emissionIndex]
	return s.ShowSWOT[emissionIndex]
}
