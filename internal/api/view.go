package api

import (
	"advisor/internal/session"
	"advisor/pkg/memory/buffer"
	"advisor/pkg/models"
	"advisor/pkg/payload"
)

// Slot display states. A slot with nothing started yet is "idle".
const (
	stateIdle        = "idle"
	statePending     = "pending"
	stateReady       = "ready"
	stateUnavailable = "unavailable"
)

var medals = []string{"\U0001f947", "\U0001f948", "\U0001f949"}

type sessionView struct {
	ID               string            `json:"id"`
	Configured       bool              `json:"configured"`
	Retrieval        retrievalView     `json:"retrieval"`
	Websearch        websearchView     `json:"websearch"`
	Forecast         forecastView      `json:"forecast"`
	Strategies       finalView         `json:"strategies"`
	Exchanges        []buffer.Exchange `json:"exchanges,omitempty"`
	PollAfterSeconds int               `json:"pollAfterSeconds,omitempty"`
}

type retrievalView struct {
	State      string            `json:"state"`
	Found      bool              `json:"found"`
	Answer     string            `json:"answer,omitempty"`
	Documents  []models.Document `json:"documents,omitempty"`
	TopSources []models.Document `json:"topSources,omitempty"`
}

type websearchView struct {
	State   string          `json:"state"`
	Summary string          `json:"summary,omitempty"`
	Bullets []string        `json:"bullets,omitempty"`
	Sources []models.Source `json:"sources,omitempty"`
}

type forecastView struct {
	State  string `json:"state"`
	Answer string `json:"answer,omitempty"`
}

type strategyView struct {
	Rank          int                      `json:"rank"`
	Medal         string                   `json:"medal,omitempty"`
	EmissionIndex int                      `json:"emissionIndex"`
	Title         string                   `json:"title"`
	Description   string                   `json:"description,omitempty"`
	Scores        map[models.Criterion]int `json:"scores"`
	SWOTVisible   bool                     `json:"swotVisible"`
	SWOT          *models.SWOTEntry        `json:"swot,omitempty"`
}

type finalView struct {
	State       string         `json:"state"`
	Preamble    string         `json:"preamble,omitempty"`
	Extractable bool           `json:"extractable"`
	Strategies  []strategyView `json:"strategies,omitempty"`
}

func newSessionView(deps Deps, sess *session.Session) *sessionView {
	return &sessionView{
		ID:         sess.ID.String(),
		Configured: deps.Configured,
		Retrieval:  newRetrievalView(sess, sess.Retrieval),
		Websearch:  newWebsearchView(deps, sess),
		Forecast:   newForecastView(deps, sess),
		Strategies: newFinalView(sess),
		Exchanges:  sess.Exchanges.Items,
	}
}

func newRetrievalView(sess *session.Session, result *models.RetrievalResult) retrievalView {
	if result == nil {
		state := stateIdle
		if sess.Unavailable(models.AgentRetrieval) {
			state = stateUnavailable
		}
		return retrievalView{State: state}
	}
	return retrievalView{
		State:      stateReady,
		Found:      result.Answer != "",
		Answer:     result.Answer,
		Documents:  result.Documents,
		TopSources: result.TopSources,
	}
}

func newWebsearchView(deps Deps, sess *session.Session) websearchView {
	if deps.Orchestrator.Tracked(sess.ID, models.AgentWebsearch) {
		return websearchView{State: statePending}
	}
	if sess.Websearch == nil {
		state := stateIdle
		if sess.Unavailable(models.AgentWebsearch) {
			state = stateUnavailable
		}
		return websearchView{State: state}
	}

	// tolerant unwrap at read time; a payload that resists decoding is
	// shown as plain text
	ex, _ := payload.Unwrap(sess.Websearch.RawPayload)
	sources := sess.Websearch.Sources
	if len(sources) == 0 {
		sources = ex.Sources
	}
	return websearchView{
		State:   stateReady,
		Summary: ex.Summary,
		Bullets: ex.Bullets,
		Sources: sources,
	}
}

func newForecastView(deps Deps, sess *session.Session) forecastView {
	if deps.Orchestrator.Tracked(sess.ID, models.AgentForecast) {
		return forecastView{State: statePending}
	}
	if sess.Forecast == nil {
		state := stateIdle
		if sess.Unavailable(models.AgentForecast) {
			state = stateUnavailable
		}
		return forecastView{State: state}
	}
	return forecastView{State: stateReady, Answer: sess.Forecast.Answer}
}

func newFinalView(sess *session.Session) finalView {
	if sess.Final == nil {
		state := stateIdle
		if sess.Unavailable(models.AgentStrategist) {
			state = stateUnavailable
		}
		return finalView{State: state}
	}

	view := finalView{
		State:       stateReady,
		Preamble:    sess.Final.Analysis.Preamble,
		Extractable: !sess.Final.Analysis.Empty(),
	}
	for _, s := range sess.Final.Ranked {
		sv := strategyView{
			Rank:          s.Rank,
			EmissionIndex: s.EmissionIndex,
			Title:         s.Title,
			Description:   s.Description,
			Scores:        s.Scores,
			SWOTVisible:   sess.ShowSWOT[s.EmissionIndex],
		}
		if s.Tier >= 1 && s.Tier <= len(medals) {
			sv.Medal = medals[s.Tier-1]
		}
		if sv.SWOTVisible {
			if entry, ok := sess.Final.Analysis.SWOT[s.EmissionIndex]; ok {
				sv.SWOT = &entry
			} else {
				sv.SWOT = &models.SWOTEntry{
					StrategyIndex: s.EmissionIndex,
					Strengths:     []string{},
					Weaknesses:    []string{},
					Opportunities: []string{},
					Threats:       []string{},
				}
			}
		}
		view.Strategies = append(view.Strategies, sv)
	}
	return view
}
