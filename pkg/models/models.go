package models

import (
	"fmt"
	"time"
)

// AgentKind identifies one of the external text-generation agents.
type AgentKind string

const (
	AgentRetrieval  AgentKind = "retrieval"
	AgentWebsearch  AgentKind = "websearch"
	AgentForecast   AgentKind = "forecast"
	AgentStrategist AgentKind = "strategist"
)

// Document is a retrieved internal document reference.
type Document struct {
	File string `json:"file"`
	Date string `json:"date,omitempty"`
	Text string `json:"text,omitempty"`
}

// Source is an external reference returned by the websearch agent.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	Date  string `json:"date,omitempty"`
}

// RetrievalResult is the outcome of the primary retrieval+generation call.
type RetrievalResult struct {
	Answer     string     `json:"answer"`
	Documents  []Document `json:"documents"`
	TopSources []Document `json:"topSources"`
}

// WebsearchResult carries the websearch agent's raw payload. RawPayload may
// be a decoded object, a JSON string, a code-fenced JSON string, or a
// double-encoded string; the payload package unwraps it tolerantly at read
// time.
type WebsearchResult struct {
	RawPayload any      `json:"rawPayload"`
	Sources    []Source `json:"sources"`
}

// ForecastResult is the forecast agent's free-form answer.
type ForecastResult struct {
	Answer string `json:"answer"`
}

// AgentError is the failure value an agent actor responds with instead of
// its result. It satisfies error so callers can detect it with the usual
// type assertion on the future result.
type AgentError struct {
	Kind    AgentKind `json:"kind"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

func (e AgentError) Error() string {
	return fmt.Sprintf("%s agent: %s", e.Kind, e.Message)
}
