// Package orchestrator coordinates the three generation calls of one user
// action: it blocks on the primary retrieval call and registers the two
// backgrounded calls as pending handles, which repeated reconciliation
// passes later promote to a terminal state.
package orchestrator

import (
	"errors"
	"sync"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"advisor/internal/session"
	"advisor/pkg/logger"
	"advisor/pkg/memory/buffer"
	"advisor/pkg/messages"
	"advisor/pkg/models"
)

// ErrAnalysisFailed is the generic failure surfaced for a primary call that
// errored or overran its deadline. The secondary calls of the action keep
// running unobserved.
var ErrAnalysisFailed = errors.New("analysis failed")

// Config wires the orchestrator. The three Props produce the action-scoped
// agent actors; each action spawns a fresh trio, which is the bounded pool
// of that action.
type Config struct {
	Root      *actor.RootContext
	Retrieval *actor.Props
	Websearch *actor.Props
	Forecast  *actor.Props

	PrimaryTimeout   time.Duration
	WebsearchTimeout time.Duration
	ForecastTimeout  time.Duration
	Grace            time.Duration
	PollInterval     time.Duration

	// Now is the reconciliation clock; nil means time.Now.
	Now func() time.Time
}

// AnalysisRequest carries the per-action queries. SearchQuery may extend
// Query with recognized-parameter keywords; EnrichedQuery feeds the two
// secondary agents.
type AnalysisRequest struct {
	Query         string
	SearchQuery   string
	EnrichedQuery string
}

type Orchestrator struct {
	cfg Config
	now func() time.Time

	mu      sync.Mutex
	tracked map[uuid.UUID]map[models.AgentKind]*Handle
}

func New(cfg Config) *Orchestrator {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		cfg:     cfg,
		now:     now,
		tracked: map[uuid.UUID]map[models.AgentKind]*Handle{},
	}
}

// PollInterval is the delay after which a caller with pending handles
// should reconcile again.
func (o *Orchestrator) PollInterval() time.Duration {
	return o.cfg.PollInterval
}

// StartAnalysis submits the primary call and the two secondary calls,
// blocks on the primary up to its deadline, commits the retrieval slot and
// registers the secondary handles as pending. On primary failure the
// secondaries are not registered: their calls keep running to completion
// unobserved.
func (o *Orchestrator) StartAnalysis(sess *session.Session, req AnalysisRequest) (models.RetrievalResult, error) {
	l := log.With().Str(logger.SessionField, sess.ID.String()).Logger()

	retrievalPID := o.cfg.Root.Spawn(o.cfg.Retrieval)
	websearchPID := o.cfg.Root.Spawn(o.cfg.Websearch)
	forecastPID := o.cfg.Root.Spawn(o.cfg.Forecast)

	search := req.SearchQuery
	if search == "" {
		search = req.Query
	}
	enriched := req.EnrichedQuery
	if enriched == "" {
		enriched = req.Query
	}

	// The futures must outlive both the primary wait and the secondary
	// budget; the real budgets are enforced by reconciliation, whose clock
	// starts at registration.
	futureCap := o.cfg.PrimaryTimeout + o.cfg.ForecastTimeout + o.cfg.Grace

	futPrimary := o.cfg.Root.RequestFuture(retrievalPID, messages.StartRetrieval{
		RequestID:     uuid.New(),
		SearchQuery:   search,
		PrimaryHint:   req.Query,
		OriginalQuery: req.Query,
	}, o.cfg.PrimaryTimeout)
	futWeb := o.cfg.Root.RequestFuture(websearchPID, messages.StartWebsearch{
		SessionID: sess.CorrelationID(models.AgentWebsearch),
		Query:     enriched,
	}, futureCap)
	futForecast := o.cfg.Root.RequestFuture(forecastPID, messages.StartForecast{
		SessionID: sess.CorrelationID(models.AgentForecast),
		Query:     enriched,
	}, futureCap)

	started := o.now()
	res, err := futPrimary.Result() // the action's single blocking wait
	o.cfg.Root.Stop(retrievalPID)
	l.Info().Dur("elapsed", o.now().Sub(started)).Msg("primary call observed")

	commit := func() error {
		if err != nil {
			return err
		}
		if respErr, ok := res.(error); ok {
			return respErr
		}
		result, ok := res.(models.RetrievalResult)
		if !ok {
			return errors.New("unexpected primary response")
		}
		sess.CommitRetrieval(result)
		return nil
	}
	if err := commit(); err != nil {
		// Orphan the secondaries: stop their actors without interrupting the
		// message each is already processing, and never track the futures.
		o.cfg.Root.Stop(websearchPID)
		o.cfg.Root.Stop(forecastPID)
		l.Warn().Err(err).Msg("primary call failed, secondaries orphaned")
		return models.RetrievalResult{}, ErrAnalysisFailed
	}

	result := res.(models.RetrievalResult)
	sess.ResetForAction()
	sess.Exchanges.Add(buffer.Exchange{
		Agent:    string(models.AgentRetrieval),
		Question: req.Query,
		Answer:   result.Answer,
	})

	// Secondary budgets start at registration, after the primary wait.
	registered := o.now()
	o.track(sess.ID, newHandle(models.AgentWebsearch, websearchPID, futWeb, registered, o.cfg.WebsearchTimeout))
	o.track(sess.ID, newHandle(models.AgentForecast, forecastPID, futForecast, registered, o.cfg.ForecastTimeout))

	return result, nil
}

// track registers a pending handle, superseding any handle already tracked
// for the same agent kind. Superseding abandons the earlier call without
// terminating it.
func (o *Orchestrator) track(sid uuid.UUID, h *Handle) {
	o.mu.Lock()
	defer o.mu.Unlock()
	byKind := o.tracked[sid]
	if byKind == nil {
		byKind = map[models.AgentKind]*Handle{}
		o.tracked[sid] = byKind
	}
	if prev, ok := byKind[h.Kind]; ok {
		log.Debug().
			Str(logger.SessionField, sid.String()).
			Str(logger.AgentNameField, string(h.Kind)).
			Msg("superseding pending handle")
		o.cfg.Root.Stop(prev.pid)
	}
	byKind[h.Kind] = h
}

// Pending reports whether any handle is still tracked for the session.
func (o *Orchestrator) Pending(sid uuid.UUID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.tracked[sid]) > 0
}

// Tracked reports whether a handle for the agent kind is still pending.
func (o *Orchestrator) Tracked(sid uuid.UUID, kind models.AgentKind) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.tracked[sid][kind]
	return ok
}
