package orchestrator

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"advisor/internal/session"
	"advisor/pkg/logger"
	"advisor/pkg/memory/buffer"
	"advisor/pkg/models"
	"advisor/pkg/payload"
)

// Reconcile performs one non-blocking sweep over the session's tracked
// handles: each is promoted to TimedOut past its budget plus grace, to
// Ready (or Failed) when its call has finished, or left Pending. Every
// handle resolves into a terminal state exactly once. The return value
// tells the caller to reconcile again after PollInterval. With nothing
// tracked the sweep is a no-op that also releases the action's actors.
func (o *Orchestrator) Reconcile(sess *session.Session) bool {
	o.mu.Lock()
	byKind := o.tracked[sess.ID]
	if len(byKind) == 0 {
		delete(o.tracked, sess.ID)
		o.mu.Unlock()
		return false
	}
	handles := make([]*Handle, 0, len(byKind))
	for _, h := range byKind {
		handles = append(handles, h)
	}
	o.mu.Unlock()

	now := o.now()
	pending := false
	for _, h := range handles {
		l := log.With().
			Str(logger.SessionField, sess.ID.String()).
			Str(logger.AgentNameField, string(h.Kind)).
			Logger()

		if h.state.Terminal() {
			// already resolved on an earlier pass; nothing to re-commit
			o.untrack(sess.ID, h)
			continue
		}

		if h.expired(now, o.cfg.Grace) {
			h.state = models.TimedOut
			sess.MarkUnavailable(h.Kind)
			o.untrack(sess.ID, h)
			l.Warn().Str(logger.StateField, string(h.state)).Dur("elapsed", now.Sub(h.startedAt)).Msg("handle abandoned on timeout")
			continue
		}

		out, done := h.poll()
		if !done {
			pending = true
			continue
		}
		o.commit(sess, h, out, l)
	}

	if !pending {
		o.release(sess.ID)
	}
	return pending
}

func (o *Orchestrator) commit(sess *session.Session, h *Handle, out outcome, l zerolog.Logger) {
	defer o.untrack(sess.ID, h)

	if out.err != nil {
		h.state = models.Failed
		sess.MarkUnavailable(h.Kind)
		l.Warn().Err(out.err).Msg("gateway call failed")
		return
	}
	if respErr, ok := out.res.(error); ok {
		h.state = models.Failed
		sess.MarkUnavailable(h.Kind)
		l.Warn().Err(respErr).Msg("gateway call failed")
		return
	}

	switch res := out.res.(type) {
	case models.WebsearchResult:
		h.state = models.Ready
		sess.CommitWebsearch(res)
		web, _ := payload.Unwrap(res.RawPayload)
		sess.Exchanges.Add(buffer.Exchange{Agent: string(h.Kind), Answer: web.Summary})
	case models.ForecastResult:
		h.state = models.Ready
		sess.CommitForecast(res)
		sess.Exchanges.Add(buffer.Exchange{Agent: string(h.Kind), Answer: res.Answer})
	default:
		h.state = models.Failed
		sess.MarkUnavailable(h.Kind)
		l.Error().Msgf("unexpected result type %T", out.res)
		return
	}
	l.Info().Str(logger.StateField, string(h.state)).Msg("handle resolved")
}

// untrack stops observing a handle. The actor is stopped; the underlying
// call, if still running, completes on its own.
func (o *Orchestrator) untrack(sid uuid.UUID, h *Handle) {
	o.mu.Lock()
	defer o.mu.Unlock()
	byKind := o.tracked[sid]
	if byKind[h.Kind] == h {
		delete(byKind, h.Kind)
	}
	o.cfg.Root.Stop(h.pid)
}

// release drops the session's tracking entry once nothing remains pending,
// freeing the action's worker actors.
func (o *Orchestrator) release(sid uuid.UUID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, h := range o.tracked[sid] {
		o.cfg.Root.Stop(h.pid)
	}
	delete(o.tracked, sid)
}
