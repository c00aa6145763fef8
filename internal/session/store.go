package session

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"advisor/internal/strategy"
	"advisor/pkg/logger"
	"advisor/pkg/memory/buffer"
	"advisor/pkg/models"
	"advisor/pkg/payload"
)

// StrategyBuilder is the final-strategy gateway contract.
type StrategyBuilder interface {
	Build(ctx context.Context, retrievalSummary, webSummary string, webBullets []string, forecastText string) (string, error)
}

// Store is the in-memory session registry. It also owns the dependent
// final-strategy stage: inspecting a session's final slot triggers the
// strategist call once all three upstream slots are ready.
type Store struct {
	strategist StrategyBuilder

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewStore(strategist StrategyBuilder) *Store {
	return &Store{
		strategist: strategist,
		sessions:   map[uuid.UUID]*Session{},
	}
}

// Create registers a new session with fresh correlation identifiers.
func (st *Store) Create() *Session {
	sess := newSession()
	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()
	return sess
}

func (st *Store) Get(id uuid.UUID) (*Session, bool) {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()
	return sess, ok
}

// FinalStrategy inspects the final slot and, when it is empty while all
// three upstream slots simultaneously hold non-sentinel results, invokes
// the strategist synchronously with the fixed aggregation of the three
// results. The call is bounded only by the gateway's own behavior. A
// populated slot is never recomputed, even if an upstream slot is later
// superseded; a failed call writes the unavailable sentinel so it is not
// retried until a fresh user action.
func (st *Store) FinalStrategy(ctx context.Context, sess *Session) *FinalResult {
	if sess.Final != nil {
		return sess.Final
	}
	if sess.Unavailable(models.AgentStrategist) || !sess.UpstreamReady() {
		return nil
	}

	l := log.With().
		Str(logger.SessionField, sess.ID.String()).
		Str(logger.AgentNameField, string(models.AgentStrategist)).
		Logger()

	web, _ := payload.Unwrap(sess.Websearch.RawPayload)
	text, err := st.strategist.Build(ctx, sess.Retrieval.Answer, web.Summary, web.Bullets, sess.Forecast.Answer)
	if err != nil {
		l.Warn().Err(err).Msg("final strategy call failed")
		sess.MarkUnavailable(models.AgentStrategist)
		return nil
	}

	analysis := strategy.Parse(text)
	sess.Final = &FinalResult{
		Raw:      text,
		Analysis: analysis,
		Ranked:   strategy.Rank(analysis.Strategies),
	}
	sess.ShowSWOT = map[int]bool{}
	sess.Exchanges.Add(buffer.Exchange{
		Agent:    string(models.AgentStrategist),
		Question: summarize(sess.Retrieval.Answer),
		Answer:   summarize(text),
	})
	l.Info().Int("strategies", len(analysis.Strategies)).Msg("final strategies ready")
	return sess.Final
}

// summarize caps exchange-log entries so the log stays skimmable.
func summarize(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 240 {
		return s[:240] + "…"
	}
	return s
}
