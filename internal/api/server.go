package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/justinas/alice"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	classifier "advisor/internal/agents/classifier/handler"
	"advisor/internal/orchestrator"
	"advisor/internal/session"
	"advisor/pkg/logger"
)

type prepareCommand struct {
	Query string `json:"query"`
}

type analysisCommand struct {
	Query         string `json:"query"`
	SearchQuery   string `json:"searchQuery,omitempty"`
	EnrichedQuery string `json:"enrichedQuery,omitempty"`
}

type prepareResponse struct {
	Params        map[string]string `json:"params"`
	KeywordLine   string            `json:"keywordLine,omitempty"`
	EnrichedQuery string            `json:"enrichedQuery"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type toggleResponse struct {
	Visible bool `json:"visible"`
}

// Preparer recognizes query parameters and enriches queries ahead of an
// analysis.
type Preparer interface {
	Classify(ctx context.Context, query string) (map[string]string, error)
	Enrich(ctx context.Context, query string) (string, error)
}

// Deps wires the server. Configured mirrors whether gateway credentials
// were present so the UI can hint at a missing key.
type Deps struct {
	Addr         string
	Orchestrator *orchestrator.Orchestrator
	Store        *session.Store
	Preparer     Preparer
	Configured   bool
}

type Server struct {
	server *http.Server
}

func New(deps Deps) *Server {
	return &Server{
		server: &http.Server{
			Addr:    deps.Addr,
			Handler: NewRouter(deps),
		},
	}
}

// NewRouter builds the HTTP surface. Every session-scoped handler holds the
// session lock for its whole request, which serializes the action and
// reconciliation cycles of one session.
func NewRouter(deps Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(logMiddleware())

	r.Post("/sessions", func(w http.ResponseWriter, r *http.Request) {
		sess := deps.Store.Create()
		log.Debug().Str(logger.SessionField, sess.ID.String()).Msg("session created")
		render.JSON(w, r, struct {
			Id string `json:"id"`
		}{sess.ID.String()})
	})

	r.Post("/sessions/{id}/prepare", func(w http.ResponseWriter, r *http.Request) {
		sess, ok := lookupSession(deps, w, r)
		if !ok {
			return
		}
		cmd := prepareCommand{}
		if err := unmarshalRequestBody(r, &cmd); err != nil || cmd.Query == "" {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, errorResponse{Error: "unable to parse body"})
			return
		}
		if deps.Preparer == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, errorResponse{Error: "query preparation unavailable"})
			return
		}

		sess.Lock()
		defer sess.Unlock()

		params, err := deps.Preparer.Classify(r.Context(), cmd.Query)
		if err != nil {
			w.WriteHeader(http.StatusBadGateway)
			log.Warn().Str(logger.SessionField, sess.ID.String()).Err(err).Msg("classify failed")
			render.JSON(w, r, errorResponse{Error: "unable to recognize parameters"})
			return
		}
		kw := classifier.KeywordLine(params)
		searchQuery := cmd.Query
		if kw != "" {
			searchQuery = searchQuery + " " + kw
		}
		enriched, err := deps.Preparer.Enrich(r.Context(), searchQuery)
		if err != nil {
			log.Warn().Str(logger.SessionField, sess.ID.String()).Err(err).Msg("enrich failed, using original query")
			enriched = cmd.Query
		}
		render.JSON(w, r, prepareResponse{Params: params, KeywordLine: kw, EnrichedQuery: enriched})
	})

	r.Post("/sessions/{id}/analysis", func(w http.ResponseWriter, r *http.Request) {
		sess, ok := lookupSession(deps, w, r)
		if !ok {
			return
		}
		cmd := analysisCommand{}
		if err := unmarshalRequestBody(r, &cmd); err != nil || cmd.Query == "" {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, errorResponse{Error: "unable to parse body"})
			return
		}

		sess.Lock()
		defer sess.Unlock()

		result, err := deps.Orchestrator.StartAnalysis(sess, orchestrator.AnalysisRequest{
			Query:         cmd.Query,
			SearchQuery:   cmd.SearchQuery,
			EnrichedQuery: cmd.EnrichedQuery,
		})
		if err != nil {
			w.WriteHeader(http.StatusBadGateway)
			log.Error().Str(logger.SessionField, sess.ID.String()).Err(err).Msg("analysis failed")
			render.JSON(w, r, errorResponse{Error: "analysis failed"})
			return
		}
		render.JSON(w, r, newRetrievalView(sess, &result))
	})

	r.Get("/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		sess, ok := lookupSession(deps, w, r)
		if !ok {
			return
		}

		sess.Lock()
		defer sess.Unlock()

		pending := deps.Orchestrator.Reconcile(sess)
		deps.Store.FinalStrategy(r.Context(), sess)
		view := newSessionView(deps, sess)
		if pending {
			view.PollAfterSeconds = int(deps.Orchestrator.PollInterval().Seconds())
		}
		render.JSON(w, r, view)
	})

	r.Post("/sessions/{id}/strategies/{index}/swot", func(w http.ResponseWriter, r *http.Request) {
		sess, ok := lookupSession(deps, w, r)
		if !ok {
			return
		}
		idx, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, errorResponse{Error: "unable to parse index"})
			return
		}

		sess.Lock()
		defer sess.Unlock()
		render.JSON(w, r, toggleResponse{Visible: sess.ToggleSWOT(idx)})
	})

	return r
}

func lookupSession(deps Deps, w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		log.Debug().Msg("cannot parse id")
		render.JSON(w, r, errorResponse{Error: "unable to parse id"})
		return nil, false
	}
	sess, ok := deps.Store.Get(id)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		log.Debug().Str(logger.SessionField, idParam).Msg("cannot find session")
		return nil, false
	}
	return sess, true
}

func (s *Server) Start() error {
	err := s.server.ListenAndServe()
	if err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}

	log.Info().Msg("http server started")
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	return nil
}

func logMiddleware() func(http.Handler) http.Handler {
	c := alice.New()
	c = c.Append(hlog.NewHandler(log.Logger))
	c = c.Append(hlog.RemoteAddrHandler("ip"))
	c = c.Append(hlog.UserAgentHandler("agent"))
	c = c.Append(hlog.RefererHandler("referer"))
	c = c.Append(hlog.RequestIDHandler("req_id", "Request-Id"))
	c = c.Append(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("verb", r.Method).
			Stringer("url", r.URL).
			Int("size", size).
			Int("status", status).
			Int64("duration", duration.Milliseconds()).
			Msg("REQ")
	}))

	return c.Then
}

func unmarshalRequestBody(req *http.Request, output interface{}) error {
	if req.Body == nil {
		return errors.New("invalid body in request")
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return err
	}
	if err = req.Body.Close(); err != nil {
		return err
	}
	if err = json.Unmarshal(body, &output); err != nil {
		return err
	}

	return nil
}
