package actor

import (
	"context"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/rs/zerolog/log"

	"advisor/internal/agents/retrieval/handler"
	"advisor/pkg/logger"
	"advisor/pkg/messages"
	"advisor/pkg/models"
)

type Retrieval struct {
	handler *handler.Handler
}

func New(h *handler.Handler) actor.Producer {
	return func() actor.Actor {
		return &Retrieval{handler: h}
	}
}

func (agent *Retrieval) Receive(ac actor.Context) {
	l := log.With().Fields(map[string]interface{}{logger.ActorIDField: ac.Self().GetId(), logger.AgentNameField: "retrieval"}).Logger()
	switch msg := ac.Message().(type) {
	case *actor.Started:
		l.Debug().Msg("starting actor")
	case *actor.Stopping:
		l.Debug().Msg("stopping actor")
	case *actor.Stopped:
		l.Debug().Msg("stopped actor")
	case *actor.Restarting:
		l.Debug().Msg("restarting actor")
	case messages.StartRetrieval:
		l.Info().Msg("retrieval request received, searching...")
		res, err := agent.handler.Run(context.Background(), msg)
		if err != nil {
			l.Warn().Err(err).Msg("retrieval failed")
			ac.Respond(models.AgentError{Kind: models.AgentRetrieval, Message: err.Error(), Time: time.Now()})
			return
		}
		ac.Respond(res)
	default:
		l.Warn().Msgf("unknown message: %v", msg)
	}
}
