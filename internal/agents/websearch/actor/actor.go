package actor

import (
	"context"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/rs/zerolog/log"

	"advisor/internal/agents/websearch/handler"
	"advisor/pkg/logger"
	"advisor/pkg/messages"
	"advisor/pkg/models"
)

type Websearch struct {
	handler *handler.Handler
}

func New(h *handler.Handler) actor.Producer {
	return func() actor.Actor {
		return &Websearch{handler: h}
	}
}

func (agent *Websearch) Receive(ac actor.Context) {
	l := log.With().Fields(map[string]interface{}{logger.ActorIDField: ac.Self().GetId(), logger.AgentNameField: "websearch"}).Logger()
	switch msg := ac.Message().(type) {
	case *actor.Started:
		l.Debug().Msg("starting actor")
	case *actor.Stopping:
		l.Debug().Msg("stopping actor")
	case *actor.Stopped:
		l.Debug().Msg("stopped actor")
	case *actor.Restarting:
		l.Debug().Msg("restarting actor")
	case messages.StartWebsearch:
		l.Info().Str(logger.SessionField, msg.SessionID.String()).Msg("websearch request received")
		res, err := agent.handler.Call(context.Background(), msg)
		if err != nil {
			l.Warn().Err(err).Msg("websearch failed")
			ac.Respond(models.AgentError{Kind: models.AgentWebsearch, Message: err.Error(), Time: time.Now()})
			return
		}
		ac.Respond(res)
	default:
		l.Warn().Msgf("unknown message: %v", msg)
	}
}
