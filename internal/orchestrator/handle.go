package orchestrator

import (
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"advisor/pkg/models"
)

type outcome struct {
	res any
	err error
}

// Handle wraps one in-flight background call: the actor serving it, its
// start time and timeout budget, and a one-shot channel the call's future
// drains into. There is no cancellation anywhere: resolving a handle only
// stops observing the call, never the call itself.
type Handle struct {
	Kind models.AgentKind

	pid       *actor.PID
	startedAt time.Time
	timeout   time.Duration
	state     models.TaskState
	out       chan outcome
}

func newHandle(kind models.AgentKind, pid *actor.PID, fut *actor.Future, startedAt time.Time, timeout time.Duration) *Handle {
	h := &Handle{
		Kind:      kind,
		pid:       pid,
		startedAt: startedAt,
		timeout:   timeout,
		state:     models.Pending,
		out:       make(chan outcome, 1),
	}
	go func() {
		res, err := fut.Result()
		h.out <- outcome{res: res, err: err}
	}()
	return h
}

// State returns the handle's current lifecycle state.
func (h *Handle) State() models.TaskState {
	return h.state
}

// expired reports whether the budget plus grace has elapsed.
func (h *Handle) expired(now time.Time, grace time.Duration) bool {
	return now.Sub(h.startedAt) > h.timeout+grace
}

// poll is a zero-wait readiness check.
func (h *Handle) poll() (outcome, bool) {
	select {
	case out := <-h.out:
		return out, true
	default:
		return outcome{}, false
	}
}
