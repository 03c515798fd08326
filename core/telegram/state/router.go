package state

import (
	"sync"

	"github.com/m3rciful/posbot/core/logger"
	tghelpers "github.com/m3rciful/posbot/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Router maps pending steps to their handlers. It is owned by the
// application and injected where dispatch is needed; there is no global
// handler table.
type Router struct {
	mgr      Manager
	mu       sync.RWMutex
	handlers map[Step]tele.HandlerFunc
}

// NewRouter constructs a Router bound to the given session manager.
func NewRouter(mgr Manager) *Router {
	return &Router{
		mgr:      mgr,
		handlers: make(map[Step]tele.HandlerFunc),
	}
}

// Handle associates a step with its handler. Nil handlers are ignored.
func (r *Router) Handle(st Step, h tele.HandlerFunc) {
	if h == nil || st == StepIdle {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[st] = h
}

// InProgress reports whether the chat has a pending step.
func (r *Router) InProgress(chatID int64) bool {
	return r.mgr.InProgress(chatID)
}

// Dispatch consumes the chat's pending step and invokes its handler
// with the current update. The step is cleared before the handler runs:
// a handler that rejects the input simply does not re-arm a step, and
// the flow stalls. Dispatch is serialized per chat so two replies can
// never both consume the same pending step.
func (r *Router) Dispatch(c tele.Context) error {
	chatID := ChatID(c)
	r.mgr.Lock(chatID)
	defer r.mgr.Unlock(chatID)

	current := r.mgr.Step(chatID)
	if current == StepIdle {
		return nil
	}
	r.mgr.ClearStep(chatID)

	ctx := tghelpers.BuildContext(c)
	logger.Debug(ctx, "tg", "flow.dispatch",
		slog.String("status", "ok"),
		slog.Int64("chat_id", chatID),
		slog.String("step", string(current)),
	)

	r.mu.RLock()
	handler, ok := r.handlers[current]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	return handler(c)
}
