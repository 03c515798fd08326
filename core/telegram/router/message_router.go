package router

import (
	"time"

	tg "github.com/m3rciful/posbot/core/telegram"
	"github.com/m3rciful/posbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Flow defines the minimal interface of a per-chat conversation flow engine.
type Flow interface {
	InProgress(chatID int64) bool
	Dispatch(c tele.Context) error
}

// MenuResolver maps message text to a menu handler. The returned name is used
// for handler summary logging.
type MenuResolver func(text string) (tele.HandlerFunc, string, bool)

// TextOptions controls fallback behaviour for text/document updates.
type TextOptions struct {
	UnknownText     tele.HandlerFunc
	UnknownDocument tele.HandlerFunc
}

// TextRoutes builds handlers for text and document routing.
// Precedence for text: active flow step, then menu buttons, then slash
// commands typed as text, then the registry fallback.
func TextRoutes(flow Flow, menu MenuResolver, reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if flow != nil && flow.InProgress(routeChatID(c)) {
			return handleWithSummary(c, "flow", start, "", "", func() error {
				return flow.Dispatch(c)
			})
		}

		if menu != nil {
			if h, name, ok := menu(text); ok && h != nil {
				return handleWithSummary(c, "menu."+normalizeHandlerName(name), start, "", "", func() error {
					return h(c)
				})
			}
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	docHandler := func(c tele.Context) error {
		start := time.Now()
		if flow != nil && flow.InProgress(routeChatID(c)) {
			return handleWithSummary(c, "flow_document", start, "", "", func() error {
				return flow.Dispatch(c)
			})
		}
		if opts.UnknownDocument != nil {
			return handleWithSummary(c, "unexpected_document", start, "", "", func() error {
				return opts.UnknownDocument(c)
			})
		}
		logHandlerSummary(c, "unexpected_document", start, "skip", "ok", nil)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
		{
			Endpoint: tele.OnDocument,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(docHandler)),
		},
	}
}

func routeChatID(c tele.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	if user := c.Sender(); user != nil {
		return user.ID
	}
	return 0
}
