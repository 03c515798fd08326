package ui

import tele "gopkg.in/telebot.v4"

// FallbackProvider exposes handlers used when incoming updates
// cannot be mapped to commands, callbacks, or expected documents.
type FallbackProvider interface {
	UnknownText(c tele.Context) error
	UnknownDocument(c tele.Context) error
	UnknownCallback(c tele.Context) error
}
