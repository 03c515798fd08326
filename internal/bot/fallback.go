package bot

import (
	tghelpers "github.com/m3rciful/posbot/core/telegram/helpers"
	"github.com/m3rciful/posbot/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

// UnknownText catches free text that matched no flow, menu button, or
// command.
func (h *Handlers) UnknownText(c tele.Context) error {
	if h.sessions.IsLoggedIn(state.ChatID(c)) {
		return tghelpers.SendKB(c, "Please choose an option from the menu.", mainMenu())
	}
	return tghelpers.SendKB(c, "Send /start to begin.", loginMenu())
}

// UnknownDocument rejects file uploads; every flow here is text driven.
func (h *Handlers) UnknownDocument(c tele.Context) error {
	return tghelpers.SendText(c, "I can only work with text messages.")
}

// UnknownCallback answers taps on buttons from retired messages.
func (h *Handlers) UnknownCallback(c tele.Context) error {
	return c.Respond(&tele.CallbackResponse{Text: "This button is no longer active."})
}
