package bot

import (
	"strings"

	tghelpers "github.com/m3rciful/posbot/core/telegram/helpers"
	"github.com/m3rciful/posbot/core/telegram/keyboard"
	"github.com/m3rciful/posbot/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

// requireLogin refuses flow entry for unauthenticated chats and shows
// the login menu instead. It wraps every flow-initiating handler.
func (h *Handlers) requireLogin(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if !h.sessions.IsLoggedIn(state.ChatID(c)) {
			return tghelpers.SendKB(c, "Please log in first.", loginMenu())
		}
		return next(c)
	}
}

// Start greets the operator. Bound to /start and /login.
func (h *Handlers) Start(c tele.Context) error {
	chatID := state.ChatID(c)
	if h.sessions.IsLoggedIn(chatID) {
		return tghelpers.SendKB(c, "You are already logged in.", mainMenu())
	}
	return tghelpers.SendKB(c, "Welcome to the cashier bot!\nPlease log in.", loginMenu())
}

// LoginStart begins the two-step credential challenge.
func (h *Handlers) LoginStart(c tele.Context) error {
	chatID := state.ChatID(c)
	if h.sessions.IsLoggedIn(chatID) {
		return tghelpers.SendKB(c, "You are already logged in.", mainMenu())
	}
	h.sessions.DropScratch(chatID)
	h.sessions.SetStep(chatID, StepLoginUsername)
	return tghelpers.SendKB(c, "Enter your username:", keyboard.RemoveKeyboard())
}

func (h *Handlers) stepLoginUsername(c tele.Context) error {
	chatID := state.ChatID(c)
	h.sessions.SetScratch(chatID, keyLoginUsername, strings.TrimSpace(c.Text()))
	h.sessions.SetStep(chatID, StepLoginPassword)
	return tghelpers.SendText(c, "Enter your password:")
}

func (h *Handlers) stepLoginPassword(c tele.Context) error {
	chatID := state.ChatID(c)
	password := strings.TrimSpace(c.Text())

	var username string
	if v, ok := h.sessions.Scratch(chatID, keyLoginUsername); ok {
		username, _ = v.(string)
	}
	h.sessions.DropScratch(chatID)

	if username == h.creds.Username && password == h.creds.Password {
		h.sessions.SetLoggedIn(chatID, true)
		return tghelpers.SendKB(c, "Logged in successfully.", mainMenu())
	}
	return tghelpers.SendKB(c, "Wrong username or password.", loginMenu())
}

// Logout resets the session to logged-out with empty scratch.
func (h *Handlers) Logout(c tele.Context) error {
	h.sessions.Reset(state.ChatID(c))
	return tghelpers.SendKB(c, "Logged out.", loginMenu())
}

// BackToMain returns to the main menu.
func (h *Handlers) BackToMain(c tele.Context) error {
	return tghelpers.SendKB(c, "Back to the main menu.", mainMenu())
}
