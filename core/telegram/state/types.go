package state

import tele "gopkg.in/telebot.v4"

// Step identifies the pending continuation of a conversation: the
// handler that will consume the next reply from a chat. Concrete step
// values are declared by the application.
type Step string

// StepIdle indicates there is no pending step for the chat.
const StepIdle Step = "idle"

// Session stores login state and scratch data for one chat. At most one
// in-progress draft lives in Scratch at a time, under a well-known key.
type Session struct {
	LoggedIn bool
	Step     Step
	Scratch  map[string]any
}

// Manager orchestrates chat sessions, pending steps, and scratch data.
// Implementations must be safe for concurrent use from independent
// chats; Lock/Unlock serialize dispatch within one chat.
type Manager interface {
	// Get returns the session for a chat, creating it on first contact
	// with LoggedIn=false and empty scratch.
	Get(chatID int64) *Session

	SetLoggedIn(chatID int64, v bool)
	IsLoggedIn(chatID int64) bool

	// Reset returns the chat to logged-out, idle, empty scratch.
	Reset(chatID int64)

	SetScratch(chatID int64, key string, value any)
	Scratch(chatID int64, key string) (any, bool)
	ScratchInt64(chatID int64, key string) (int64, bool)
	ClearScratch(chatID int64, key string)
	// DropScratch discards the whole scratch bag, keeping login state.
	DropScratch(chatID int64)

	// SetStep registers the pending step for a chat, superseding any
	// previously registered one.
	SetStep(chatID int64, st Step)
	Step(chatID int64) Step
	ClearStep(chatID int64)
	InProgress(chatID int64) bool

	// Lock serializes step dispatch for one chat. Unlock must be called
	// with the same id.
	Lock(chatID int64)
	Unlock(chatID int64)
}

// ChatID extracts the chat identity from a Telegram context, falling
// back to the sender for updates without a chat (callback edge cases).
func ChatID(c tele.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	if sender := c.Sender(); sender != nil {
		return sender.ID
	}
	return 0
}
