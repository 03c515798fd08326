package bot

import (
	"errors"
	"strconv"
	"strings"

	"github.com/m3rciful/posbot/internal/service"
)

// parseID parses a positive integer identifier from user text.
func parseID(text string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// failText maps a service error to a user-facing message. Store
// internals never leak to the chat.
func failText(err error, notFound string) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, service.ErrNotFound):
		return notFound
	case errors.Is(err, service.ErrValidation):
		return strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")
	default:
		return "The operation failed. Please try again."
	}
}
