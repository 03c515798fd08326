package bot

import (
	"errors"

	tghelpers "github.com/m3rciful/posbot/core/telegram/helpers"
	"github.com/m3rciful/posbot/core/telegram/callbacks"
	"github.com/m3rciful/posbot/internal/service"

	tele "gopkg.in/telebot.v4"
)

// callbackDeleteProduct handles the inline delete confirmation. The
// original message is edited in place so a stale button cannot be
// pressed twice.
func (h *Handlers) callbackDeleteProduct(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Edit("Malformed action payload.")
	}
	ctx := tghelpers.BuildContext(c)
	if err := h.catalog.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Edit("Product not found.")
		}
		return c.Edit(failText(err, ""))
	}
	return c.Edit("Product deleted.")
}

func (h *Handlers) callbackDeleteCategory(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Edit("Malformed action payload.")
	}
	ctx := tghelpers.BuildContext(c)
	if err := h.catalog.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Edit("Category not found.")
		}
		return c.Edit(failText(err, ""))
	}
	return c.Edit("Category deleted. Its products are now uncategorized.")
}

func (h *Handlers) callbackCancel(c tele.Context) error {
	return c.Edit("Cancelled.")
}
