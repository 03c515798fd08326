package bot

import (
	"fmt"
	"strings"

	tghelpers "github.com/m3rciful/posbot/core/telegram/helpers"
	"github.com/m3rciful/posbot/core/telegram/keyboard"
	"github.com/m3rciful/posbot/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

// AddCustomerStart begins the two-step customer registration. It is
// reachable from the order screen, so on success the reply nudges the
// cashier back towards customer selection.
func (h *Handlers) AddCustomerStart(c tele.Context) error {
	chatID := state.ChatID(c)
	h.sessions.ClearScratch(chatID, keyNewCustomer)
	h.sessions.SetStep(chatID, StepCustomerName)
	return tghelpers.SendKB(c, "Enter the customer name:", keyboard.RemoveKeyboard())
}

func (h *Handlers) stepCustomerName(c tele.Context) error {
	chatID := state.ChatID(c)
	name := strings.TrimSpace(c.Text())
	if name == "" {
		return tghelpers.SendText(c, "Invalid name.")
	}
	h.sessions.SetScratch(chatID, keyNewCustomer, name)
	h.sessions.SetStep(chatID, StepCustomerPhone)
	return tghelpers.SendText(c, "Enter the phone number (optional, '-' to skip):")
}

func (h *Handlers) stepCustomerPhone(c tele.Context) error {
	chatID := state.ChatID(c)
	v, ok := h.sessions.Scratch(chatID, keyNewCustomer)
	name, _ := v.(string)
	if !ok || name == "" {
		return tghelpers.SendText(c, "The add-customer flow was interrupted. Start over from the menu.")
	}
	h.sessions.ClearScratch(chatID, keyNewCustomer)

	ctx := tghelpers.BuildContext(c)
	id, err := h.customers.Create(ctx, name, strings.TrimSpace(c.Text()))
	if err != nil {
		return tghelpers.SendText(c, failText(err, ""))
	}
	markup := keyboard.ReplyButtons([]string{labelSelectCustomer}, []string{labelCancel})
	return tghelpers.SendKB(c, fmt.Sprintf("Customer saved. Id: %d\nYou can now continue the order.", id), markup)
}
