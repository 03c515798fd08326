package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/m3rciful/posbot/core/telegram/format"
	tghelpers "github.com/m3rciful/posbot/core/telegram/helpers"
	"github.com/m3rciful/posbot/core/telegram/keyboard"
	"github.com/m3rciful/posbot/core/telegram/state"
	"github.com/m3rciful/posbot/internal/models"

	tele "gopkg.in/telebot.v4"
)

// NewOrderStart opens the order screen. The draft itself is only
// created once a customer is selected.
func (h *Handlers) NewOrderStart(c tele.Context) error {
	return tghelpers.SendKB(c, "Whose order is this?", orderCustomerMenu())
}

// CancelOrder throws away any in-progress draft.
func (h *Handlers) CancelOrder(c tele.Context) error {
	chatID := state.ChatID(c)
	h.sessions.ClearScratch(chatID, keyCurrentOrder)
	h.sessions.ClearScratch(chatID, keyPendingProduct)
	h.sessions.ClearStep(chatID)
	return tghelpers.SendKB(c, "Order cancelled.", mainMenu())
}

// SelectCustomerStart asks which customer the order belongs to.
func (h *Handlers) SelectCustomerStart(c tele.Context) error {
	h.sessions.SetStep(state.ChatID(c), StepOrderCustomer)
	return tghelpers.SendKB(c, "Enter the customer id (or 'list' to see customers):", keyboard.RemoveKeyboard())
}

func (h *Handlers) stepOrderCustomer(c tele.Context) error {
	chatID := state.ChatID(c)
	text := strings.TrimSpace(c.Text())
	ctx := tghelpers.BuildContext(c)

	if strings.EqualFold(text, "list") {
		customers, err := h.customers.List(ctx)
		if err != nil {
			return tghelpers.SendText(c, failText(err, ""))
		}
		var b strings.Builder
		if len(customers) == 0 {
			b.WriteString("No customers registered yet.\n")
		} else {
			b.WriteString("Customers:\n")
			for _, cu := range customers {
				fmt.Fprintf(&b, "%d — %s\n", cu.ID, cu.Name)
			}
		}
		b.WriteString("\nEnter the customer id:")
		h.sessions.SetStep(chatID, StepOrderCustomer)
		return tghelpers.SendText(c, b.String())
	}

	id, ok := parseID(text)
	if !ok {
		return tghelpers.SendText(c, "The customer id must be a number, or 'list'.")
	}
	cu, err := h.customers.Get(ctx, id)
	if err != nil {
		return tghelpers.SendText(c, failText(err, "Customer not found."))
	}

	h.sessions.SetScratch(chatID, keyCurrentOrder, &models.OrderDraft{CustomerID: cu.ID})
	h.sessions.SetStep(chatID, StepOrderItem)
	return tghelpers.SendText(c, fmt.Sprintf(
		"Customer selected: %s\nEnter a product id to add it, 'list' to see products, or 'done' to finish.", cu.Name))
}

func (h *Handlers) stepOrderItem(c tele.Context) error {
	chatID := state.ChatID(c)
	draft := h.orderDraft(chatID)
	if draft == nil {
		return tghelpers.SendKB(c, "No order in progress. Start a new one from the menu.", mainMenu())
	}
	text := strings.TrimSpace(c.Text())
	ctx := tghelpers.BuildContext(c)

	switch {
	case strings.EqualFold(text, "list"):
		products, err := h.catalog.ListProducts(ctx)
		if err != nil {
			return tghelpers.SendText(c, failText(err, ""))
		}
		var b strings.Builder
		if len(products) == 0 {
			b.WriteString("No products registered yet.\n")
		} else {
			b.WriteString("Products:\n")
			for _, p := range products {
				fmt.Fprintf(&b, "#%d — %s — %s\n", p.ID, p.Name, p.Price)
			}
		}
		b.WriteString("\nEnter a product id, or 'done' to finish:")
		h.sessions.SetStep(chatID, StepOrderItem)
		return tghelpers.SendText(c, b.String())

	case strings.EqualFold(text, "done"):
		// The draft is discarded whether or not the commit lands,
		// so a store failure never leaves a zombie order behind.
		h.sessions.ClearScratch(chatID, keyCurrentOrder)
		if len(draft.Items) == 0 {
			return tghelpers.SendKB(c, "No items added. Order cancelled.", mainMenu())
		}
		receipt, err := h.orders.Commit(ctx, draft)
		if err != nil {
			return tghelpers.SendKB(c, failText(err, ""), mainMenu())
		}
		return tghelpers.SendKB(c, fmt.Sprintf(
			"Order saved.\nOrder id: %d\nDate: %s\nTotal: %s",
			receipt.OrderID, receipt.Date.Format("2006-01-02 15:04"), receipt.Total), mainMenu())

	default:
		id, ok := parseID(text)
		if !ok {
			return tghelpers.SendText(c, "Product id must be a number, 'list' or 'done'.")
		}
		h.sessions.SetScratch(chatID, keyPendingProduct, id)
		h.sessions.SetStep(chatID, StepOrderQuantity)
		return tghelpers.SendText(c, "Enter the quantity:")
	}
}

func (h *Handlers) stepOrderQuantity(c tele.Context) error {
	chatID := state.ChatID(c)
	draft := h.orderDraft(chatID)
	productID, ok := h.sessions.ScratchInt64(chatID, keyPendingProduct)
	if draft == nil || !ok {
		return tghelpers.SendKB(c, "No order in progress. Start a new one from the menu.", mainMenu())
	}
	h.sessions.ClearScratch(chatID, keyPendingProduct)

	qty, err := strconv.Atoi(strings.TrimSpace(c.Text()))
	if err != nil || qty <= 0 {
		h.sessions.SetStep(chatID, StepOrderItem)
		return tghelpers.SendText(c, "Invalid quantity. The item was not added.\nEnter a product id, or 'done' to finish:")
	}

	ctx := tghelpers.BuildContext(c)
	p, err := h.catalog.GetProduct(ctx, productID)
	if err != nil {
		h.sessions.SetStep(chatID, StepOrderItem)
		return tghelpers.SendText(c, failText(err, "Product not found.")+"\nEnter a product id, or 'done' to finish:")
	}

	// Price and name are frozen here: later catalog edits must not
	// change what this order charges.
	draft.Items = append(draft.Items, models.OrderItemDraft{
		ProductID: p.ID,
		Name:      p.Name,
		Quantity:  qty,
		UnitPrice: p.Price,
	})
	h.sessions.SetStep(chatID, StepOrderItem)
	return tghelpers.SendText(c, fmt.Sprintf(
		"Added: %s x %d — unit %s\nEnter another product id, 'list', or 'done' to finish:", p.Name, qty, p.Price))
}

// OrdersRoot shows the order management submenu.
func (h *Handlers) OrdersRoot(c tele.Context) error {
	return tghelpers.SendKB(c, "Order management:", ordersMenu())
}

// ListOrders renders the most recent orders, newest first.
func (h *Handlers) ListOrders(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	orders, err := h.orders.ListRecent(ctx)
	if err != nil {
		return tghelpers.SendText(c, failText(err, ""))
	}
	if len(orders) == 0 {
		return tghelpers.SendText(c, "No orders yet.")
	}
	var b strings.Builder
	b.WriteString("Recent orders:\n\n")
	for _, o := range orders {
		name := format.DerefString(o.CustomerName, "unknown customer")
		fmt.Fprintf(&b, "Order #%d — %s — %s — total: %s — status: %s\n",
			o.ID, name, o.OrderDate.Format("2006-01-02 15:04"), o.Total, o.Status)
	}
	return tghelpers.SendText(c, b.String())
}

// SearchOrderStart asks for an order id to display in full.
func (h *Handlers) SearchOrderStart(c tele.Context) error {
	h.sessions.SetStep(state.ChatID(c), StepOrderSearch)
	return tghelpers.SendKB(c, "Enter the order id:", keyboard.RemoveKeyboard())
}

func (h *Handlers) stepOrderSearch(c tele.Context) error {
	chatID := state.ChatID(c)
	id, ok := parseID(c.Text())
	if !ok {
		return tghelpers.SendText(c, "The order id must be a number.")
	}
	ctx := tghelpers.BuildContext(c)
	view, err := h.orders.Search(ctx, id)
	if err != nil {
		return tghelpers.SendKB(c, failText(err, "Order not found."), ordersMenu())
	}

	h.sessions.SetScratch(chatID, keyLastViewedOrder, view.Order.ID)
	return tghelpers.SendKB(c, renderOrder(view.Order, view.Items), orderViewMenu())
}

func renderOrder(o models.Order, items []models.OrderItem) string {
	name := format.DerefString(o.CustomerName, "unknown customer")
	var b strings.Builder
	fmt.Fprintf(&b, "Order #%d\nCustomer: %s\nDate: %s\nStatus: %s\n\nItems:\n",
		o.ID, name, o.OrderDate.Format("2006-01-02 15:04"), o.Status)
	for _, it := range items {
		pname := format.DerefString(it.ProductName, "deleted product")
		fmt.Fprintf(&b, "%s x %d — unit %s — %s\n",
			pname, it.Quantity, it.PriceAtOrder, it.PriceAtOrder.Mul(it.Quantity))
	}
	fmt.Fprintf(&b, "\nTotal: %s", o.Total)
	return b.String()
}

// ChangeStatusStart offers the status keyboard for the last viewed order.
func (h *Handlers) ChangeStatusStart(c tele.Context) error {
	chatID := state.ChatID(c)
	if _, ok := h.sessions.ScratchInt64(chatID, keyLastViewedOrder); !ok {
		return tghelpers.SendKB(c, "Search or view an order first.", ordersMenu())
	}
	h.sessions.SetStep(chatID, StepOrderStatus)
	return tghelpers.SendKB(c, "Pick the new status:", orderStatusMenu())
}

func (h *Handlers) stepOrderStatus(c tele.Context) error {
	chatID := state.ChatID(c)
	text := strings.TrimSpace(c.Text())
	if text == labelBack {
		return h.BackToMain(c)
	}
	if !models.ValidStatus(text) {
		return tghelpers.SendKB(c, "Pick one of the status buttons.", orderStatusMenu())
	}
	id, ok := h.sessions.ScratchInt64(chatID, keyLastViewedOrder)
	if !ok {
		return tghelpers.SendKB(c, "Search or view an order first.", ordersMenu())
	}
	ctx := tghelpers.BuildContext(c)
	if err := h.orders.SetStatus(ctx, id, text); err != nil {
		return tghelpers.SendKB(c, failText(err, "Order not found."), ordersMenu())
	}
	h.sessions.ClearScratch(chatID, keyLastViewedOrder)
	return tghelpers.SendKB(c, fmt.Sprintf("Order #%d status changed to '%s'.", id, text), mainMenu())
}

func (h *Handlers) orderDraft(chatID int64) *models.OrderDraft {
	v, ok := h.sessions.Scratch(chatID, keyCurrentOrder)
	if !ok {
		return nil
	}
	draft, _ := v.(*models.OrderDraft)
	return draft
}
