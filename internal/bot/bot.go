package bot

import (
	coreconfig "github.com/m3rciful/posbot/core/config"
	tg "github.com/m3rciful/posbot/core/telegram"
	"github.com/m3rciful/posbot/core/telegram/commands"
	"github.com/m3rciful/posbot/core/telegram/state"
	"github.com/m3rciful/posbot/internal/service"
)

// Conversation steps. Exactly one may be pending per chat; the flow
// router consumes it before the handler runs, so a handler that rejects
// its input stalls the flow unless it re-arms a step.
const (
	StepLoginUsername state.Step = "login.username"
	StepLoginPassword state.Step = "login.password"

	StepProductName        state.Step = "product.add.name"
	StepProductPrice       state.Step = "product.add.price"
	StepProductCategory    state.Step = "product.add.category"
	StepProductNewCategory state.Step = "product.add.new_category"
	StepProductEditSelect  state.Step = "product.edit.select"
	StepProductEditField   state.Step = "product.edit.field"
	StepProductEditName    state.Step = "product.edit.name"
	StepProductEditPrice   state.Step = "product.edit.price"
	StepProductEditCat     state.Step = "product.edit.category"
	StepProductDelete      state.Step = "product.delete.select"

	StepCategoryAddName   state.Step = "category.add.name"
	StepCategoryEditID    state.Step = "category.edit.select"
	StepCategoryEditName  state.Step = "category.edit.name"
	StepCategoryDeleteSel state.Step = "category.delete.select"

	StepCustomerName  state.Step = "customer.add.name"
	StepCustomerPhone state.Step = "customer.add.phone"

	StepOrderCustomer state.Step = "order.customer"
	StepOrderItem     state.Step = "order.item"
	StepOrderQuantity state.Step = "order.quantity"
	StepOrderSearch   state.Step = "order.search"
	StepOrderStatus   state.Step = "order.status"
)

// Scratch keys. At most one in-progress draft lives in scratch at a
// time; flow entry points clear their own key before starting over.
const (
	keyLoginUsername   = "loginUsername"
	keyNewProduct      = "newProduct"
	keyEditProduct     = "editProduct"
	keyEditCategory    = "editCategoryID"
	keyNewCustomer     = "newCustomer"
	keyCurrentOrder    = "currentOrder"
	keyPendingProduct  = "pendingProductRef"
	keyLastViewedOrder = "lastViewedOrderID"
)

// Callback uniques for the destructive-action confirmation channel.
const (
	cbDeleteProduct  = "delprod"
	cbDeleteCategory = "delcat"
	cbCancel         = "cancel"
)

// Handlers bundles the bot surface: every command, menu action, flow
// step, and callback handler, plus the dependencies they share.
type Handlers struct {
	sessions  state.Manager
	flow      *state.Router
	catalog   *service.Catalog
	customers *service.Customers
	orders    *service.Orders
	creds     coreconfig.AuthConfig
}

// New wires the handler set. The flow router must be bound to the same
// session manager.
func New(sessions state.Manager, flow *state.Router, catalog *service.Catalog, customers *service.Customers, orders *service.Orders, creds coreconfig.AuthConfig) *Handlers {
	return &Handlers{
		sessions:  sessions,
		flow:      flow,
		catalog:   catalog,
		customers: customers,
		orders:    orders,
		creds:     creds,
	}
}

// Flow exposes the step router for transport wiring.
func (h *Handlers) Flow() *state.Router {
	return h.flow
}

// Register binds commands, flow steps, and callbacks.
func (h *Handlers) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.Start,
		Description: "Greet and show the login menu",
	})
	reg.RegisterCommand("/login", commands.Command{
		Handler:     h.Start,
		Description: "Log in to the cashier",
		Hidden:      true,
	})

	h.flow.Handle(StepLoginUsername, h.stepLoginUsername)
	h.flow.Handle(StepLoginPassword, h.stepLoginPassword)

	h.flow.Handle(StepProductName, h.stepProductName)
	h.flow.Handle(StepProductPrice, h.stepProductPrice)
	h.flow.Handle(StepProductCategory, h.stepProductCategory)
	h.flow.Handle(StepProductNewCategory, h.stepProductNewCategory)
	h.flow.Handle(StepProductEditSelect, h.stepProductEditSelect)
	h.flow.Handle(StepProductEditField, h.stepProductEditField)
	h.flow.Handle(StepProductEditName, h.stepProductEditName)
	h.flow.Handle(StepProductEditPrice, h.stepProductEditPrice)
	h.flow.Handle(StepProductEditCat, h.stepProductEditCategory)
	h.flow.Handle(StepProductDelete, h.stepProductDelete)

	h.flow.Handle(StepCategoryAddName, h.stepCategoryAddName)
	h.flow.Handle(StepCategoryEditID, h.stepCategoryEditSelect)
	h.flow.Handle(StepCategoryEditName, h.stepCategoryEditName)
	h.flow.Handle(StepCategoryDeleteSel, h.stepCategoryDelete)

	h.flow.Handle(StepCustomerName, h.stepCustomerName)
	h.flow.Handle(StepCustomerPhone, h.stepCustomerPhone)

	h.flow.Handle(StepOrderCustomer, h.stepOrderCustomer)
	h.flow.Handle(StepOrderItem, h.stepOrderItem)
	h.flow.Handle(StepOrderQuantity, h.stepOrderQuantity)
	h.flow.Handle(StepOrderSearch, h.stepOrderSearch)
	h.flow.Handle(StepOrderStatus, h.stepOrderStatus)

	_ = reg.RegisterCallback(cbDeleteProduct, h.callbackDeleteProduct)
	_ = reg.RegisterCallback(cbDeleteCategory, h.callbackDeleteCategory)
	_ = reg.RegisterCallback(cbCancel, h.callbackCancel)

	reg.SetTextFallback(h.UnknownText)
	reg.SetCallbackNotFound(h.UnknownCallback)
}
