package bot

import (
	"github.com/m3rciful/posbot/core/telegram/keyboard"
	"github.com/m3rciful/posbot/core/telegram/router"

	tele "gopkg.in/telebot.v4"
)

// Action is the closed set of recognized menu commands. Button text is
// resolved to an Action exactly once, at the routing boundary; display
// labels never drive control flow directly.
type Action int

const (
	ActionUnknown Action = iota
	ActionLogin
	ActionLogout
	ActionBack

	ActionProducts
	ActionListProducts
	ActionAddProduct
	ActionEditProduct
	ActionDeleteProduct

	ActionCategories
	ActionListCategories
	ActionAddCategory
	ActionEditCategory
	ActionDeleteCategory

	ActionNewOrder
	ActionSelectCustomer
	ActionAddCustomer
	ActionCancelOrder

	ActionOrders
	ActionListOrders
	ActionSearchOrder
	ActionChangeStatus
)

// Display labels for reply-keyboard buttons.
const (
	labelLogin  = "Log in"
	labelLogout = "Log out"
	labelBack   = "Back"

	labelProducts       = "Products"
	labelListProducts   = "List products"
	labelAddProduct     = "Add product"
	labelEditProduct    = "Edit product"
	labelDeleteProduct  = "Delete product"
	labelCategories     = "Categories"
	labelListCategories = "List categories"
	labelAddCategory    = "Add category"
	labelEditCategory   = "Edit category"
	labelDeleteCategory = "Delete category"
	labelNewOrder       = "New order"
	labelSelectCustomer = "Select customer"
	labelAddCustomer    = "Add customer"
	labelCancel         = "Cancel"
	labelOrders         = "Orders"
	labelListOrders     = "List orders"
	labelSearchOrder    = "Search order"
	labelChangeStatus   = "Change status"

	labelEditName      = "Edit name"
	labelEditPrice     = "Edit price"
	labelEditFieldCat  = "Edit category"
	labelStatusPending = "pending"
	labelStatusServed  = "served"
	labelStatusCancel  = "cancelled"
)

var menuActions = map[string]Action{
	labelLogin:  ActionLogin,
	labelLogout: ActionLogout,
	labelBack:   ActionBack,

	labelProducts:      ActionProducts,
	labelListProducts:  ActionListProducts,
	labelAddProduct:    ActionAddProduct,
	labelEditProduct:   ActionEditProduct,
	labelDeleteProduct: ActionDeleteProduct,

	labelCategories:     ActionCategories,
	labelListCategories: ActionListCategories,
	labelAddCategory:    ActionAddCategory,
	labelEditCategory:   ActionEditCategory,
	labelDeleteCategory: ActionDeleteCategory,

	labelNewOrder:       ActionNewOrder,
	labelSelectCustomer: ActionSelectCustomer,
	labelAddCustomer:    ActionAddCustomer,
	labelCancel:         ActionCancelOrder,

	labelOrders:       ActionOrders,
	labelListOrders:   ActionListOrders,
	labelSearchOrder:  ActionSearchOrder,
	labelChangeStatus: ActionChangeStatus,
}

// ResolveAction maps raw message text to a menu action.
func ResolveAction(text string) (Action, bool) {
	a, ok := menuActions[text]
	return a, ok
}

func loginMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons([]string{labelLogin})
}

func mainMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{labelProducts, labelCategories},
		[]string{labelNewOrder, labelOrders},
		[]string{labelLogout},
	)
}

func productsMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{labelListProducts, labelAddProduct},
		[]string{labelEditProduct, labelDeleteProduct},
		[]string{labelBack},
	)
}

func categoriesMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{labelListCategories, labelAddCategory},
		[]string{labelEditCategory, labelDeleteCategory},
		[]string{labelBack},
	)
}

func orderCustomerMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{labelSelectCustomer, labelAddCustomer},
		[]string{labelCancel},
	)
}

func ordersMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{labelListOrders, labelSearchOrder},
		[]string{labelBack},
	)
}

func orderStatusMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{labelStatusPending, labelStatusServed},
		[]string{labelStatusCancel, labelBack},
	)
}

func editFieldMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{labelEditName, labelEditPrice},
		[]string{labelEditFieldCat, labelBack},
	)
}

func orderViewMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons([]string{labelChangeStatus, labelBack})
}

// MenuResolver adapts the action table for the message router. Every
// action except logging in requires an authenticated session.
func (h *Handlers) MenuResolver() router.MenuResolver {
	handlers := map[Action]struct {
		name string
		fn   tele.HandlerFunc
	}{
		ActionLogin:  {"login", h.LoginStart},
		ActionLogout: {"logout", h.requireLogin(h.Logout)},
		ActionBack:   {"back", h.requireLogin(h.BackToMain)},

		ActionProducts:      {"products", h.requireLogin(h.ProductsRoot)},
		ActionListProducts:  {"products.list", h.requireLogin(h.ListProducts)},
		ActionAddProduct:    {"products.add", h.requireLogin(h.AddProductStart)},
		ActionEditProduct:   {"products.edit", h.requireLogin(h.EditProductStart)},
		ActionDeleteProduct: {"products.delete", h.requireLogin(h.DeleteProductStart)},

		ActionCategories:     {"categories", h.requireLogin(h.CategoriesRoot)},
		ActionListCategories: {"categories.list", h.requireLogin(h.ListCategories)},
		ActionAddCategory:    {"categories.add", h.requireLogin(h.AddCategoryStart)},
		ActionEditCategory:   {"categories.edit", h.requireLogin(h.EditCategoryStart)},
		ActionDeleteCategory: {"categories.delete", h.requireLogin(h.DeleteCategoryStart)},

		ActionNewOrder:       {"order.new", h.requireLogin(h.NewOrderStart)},
		ActionSelectCustomer: {"order.customer", h.requireLogin(h.SelectCustomerStart)},
		ActionAddCustomer:    {"customer.add", h.requireLogin(h.AddCustomerStart)},
		ActionCancelOrder:    {"order.cancel", h.requireLogin(h.CancelOrder)},

		ActionOrders:       {"orders", h.requireLogin(h.OrdersRoot)},
		ActionListOrders:   {"orders.list", h.requireLogin(h.ListOrders)},
		ActionSearchOrder:  {"orders.search", h.requireLogin(h.SearchOrderStart)},
		ActionChangeStatus: {"orders.status", h.requireLogin(h.ChangeStatusStart)},
	}

	return func(text string) (tele.HandlerFunc, string, bool) {
		action, ok := ResolveAction(text)
		if !ok {
			return nil, "", false
		}
		entry, ok := handlers[action]
		if !ok {
			return nil, "", false
		}
		return entry.fn, entry.name, true
	}
}
