package bot

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/posbot/core/config"
	tg "github.com/m3rciful/posbot/core/telegram"
	"github.com/m3rciful/posbot/core/telegram/state"
	"github.com/m3rciful/posbot/internal/models"
	"github.com/m3rciful/posbot/internal/service"

	tele "gopkg.in/telebot.v4"
)

// testContext implements the slice of tele.Context the handlers touch
// and records outgoing messages.
type testContext struct {
	tele.Context
	chatID   int64
	text     string
	callback *tele.Callback
	store    map[string]any

	sent   []string
	edited []string
}

func newTestContext(chatID int64, text string) *testContext {
	return &testContext{chatID: chatID, text: text, store: make(map[string]any)}
}

func (f *testContext) Chat() *tele.Chat          { return &tele.Chat{ID: f.chatID} }
func (f *testContext) Sender() *tele.User        { return &tele.User{ID: f.chatID} }
func (f *testContext) Text() string              { return f.text }
func (f *testContext) Update() tele.Update       { return tele.Update{ID: 1} }
func (f *testContext) Callback() *tele.Callback  { return f.callback }
func (f *testContext) Get(k string) any          { return f.store[k] }
func (f *testContext) Set(k string, v any)       { f.store[k] = v }
func (f *testContext) Respond(_ ...*tele.CallbackResponse) error { return nil }

func (f *testContext) Send(what any, _ ...any) error {
	f.sent = append(f.sent, fmt.Sprint(what))
	return nil
}

func (f *testContext) Edit(what any, _ ...any) error {
	f.edited = append(f.edited, fmt.Sprint(what))
	return nil
}

func (f *testContext) lastSent() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

// fakeLedger backs all three services with in-memory maps.
type fakeLedger struct {
	categories map[int64]models.Category
	products   map[int64]models.Product
	customers  map[int64]models.Customer
	orders     map[int64]models.Order
	orderItems map[int64][]models.OrderItem
	nextID     int64
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		categories: make(map[int64]models.Category),
		products:   make(map[int64]models.Product),
		customers:  make(map[int64]models.Customer),
		orders:     make(map[int64]models.Order),
		orderItems: make(map[int64][]models.OrderItem),
	}
}

func (f *fakeLedger) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeLedger) CreateCategory(_ context.Context, name string) (int64, error) {
	id := f.id()
	f.categories[id] = models.Category{ID: id, Name: name}
	return id, nil
}

func (f *fakeLedger) ListCategories(_ context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeLedger) GetCategory(_ context.Context, id int64) (models.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return models.Category{}, sql.ErrNoRows
	}
	return c, nil
}

func (f *fakeLedger) GetCategoryByName(_ context.Context, name string) (models.Category, error) {
	for _, c := range f.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return models.Category{}, sql.ErrNoRows
}

func (f *fakeLedger) RenameCategory(_ context.Context, id int64, name string) (int64, error) {
	c, ok := f.categories[id]
	if !ok {
		return 0, nil
	}
	c.Name = name
	f.categories[id] = c
	return 1, nil
}

func (f *fakeLedger) DeleteCategory(_ context.Context, id int64) (int64, error) {
	if _, ok := f.categories[id]; !ok {
		return 0, nil
	}
	delete(f.categories, id)
	return 1, nil
}

func (f *fakeLedger) CreateProduct(_ context.Context, name string, price models.Money, categoryID *int64) (int64, error) {
	id := f.id()
	f.products[id] = models.Product{ID: id, Name: name, Price: price, CategoryID: categoryID}
	return id, nil
}

func (f *fakeLedger) ListProducts(_ context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeLedger) GetProduct(_ context.Context, id int64) (models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return models.Product{}, sql.ErrNoRows
	}
	return p, nil
}

func (f *fakeLedger) UpdateProductName(_ context.Context, id int64, name string) (int64, error) {
	p, ok := f.products[id]
	if !ok {
		return 0, nil
	}
	p.Name = name
	f.products[id] = p
	return 1, nil
}

func (f *fakeLedger) UpdateProductPrice(_ context.Context, id int64, price models.Money) (int64, error) {
	p, ok := f.products[id]
	if !ok {
		return 0, nil
	}
	p.Price = price
	f.products[id] = p
	return 1, nil
}

func (f *fakeLedger) UpdateProductCategory(_ context.Context, id int64, categoryID *int64) (int64, error) {
	p, ok := f.products[id]
	if !ok {
		return 0, nil
	}
	p.CategoryID = categoryID
	f.products[id] = p
	return 1, nil
}

func (f *fakeLedger) DeleteProduct(_ context.Context, id int64) (int64, error) {
	if _, ok := f.products[id]; !ok {
		return 0, nil
	}
	delete(f.products, id)
	return 1, nil
}

func (f *fakeLedger) CreateCustomer(_ context.Context, name string, phone *string) (int64, error) {
	id := f.id()
	f.customers[id] = models.Customer{ID: id, Name: name, Phone: phone}
	return id, nil
}

func (f *fakeLedger) ListCustomers(_ context.Context) ([]models.Customer, error) {
	out := make([]models.Customer, 0, len(f.customers))
	for _, c := range f.customers {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeLedger) GetCustomer(_ context.Context, id int64) (models.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return models.Customer{}, sql.ErrNoRows
	}
	return c, nil
}

func (f *fakeLedger) CreateOrderWithItems(_ context.Context, customerID int64, total models.Money, items []models.OrderItemDraft) (int64, time.Time, error) {
	id := f.id()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	f.orders[id] = models.Order{ID: id, CustomerID: &customerID, OrderDate: now, Total: total, Status: models.StatusPending}
	for _, it := range items {
		name := it.Name
		f.orderItems[id] = append(f.orderItems[id], models.OrderItem{
			OrderID: id, ProductID: it.ProductID, Quantity: it.Quantity,
			PriceAtOrder: it.UnitPrice, ProductName: &name,
		})
	}
	return id, now, nil
}

func (f *fakeLedger) ListRecentOrders(_ context.Context, limit int) ([]models.Order, error) {
	out := make([]models.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, o)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeLedger) GetOrder(_ context.Context, id int64) (models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return models.Order{}, sql.ErrNoRows
	}
	return o, nil
}

func (f *fakeLedger) ListOrderItems(_ context.Context, orderID int64) ([]models.OrderItem, error) {
	return f.orderItems[orderID], nil
}

func (f *fakeLedger) SetOrderStatus(_ context.Context, id int64, status string) (int64, error) {
	o, ok := f.orders[id]
	if !ok {
		return 0, nil
	}
	o.Status = status
	f.orders[id] = o
	return 1, nil
}

type testBot struct {
	h        *Handlers
	sessions state.Manager
	ledger   *fakeLedger
}

func newTestBot(t *testing.T) *testBot {
	t.Helper()
	ledger := newFakeLedger()
	sessions := state.NewMemoryManager()
	flow := state.NewRouter(sessions)
	h := New(sessions, flow,
		service.NewCatalog(ledger),
		service.NewCustomers(ledger),
		service.NewOrders(ledger),
		coreconfig.AuthConfig{Username: "admin", Password: "secret"},
	)
	h.Register(tg.NewRegistry())
	return &testBot{h: h, sessions: sessions, ledger: ledger}
}

// reply feeds one text message into the active flow step.
func (b *testBot) reply(t *testing.T, chatID int64, text string) *testContext {
	t.Helper()
	c := newTestContext(chatID, text)
	require.NoError(t, b.h.Flow().Dispatch(c))
	return c
}

func (b *testBot) login(t *testing.T, chatID int64) {
	t.Helper()
	b.sessions.SetLoggedIn(chatID, true)
}

func TestLoginFlow(t *testing.T) {
	b := newTestBot(t)

	c := newTestContext(1, labelLogin)
	require.NoError(t, b.h.LoginStart(c))
	assert.Contains(t, c.lastSent(), "username")

	b.reply(t, 1, "admin")
	c = b.reply(t, 1, "secret")
	assert.Contains(t, c.lastSent(), "Logged in successfully.")
	assert.True(t, b.sessions.IsLoggedIn(1))
}

func TestLoginWrongCredentials(t *testing.T) {
	b := newTestBot(t)

	require.NoError(t, b.h.LoginStart(newTestContext(1, labelLogin)))
	b.reply(t, 1, "admin")
	c := b.reply(t, 1, "nope")
	assert.Contains(t, c.lastSent(), "Wrong username or password.")
	assert.False(t, b.sessions.IsLoggedIn(1))
	assert.False(t, b.sessions.InProgress(1), "failed login must not leave a pending step")

	// second attempt still works
	require.NoError(t, b.h.LoginStart(newTestContext(1, labelLogin)))
	b.reply(t, 1, "admin")
	b.reply(t, 1, "secret")
	assert.True(t, b.sessions.IsLoggedIn(1))
}

func TestMenuRequiresLogin(t *testing.T) {
	b := newTestBot(t)
	resolve := b.h.MenuResolver()

	handler, name, ok := resolve(labelProducts)
	require.True(t, ok)
	assert.Equal(t, "products", name)

	c := newTestContext(1, labelProducts)
	require.NoError(t, handler(c))
	assert.Contains(t, c.lastSent(), "Please log in first.")
}

func TestMenuUnknownText(t *testing.T) {
	b := newTestBot(t)
	_, _, ok := b.h.MenuResolver()("definitely not a button")
	assert.False(t, ok)
}

func TestAddProductFlow(t *testing.T) {
	b := newTestBot(t)
	b.login(t, 1)

	require.NoError(t, b.h.AddProductStart(newTestContext(1, labelAddProduct)))
	b.reply(t, 1, "espresso")
	b.reply(t, 1, "25.50")
	b.reply(t, 1, "0") // no existing category: create one
	c := b.reply(t, 1, "drinks")
	assert.Contains(t, c.lastSent(), "Product saved.")

	require.Len(t, b.ledger.products, 1)
	for _, p := range b.ledger.products {
		assert.Equal(t, "espresso", p.Name)
		assert.Equal(t, models.Money(2550), p.Price)
		require.NotNil(t, p.CategoryID)
		assert.Equal(t, "drinks", b.ledger.categories[*p.CategoryID].Name)
	}
	assert.False(t, b.sessions.InProgress(1))
}

func TestAddProductInvalidPriceStalls(t *testing.T) {
	b := newTestBot(t)
	b.login(t, 1)

	require.NoError(t, b.h.AddProductStart(newTestContext(1, labelAddProduct)))
	b.reply(t, 1, "espresso")
	c := b.reply(t, 1, "cheap")
	assert.Contains(t, c.lastSent(), "Invalid price.")
	assert.False(t, b.sessions.InProgress(1), "rejected input must not re-arm the step")
	assert.Empty(t, b.ledger.products)
}

func TestAddProductSkipCategory(t *testing.T) {
	b := newTestBot(t)
	b.login(t, 1)

	require.NoError(t, b.h.AddProductStart(newTestContext(1, labelAddProduct)))
	b.reply(t, 1, "water")
	b.reply(t, 1, "3")
	b.reply(t, 1, "0")
	c := b.reply(t, 1, "none")
	assert.Contains(t, c.lastSent(), "Product saved.")

	for _, p := range b.ledger.products {
		assert.Nil(t, p.CategoryID)
	}
	assert.Empty(t, b.ledger.categories)
}

func TestOrderFlow(t *testing.T) {
	b := newTestBot(t)
	b.login(t, 1)

	ctx := context.Background()
	custID, _ := b.ledger.CreateCustomer(ctx, "Alex", nil)
	espID, _ := b.ledger.CreateProduct(ctx, "espresso", 2550, nil)
	cakeID, _ := b.ledger.CreateProduct(ctx, "cake", 1000, nil)

	require.NoError(t, b.h.SelectCustomerStart(newTestContext(1, labelSelectCustomer)))
	c := b.reply(t, 1, fmt.Sprint(custID))
	assert.Contains(t, c.lastSent(), "Customer selected: Alex")

	b.reply(t, 1, fmt.Sprint(espID))
	c = b.reply(t, 1, "2")
	assert.Contains(t, c.lastSent(), "Added: espresso x 2")

	b.reply(t, 1, fmt.Sprint(cakeID))
	b.reply(t, 1, "1")

	c = b.reply(t, 1, "done")
	assert.Contains(t, c.lastSent(), "Order saved.")
	assert.Contains(t, c.lastSent(), "Total: 61.00")

	require.Len(t, b.ledger.orders, 1)
	for id, o := range b.ledger.orders {
		assert.Equal(t, models.Money(6100), o.Total)
		assert.Equal(t, models.StatusPending, o.Status)
		assert.Len(t, b.ledger.orderItems[id], 2)
	}
	_, ok := b.sessions.Scratch(1, keyCurrentOrder)
	assert.False(t, ok, "committed draft must leave scratch")
}

func TestOrderSnapshotPriceSurvivesReprice(t *testing.T) {
	b := newTestBot(t)
	b.login(t, 1)

	ctx := context.Background()
	custID, _ := b.ledger.CreateCustomer(ctx, "Alex", nil)
	prodID, _ := b.ledger.CreateProduct(ctx, "espresso", 2550, nil)

	require.NoError(t, b.h.SelectCustomerStart(newTestContext(1, labelSelectCustomer)))
	b.reply(t, 1, fmt.Sprint(custID))
	b.reply(t, 1, fmt.Sprint(prodID))
	b.reply(t, 1, "2")

	// reprice between add and commit; the snapshot must win
	p := b.ledger.products[prodID]
	p.Price = 9999
	b.ledger.products[prodID] = p

	c := b.reply(t, 1, "done")
	assert.Contains(t, c.lastSent(), "Total: 51.00")
}

func TestOrderDoneWithoutItemsCancels(t *testing.T) {
	b := newTestBot(t)
	b.login(t, 1)

	ctx := context.Background()
	custID, _ := b.ledger.CreateCustomer(ctx, "Alex", nil)

	require.NoError(t, b.h.SelectCustomerStart(newTestContext(1, labelSelectCustomer)))
	b.reply(t, 1, fmt.Sprint(custID))
	c := b.reply(t, 1, "done")
	assert.Contains(t, c.lastSent(), "No items added. Order cancelled.")
	assert.Empty(t, b.ledger.orders)
}

func TestOrderInvalidQuantityKeepsDraft(t *testing.T) {
	b := newTestBot(t)
	b.login(t, 1)

	ctx := context.Background()
	custID, _ := b.ledger.CreateCustomer(ctx, "Alex", nil)
	prodID, _ := b.ledger.CreateProduct(ctx, "espresso", 2550, nil)

	require.NoError(t, b.h.SelectCustomerStart(newTestContext(1, labelSelectCustomer)))
	b.reply(t, 1, fmt.Sprint(custID))
	b.reply(t, 1, fmt.Sprint(prodID))
	c := b.reply(t, 1, "zero")
	assert.Contains(t, c.lastSent(), "Invalid quantity.")

	// flow is back on item entry; the draft survives
	b.reply(t, 1, fmt.Sprint(prodID))
	b.reply(t, 1, "1")
	c = b.reply(t, 1, "done")
	assert.Contains(t, c.lastSent(), "Order saved.")
}

func TestChangeStatusRequiresViewedOrder(t *testing.T) {
	b := newTestBot(t)
	b.login(t, 1)

	c := newTestContext(1, labelChangeStatus)
	require.NoError(t, b.h.ChangeStatusStart(c))
	assert.Contains(t, c.lastSent(), "Search or view an order first.")
	assert.False(t, b.sessions.InProgress(1))
}

func TestSearchThenChangeStatus(t *testing.T) {
	b := newTestBot(t)
	b.login(t, 1)

	ctx := context.Background()
	custID, _ := b.ledger.CreateCustomer(ctx, "Alex", nil)
	orderID, _, err := b.ledger.CreateOrderWithItems(ctx, custID, 2550,
		[]models.OrderItemDraft{{ProductID: 1, Name: "espresso", Quantity: 1, UnitPrice: 2550}})
	require.NoError(t, err)

	require.NoError(t, b.h.SearchOrderStart(newTestContext(1, labelSearchOrder)))
	c := b.reply(t, 1, fmt.Sprint(orderID))
	assert.Contains(t, c.lastSent(), fmt.Sprintf("Order #%d", orderID))
	assert.Contains(t, c.lastSent(), "espresso x 1")

	require.NoError(t, b.h.ChangeStatusStart(newTestContext(1, labelChangeStatus)))
	c = b.reply(t, 1, labelStatusServed)
	assert.Contains(t, c.lastSent(), "status changed to 'served'")
	assert.Equal(t, models.StatusServed, b.ledger.orders[orderID].Status)
}

func TestDeleteProductCallback(t *testing.T) {
	b := newTestBot(t)
	b.login(t, 1)

	ctx := context.Background()
	prodID, _ := b.ledger.CreateProduct(ctx, "espresso", 2550, nil)

	c := newTestContext(1, "")
	c.callback = &tele.Callback{Data: fmt.Sprintf("\f%s|%d", cbDeleteProduct, prodID)}
	require.NoError(t, b.h.callbackDeleteProduct(c))
	assert.Contains(t, c.edited[len(c.edited)-1], "Product deleted.")
	assert.Empty(t, b.ledger.products)

	// pressing the stale button again reports not found
	c2 := newTestContext(1, "")
	c2.callback = &tele.Callback{Data: fmt.Sprintf("\f%s|%d", cbDeleteProduct, prodID)}
	require.NoError(t, b.h.callbackDeleteProduct(c2))
	assert.Contains(t, c2.edited[len(c2.edited)-1], "Product not found.")
}

func TestLogoutResetsSession(t *testing.T) {
	b := newTestBot(t)
	b.login(t, 1)
	b.sessions.SetScratch(1, keyLastViewedOrder, int64(5))

	c := newTestContext(1, labelLogout)
	require.NoError(t, b.h.Logout(c))
	assert.False(t, b.sessions.IsLoggedIn(1))
	_, ok := b.sessions.Scratch(1, keyLastViewedOrder)
	assert.False(t, ok)
}

func TestCrossChatIsolation(t *testing.T) {
	b := newTestBot(t)
	b.login(t, 1)

	require.NoError(t, b.h.AddProductStart(newTestContext(1, labelAddProduct)))
	assert.True(t, b.sessions.InProgress(1))
	assert.False(t, b.sessions.InProgress(2), "flows must not leak across chats")
	assert.False(t, b.sessions.IsLoggedIn(2))
}
