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

// ProductsRoot shows the product management submenu.
func (h *Handlers) ProductsRoot(c tele.Context) error {
	return tghelpers.SendKB(c, "Product management:", productsMenu())
}

// ListProducts renders the whole catalog with category names resolved.
func (h *Handlers) ListProducts(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		return tghelpers.SendText(c, failText(err, ""))
	}
	if len(products) == 0 {
		return tghelpers.SendText(c, "No products registered yet.")
	}
	var b strings.Builder
	b.WriteString("Products:\n\n")
	for _, p := range products {
		cat := format.DerefString(p.CategoryName, "uncategorized")
		fmt.Fprintf(&b, "#%d — %s — %s — category: %s\n", p.ID, p.Name, p.Price, cat)
	}
	return tghelpers.SendText(c, b.String())
}

// AddProductStart begins the add-product flow: name, price, category.
func (h *Handlers) AddProductStart(c tele.Context) error {
	chatID := state.ChatID(c)
	h.sessions.ClearScratch(chatID, keyNewProduct)
	h.sessions.SetStep(chatID, StepProductName)
	return tghelpers.SendKB(c, "Enter the product name:", keyboard.RemoveKeyboard())
}

func (h *Handlers) stepProductName(c tele.Context) error {
	chatID := state.ChatID(c)
	name := strings.TrimSpace(c.Text())
	if name == "" {
		return tghelpers.SendText(c, "Invalid name.")
	}
	h.sessions.SetScratch(chatID, keyNewProduct, &models.ProductDraft{Name: name})
	h.sessions.SetStep(chatID, StepProductPrice)
	return tghelpers.SendText(c, "Enter the product price:")
}

func (h *Handlers) stepProductPrice(c tele.Context) error {
	chatID := state.ChatID(c)
	draft := h.productDraft(chatID)
	if draft == nil {
		return tghelpers.SendText(c, "The add-product flow was interrupted. Start over from the menu.")
	}
	price, err := models.ParseMoney(c.Text())
	if err != nil {
		return tghelpers.SendText(c, "Invalid price. Enter a non-negative number.")
	}
	draft.Price = price

	ctx := tghelpers.BuildContext(c)
	cats, listErr := h.catalog.ListCategories(ctx)
	if listErr != nil {
		return tghelpers.SendText(c, failText(listErr, ""))
	}
	var b strings.Builder
	b.WriteString("Pick a category id, or 0 to create a new one or skip:\n")
	for _, cat := range cats {
		fmt.Fprintf(&b, "%d — %s\n", cat.ID, cat.Name)
	}
	h.sessions.SetStep(chatID, StepProductCategory)
	return tghelpers.SendText(c, b.String())
}

func (h *Handlers) stepProductCategory(c tele.Context) error {
	chatID := state.ChatID(c)
	draft := h.productDraft(chatID)
	if draft == nil {
		return tghelpers.SendText(c, "The add-product flow was interrupted. Start over from the menu.")
	}
	catID, err := strconv.ParseInt(strings.TrimSpace(c.Text()), 10, 64)
	if err != nil || catID < 0 {
		return tghelpers.SendText(c, "The category id must be a number.")
	}

	if catID == 0 {
		h.sessions.SetStep(chatID, StepProductNewCategory)
		return tghelpers.SendText(c, "Enter the new category name (or 'none' for no category):")
	}

	ctx := tghelpers.BuildContext(c)
	if _, err := h.catalog.GetCategory(ctx, catID); err != nil {
		return tghelpers.SendText(c, failText(err, "No category with that id."))
	}
	return h.insertProduct(c, draft, &catID)
}

func (h *Handlers) stepProductNewCategory(c tele.Context) error {
	chatID := state.ChatID(c)
	draft := h.productDraft(chatID)
	if draft == nil {
		return tghelpers.SendText(c, "The add-product flow was interrupted. Start over from the menu.")
	}

	name := strings.TrimSpace(c.Text())
	if strings.EqualFold(name, "none") {
		return h.insertProduct(c, draft, nil)
	}

	ctx := tghelpers.BuildContext(c)
	catID, err := h.catalog.EnsureCategory(ctx, name)
	if err != nil {
		return tghelpers.SendText(c, failText(err, ""))
	}
	return h.insertProduct(c, draft, &catID)
}

func (h *Handlers) insertProduct(c tele.Context, draft *models.ProductDraft, categoryID *int64) error {
	chatID := state.ChatID(c)
	ctx := tghelpers.BuildContext(c)
	id, err := h.catalog.CreateProduct(ctx, *draft, categoryID)
	if err != nil {
		return tghelpers.SendText(c, failText(err, "No category with that id."))
	}
	h.sessions.ClearScratch(chatID, keyNewProduct)
	return tghelpers.SendKB(c, fmt.Sprintf("Product saved. Id: %d", id), mainMenu())
}

func (h *Handlers) productDraft(chatID int64) *models.ProductDraft {
	v, ok := h.sessions.Scratch(chatID, keyNewProduct)
	if !ok {
		return nil
	}
	draft, _ := v.(*models.ProductDraft)
	return draft
}

// EditProductStart begins the edit flow: pick a product, then a field.
func (h *Handlers) EditProductStart(c tele.Context) error {
	chatID := state.ChatID(c)
	h.sessions.ClearScratch(chatID, keyEditProduct)
	h.sessions.SetStep(chatID, StepProductEditSelect)
	return tghelpers.SendKB(c, "Enter the id of the product to edit:", keyboard.RemoveKeyboard())
}

func (h *Handlers) stepProductEditSelect(c tele.Context) error {
	chatID := state.ChatID(c)
	id, ok := parseID(c.Text())
	if !ok {
		return tghelpers.SendText(c, "The product id must be a number.")
	}
	ctx := tghelpers.BuildContext(c)
	p, err := h.catalog.GetProduct(ctx, id)
	if err != nil {
		return tghelpers.SendText(c, failText(err, "Product not found."))
	}
	h.sessions.SetScratch(chatID, keyEditProduct, p.ID)
	h.sessions.SetStep(chatID, StepProductEditField)
	return tghelpers.SendKB(c, fmt.Sprintf("Selected: %s — %s", p.Name, p.Price), editFieldMenu())
}

func (h *Handlers) stepProductEditField(c tele.Context) error {
	chatID := state.ChatID(c)
	if _, ok := h.sessions.ScratchInt64(chatID, keyEditProduct); !ok {
		return tghelpers.SendText(c, "No product selected for editing.")
	}

	switch c.Text() {
	case labelEditName:
		h.sessions.SetStep(chatID, StepProductEditName)
		return tghelpers.SendKB(c, "Enter the new name:", keyboard.RemoveKeyboard())
	case labelEditPrice:
		h.sessions.SetStep(chatID, StepProductEditPrice)
		return tghelpers.SendKB(c, "Enter the new price:", keyboard.RemoveKeyboard())
	case labelEditFieldCat:
		ctx := tghelpers.BuildContext(c)
		cats, err := h.catalog.ListCategories(ctx)
		if err != nil {
			return tghelpers.SendText(c, failText(err, ""))
		}
		var b strings.Builder
		b.WriteString("Enter the category id, or 0 for no category:\n")
		for _, cat := range cats {
			fmt.Fprintf(&b, "%d — %s\n", cat.ID, cat.Name)
		}
		h.sessions.SetStep(chatID, StepProductEditCat)
		return tghelpers.SendKB(c, b.String(), keyboard.RemoveKeyboard())
	case labelBack:
		h.sessions.ClearScratch(chatID, keyEditProduct)
		return h.BackToMain(c)
	default:
		return tghelpers.SendText(c, "Pick one of the options.")
	}
}

func (h *Handlers) stepProductEditName(c tele.Context) error {
	chatID := state.ChatID(c)
	id, ok := h.sessions.ScratchInt64(chatID, keyEditProduct)
	if !ok {
		return tghelpers.SendText(c, "No product selected for editing.")
	}
	name := strings.TrimSpace(c.Text())
	if name == "" {
		return tghelpers.SendText(c, "Invalid name.")
	}
	ctx := tghelpers.BuildContext(c)
	if err := h.catalog.RenameProduct(ctx, id, name); err != nil {
		return tghelpers.SendText(c, failText(err, "Product not found."))
	}
	h.sessions.ClearScratch(chatID, keyEditProduct)
	return tghelpers.SendKB(c, "Product name updated.", mainMenu())
}

func (h *Handlers) stepProductEditPrice(c tele.Context) error {
	chatID := state.ChatID(c)
	id, ok := h.sessions.ScratchInt64(chatID, keyEditProduct)
	if !ok {
		return tghelpers.SendText(c, "No product selected for editing.")
	}
	price, err := models.ParseMoney(c.Text())
	if err != nil {
		return tghelpers.SendText(c, "Invalid price.")
	}
	ctx := tghelpers.BuildContext(c)
	if err := h.catalog.RepriceProduct(ctx, id, price); err != nil {
		return tghelpers.SendText(c, failText(err, "Product not found."))
	}
	h.sessions.ClearScratch(chatID, keyEditProduct)
	return tghelpers.SendKB(c, "Product price updated.", mainMenu())
}

func (h *Handlers) stepProductEditCategory(c tele.Context) error {
	chatID := state.ChatID(c)
	id, ok := h.sessions.ScratchInt64(chatID, keyEditProduct)
	if !ok {
		return tghelpers.SendText(c, "No product selected for editing.")
	}
	catID, err := strconv.ParseInt(strings.TrimSpace(c.Text()), 10, 64)
	if err != nil || catID < 0 {
		return tghelpers.SendText(c, "The category id must be a number.")
	}
	var ref *int64
	if catID != 0 {
		ref = &catID
	}
	ctx := tghelpers.BuildContext(c)
	if err := h.catalog.RecategorizeProduct(ctx, id, ref); err != nil {
		return tghelpers.SendText(c, failText(err, "No category with that id."))
	}
	h.sessions.ClearScratch(chatID, keyEditProduct)
	return tghelpers.SendKB(c, "Product category updated.", mainMenu())
}

// DeleteProductStart asks for the target id; the destructive action
// itself only happens after the inline confirm round-trip.
func (h *Handlers) DeleteProductStart(c tele.Context) error {
	chatID := state.ChatID(c)
	h.sessions.SetStep(chatID, StepProductDelete)
	return tghelpers.SendKB(c, "Enter the id of the product to delete:", keyboard.RemoveKeyboard())
}

func (h *Handlers) stepProductDelete(c tele.Context) error {
	id, ok := parseID(c.Text())
	if !ok {
		return tghelpers.SendText(c, "The product id must be a number.")
	}
	ctx := tghelpers.BuildContext(c)
	p, err := h.catalog.GetProduct(ctx, id)
	if err != nil {
		return tghelpers.SendText(c, failText(err, "Product not found."))
	}
	markup := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "Delete", Unique: cbDeleteProduct, Data: strconv.FormatInt(id, 10)}},
		[]keyboard.InlineBtn{{Text: "Keep it", Unique: cbCancel}},
	)
	return tghelpers.SendKB(c, fmt.Sprintf("Delete product %q?", p.Name), markup)
}
