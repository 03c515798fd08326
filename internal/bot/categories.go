package bot

import (
	"fmt"
	"strconv"
	"strings"

	tghelpers "github.com/m3rciful/posbot/core/telegram/helpers"
	"github.com/m3rciful/posbot/core/telegram/keyboard"
	"github.com/m3rciful/posbot/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

// CategoriesRoot shows the category management submenu.
func (h *Handlers) CategoriesRoot(c tele.Context) error {
	return tghelpers.SendKB(c, "Category management:", categoriesMenu())
}

func (h *Handlers) ListCategories(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	cats, err := h.catalog.ListCategories(ctx)
	if err != nil {
		return tghelpers.SendText(c, failText(err, ""))
	}
	if len(cats) == 0 {
		return tghelpers.SendText(c, "No categories registered yet.")
	}
	var b strings.Builder
	b.WriteString("Categories:\n\n")
	for _, cat := range cats {
		fmt.Fprintf(&b, "%d — %s\n", cat.ID, cat.Name)
	}
	return tghelpers.SendText(c, b.String())
}

func (h *Handlers) AddCategoryStart(c tele.Context) error {
	h.sessions.SetStep(state.ChatID(c), StepCategoryAddName)
	return tghelpers.SendKB(c, "Enter the category name:", keyboard.RemoveKeyboard())
}

func (h *Handlers) stepCategoryAddName(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	id, err := h.catalog.CreateCategory(ctx, strings.TrimSpace(c.Text()))
	if err != nil {
		return tghelpers.SendText(c, failText(err, ""))
	}
	return tghelpers.SendKB(c, fmt.Sprintf("Category saved. Id: %d", id), categoriesMenu())
}

func (h *Handlers) EditCategoryStart(c tele.Context) error {
	chatID := state.ChatID(c)
	h.sessions.ClearScratch(chatID, keyEditCategory)
	h.sessions.SetStep(chatID, StepCategoryEditID)
	return tghelpers.SendKB(c, "Enter the id of the category to rename:", keyboard.RemoveKeyboard())
}

func (h *Handlers) stepCategoryEditSelect(c tele.Context) error {
	chatID := state.ChatID(c)
	id, ok := parseID(c.Text())
	if !ok {
		return tghelpers.SendText(c, "The category id must be a number.")
	}
	ctx := tghelpers.BuildContext(c)
	cat, err := h.catalog.GetCategory(ctx, id)
	if err != nil {
		return tghelpers.SendText(c, failText(err, "Category not found."))
	}
	h.sessions.SetScratch(chatID, keyEditCategory, cat.ID)
	h.sessions.SetStep(chatID, StepCategoryEditName)
	return tghelpers.SendText(c, fmt.Sprintf("Current name: %s\nEnter the new name:", cat.Name))
}

func (h *Handlers) stepCategoryEditName(c tele.Context) error {
	chatID := state.ChatID(c)
	id, ok := h.sessions.ScratchInt64(chatID, keyEditCategory)
	if !ok {
		return tghelpers.SendText(c, "No category selected for renaming.")
	}
	ctx := tghelpers.BuildContext(c)
	if err := h.catalog.RenameCategory(ctx, id, strings.TrimSpace(c.Text())); err != nil {
		return tghelpers.SendText(c, failText(err, "Category not found."))
	}
	h.sessions.ClearScratch(chatID, keyEditCategory)
	return tghelpers.SendKB(c, "Category renamed.", categoriesMenu())
}

func (h *Handlers) DeleteCategoryStart(c tele.Context) error {
	h.sessions.SetStep(state.ChatID(c), StepCategoryDeleteSel)
	return tghelpers.SendKB(c, "Enter the id of the category to delete:", keyboard.RemoveKeyboard())
}

func (h *Handlers) stepCategoryDelete(c tele.Context) error {
	id, ok := parseID(c.Text())
	if !ok {
		return tghelpers.SendText(c, "The category id must be a number.")
	}
	ctx := tghelpers.BuildContext(c)
	cat, err := h.catalog.GetCategory(ctx, id)
	if err != nil {
		return tghelpers.SendText(c, failText(err, "Category not found."))
	}
	markup := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "Delete", Unique: cbDeleteCategory, Data: strconv.FormatInt(id, 10)}},
		[]keyboard.InlineBtn{{Text: "Keep it", Unique: cbCancel}},
	)
	return tghelpers.SendKB(c, fmt.Sprintf("Delete category %q? Its products become uncategorized.", cat.Name), markup)
}
