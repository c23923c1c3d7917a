package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"tradepost/internal/config"
	"tradepost/internal/domain"
	applog "tradepost/internal/log"
	"tradepost/internal/money"
	"tradepost/internal/pricingform"
	"tradepost/internal/repos"
	"tradepost/internal/services"
	"tradepost/internal/validate"
)

type PricingHandler struct {
	Listings *repos.ListingRepo
	Listing  *services.ListingService
	Cfg      config.Config
}

// GET /listing/:id/pricing
func (h *PricingHandler) Edit(c *fiber.Ctx) error {
	l, ok := h.load(c)
	if !ok {
		return nil
	}
	if l.Price != nil && l.Price.Currency != h.Cfg.Currency {
		// Precondition failure: the whole form is replaced by a message.
		return render(c, "pricing", fiber.Map{"L": l, "PanelError": "This listing is priced in an unsupported currency and cannot be edited here."})
	}
	editor := pricingform.NewEditor(l, h.Cfg.Currency, h.Cfg.MinListingPriceSubunits)
	return h.renderEditor(c, fiber.StatusOK, l, editor, nil, "", c.Query("saved") == "1")
}

// POST /listing/:id/pricing handles the save and the add/remove row actions.
func (h *PricingHandler) Save(c *fiber.Ctx) error {
	l, ok := h.load(c)
	if !ok {
		return nil
	}
	if l.Price != nil && l.Price.Currency != h.Cfg.Currency {
		c.Status(fiber.StatusBadRequest)
		return render(c, "pricing", fiber.Map{"L": l, "PanelError": "This listing is priced in an unsupported currency and cannot be edited here."})
	}

	editor := pricingform.NewEditor(l, h.Cfg.Currency, h.Cfg.MinListingPriceSubunits)
	parseErrs := h.restoreFromForm(c, editor)

	action := c.FormValue("action")
	switch {
	case action == "add":
		editor.Add()
		return h.renderEditor(c, fiber.StatusOK, l, editor, nil, "", false)
	case strings.HasPrefix(action, "remove-"):
		pos, err := strconv.Atoi(strings.TrimPrefix(action, "remove-"))
		if err != nil || editor.Remove(pos) != nil {
			applog.Security(c, "pricing.remove.bad_position", map[string]any{"listing": l.ID, "action": action})
			return c.Status(fiber.StatusBadRequest).SendString("invalid row")
		}
		return h.renderEditor(c, fiber.StatusOK, l, editor, nil, "", false)
	}

	errs := editor.Validate()
	for k, v := range parseErrs {
		errs[k] = v
	}
	if len(errs) > 0 {
		return h.renderEditor(c, fiber.StatusBadRequest, l, editor, errs, "", false)
	}

	uv, err := editor.UpdateValues()
	if err != nil {
		return h.renderEditor(c, fiber.StatusBadRequest, l, editor, map[string]string{"price": "A price is required."}, "", false)
	}
	if err := h.Listing.UpdatePricing(l.ID, uv, editor.VariantStocks()); err != nil {
		applog.Error(c, "pricing.save.fail", err, map[string]any{"listing": l.ID})
		if errors.Is(err, repos.ErrStockOldTotalMismatch) {
			return h.renderEditor(c, fiber.StatusConflict, l, editor,
				map[string]string{"stock": services.StockErrorMessage(err)}, "", false)
		}
		return h.renderEditor(c, fiber.StatusBadRequest, l, editor, nil, services.MsgUpdateFailed, false)
	}
	applog.Audit(c, "pricing.save", map[string]any{
		"listing":       l.ID,
		"price":         uv.Price.Amount,
		"variant_count": len(uv.PublicData.Variants),
		"stock_changed": uv.StockUpdate != nil,
	})
	return c.Redirect("/listing/" + l.ID + "/pricing?saved=1")
}

func (h *PricingHandler) load(c *fiber.Ctx) (domain.Listing, bool) {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		_ = c.Status(404).Render("notfound", fiber.Map{"Message": "This listing is no longer available"})
		return domain.Listing{}, false
	}
	l, err := h.Listings.Get(id)
	if err != nil {
		_ = c.Status(404).Render("notfound", fiber.Map{"Message": "This listing is no longer available"})
		return domain.Listing{}, false
	}
	return l, true
}

// restoreFromForm rebuilds the editor state from the posted fields. Row
// fields are named by identity token (variantPrice_<id>), never by position,
// so rows keep their values across add/remove round trips. Returns parse
// errors keyed like Validate's.
func (h *PricingHandler) restoreFromForm(c *fiber.Ctx, editor *pricingform.Editor) map[string]string {
	errs := map[string]string{}

	if raw := c.FormValue("price"); raw != "" {
		if amount, ok := money.ParseSubunits(raw); ok {
			p := money.New(amount, h.Cfg.Currency)
			editor.Price = &p
		} else {
			editor.Price = nil
			errs["price"] = "Enter a valid price."
		}
	} else {
		editor.Price = nil
	}

	editor.Unlimited = c.FormValue("unlimitedStock") == "unlimited"
	if raw := c.FormValue("stock"); raw != "" {
		if n, ok := validate.NonNegativeInt(raw); ok {
			editor.Stock = n
		} else if !editor.Unlimited {
			errs["stock"] = "Stock must be 0 or more."
		}
	}

	var entries []pricingform.Entry
	for _, rawID := range c.Context().PostArgs().PeekMulti("entryId") {
		id := string(rawID)
		entry := pricingform.Entry{ID: id}
		if raw := c.FormValue("variantPrice_" + id); raw != "" {
			if amount, ok := money.ParseSubunits(raw); ok {
				p := money.New(amount, h.Cfg.Currency)
				entry.Price = &p
			} else {
				errs["variantPrice_"+id] = "Enter a valid price."
			}
		}
		if raw := c.FormValue("variantStock_" + id); raw != "" {
			if n, ok := validate.NonNegativeInt(raw); ok {
				entry.Stock = &n
			} else {
				errs["variantStock_"+id] = "Stock must be 0 or more."
			}
		}
		if label, ok := validate.Label(c.FormValue("variantLabel_" + id)); ok {
			entry.Label = label
		} else {
			errs["variantLabel_"+id] = "The label is too long."
		}
		entries = append(entries, entry)
	}
	editor.RestoreEntries(entries)

	return errs
}

type entryView struct {
	ID    string
	Pos   int
	Price string
	Stock string
	Label string
}

func (h *PricingHandler) renderEditor(c *fiber.Ctx, status int, l domain.Listing, editor *pricingform.Editor, errs map[string]string, saveError string, saved bool) error {
	if errs == nil {
		errs = map[string]string{}
	}
	var price string
	if editor.Price != nil {
		price = editor.Price.DecimalString()
	}
	var rows []entryView
	for pos, e := range editor.Entries() {
		row := entryView{ID: e.ID, Pos: pos, Label: e.Label}
		if e.Price != nil {
			row.Price = e.Price.DecimalString()
		}
		if e.Stock != nil {
			row.Stock = strconv.Itoa(*e.Stock)
		}
		rows = append(rows, row)
	}
	c.Status(status)
	return render(c, "pricing", fiber.Map{
		"L":         l,
		"Price":     price,
		"Stock":     editor.Stock,
		"Unlimited": editor.Unlimited,
		"Entries":   rows,
		"Errors":    errs,
		"SaveError": saveError,
		"Saved":     saved,
	})
}
