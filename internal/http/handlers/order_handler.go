package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"tradepost/internal/config"
	"tradepost/internal/domain"
	applog "tradepost/internal/log"
	"tradepost/internal/money"
	"tradepost/internal/orderform"
	"tradepost/internal/repos"
	"tradepost/internal/services"
	"tradepost/internal/validate"
)

type OrderHandler struct {
	Listings *repos.ListingRepo
	Orders   *repos.OrderRepo
	Order    *services.OrderService
	Cfg      config.Config
}

// fieldMessages are the inline validation texts shown next to the focused
// field when the submit gate blocks.
var fieldMessages = map[string]string{
	orderform.FieldQuantity:       "Select a quantity.",
	orderform.FieldDeliveryMethod: "Select a delivery method.",
}

// Place handles the order-form submission. Field values are replayed through
// the form so the cross-field reset and parsing rules apply exactly as they
// did while the buyer was editing; then the submit gate decides.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "listing"})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This listing is no longer available"})
	}
	l, err := h.Listings.Get(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This listing is no longer available"})
	}

	form, err := orderform.New(l, h.Cfg.Currency)
	if err != nil {
		applog.Security(c, "order.precondition.fail", map[string]any{"listing": id, "error": err.Error()})
		c.Status(fiber.StatusBadRequest)
		return render(c, "listing", fiber.Map{"L": l, "FormError": formErrorMessage(err)})
	}

	for _, field := range []string{orderform.FieldVariant, orderform.FieldQuantity, orderform.FieldDeliveryMethod} {
		if raw := c.FormValue(field); raw != "" {
			form.Change(field, raw)
		}
	}

	if focus, ok := form.SubmitGate(); !ok {
		applog.Info(c, "order.gate.block", map[string]any{"listing": id, "focus": focus})
		c.Status(fiber.StatusBadRequest)
		return render(c, "listing", fiber.Map{
			"L":          l,
			"Form":       form.View(),
			"FocusField": focus,
			"FieldError": fieldMessages[focus],
		})
	}

	orderID, total, err := h.Order.Place(l, form.Selection())
	if err != nil {
		applog.Error(c, "order.place.fail", err, map[string]any{"listing": id})
		c.Status(fiber.StatusBadRequest)
		return render(c, "listing", fiber.Map{
			"L":          l,
			"Form":       form.View(),
			"FocusField": "",
			"FieldError": "Could not place the order. Please review your selection and try again.",
		})
	}
	applog.Audit(c, "order.place", map[string]any{"order_id": orderID, "listing": id, "total": total.Amount})
	return c.Redirect("/order/" + orderID)
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	o, err := h.Orders.Get(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	l, err := h.Listings.Get(o.ListingID)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	return render(c, "order", fiber.Map{
		"Order":    o,
		"Total":    money.New(o.TotalAmount, o.Currency).Format(),
		"Headings": detailCardHeadings(l, o),
	})
}

// DetailCardHeadings is the heading block of the order detail card.
type DetailCardHeadings struct {
	ListingTitle string
	VariantTitle string
	SubTitle     string
}

func detailCardHeadings(l domain.Listing, o domain.Order) DetailCardHeadings {
	h := DetailCardHeadings{
		ListingTitle: l.Title,
		SubTitle:     fmt.Sprintf("%d × %s, %s", o.Quantity, l.Title, o.DeliveryMethod),
	}
	if o.VariantPos != nil {
		eligible := orderform.EligibleVariants(l.Stock, l.Variants)
		if idx := *o.VariantPos - 1; idx >= 0 && idx < len(eligible) {
			h.VariantTitle = eligible[idx].Label
		}
	}
	return h
}
