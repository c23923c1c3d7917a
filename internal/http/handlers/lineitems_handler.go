package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tradepost/internal/domain"
	applog "tradepost/internal/log"
	"tradepost/internal/orderform"
	"tradepost/internal/repos"
	"tradepost/internal/services"
	"tradepost/internal/validate"
)

type LineItemsHandler struct {
	Listings  *repos.ListingRepo
	LineItems *services.LineItemService
}

// Estimate is the server end of the order form's line-item fetch:
// GET /api/v1/line-items?listingId=&quantity=&variant=&deliveryMethod=
func (h *LineItemsHandler) Estimate(c *fiber.Ctx) error {
	listingID, ok := validate.ID(c.Query("listingId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing listingId"})
	}
	method, ok := validate.DeliveryMethod(c.Query("deliveryMethod"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "deliveryMethod must be pickup or shipping"})
	}

	sel := domain.OrderSelection{DeliveryMethod: domain.DeliveryMethod(method)}
	if raw := c.Query("quantity"); raw != "" {
		q, ok := validate.PositiveInt(raw)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "quantity must be a positive integer"})
		}
		sel.Quantity = &q
	}
	if raw := c.Query("variant"); raw != "" {
		v, ok := validate.PositiveInt(raw)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "variant must be a positive integer"})
		}
		sel.VariantID = &v
	}

	l, err := h.Listings.Get(listingID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "listing not found"})
	}

	eligible := orderform.EligibleVariants(l.Stock, l.Variants)
	qty := orderform.EffectiveQuantity(sel, eligible)
	if qty < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "quantity or variant required"})
	}

	data := orderform.OrderData{Quantity: qty, DeliveryMethod: sel.DeliveryMethod, VariantID: sel.VariantID}
	items, total, err := h.LineItems.Estimate(l, data)
	if err != nil {
		applog.Error(c, "lineitems.estimate.fail", err, map[string]any{"listing": listingID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not estimate"})
	}
	return c.JSON(fiber.Map{"lineItems": items, "total": total})
}
