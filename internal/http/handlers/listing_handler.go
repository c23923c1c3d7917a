package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"tradepost/internal/config"
	applog "tradepost/internal/log"
	"tradepost/internal/orderform"
	"tradepost/internal/repos"
	"tradepost/internal/validate"
)

type ListingHandler struct {
	Listings *repos.ListingRepo
	Cfg      config.Config
}

func (h *ListingHandler) Home(c *fiber.Ctx) error {
	listings, err := h.Listings.List(20)
	if err != nil {
		applog.Error(c, "home.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load listings"})
	}
	return render(c, "home", fiber.Map{"Listings": listings})
}

// formErrorMessage maps an order-form precondition failure to the message
// rendered in place of the whole form.
func formErrorMessage(err error) string {
	switch {
	case errors.Is(err, orderform.ErrNoDeliveryMethod):
		return "This listing has no delivery method set and cannot be ordered."
	case errors.Is(err, orderform.ErrPriceMissing):
		return "This listing has no price yet."
	case errors.Is(err, orderform.ErrCurrencyMismatch):
		return "This listing is priced in an unsupported currency."
	default:
		return "This listing cannot be ordered right now."
	}
}

func (h *ListingHandler) Detail(c *fiber.Ctx) error {
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
		// Precondition failure: the error message replaces the form.
		return render(c, "listing", fiber.Map{"L": l, "FormError": formErrorMessage(err)})
	}
	return render(c, "listing", fiber.Map{
		"L":          l,
		"Form":       form.View(),
		"FocusField": "",
	})
}

func (h *ListingHandler) Contact(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This listing is no longer available"})
	}
	l, err := h.Listings.Get(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This listing is no longer available"})
	}
	return render(c, "contact", fiber.Map{"L": l})
}
