package pricingform

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"tradepost/internal/domain"
	"tradepost/internal/money"
)

// Entry is one editable pricing-variant row. ID is a per-session identity
// token assigned on creation; field inputs are bound to it, never to the
// row's position, so removals elsewhere cannot corrupt this row's values.
type Entry struct {
	ID    string
	Stock *int
	Price *money.Money
	Label string
}

var ErrBadPosition = errors.New("no pricing variant at that position")

// Editor holds the working state of the listing-pricing form: the base
// price, the stock total, the unlimited-stock flag, and the ordered list of
// pricing-variant rows.
type Editor struct {
	currency         string
	minPriceSubunits int64
	currentStock     *int

	Price     *money.Money
	Stock     int
	Unlimited bool

	entries []Entry
}

// NewEditor seeds the form from the listing being edited. An unknown stock
// total defaults to 1, matching what a fresh listing starts with.
func NewEditor(l domain.Listing, currency string, minPriceSubunits int64) *Editor {
	e := &Editor{
		currency:         currency,
		minPriceSubunits: minPriceSubunits,
		Price:            l.Price,
		Unlimited:        l.StockUnlimited,
		Stock:            1,
	}
	if l.Stock.Known {
		qty := l.Stock.Qty
		e.currentStock = &qty
		e.Stock = qty
	}
	for _, v := range l.Variants {
		price := v.UnitPrice
		e.entries = append(e.entries, Entry{
			ID:    uuid.NewString(),
			Stock: v.Stock,
			Price: &price,
			Label: v.Label,
		})
	}
	return e
}

func (e *Editor) Entries() []Entry { return e.entries }

// Add appends a blank row and returns its identity token.
func (e *Editor) Add() string {
	id := uuid.NewString()
	e.entries = append(e.entries, Entry{ID: id})
	return id
}

// Remove deletes exactly the row at the given position; later rows shift up.
func (e *Editor) Remove(pos int) error {
	if pos < 0 || pos >= len(e.entries) {
		return ErrBadPosition
	}
	e.entries = append(e.entries[:pos], e.entries[pos+1:]...)
	return nil
}

// RestoreEntries replaces the rows with ones rebuilt from a posted form,
// keeping the identity tokens the page was rendered with.
func (e *Editor) RestoreEntries(entries []Entry) { e.entries = entries }

// SetEntry updates the row with the given identity token. It reports false
// when no such row exists (e.g. it was removed in a concurrent edit).
func (e *Editor) SetEntry(id string, stock *int, price *money.Money, label string) bool {
	for i := range e.entries {
		if e.entries[i].ID == id {
			e.entries[i].Stock = stock
			e.entries[i].Price = price
			e.entries[i].Label = label
			return true
		}
	}
	return false
}

// Validate checks every field and returns inline messages keyed by field
// name: "price", "stock", or "variantPrice_<id>". An empty map means the
// form may be submitted.
func (e *Editor) Validate() map[string]string {
	errs := map[string]string{}
	if e.Price == nil {
		errs["price"] = "A price is required."
	} else if e.Price.Currency != e.currency {
		errs["price"] = fmt.Sprintf("The price must be in %s.", e.currency)
	} else if e.minPriceSubunits > 0 && e.Price.Amount < e.minPriceSubunits {
		min := money.New(e.minPriceSubunits, e.currency)
		errs["price"] = fmt.Sprintf("The price is below the minimum (%s).", min.Format())
	}
	if !e.Unlimited && e.Stock < 0 {
		errs["stock"] = "Stock must be 0 or more."
	}
	for _, entry := range e.entries {
		if entry.Price == nil {
			continue // placeholder row, dropped on submit
		}
		key := "variantPrice_" + entry.ID
		if entry.Price.Currency != e.currency {
			errs[key] = fmt.Sprintf("The price must be in %s.", e.currency)
		} else if e.minPriceSubunits > 0 && entry.Price.Amount < e.minPriceSubunits {
			min := money.New(e.minPriceSubunits, e.currency)
			errs[key] = fmt.Sprintf("The price is below the minimum (%s).", min.Format())
		}
		if entry.Stock != nil && *entry.Stock < 0 {
			errs["variantStock_"+entry.ID] = "Stock must be 0 or more."
		}
	}
	return errs
}
