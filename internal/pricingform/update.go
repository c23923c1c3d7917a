package pricingform

import (
	"errors"

	"tradepost/internal/money"
)

// unlimitedStockSentinel is the stock total written when the unlimited
// checkbox is on; the flag itself travels in publicData.
const unlimitedStockSentinel = 9999

// StockUpdate asks the listing API to move the stock total from OldTotal to
// NewTotal with compare-and-set semantics. OldTotal is nil when the total
// was unknown at load time.
type StockUpdate struct {
	OldTotal *int `json:"oldTotal"`
	NewTotal int  `json:"newTotal"`
}

// VariantPayload is one serialized pricing variant.
type VariantPayload struct {
	UnitPrice int64  `json:"unitPrice"`
	Label     string `json:"label"`
}

type PublicData struct {
	Variants       map[int]VariantPayload `json:"variants"`
	StockUnlimited bool                   `json:"stockUnlimited"`
}

// UpdateValues is the exact payload shape the listing-update API expects.
type UpdateValues struct {
	Price       money.Money  `json:"price"`
	StockUpdate *StockUpdate `json:"stockUpdate,omitempty"`
	PublicData  PublicData   `json:"publicData"`
}

var ErrPriceRequired = errors.New("price is required")

// UpdateValues serializes the editor state for submission. Rows without a
// priced amount are dropped; the remaining rows keep their list position as
// the map key. The stock update is included only when the total actually
// changed from what was loaded.
func (e *Editor) UpdateValues() (UpdateValues, error) {
	if e.Price == nil {
		return UpdateValues{}, ErrPriceRequired
	}

	stock := e.Stock
	if e.Unlimited {
		stock = unlimitedStockSentinel
	}

	variants := map[int]VariantPayload{}
	for pos, entry := range e.entries {
		if entry.Price == nil || entry.Price.Amount <= 0 {
			continue
		}
		variants[pos] = VariantPayload{UnitPrice: entry.Price.Amount, Label: entry.Label}
	}

	uv := UpdateValues{
		Price:      *e.Price,
		PublicData: PublicData{Variants: variants, StockUnlimited: e.Unlimited},
	}
	if stock != 0 && (e.currentStock == nil || *e.currentStock != stock) {
		uv.StockUpdate = &StockUpdate{OldTotal: e.currentStock, NewTotal: stock}
	}
	return uv, nil
}

// VariantStocks reports the stock of each row UpdateValues serializes, keyed
// by the same position. Stock is not part of the update payload but must be
// stored with the variants, or they stop being purchasable.
func (e *Editor) VariantStocks() map[int]*int {
	stocks := map[int]*int{}
	for pos, entry := range e.entries {
		if entry.Price == nil || entry.Price.Amount <= 0 {
			continue
		}
		stocks[pos] = entry.Stock
	}
	return stocks
}
