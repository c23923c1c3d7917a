package services

import (
	"errors"
	"fmt"

	"tradepost/internal/pricingform"
	"tradepost/internal/repos"
)

// User-facing messages for failed pricing saves. The stock conflict gets its
// own wording because reloading fixes it; everything else is generic.
const (
	MsgStockOutOfSync    = "The stock total was out of sync. Reload the page and try again."
	MsgStockUpdateFailed = "Stock update failed. Please try again."
	MsgUpdateFailed      = "Could not update the listing. Please try again."
)

type ListingService struct {
	Listings *repos.ListingRepo
}

func NewListingService(listings *repos.ListingRepo) *ListingService {
	return &ListingService{Listings: listings}
}

// UpdatePricing applies a pricing-form submission: price and variants first,
// then the stock compare-and-set. A stock conflict leaves the price update
// in place, mirroring the two separate API calls the payload is split into.
// variantStocks rides along keyed like the payload's variants.
func (s *ListingService) UpdatePricing(id string, uv pricingform.UpdateValues, variantStocks map[int]*int) error {
	if err := s.Listings.UpdatePricing(id, uv.Price, uv.PublicData.StockUnlimited, uv.PublicData.Variants, variantStocks); err != nil {
		return fmt.Errorf("update pricing: %w", err)
	}
	if uv.StockUpdate != nil {
		if err := s.Listings.CompareAndSetStock(id, uv.StockUpdate.OldTotal, uv.StockUpdate.NewTotal); err != nil {
			return fmt.Errorf("set stock: %w", err)
		}
	}
	return nil
}

// StockErrorMessage maps a failed save to its user-facing message.
func StockErrorMessage(err error) string {
	if errors.Is(err, repos.ErrStockOldTotalMismatch) {
		return MsgStockOutOfSync
	}
	return MsgStockUpdateFailed
}
