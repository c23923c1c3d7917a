package services

import (
	"errors"

	"tradepost/internal/config"
	"tradepost/internal/domain"
	"tradepost/internal/money"
	"tradepost/internal/orderform"
)

// LineItemService computes the estimated cost breakdown the order form shows
// before checkout. The order form treats it as a fire-and-forget external
// collaborator; retries and caching are its problem, and it has neither.
type LineItemService struct {
	cfg config.Config
}

func NewLineItemService(cfg config.Config) *LineItemService {
	return &LineItemService{cfg: cfg}
}

var ErrNoUnitPrice = errors.New("no unit price for the requested selection")

const lineItemShippingFee = "line-item/shipping-fee"

// Estimate prices a candidate order: units at the listing or selected
// variant unit price, plus a flat shipping fee when shipping was chosen.
func (s *LineItemService) Estimate(l domain.Listing, data orderform.OrderData) ([]domain.LineItem, money.Money, error) {
	unitPrice, err := s.unitPrice(l, data.VariantID)
	if err != nil {
		return nil, money.Money{}, err
	}

	items := []domain.LineItem{{
		Code:      s.cfg.LineItemUnitType,
		UnitPrice: unitPrice,
		Quantity:  data.Quantity,
		LineTotal: unitPrice.Mul(data.Quantity),
	}}
	if data.DeliveryMethod == domain.DeliveryShipping && s.cfg.ShippingFeeSubunits > 0 {
		fee := money.New(s.cfg.ShippingFeeSubunits, s.cfg.Currency)
		items = append(items, domain.LineItem{
			Code:      lineItemShippingFee,
			UnitPrice: fee,
			Quantity:  1,
			LineTotal: fee,
		})
	}

	total := money.New(0, s.cfg.Currency)
	for _, it := range items {
		total, err = total.Add(it.LineTotal)
		if err != nil {
			return nil, money.Money{}, err
		}
	}
	return items, total, nil
}

func (s *LineItemService) unitPrice(l domain.Listing, variantID *int) (money.Money, error) {
	if variantID != nil {
		eligible := orderform.EligibleVariants(l.Stock, l.Variants)
		idx := *variantID - 1
		if idx < 0 || idx >= len(eligible) {
			return money.Money{}, ErrNoUnitPrice
		}
		return eligible[idx].UnitPrice, nil
	}
	if l.Price == nil {
		return money.Money{}, ErrNoUnitPrice
	}
	return *l.Price, nil
}
