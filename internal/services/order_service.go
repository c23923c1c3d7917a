package services

import (
	"errors"

	"github.com/google/uuid"

	"tradepost/internal/domain"
	"tradepost/internal/money"
	"tradepost/internal/orderform"
	"tradepost/internal/repos"
)

type OrderService struct {
	Listings  *repos.ListingRepo
	Orders    *repos.OrderRepo
	LineItems *LineItemService
}

func NewOrderService(listings *repos.ListingRepo, orders *repos.OrderRepo, lineItems *LineItemService) *OrderService {
	return &OrderService{Listings: listings, Orders: orders, LineItems: lineItems}
}

// Place creates an order for a gate-approved selection: price it, decrement
// stock, insert the order row. The caller has already run the submit gate,
// so an unusable selection here is a bug, not user error.
func (s *OrderService) Place(l domain.Listing, sel domain.OrderSelection) (string, money.Money, error) {
	eligible := orderform.EligibleVariants(l.Stock, l.Variants)
	qty := orderform.EffectiveQuantity(sel, eligible)
	if qty < 1 {
		return "", money.Money{}, errors.New("order has no usable quantity")
	}
	if sel.DeliveryMethod == "" {
		return "", money.Money{}, errors.New("order has no delivery method")
	}

	data := orderform.OrderData{Quantity: qty, DeliveryMethod: sel.DeliveryMethod, VariantID: sel.VariantID}
	_, total, err := s.LineItems.Estimate(l, data)
	if err != nil {
		return "", money.Money{}, err
	}

	if err := s.Listings.DecrementStock(l.ID, qty); err != nil {
		return "", money.Money{}, err
	}

	o := domain.Order{
		ID:             uuid.NewString(),
		ListingID:      l.ID,
		Quantity:       qty,
		VariantPos:     sel.VariantID,
		DeliveryMethod: string(sel.DeliveryMethod),
		TotalAmount:    total.Amount,
		Currency:       total.Currency,
		Status:         "PLACED",
	}
	if err := s.Orders.Create(o); err != nil {
		return "", money.Money{}, err
	}
	return o.ID, total, nil
}
