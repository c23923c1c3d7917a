package domain

import "tradepost/internal/money"

type DeliveryMethod string

const (
	DeliveryPickup   DeliveryMethod = "pickup"
	DeliveryShipping DeliveryMethod = "shipping"
)

// StockLevel is a non-negative count or "unknown". The zero value is unknown,
// which the order form treats like no stock and the pricing form defaults to 1.
type StockLevel struct {
	Qty   int
	Known bool
}

func KnownStock(qty int) StockLevel { return StockLevel{Qty: qty, Known: true} }

func (s StockLevel) HasStock() bool { return s.Known && s.Qty > 0 }
func (s StockLevel) OneLeft() bool  { return s.Known && s.Qty == 1 }

// Variant is a purchasable sub-option of a listing. Stock is nil when the
// seller never set one; such variants are never offered for sale.
type Variant struct {
	Label     string
	UnitPrice money.Money
	Stock     *int
}

type DeliveryCapability struct {
	PickupEnabled   bool
	ShippingEnabled bool
}

// OrderSelection holds the buyer's current choices. Quantity and VariantID
// are mutually exclusive; the order form clears one whenever the other is
// set. VariantID is the 1-based position into the eligible-variant list.
type OrderSelection struct {
	Quantity       *int
	VariantID      *int
	DeliveryMethod DeliveryMethod
}

type Listing struct {
	ID             string
	Title          string
	Description    string
	Price          *money.Money
	Stock          StockLevel
	StockUnlimited bool
	Delivery       DeliveryCapability
	Variants       []Variant
	SellerEmail    string
	CreatedAt      string
	UpdatedAt      string
}

// LineItem is one row of the estimated cost breakdown.
type LineItem struct {
	Code      string      `json:"code"`
	UnitPrice money.Money `json:"unitPrice"`
	Quantity  int         `json:"quantity"`
	LineTotal money.Money `json:"lineTotal"`
}

type Order struct {
	ID             string `db:"id"`
	ListingID      string `db:"listing_id"`
	Quantity       int    `db:"quantity"`
	VariantPos     *int   `db:"variant_pos"`
	DeliveryMethod string `db:"delivery_method"`
	TotalAmount    int64  `db:"total_amount"`
	Currency       string `db:"currency"`
	Status         string `db:"status"`
	CreatedAt      string `db:"created_at"`
}
