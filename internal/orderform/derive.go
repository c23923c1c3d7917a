package orderform

import (
	"tradepost/internal/domain"
	"tradepost/internal/money"
)

// EligibleVariants returns the sub-sequence of variants that can currently be
// purchased: those whose own stock is set and strictly below the listing
// stock, in their original order. A nil result means the variant selector is
// not shown at all, either because the listing has no variants or because
// none qualify.
func EligibleVariants(stock domain.StockLevel, variants []domain.Variant) []domain.Variant {
	if variants == nil || !stock.HasStock() {
		return nil
	}
	var out []domain.Variant
	for _, v := range variants {
		if v.Stock != nil && *v.Stock < stock.Qty {
			out = append(out, v)
		}
	}
	return out
}

// QuantityOptions lists the selectable quantities 1..stock.
func QuantityOptions(stock domain.StockLevel) []int {
	if !stock.HasStock() {
		return nil
	}
	out := make([]int, stock.Qty)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

type DeliveryMode int

const (
	// DeliveryNone means the listing has no delivery method configured.
	// The form must not render; this is a precondition failure.
	DeliveryNone DeliveryMode = iota
	// DeliveryFixed means exactly one method is enabled; the field is hidden
	// and the value submitted as-is.
	DeliveryFixed
	// DeliveryChoice means both methods are enabled and the buyer must pick.
	DeliveryChoice
)

// ResolveDelivery maps the listing's capability flags to a form rendering
// mode. For DeliveryFixed the second return value is the fixed method.
func ResolveDelivery(cap domain.DeliveryCapability) (DeliveryMode, domain.DeliveryMethod) {
	switch {
	case cap.PickupEnabled && cap.ShippingEnabled:
		return DeliveryChoice, ""
	case cap.ShippingEnabled:
		return DeliveryFixed, domain.DeliveryShipping
	case cap.PickupEnabled:
		return DeliveryFixed, domain.DeliveryPickup
	default:
		return DeliveryNone, ""
	}
}

// VariantOptionLabel builds the selector text for an eligible variant:
// the variant's total value (unit price times its stock) followed by its
// label, e.g. "$39.95 blue, size M".
func VariantOptionLabel(v domain.Variant, currency string) string {
	qty := 0
	if v.Stock != nil {
		qty = *v.Stock
	}
	total := money.New(v.UnitPrice.Amount, currency).Mul(qty)
	return total.Format() + " " + v.Label
}
