package orderform

import "tradepost/internal/domain"

// OrderData is the payload handed to the line-item fetch.
type OrderData struct {
	Quantity       int                   `json:"quantity"`
	DeliveryMethod domain.DeliveryMethod `json:"deliveryMethod"`
	VariantID      *int                  `json:"variantId,omitempty"`
}

// EffectiveQuantity resolves the quantity a cost estimate should be computed
// for: the explicit quantity when one is selected, otherwise the stock of the
// selected eligible variant, otherwise 0.
func EffectiveQuantity(sel domain.OrderSelection, eligible []domain.Variant) int {
	if sel.Quantity != nil && *sel.Quantity > 0 {
		return *sel.Quantity
	}
	if sel.VariantID != nil {
		idx := *sel.VariantID - 1
		if idx >= 0 && idx < len(eligible) && eligible[idx].Stock != nil {
			return *eligible[idx].Stock
		}
	}
	return 0
}

type FetchFunc func(gen uint64, data OrderData)

// FetchTrigger fires the line-item fetch when the selection is complete
// enough to estimate. At most one fetch is in flight at a time, and each
// fetch carries a generation number so late responses for superseded
// selections can be discarded.
type FetchTrigger struct {
	fetch    FetchFunc
	inFlight bool
	gen      uint64
}

func NewFetchTrigger(fetch FetchFunc) *FetchTrigger {
	return &FetchTrigger{fetch: fetch}
}

// Notify is called after every field change. It fires the fetch when the
// effective quantity is positive, a delivery method is chosen, and no fetch
// is already in flight.
func (t *FetchTrigger) Notify(sel domain.OrderSelection, eligible []domain.Variant) {
	qty := EffectiveQuantity(sel, eligible)
	if qty <= 0 || sel.DeliveryMethod == "" || t.inFlight {
		return
	}
	t.gen++
	t.inFlight = true
	t.fetch(t.gen, OrderData{Quantity: qty, DeliveryMethod: sel.DeliveryMethod, VariantID: sel.VariantID})
}

// Complete marks the fetch with the given generation as finished. It reports
// whether the response is current; stale generations are ignored and the
// caller must drop their result.
func (t *FetchTrigger) Complete(gen uint64) bool {
	if gen != t.gen {
		return false
	}
	t.inFlight = false
	return true
}

func (t *FetchTrigger) InFlight() bool { return t.inFlight }
