package orderform

import (
	"errors"

	"tradepost/internal/domain"
	"tradepost/internal/validate"
)

// Field names used by Change and as focus targets from the submit gate.
const (
	FieldQuantity       = "quantity"
	FieldVariant        = "variant"
	FieldDeliveryMethod = "deliveryMethod"
)

// Precondition failures. The caller renders an error state instead of the
// form; none of these are recoverable by user input.
var (
	ErrNoDeliveryMethod = errors.New("listing has no delivery method configured")
	ErrPriceMissing     = errors.New("listing price is missing")
	ErrCurrencyMismatch = errors.New("listing price currency does not match the marketplace currency")
)

// Form is the request-scoped state of the product-order form. All mutation
// happens through Change, which enforces the quantity/variant exclusivity
// before anything observes the selection.
type Form struct {
	listing  domain.Listing
	currency string
	eligible []domain.Variant
	mode     DeliveryMode
	fixed    domain.DeliveryMethod
	sel      domain.OrderSelection
	trigger  *FetchTrigger
}

// New validates the listing's form preconditions and seeds initial values:
// quantity is fixed to 1 when exactly one item is left, and the delivery
// method is pre-set when only one is enabled.
func New(l domain.Listing, currency string) (*Form, error) {
	mode, fixed := ResolveDelivery(l.Delivery)
	if mode == DeliveryNone {
		return nil, ErrNoDeliveryMethod
	}
	if l.Price == nil {
		return nil, ErrPriceMissing
	}
	if l.Price.Currency != currency {
		return nil, ErrCurrencyMismatch
	}

	f := &Form{
		listing:  l,
		currency: currency,
		eligible: EligibleVariants(l.Stock, l.Variants),
		mode:     mode,
		fixed:    fixed,
	}
	if l.Stock.OneLeft() {
		one := 1
		f.sel.Quantity = &one
	}
	if mode == DeliveryFixed {
		f.sel.DeliveryMethod = fixed
	}
	return f, nil
}

// Attach registers the line-item fetch trigger. It is notified after every
// Change once the reset rules have been applied.
func (f *Form) Attach(t *FetchTrigger) { f.trigger = t }

// Change applies a single field edit. Raw values are parsed totally: input
// that does not parse clears the field rather than keeping a stale value.
// Setting the variant clears the quantity and vice versa, synchronously,
// so the two are never meaningful at the same time.
func (f *Form) Change(field, raw string) {
	switch field {
	case FieldVariant:
		if f.eligible == nil {
			return
		}
		if v, ok := validate.PositiveInt(raw); ok && v <= len(f.eligible) {
			f.sel.VariantID = &v
		} else {
			f.sel.VariantID = nil
		}
		f.sel.Quantity = nil
	case FieldQuantity:
		if q, ok := validate.PositiveInt(raw); ok {
			f.sel.Quantity = &q
		} else {
			f.sel.Quantity = nil
		}
		// No-op when the listing has no variant field.
		f.sel.VariantID = nil
	case FieldDeliveryMethod:
		if m, ok := validate.DeliveryMethod(raw); ok {
			f.sel.DeliveryMethod = domain.DeliveryMethod(m)
		} else {
			f.sel.DeliveryMethod = ""
		}
	default:
		return
	}
	if f.trigger != nil {
		f.trigger.Notify(f.sel, f.eligible)
	}
}

func (f *Form) Selection() domain.OrderSelection { return f.sel }

func (f *Form) Eligible() []domain.Variant { return f.eligible }

// SubmitGate decides whether submission may proceed. On failure it names the
// field that should receive focus so its validation message becomes visible:
// the quantity/variant field when neither holds a usable value, then the
// delivery field. It never mutates the selection.
func (f *Form) SubmitGate() (focus string, ok bool) {
	q := f.sel.Quantity
	if (q == nil || *q < 1) && f.sel.VariantID == nil {
		return FieldQuantity, false
	}
	if f.sel.DeliveryMethod == "" {
		return FieldDeliveryMethod, false
	}
	return "", true
}

// VariantOption is one entry of the rendered variant selector.
type VariantOption struct {
	Value int
	Label string
}

// View is everything a template needs to render the form.
type View struct {
	QuantityOptions []int
	VariantOptions  []VariantOption
	HasStock        bool
	OneLeft         bool
	NoStock         bool
	DeliveryChoice  bool
	FixedDelivery   domain.DeliveryMethod
	SubmitDisabled  bool
	Selection       domain.OrderSelection
}

func (f *Form) View() View {
	v := View{
		QuantityOptions: QuantityOptions(f.listing.Stock),
		HasStock:        f.listing.Stock.HasStock(),
		OneLeft:         f.listing.Stock.OneLeft(),
		NoStock:         !f.listing.Stock.HasStock(),
		DeliveryChoice:  f.mode == DeliveryChoice,
		FixedDelivery:   f.fixed,
		Selection:       f.sel,
	}
	v.SubmitDisabled = !v.HasStock
	for i, ev := range f.eligible {
		v.VariantOptions = append(v.VariantOptions, VariantOption{
			Value: i + 1,
			Label: VariantOptionLabel(ev, f.currency),
		})
	}
	return v
}
