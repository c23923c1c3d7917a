package orderform

import (
	"errors"
	"testing"

	"tradepost/internal/domain"
	"tradepost/internal/money"
)

func testListing(stock int) domain.Listing {
	price := money.New(12900, "USD")
	return domain.Listing{
		ID:    "l-1",
		Title: "Test listing",
		Price: &price,
		Stock: domain.KnownStock(stock),
		Delivery: domain.DeliveryCapability{
			PickupEnabled:   true,
			ShippingEnabled: true,
		},
	}
}

func withVariants(l domain.Listing) domain.Listing {
	l.Variants = []domain.Variant{
		{Label: "a", UnitPrice: money.New(5000, "USD"), Stock: intp(2)},
		{Label: "b", UnitPrice: money.New(6000, "USD"), Stock: intp(5)},
	}
	return l
}

func TestNewPreconditions(t *testing.T) {
	l := testListing(5)
	l.Delivery = domain.DeliveryCapability{}
	if _, err := New(l, "USD"); !errors.Is(err, ErrNoDeliveryMethod) {
		t.Fatalf("want ErrNoDeliveryMethod, got %v", err)
	}

	l = testListing(5)
	l.Price = nil
	if _, err := New(l, "USD"); !errors.Is(err, ErrPriceMissing) {
		t.Fatalf("want ErrPriceMissing, got %v", err)
	}

	l = testListing(5)
	if _, err := New(l, "EUR"); !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("want ErrCurrencyMismatch, got %v", err)
	}
}

func TestSeededInitialValues(t *testing.T) {
	// one item left: quantity fixed to 1
	f, err := New(testListing(1), "USD")
	if err != nil {
		t.Fatal(err)
	}
	sel := f.Selection()
	if sel.Quantity == nil || *sel.Quantity != 1 {
		t.Fatalf("want seeded quantity 1, got %+v", sel)
	}

	// single delivery method: pre-set and fixed
	l := testListing(5)
	l.Delivery = domain.DeliveryCapability{PickupEnabled: true}
	f, err = New(l, "USD")
	if err != nil {
		t.Fatal(err)
	}
	if f.Selection().DeliveryMethod != domain.DeliveryPickup {
		t.Fatalf("want seeded pickup, got %+v", f.Selection())
	}
	if v := f.View(); v.DeliveryChoice || v.FixedDelivery != domain.DeliveryPickup {
		t.Fatalf("delivery should render fixed, got %+v", v)
	}
}

func TestViewStockStates(t *testing.T) {
	// no stock: no quantity options, submit disabled
	f, err := New(testListing(0), "USD")
	if err != nil {
		t.Fatal(err)
	}
	v := f.View()
	if !v.NoStock || v.HasStock || !v.SubmitDisabled || v.QuantityOptions != nil {
		t.Fatalf("zero stock view wrong: %+v", v)
	}

	// stock without variants: full 1..N options, no variant field
	f, err = New(testListing(4), "USD")
	if err != nil {
		t.Fatal(err)
	}
	v = f.View()
	if len(v.QuantityOptions) != 4 || v.VariantOptions != nil || v.SubmitDisabled {
		t.Fatalf("plain stock view wrong: %+v", v)
	}

	// one left: hidden quantity
	f, err = New(testListing(1), "USD")
	if err != nil {
		t.Fatal(err)
	}
	if v = f.View(); !v.OneLeft {
		t.Fatalf("want OneLeft, got %+v", v)
	}
}

func TestCrossFieldReset(t *testing.T) {
	f, err := New(withVariants(testListing(8)), "USD")
	if err != nil {
		t.Fatal(err)
	}

	f.Change(FieldVariant, "1")
	sel := f.Selection()
	if sel.VariantID == nil || *sel.VariantID != 1 || sel.Quantity != nil {
		t.Fatalf("variant change should clear quantity: %+v", sel)
	}

	f.Change(FieldQuantity, "2")
	sel = f.Selection()
	if sel.Quantity == nil || *sel.Quantity != 2 || sel.VariantID != nil {
		t.Fatalf("quantity change should clear variant: %+v", sel)
	}

	// repeating the same field's change does not resurrect the other side
	f.Change(FieldQuantity, "3")
	sel = f.Selection()
	if sel.Quantity == nil || *sel.Quantity != 3 || sel.VariantID != nil {
		t.Fatalf("repeated quantity change wrong: %+v", sel)
	}

	f.Change(FieldVariant, "2")
	sel = f.Selection()
	if sel.VariantID == nil || *sel.VariantID != 2 || sel.Quantity != nil {
		t.Fatalf("variant change should clear quantity again: %+v", sel)
	}
}

func TestChangeParsesTotally(t *testing.T) {
	f, err := New(withVariants(testListing(8)), "USD")
	if err != nil {
		t.Fatal(err)
	}

	f.Change(FieldQuantity, "2x")
	if f.Selection().Quantity != nil {
		t.Fatalf("garbage quantity must clear the field, got %+v", f.Selection())
	}
	f.Change(FieldQuantity, "0")
	if f.Selection().Quantity != nil {
		t.Fatalf("zero quantity must clear the field, got %+v", f.Selection())
	}
	f.Change(FieldVariant, "9")
	if f.Selection().VariantID != nil {
		t.Fatalf("out-of-range variant must clear the field, got %+v", f.Selection())
	}
	f.Change(FieldDeliveryMethod, "courier")
	if f.Selection().DeliveryMethod != "" {
		t.Fatalf("unknown delivery method must clear the field, got %+v", f.Selection())
	}
}

func TestSubmitGate(t *testing.T) {
	// nothing selected: focus quantity
	f, err := New(testListing(5), "USD")
	if err != nil {
		t.Fatal(err)
	}
	if focus, ok := f.SubmitGate(); ok || focus != FieldQuantity {
		t.Fatalf("want quantity focus, got %q ok=%v", focus, ok)
	}

	// quantity set but no delivery: focus delivery
	f.Change(FieldQuantity, "2")
	if focus, ok := f.SubmitGate(); ok || focus != FieldDeliveryMethod {
		t.Fatalf("want delivery focus, got %q ok=%v", focus, ok)
	}

	// complete selection proceeds
	f.Change(FieldDeliveryMethod, "pickup")
	if focus, ok := f.SubmitGate(); !ok || focus != "" {
		t.Fatalf("want gate pass, got %q ok=%v", focus, ok)
	}

	// a variant selection satisfies the quantity requirement
	f, err = New(withVariants(testListing(8)), "USD")
	if err != nil {
		t.Fatal(err)
	}
	f.Change(FieldVariant, "1")
	f.Change(FieldDeliveryMethod, "shipping")
	if _, ok := f.SubmitGate(); !ok {
		t.Fatal("variant selection should pass the gate")
	}
}

func TestEffectiveQuantity(t *testing.T) {
	eligible := []domain.Variant{{Label: "a", Stock: intp(4)}}

	q := 3
	if got := EffectiveQuantity(domain.OrderSelection{Quantity: &q}, eligible); got != 3 {
		t.Fatalf("want 3, got %d", got)
	}
	v := 1
	if got := EffectiveQuantity(domain.OrderSelection{VariantID: &v}, eligible); got != 4 {
		t.Fatalf("variant stock should be used, want 4, got %d", got)
	}
	if got := EffectiveQuantity(domain.OrderSelection{}, eligible); got != 0 {
		t.Fatalf("empty selection should be 0, got %d", got)
	}
	out := 5
	if got := EffectiveQuantity(domain.OrderSelection{VariantID: &out}, eligible); got != 0 {
		t.Fatalf("dangling variant id should be 0, got %d", got)
	}
}

func TestFetchTrigger(t *testing.T) {
	var calls []OrderData
	tr := NewFetchTrigger(func(gen uint64, data OrderData) {
		calls = append(calls, data)
	})

	q := 2
	sel := domain.OrderSelection{Quantity: &q}

	// no delivery method yet: nothing fires
	tr.Notify(sel, nil)
	if len(calls) != 0 {
		t.Fatalf("fetch fired without delivery method: %+v", calls)
	}

	sel.DeliveryMethod = domain.DeliveryPickup
	tr.Notify(sel, nil)
	if len(calls) != 1 || calls[0].Quantity != 2 {
		t.Fatalf("want one fetch for qty 2, got %+v", calls)
	}

	// in flight: further notifications are suppressed
	tr.Notify(sel, nil)
	if len(calls) != 1 {
		t.Fatalf("fetch fired while one was in flight: %+v", calls)
	}

	if !tr.Complete(1) {
		t.Fatal("completing the current generation should report current")
	}
	tr.Notify(sel, nil)
	if len(calls) != 2 {
		t.Fatalf("fetch should fire again after completion, got %+v", calls)
	}

	// a response for a superseded generation is stale
	if tr.Complete(1) {
		t.Fatal("stale generation must be rejected")
	}
	if !tr.InFlight() {
		t.Fatal("stale completion must not clear the in-flight flag")
	}
	if !tr.Complete(2) {
		t.Fatal("current generation should complete")
	}
}

func TestFormNotifiesTrigger(t *testing.T) {
	f, err := New(withVariants(testListing(8)), "USD")
	if err != nil {
		t.Fatal(err)
	}

	var got []OrderData
	var tr *FetchTrigger
	tr = NewFetchTrigger(func(gen uint64, data OrderData) {
		got = append(got, data)
		tr.Complete(gen)
	})
	f.Attach(tr)

	f.Change(FieldVariant, "1")
	f.Change(FieldDeliveryMethod, "shipping")
	if len(got) != 1 {
		t.Fatalf("want one fetch, got %+v", got)
	}
	// variant a has stock 2, so the estimate is for 2 units
	if got[0].Quantity != 2 || got[0].VariantID == nil || *got[0].VariantID != 1 {
		t.Fatalf("fetch payload wrong: %+v", got[0])
	}
}
