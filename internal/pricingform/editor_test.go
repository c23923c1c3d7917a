package pricingform

import (
	"testing"

	"tradepost/internal/domain"
	"tradepost/internal/money"
)

func intp(n int) *int { return &n }

func moneyp(amount int64) *money.Money {
	m := money.New(amount, "USD")
	return &m
}

func seededEditor() *Editor {
	price := money.New(24900, "USD")
	l := domain.Listing{
		ID:    "l-1",
		Price: &price,
		Stock: domain.KnownStock(8),
		Variants: []domain.Variant{
			{Label: "first", UnitPrice: money.New(1000, "USD"), Stock: intp(2)},
			{Label: "second", UnitPrice: money.New(2000, "USD"), Stock: intp(5)},
			{Label: "third", UnitPrice: money.New(3000, "USD"), Stock: intp(7)},
		},
	}
	return NewEditor(l, "USD", 500)
}

func TestNewEditorDefaults(t *testing.T) {
	e := seededEditor()
	if e.Stock != 8 {
		t.Fatalf("want stock 8, got %d", e.Stock)
	}
	if len(e.Entries()) != 3 {
		t.Fatalf("want 3 seeded rows, got %d", len(e.Entries()))
	}

	// unknown stock defaults to 1
	price := money.New(1000, "USD")
	e = NewEditor(domain.Listing{Price: &price}, "USD", 0)
	if e.Stock != 1 {
		t.Fatalf("unknown stock should default to 1, got %d", e.Stock)
	}
}

func TestAddAssignsStableIdentity(t *testing.T) {
	e := seededEditor()
	id1 := e.Add()
	id2 := e.Add()
	if id1 == "" || id2 == "" || id1 == id2 {
		t.Fatalf("identity tokens must be unique and non-empty: %q %q", id1, id2)
	}

	// removing an earlier row must not disturb later rows' identity
	before := e.Entries()[4].ID
	if err := e.Remove(0); err != nil {
		t.Fatal(err)
	}
	if e.Entries()[3].ID != before {
		t.Fatalf("identity changed after unrelated removal: %q -> %q", before, e.Entries()[3].ID)
	}
}

func TestRemoveByPosition(t *testing.T) {
	e := seededEditor()
	if err := e.Remove(1); err != nil {
		t.Fatal(err)
	}
	got := e.Entries()
	if len(got) != 2 || got[0].Label != "first" || got[1].Label != "third" {
		t.Fatalf("remove(1) should keep rows 0 and 2 in order, got %+v", got)
	}

	if err := e.Remove(5); err == nil {
		t.Fatal("out-of-range removal must fail")
	}
	if err := e.Remove(-1); err == nil {
		t.Fatal("negative position must fail")
	}
}

func TestValidate(t *testing.T) {
	e := seededEditor()
	if errs := e.Validate(); len(errs) != 0 {
		t.Fatalf("seeded editor should validate clean, got %v", errs)
	}

	e.Price = nil
	if errs := e.Validate(); errs["price"] == "" {
		t.Fatal("missing price must be reported")
	}

	e.Price = moneyp(100) // below the 500 floor
	if errs := e.Validate(); errs["price"] == "" {
		t.Fatal("price below minimum must be reported")
	}

	e = seededEditor()
	e.Stock = -1
	if errs := e.Validate(); errs["stock"] == "" {
		t.Fatal("negative stock must be reported")
	}

	e = seededEditor()
	id := e.Add()
	e.SetEntry(id, nil, moneyp(100), "cheap")
	if errs := e.Validate(); errs["variantPrice_"+id] == "" {
		t.Fatal("variant price below minimum must be reported by identity token")
	}

	// a row with no price at all is a placeholder, not an error
	e = seededEditor()
	e.Add()
	if errs := e.Validate(); len(errs) != 0 {
		t.Fatalf("blank row should not block submission, got %v", errs)
	}
}

func TestUpdateValuesDropsIncompleteEntries(t *testing.T) {
	price := money.New(24900, "USD")
	e := NewEditor(domain.Listing{Price: &price, Stock: domain.KnownStock(8)}, "USD", 0)

	priced := e.Add()
	e.SetEntry(priced, intp(3), moneyp(1500), "")
	blank := e.Add()
	e.SetEntry(blank, nil, nil, "")
	labeled := e.Add()
	e.SetEntry(labeled, nil, nil, "label only")

	uv, err := e.UpdateValues()
	if err != nil {
		t.Fatal(err)
	}
	if len(uv.PublicData.Variants) != 1 {
		t.Fatalf("only the priced row should serialize, got %v", uv.PublicData.Variants)
	}
	got, ok := uv.PublicData.Variants[0]
	if !ok || got.UnitPrice != 1500 {
		t.Fatalf("priced row should keep its position key, got %v", uv.PublicData.Variants)
	}
}

func TestUpdateValuesStockUpdate(t *testing.T) {
	e := seededEditor()

	// unchanged stock: no update requested
	uv, err := e.UpdateValues()
	if err != nil {
		t.Fatal(err)
	}
	if uv.StockUpdate != nil {
		t.Fatalf("unchanged stock must not request an update, got %+v", uv.StockUpdate)
	}

	// changed stock: compare-and-set from the loaded total
	e.Stock = 5
	uv, err = e.UpdateValues()
	if err != nil {
		t.Fatal(err)
	}
	if uv.StockUpdate == nil || uv.StockUpdate.NewTotal != 5 ||
		uv.StockUpdate.OldTotal == nil || *uv.StockUpdate.OldTotal != 8 {
		t.Fatalf("want oldTotal 8 newTotal 5, got %+v", uv.StockUpdate)
	}

	// unknown loaded total: oldTotal is null
	price := money.New(1000, "USD")
	e = NewEditor(domain.Listing{Price: &price}, "USD", 0)
	e.Stock = 3
	uv, err = e.UpdateValues()
	if err != nil {
		t.Fatal(err)
	}
	if uv.StockUpdate == nil || uv.StockUpdate.OldTotal != nil || uv.StockUpdate.NewTotal != 3 {
		t.Fatalf("want null oldTotal newTotal 3, got %+v", uv.StockUpdate)
	}

	// unlimited forces the sentinel total and travels in publicData
	e = seededEditor()
	e.Unlimited = true
	uv, err = e.UpdateValues()
	if err != nil {
		t.Fatal(err)
	}
	if uv.StockUpdate == nil || uv.StockUpdate.NewTotal != 9999 || !uv.PublicData.StockUnlimited {
		t.Fatalf("unlimited should set 9999, got %+v %+v", uv.StockUpdate, uv.PublicData)
	}
}

func TestVariantStocksMatchPayloadPositions(t *testing.T) {
	e := seededEditor()
	e.Add() // blank row, not serialized
	id := e.Add()
	e.SetEntry(id, nil, moneyp(1000), "no stock set")

	uv, err := e.UpdateValues()
	if err != nil {
		t.Fatal(err)
	}
	stocks := e.VariantStocks()
	if len(stocks) != len(uv.PublicData.Variants) {
		t.Fatalf("stocks must cover exactly the serialized rows: %v vs %v", stocks, uv.PublicData.Variants)
	}
	for _, tc := range []struct {
		pos  int
		want int
	}{{0, 2}, {1, 5}, {2, 7}} {
		if s := stocks[tc.pos]; s == nil || *s != tc.want {
			t.Fatalf("stock at %d: want %d, got %+v", tc.pos, tc.want, s)
		}
	}
	// a priced row without a stock value stores NULL
	if s, ok := stocks[4]; !ok || s != nil {
		t.Fatalf("unset stock should be present and nil, got %v ok=%v", s, ok)
	}
}

func TestUpdateValuesRequiresPrice(t *testing.T) {
	e := seededEditor()
	e.Price = nil
	if _, err := e.UpdateValues(); err == nil {
		t.Fatal("missing price must fail serialization")
	}
}
