package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"tradepost/internal/domain"
	"tradepost/internal/money"
	"tradepost/internal/pricingform"
)

// ErrStockOldTotalMismatch reports that the stock total changed since the
// form was loaded; the compare-and-set refused to overwrite it.
var ErrStockOldTotalMismatch = errors.New("stock old total out of sync")

type ListingRepo struct{ db *sqlx.DB }

func NewListingRepo(db *sqlx.DB) *ListingRepo { return &ListingRepo{db: db} }

type listingRow struct {
	ID              string        `db:"id"`
	Title           string        `db:"title"`
	Description     string        `db:"description"`
	PriceAmount     sql.NullInt64 `db:"price_amount"`
	Currency        sql.NullString `db:"currency"`
	Stock           sql.NullInt64 `db:"stock"`
	StockUnlimited  bool          `db:"stock_unlimited"`
	PickupEnabled   bool          `db:"pickup_enabled"`
	ShippingEnabled bool          `db:"shipping_enabled"`
	SellerEmail     string        `db:"seller_email"`
	CreatedAt       string        `db:"created_at"`
	UpdatedAt       string        `db:"updated_at"`
}

type variantRow struct {
	Pos         int           `db:"pos"`
	Label       string        `db:"label"`
	PriceAmount int64         `db:"price_amount"`
	Stock       sql.NullInt64 `db:"stock"`
}

func (row listingRow) toDomain(variants []variantRow) domain.Listing {
	l := domain.Listing{
		ID:             row.ID,
		Title:          row.Title,
		Description:    row.Description,
		StockUnlimited: row.StockUnlimited,
		Delivery: domain.DeliveryCapability{
			PickupEnabled:   row.PickupEnabled,
			ShippingEnabled: row.ShippingEnabled,
		},
		SellerEmail: row.SellerEmail,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if row.PriceAmount.Valid {
		p := money.New(row.PriceAmount.Int64, row.Currency.String)
		l.Price = &p
	}
	if row.Stock.Valid {
		l.Stock = domain.KnownStock(int(row.Stock.Int64))
	}
	for _, vr := range variants {
		v := domain.Variant{
			Label:     vr.Label,
			UnitPrice: money.New(vr.PriceAmount, row.Currency.String),
		}
		if vr.Stock.Valid {
			s := int(vr.Stock.Int64)
			v.Stock = &s
		}
		l.Variants = append(l.Variants, v)
	}
	return l
}

func (r *ListingRepo) Get(id string) (domain.Listing, error) {
	var row listingRow
	err := r.db.Get(&row, `
	  SELECT
	    id, title, COALESCE(description,'') AS description, price_amount, currency,
	    stock, stock_unlimited, pickup_enabled, shipping_enabled,
	    COALESCE(seller_email,'') AS seller_email,
	    created_at, COALESCE(updated_at,'') AS updated_at
	  FROM listings
	  WHERE id = ?
	`, id)
	if err != nil {
		return domain.Listing{}, err
	}

	var variants []variantRow
	if err := r.db.Select(&variants, `
	  SELECT pos, label, price_amount, stock
	  FROM listing_variants
	  WHERE listing_id = ?
	  ORDER BY pos
	`, id); err != nil {
		return domain.Listing{}, err
	}

	return row.toDomain(variants), nil
}

func (r *ListingRepo) List(limit int) ([]domain.Listing, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []listingRow
	err := r.db.Select(&rows, `
	  SELECT
	    id, title, COALESCE(description,'') AS description, price_amount, currency,
	    stock, stock_unlimited, pickup_enabled, shipping_enabled,
	    COALESCE(seller_email,'') AS seller_email,
	    created_at, COALESCE(updated_at,'') AS updated_at
	  FROM listings
	  ORDER BY created_at DESC
	  LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Listing, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain(nil))
	}
	return out, nil
}

// UpdatePricing replaces the listing's price, unlimited flag, and pricing
// variants in one transaction. Variant positions are the serialized map
// keys, so display order survives the round trip. stocks carries each
// variant's stock under the same keys; a missing or nil entry stores NULL.
func (r *ListingRepo) UpdatePricing(id string, price money.Money, stockUnlimited bool, variants map[int]pricingform.VariantPayload, stocks map[int]*int) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
	  UPDATE listings
	  SET price_amount = ?, currency = ?, stock_unlimited = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, price.Amount, price.Currency, stockUnlimited, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	if _, err := tx.Exec(`DELETE FROM listing_variants WHERE listing_id = ?`, id); err != nil {
		return err
	}
	for pos, v := range variants {
		var stock sql.NullInt64
		if s := stocks[pos]; s != nil {
			stock = sql.NullInt64{Int64: int64(*s), Valid: true}
		}
		if _, err := tx.Exec(`
		  INSERT INTO listing_variants(listing_id, pos, label, price_amount, stock)
		  VALUES (?, ?, ?, ?, ?)
		`, id, pos, v.Label, v.UnitPrice, stock); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// CompareAndSetStock moves the stock total from oldTotal to newTotal only if
// the stored value still equals oldTotal (nil matches NULL). A lost race
// returns ErrStockOldTotalMismatch.
func (r *ListingRepo) CompareAndSetStock(id string, oldTotal *int, newTotal int) error {
	var (
		res sql.Result
		err error
	)
	if oldTotal == nil {
		res, err = r.db.Exec(`
		  UPDATE listings SET stock = ?, updated_at = CURRENT_TIMESTAMP
		  WHERE id = ? AND stock IS NULL
		`, newTotal, id)
	} else {
		res, err = r.db.Exec(`
		  UPDATE listings SET stock = ?, updated_at = CURRENT_TIMESTAMP
		  WHERE id = ? AND stock = ?
		`, newTotal, id, *oldTotal)
	}
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrStockOldTotalMismatch
	}
	return nil
}

// DecrementStock atomically subtracts sold units if enough stock exists.
func (r *ListingRepo) DecrementStock(id string, by int) error {
	res, err := r.db.Exec(`
	  UPDATE listings
	  SET stock = stock - ?
	  WHERE id = ? AND stock >= ?
	`, by, id, by)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return errors.New("insufficient stock for " + id)
	}
	return nil
}
