package repos

import (
	"github.com/jmoiron/sqlx"

	"tradepost/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) Create(o domain.Order) error {
	_, err := r.db.Exec(`
	  INSERT INTO orders(id, listing_id, quantity, variant_pos, delivery_method, total_amount, currency, status, created_at)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, o.ID, o.ListingID, o.Quantity, o.VariantPos, o.DeliveryMethod, o.TotalAmount, o.Currency, o.Status)
	return err
}

func (r *OrderRepo) Get(id string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `
	  SELECT id, listing_id, quantity, variant_pos, delivery_method, total_amount, currency, status, created_at
	  FROM orders
	  WHERE id = ?
	`, id)
	return o, err
}
