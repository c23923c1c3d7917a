package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Single connection: sqlite allows one writer, and :memory: databases
	// are per-connection.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed demo listings if DB is empty (safe to run every start)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Listings
CREATE TABLE IF NOT EXISTS listings(
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT,
  price_amount INTEGER,          -- minor units; NULL = price not set yet
  currency TEXT,
  stock INTEGER,                 -- NULL = unknown
  stock_unlimited INTEGER NOT NULL DEFAULT 0,
  pickup_enabled INTEGER NOT NULL DEFAULT 0,
  shipping_enabled INTEGER NOT NULL DEFAULT 0,
  seller_email TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings(created_at);

-- Pricing variants, ordered by position within a listing
CREATE TABLE IF NOT EXISTS listing_variants(
  listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
  pos INTEGER NOT NULL,
  label TEXT NOT NULL DEFAULT '',
  price_amount INTEGER NOT NULL,
  stock INTEGER,                 -- NULL = never set; not purchasable
  PRIMARY KEY(listing_id, pos)
);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  listing_id TEXT NOT NULL REFERENCES listings(id),
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  variant_pos INTEGER,
  delivery_method TEXT NOT NULL CHECK (delivery_method IN ('pickup','shipping')),
  total_amount INTEGER NOT NULL,
  currency TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'PLACED',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_listing ON orders(listing_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM listings`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo listings/variants")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO listings(id,title,description,price_amount,currency,stock,stock_unlimited,pickup_enabled,shipping_enabled,seller_email) VALUES
	  ('walnut-desk','Mid-century walnut desk','Solid walnut, lightly restored.',24900,'USD',8,0,1,1,'mia@tradepost.test'),
	  ('wool-rug','Handwoven wool rug','Naturally dyed, 160x230cm.',18500,'USD',1,0,0,1,'omar@tradepost.test'),
	  ('film-camera','35mm film camera','Fully serviced, new light seals.',9900,'USD',0,0,1,0,'mia@tradepost.test')`)

	tx.MustExec(`INSERT INTO listing_variants(listing_id,pos,label,price_amount,stock) VALUES
	  ('walnut-desk',0,'with matching chair',5900,2),
	  ('walnut-desk',1,'scratched top, discounted',19900,5),
	  ('walnut-desk',2,'showroom piece',24900,10)`)

	return tx.Commit()
}
