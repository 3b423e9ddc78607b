package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	Category    string
	Name        string
	Description string
	PriceCents  int64
	Stock       int
}

type couponSeed struct {
	Code             string
	Type             string
	Value            int64
	MinAmountCents   int64
	MaxDiscountCents *int64
	NewUserOnly      bool
}

// Apply inserts basic seed data for manual testing. It is idempotent via
// ON CONFLICT and runs against a fully migrated schema.
func Apply(ctx context.Context, pool *pgxpool.Pool, adminEmail, adminPassword string) error {
	categoryIDs := map[string]string{}
	for _, name := range []string{"Electronics", "Books", "Clothing", "Home & Kitchen"} {
		id, err := ensureCategory(ctx, pool, name)
		if err != nil {
			return fmt.Errorf("ensure category %s: %w", name, err)
		}
		categoryIDs[name] = id
	}

	products := []productSeed{
		{Category: "Electronics", Name: "Wireless Headphones", Description: "Over-ear, 30h battery", PriceCents: 499900, Stock: 25},
		{Category: "Electronics", Name: "Mechanical Keyboard", Description: "Tenkeyless, brown switches", PriceCents: 349900, Stock: 40},
		{Category: "Books", Name: "The Pragmatic Programmer", Description: "20th anniversary edition", PriceCents: 59900, Stock: 100},
		{Category: "Clothing", Name: "Plain Cotton T-Shirt", Description: "Unisex, multiple sizes", PriceCents: 29900, Stock: 200},
		{Category: "Home & Kitchen", Name: "French Press", Description: "Borosilicate glass, 1L", PriceCents: 89900, Stock: 35},
	}
	for _, p := range products {
		if err := ensureProduct(ctx, pool, categoryIDs[p.Category], p); err != nil {
			return fmt.Errorf("ensure product %s: %w", p.Name, err)
		}
	}

	maxSave20 := int64(50000)
	coupons := []couponSeed{
		{Code: "WELCOME10", Type: "PERCENT", Value: 10, NewUserOnly: true},
		{Code: "NEWUSER5", Type: "FLAT", Value: 50000, MinAmountCents: 100000, NewUserOnly: true},
		{Code: "FLAT100", Type: "FLAT", Value: 10000, MinAmountCents: 50000},
		{Code: "SAVE20", Type: "PERCENT", Value: 20, MinAmountCents: 200000, MaxDiscountCents: &maxSave20},
	}
	for _, c := range coupons {
		if err := ensureCoupon(ctx, pool, c); err != nil {
			return fmt.Errorf("ensure coupon %s: %w", c.Code, err)
		}
	}

	if adminEmail != "" && adminPassword != "" {
		if err := ensureAdmin(ctx, pool, adminEmail, adminPassword); err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
	}

	return nil
}

func ensureCategory(ctx context.Context, pool *pgxpool.Pool, name string) (string, error) {
	const q = `
INSERT INTO categories (name)
VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, name).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func ensureProduct(ctx context.Context, pool *pgxpool.Pool, categoryID string, p productSeed) error {
	// Products carry no natural key, so idempotency is by (category, name).
	const upd = `
UPDATE products
SET description = $3, price_cents = $4, updated_at = now()
WHERE category_id = $1 AND name = $2
`
	cmd, err := pool.Exec(ctx, upd, categoryID, p.Name, p.Description, p.PriceCents)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}
	const ins = `
INSERT INTO products (category_id, name, description, price_cents, stock)
VALUES ($1, $2, $3, $4, $5)
`
	_, err = pool.Exec(ctx, ins, categoryID, p.Name, p.Description, p.PriceCents, p.Stock)
	return err
}

func ensureCoupon(ctx context.Context, pool *pgxpool.Pool, c couponSeed) error {
	const q = `
INSERT INTO coupons (code, type, value, min_amount_cents, max_discount_cents, active, new_user_only)
VALUES ($1, $2, $3, $4, $5, TRUE, $6)
ON CONFLICT (LOWER(code)) DO UPDATE
SET type = EXCLUDED.type,
    value = EXCLUDED.value,
    min_amount_cents = EXCLUDED.min_amount_cents,
    max_discount_cents = EXCLUDED.max_discount_cents,
    new_user_only = EXCLUDED.new_user_only
`
	_, err := pool.Exec(ctx, q, c.Code, c.Type, c.Value, c.MinAmountCents, c.MaxDiscountCents, c.NewUserOnly)
	return err
}

func ensureAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (email, password_hash, role)
VALUES (LOWER($1), $2, 'admin')
ON CONFLICT (email) DO UPDATE
SET password_hash = EXCLUDED.password_hash, role = 'admin'
`
	_, err = pool.Exec(ctx, q, email, string(hash))
	return err
}
