package cart

import (
	"context"
	"errors"

	"webshop-api/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Items(ctx context.Context, userID string) ([]domain.CartItem, error) {
	const q = `
SELECT c.user_id::text, c.product_id::text, p.name, p.price_cents, c.quantity, p.stock, c.created_at, c.updated_at
FROM cart_items c
JOIN products p ON p.id = c.product_id
WHERE c.user_id = $1
ORDER BY c.created_at ASC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var it domain.CartItem
		if err := rows.Scan(&it.UserID, &it.ProductID, &it.Name, &it.PriceCents, &it.Quantity, &it.Stock, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *postgresRepo) Quantity(ctx context.Context, userID, productID string) (int, error) {
	var qty int
	err := r.pool.QueryRow(ctx, `
SELECT quantity FROM cart_items WHERE user_id = $1 AND product_id = $2
`, userID, productID).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return qty, nil
}

func (r *postgresRepo) Add(ctx context.Context, userID, productID string, qty int) error {
	const q = `
INSERT INTO cart_items (user_id, product_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, product_id) DO UPDATE
SET quantity = cart_items.quantity + EXCLUDED.quantity,
    updated_at = now()
`
	_, err := r.pool.Exec(ctx, q, userID, productID, qty)
	return err
}

func (r *postgresRepo) SetQuantity(ctx context.Context, userID, productID string, qty int) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE cart_items SET quantity = $3, updated_at = now()
WHERE user_id = $1 AND product_id = $2
`, userID, productID, qty)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Remove(ctx context.Context, userID, productID string) (int, error) {
	var qty int
	err := r.pool.QueryRow(ctx, `
DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2
RETURNING quantity
`, userID, productID).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return qty, nil
}

func (r *postgresRepo) Clear(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}

func (r *postgresRepo) DeleteSelected(ctx context.Context, tx pgx.Tx, userID string, productIDs []string) error {
	if len(productIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
DELETE FROM cart_items WHERE user_id = $1 AND product_id = ANY($2::uuid[])
`, userID, productIDs)
	return err
}
