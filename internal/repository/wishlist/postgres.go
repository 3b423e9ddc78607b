package wishlist

import (
	"context"
	"errors"

	"webshop-api/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Add(ctx context.Context, userID, productID string) error {
	const q = `INSERT INTO wishlist_items (user_id, product_id) VALUES ($1, $2)`
	_, err := r.pool.Exec(ctx, q, userID, productID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *postgresRepo) Remove(ctx context.Context, userID, productID string) error {
	cmd, err := r.pool.Exec(ctx, `
DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2
`, userID, productID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) List(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	const q = `
SELECT w.user_id::text, w.product_id::text, p.name, p.price_cents, p.stock, w.created_at
FROM wishlist_items w
JOIN products p ON p.id = w.product_id
WHERE w.user_id = $1
ORDER BY w.created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.WishlistItem
	for rows.Next() {
		var it domain.WishlistItem
		if err := rows.Scan(&it.UserID, &it.ProductID, &it.Name, &it.PriceCents, &it.Stock, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *postgresRepo) Clear(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM wishlist_items WHERE user_id = $1`, userID)
	return err
}
