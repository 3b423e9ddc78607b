package importer

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresWriter struct {
	pool *pgxpool.Pool
}

func NewPostgresWriter(pool *pgxpool.Pool) CatalogWriter {
	return &postgresWriter{pool: pool}
}

func (w *postgresWriter) EnsureCategory(ctx context.Context, name string) (string, error) {
	const q = `
INSERT INTO categories (name)
VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text
`
	var id string
	if err := w.pool.QueryRow(ctx, q, name).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (w *postgresWriter) UpsertProduct(ctx context.Context, categoryID string, row ProductRow) error {
	const upd = `
UPDATE products
SET description = $3, price_cents = $4, stock = $5, updated_at = now()
WHERE category_id = $1 AND name = $2
`
	cmd, err := w.pool.Exec(ctx, upd, categoryID, row.Name, row.Description, row.PriceCents, row.Stock)
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
	_, err = w.pool.Exec(ctx, ins, categoryID, row.Name, row.Description, row.PriceCents, row.Stock)
	return err
}
