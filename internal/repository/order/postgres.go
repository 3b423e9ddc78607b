package order

import (
	"context"
	"io"
	"log"

	"webshop-api/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, tx pgx.Tx, userID string, totalCents int64, status string) (string, error) {
	const q = `
INSERT INTO orders (user_id, total_cents, status)
VALUES ($1, $2, $3)
RETURNING id::text
`
	var id string
	if err := tx.QueryRow(ctx, q, userID, totalCents, status).Scan(&id); err != nil {
		r.logger.Printf("order repo: create user_id=%s error=%v", userID, err)
		return "", err
	}
	return id, nil
}

func (r *postgresRepo) CreateLines(ctx context.Context, tx pgx.Tx, orderID string, lines []domain.OrderLine) error {
	const q = `
INSERT INTO order_lines (order_id, product_id, quantity, unit_price_cents, total_cents)
VALUES ($1, $2, $3, $4, $5)
`
	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(q, orderID, l.ProductID, l.Quantity, l.UnitPriceCents, l.TotalCents)
	}
	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for range lines {
		if _, err := br.Exec(); err != nil {
			r.logger.Printf("order repo: insert line order_id=%s error=%v", orderID, err)
			return err
		}
	}
	return nil
}

func (r *postgresRepo) HistoryByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `
SELECT id::text, user_id::text, total_cents, status, created_at
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalCents, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		lines, err := r.Lines(ctx, userID, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Lines = lines
	}
	return orders, nil
}

func (r *postgresRepo) Lines(ctx context.Context, userID, orderID string) ([]domain.OrderLine, error) {
	const q = `
SELECT l.id::text, l.order_id::text, l.product_id::text, p.name, l.quantity, l.unit_price_cents, l.total_cents
FROM order_lines l
JOIN orders o ON o.id = l.order_id
JOIN products p ON p.id = l.product_id
WHERE l.order_id = $1 AND o.user_id = $2
`
	rows, err := r.pool.Query(ctx, q, orderID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Name, &l.Quantity, &l.UnitPriceCents, &l.TotalCents); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *postgresRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(1) FROM orders WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
