package product

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

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

const productColumns = `id::text, COALESCE(category_id::text, ''), name, COALESCE(description, ''), price_cents, stock, created_at, updated_at`

func (r *postgresRepo) List(ctx context.Context, f Filter) ([]domain.Product, error) {
	var (
		sb   strings.Builder
		args []interface{}
	)
	sb.WriteString(`SELECT ` + productColumns + ` FROM products WHERE 1=1`)
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		sb.WriteString(` AND category_id = $1`)
	}
	if f.Query != "" {
		args = append(args, "%"+strings.ToLower(f.Query)+"%")
		placeholder := "$1"
		if len(args) == 2 {
			placeholder = "$2"
		}
		sb.WriteString(` AND (LOWER(name) LIKE ` + placeholder + ` OR LOWER(description) LIKE ` + placeholder + `)`)
	}
	switch f.Sort {
	case "low-high":
		sb.WriteString(` ORDER BY price_cents ASC`)
	case "high-low":
		sb.WriteString(` ORDER BY price_cents DESC`)
	default:
		sb.WriteString(` ORDER BY created_at DESC`)
	}

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p domain.Product
	if err := scanProduct(r.pool.QueryRow(ctx, q, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Image(ctx context.Context, id string) ([]byte, error) {
	const q = `SELECT image FROM products WHERE id = $1`
	var img []byte
	if err := r.pool.QueryRow(ctx, q, id).Scan(&img); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(img) == 0 {
		return nil, domain.ErrNotFound
	}
	return img, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (category_id, name, description, price_cents, stock, image)
VALUES (NULLIF($1, '')::uuid, $2, NULLIF($3, ''), $4, $5, $6)
RETURNING id::text, created_at, updated_at
`
	res := p
	err := r.pool.QueryRow(ctx, q, p.CategoryID, p.Name, p.Description, p.PriceCents, p.Stock, p.Image).
		Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		r.logger.Printf("product repo: create name=%q error=%v", p.Name, err)
		return nil, err
	}
	return &res, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
UPDATE products
SET category_id = NULLIF($2, '')::uuid,
    name = $3,
    description = NULLIF($4, ''),
    price_cents = $5,
    image = COALESCE($6, image),
    updated_at = now()
WHERE id = $1
RETURNING id::text, stock, created_at, updated_at
`
	// Stock is not an updatable column here; it only moves through the
	// conditional decrement and increment below. Return the stored value
	// so callers never see an echoed request figure.
	res := p
	err := r.pool.QueryRow(ctx, q, p.ID, p.CategoryID, p.Name, p.Description, p.PriceCents, p.Image).
		Scan(&res.ID, &res.Stock, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: update id=%s error=%v", p.ID, err)
		return nil, err
	}
	return &res, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DecrementStock(ctx context.Context, id string, qty int) (int, error) {
	const q = `
UPDATE products
SET stock = stock - $2, updated_at = now()
WHERE id = $1 AND stock >= $2
RETURNING stock
`
	var stock int
	err := r.pool.QueryRow(ctx, q, id, qty).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the product is missing or stock < qty; both mean
			// the reservation did not happen.
			if _, stockErr := r.Stock(ctx, id); errors.Is(stockErr, domain.ErrNotFound) {
				return 0, domain.ErrNotFound
			}
			return 0, domain.ErrInsufficientStock
		}
		r.logger.Printf("product repo: decrement stock id=%s qty=%d error=%v", id, qty, err)
		return 0, err
	}
	return stock, nil
}

func (r *postgresRepo) IncrementStock(ctx context.Context, id string, qty int) (int, error) {
	const q = `
UPDATE products
SET stock = stock + $2, updated_at = now()
WHERE id = $1
RETURNING stock
`
	var stock int
	err := r.pool.QueryRow(ctx, q, id, qty).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		r.logger.Printf("product repo: increment stock id=%s qty=%d error=%v", id, qty, err)
		return 0, err
	}
	return stock, nil
}

func (r *postgresRepo) Stock(ctx context.Context, id string) (int, error) {
	var stock int
	err := r.pool.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, id).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return stock, nil
}

func scanProduct(row pgx.Row, p *domain.Product) error {
	return row.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.PriceCents, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
}
