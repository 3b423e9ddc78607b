package coupon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"webshop-api/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool              *pgxpool.Pool
	logger            *log.Logger
	hasNewUserColumn  bool
	capabilitiesKnown bool
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) DetectCapabilities(ctx context.Context) error {
	const q = `
SELECT EXISTS (
	SELECT 1 FROM information_schema.columns
	WHERE table_name = 'coupons' AND column_name = 'new_user_only'
)
`
	if err := r.pool.QueryRow(ctx, q).Scan(&r.hasNewUserColumn); err != nil {
		return fmt.Errorf("probe coupons.new_user_only: %w", err)
	}
	r.capabilitiesKnown = true
	r.logger.Printf("coupon repo: new_user_only column present=%v", r.hasNewUserColumn)
	return nil
}

func (r *postgresRepo) HasNewUserOnlyColumn() bool {
	return r.capabilitiesKnown && r.hasNewUserColumn
}

func (r *postgresRepo) selectColumns() string {
	cols := `id::text, code, type, value, min_amount_cents, max_discount_cents, expires_at, usage_limit, used_count, active, created_at`
	if r.HasNewUserOnlyColumn() {
		cols += `, new_user_only`
	}
	return cols
}

func (r *postgresRepo) scanCoupon(row pgx.Row) (*domain.Coupon, error) {
	var c domain.Coupon
	dest := []interface{}{
		&c.ID, &c.Code, &c.Type, &c.Value, &c.MinAmountCents, &c.MaxDiscountCents,
		&c.ExpiresAt, &c.UsageLimit, &c.UsedCount, &c.Active, &c.CreatedAt,
	}
	if r.HasNewUserOnlyColumn() {
		dest = append(dest, &c.NewUserOnly)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	q := `SELECT ` + r.selectColumns() + ` FROM coupons WHERE LOWER(code) = LOWER($1)`
	c, err := r.scanCoupon(r.pool.QueryRow(ctx, q, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("coupon repo: get code=%q error=%v", code, err)
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) ListActive(ctx context.Context) ([]domain.Coupon, error) {
	q := `SELECT ` + r.selectColumns() + ` FROM coupons WHERE active ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Coupon
	for rows.Next() {
		c, err := r.scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Coupon) (*domain.Coupon, error) {
	const q = `
INSERT INTO coupons (code, type, value, min_amount_cents, max_discount_cents, expires_at, usage_limit, active, new_user_only)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id::text, used_count, created_at
`
	res := c
	err := r.pool.QueryRow(ctx, q,
		c.Code, c.Type, c.Value, c.MinAmountCents, c.MaxDiscountCents,
		c.ExpiresAt, c.UsageLimit, c.Active, c.NewUserOnly,
	).Scan(&res.ID, &res.UsedCount, &res.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("coupon repo: create code=%q error=%v", c.Code, err)
		return nil, err
	}
	return &res, nil
}

func (r *postgresRepo) RecordUsage(ctx context.Context, tx pgx.Tx, usage domain.CouponUsage) error {
	cmd, err := tx.Exec(ctx, `
UPDATE coupons
SET used_count = used_count + 1
WHERE id = $1 AND (usage_limit IS NULL OR used_count < usage_limit)
`, usage.CouponID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("coupon %s: %w", usage.CouponID, domain.ErrCouponExhausted)
	}

	_, err = tx.Exec(ctx, `
INSERT INTO coupon_usages (coupon_id, user_id, order_id, amount_before_cents, discount_amount_cents)
VALUES ($1, $2, $3, $4, $5)
`, usage.CouponID, usage.UserID, usage.OrderID, usage.AmountBeforeCents, usage.DiscountAmountCents)
	return err
}
