package coupon

import (
	"context"

	"webshop-api/internal/domain"

	"github.com/jackc/pgx/v5"
)

type Repository interface {
	// DetectCapabilities probes the schema once at startup. Later calls
	// rely on the cached result instead of per-request metadata lookups.
	DetectCapabilities(ctx context.Context) error
	// HasNewUserOnlyColumn reports whether the coupons table carries the
	// new_user_only column. When it does not, eligibility falls back to
	// a static allow-list of legacy promotional codes.
	HasNewUserOnlyColumn() bool

	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	ListActive(ctx context.Context) ([]domain.Coupon, error)
	Create(ctx context.Context, c domain.Coupon) (*domain.Coupon, error)

	// RecordUsage runs inside the caller's checkout transaction: it
	// increments used_count, refusing to exceed usage_limit, and appends
	// the audit row. Zero rows updated means the coupon vanished or was
	// exhausted between evaluation and redemption; it returns
	// ErrCouponExhausted and the caller must roll back.
	RecordUsage(ctx context.Context, tx pgx.Tx, usage domain.CouponUsage) error
}
