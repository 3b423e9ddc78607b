package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"webshop-api/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoItemsSelected is returned when the selection matches nothing in
// the user's cart.
var ErrNoItemsSelected = errors.New("no items selected for checkout")

// CouponInvalidError reports a coupon rejected during checkout with the
// evaluator's client-facing reason.
type CouponInvalidError struct {
	Reason string
}

func (e *CouponInvalidError) Error() string {
	return "coupon invalid: " + e.Reason
}

type cartRepo interface {
	Items(ctx context.Context, userID string) ([]domain.CartItem, error)
	DeleteSelected(ctx context.Context, tx pgx.Tx, userID string, productIDs []string) error
}

type orderRepo interface {
	Create(ctx context.Context, tx pgx.Tx, userID string, totalCents int64, status string) (string, error)
	CreateLines(ctx context.Context, tx pgx.Tx, orderID string, lines []domain.OrderLine) error
}

type couponRepo interface {
	RecordUsage(ctx context.Context, tx pgx.Tx, usage domain.CouponUsage) error
}

type evaluator interface {
	Evaluate(ctx context.Context, code string, amountCents int64, userID string) (domain.DiscountOutcome, error)
}

// Service turns selected cart lines into a paid order inside one
// database transaction: order header, line snapshots, cart cleanup and
// coupon usage commit or roll back as a unit.
type Service struct {
	pool    *pgxpool.Pool
	cart    cartRepo
	orders  orderRepo
	coupons couponRepo
	eval    evaluator
	logger  *log.Logger
}

func New(pool *pgxpool.Pool, cart cartRepo, orders orderRepo, coupons couponRepo, eval evaluator, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{pool: pool, cart: cart, orders: orders, coupons: coupons, eval: eval, logger: logger}
}

type Input struct {
	SelectedProductIDs []string
	CouponCode         string
	// Client-computed figures, accepted for interface compatibility.
	// The authoritative amounts are recomputed from the cart snapshot
	// and the coupon evaluator; these are never persisted.
	AmountCents         int64
	OriginalAmountCents int64
}

type Confirmation struct {
	OrderID       string
	PaymentRef    string
	TotalCents    int64
	DiscountCents int64
}

// Checkout places an order for the selected cart lines. The cart is read
// exactly once; that snapshot feeds selection validation, the original
// amount, coupon evaluation and the order line snapshots, so a
// concurrent cart mutation cannot split the view.
func (s *Service) Checkout(ctx context.Context, userID string, in Input) (*Confirmation, error) {
	items, err := s.cart.Items(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	lines, productIDs, originalAmount := selectLines(items, in.SelectedProductIDs)
	if len(lines) == 0 {
		return nil, ErrNoItemsSelected
	}

	if in.AmountCents != 0 && in.AmountCents != originalAmount && in.CouponCode == "" {
		s.logger.Printf("checkout: client amount %d differs from computed %d user_id=%s", in.AmountCents, originalAmount, userID)
	}

	total := originalAmount
	var outcome domain.DiscountOutcome
	if in.CouponCode != "" {
		outcome, err = s.eval.Evaluate(ctx, in.CouponCode, originalAmount, userID)
		if err != nil {
			return nil, fmt.Errorf("evaluate coupon: %w", err)
		}
		if !outcome.Valid {
			return nil, &CouponInvalidError{Reason: outcome.Reason}
		}
		total = outcome.NewAmountCents
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	orderID, err := s.orders.Create(ctx, tx, userID, total, domain.OrderStatusPaid)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	if err := s.orders.CreateLines(ctx, tx, orderID, lines); err != nil {
		return nil, fmt.Errorf("create order lines: %w", err)
	}
	if err := s.cart.DeleteSelected(ctx, tx, userID, productIDs); err != nil {
		return nil, fmt.Errorf("clear checked-out cart rows: %w", err)
	}
	if outcome.CouponID != "" {
		err := s.coupons.RecordUsage(ctx, tx, domain.CouponUsage{
			CouponID:            outcome.CouponID,
			UserID:              userID,
			OrderID:             &orderID,
			AmountBeforeCents:   originalAmount,
			DiscountAmountCents: outcome.DiscountCents,
		})
		if err != nil {
			return nil, fmt.Errorf("record coupon usage: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit checkout: %w", err)
	}

	s.logger.Printf("checkout: order placed order_id=%s user_id=%s total=%d discount=%d", orderID, userID, total, outcome.DiscountCents)
	return &Confirmation{
		OrderID:       orderID,
		PaymentRef:    uuid.NewString(),
		TotalCents:    total,
		DiscountCents: outcome.DiscountCents,
	}, nil
}

// selectLines filters the cart snapshot down to the selected products
// and builds order lines with unit price and line total snapshots.
func selectLines(items []domain.CartItem, selected []string) ([]domain.OrderLine, []string, int64) {
	want := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		want[id] = struct{}{}
	}

	var (
		lines      []domain.OrderLine
		productIDs []string
		total      int64
	)
	for _, it := range items {
		if _, ok := want[it.ProductID]; !ok {
			continue
		}
		lineTotal := it.PriceCents * int64(it.Quantity)
		lines = append(lines, domain.OrderLine{
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			UnitPriceCents: it.PriceCents,
			TotalCents:     lineTotal,
		})
		productIDs = append(productIDs, it.ProductID)
		total += lineTotal
	}
	return lines, productIDs, total
}
