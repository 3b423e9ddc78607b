package checkout

import (
	"context"
	"errors"
	"os"
	"testing"

	"webshop-api/internal/domain"
	"webshop-api/internal/migrate"
	cartrepo "webshop-api/internal/repository/cart"
	couponrepo "webshop-api/internal/repository/coupon"
	orderrepo "webshop-api/internal/repository/order"
	couponsvc "webshop-api/internal/service/coupon"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func checkoutPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Fatalf("ping db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE coupon_usages, coupons, order_lines, orders, cart_items, wishlist_items, products, categories, tokens, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func TestCheckout_Integration(t *testing.T) {
	ctx := context.Background()
	pool := checkoutPool(ctx, t)
	defer pool.Close()
	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	var userID string
	if err := pool.QueryRow(ctx, `INSERT INTO users (email, password_hash) VALUES ('it@example.com', 'x') RETURNING id::text`).Scan(&userID); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	var productID string
	if err := pool.QueryRow(ctx, `INSERT INTO products (name, price_cents, stock) VALUES ('Widget', 10000, 8) RETURNING id::text`).Scan(&productID); err != nil {
		t.Fatalf("insert product: %v", err)
	}
	if _, err := pool.Exec(ctx, `INSERT INTO cart_items (user_id, product_id, quantity) VALUES ($1, $2, 2)`, userID, productID); err != nil {
		t.Fatalf("insert cart row: %v", err)
	}
	var couponID string
	if err := pool.QueryRow(ctx, `INSERT INTO coupons (code, type, value, usage_limit) VALUES ('SAVE10', 'PERCENT', 10, 1) RETURNING id::text`).Scan(&couponID); err != nil {
		t.Fatalf("insert coupon: %v", err)
	}

	cartRepo := cartrepo.NewPostgres(pool)
	orderRepo := orderrepo.NewPostgres(pool, nil)
	couponRepo := couponrepo.NewPostgres(pool, nil)
	if err := couponRepo.DetectCapabilities(ctx); err != nil {
		t.Fatalf("detect capabilities: %v", err)
	}
	eval := couponsvc.New(couponRepo, orderRepo)
	svc := New(pool, cartRepo, orderRepo, couponRepo, eval, nil)

	conf, err := svc.Checkout(ctx, userID, Input{
		SelectedProductIDs: []string{productID},
		CouponCode:         "SAVE10",
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if conf.TotalCents != 18000 {
		t.Fatalf("expected total 18000 after 10%% off 20000, got %d", conf.TotalCents)
	}
	if conf.PaymentRef == "" {
		t.Fatalf("expected payment reference")
	}

	var cartRows int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM cart_items WHERE user_id = $1`, userID).Scan(&cartRows); err != nil {
		t.Fatalf("count cart rows: %v", err)
	}
	if cartRows != 0 {
		t.Fatalf("expected checked-out rows removed, got %d", cartRows)
	}

	var usedCount int
	if err := pool.QueryRow(ctx, `SELECT used_count FROM coupons WHERE id = $1`, couponID).Scan(&usedCount); err != nil {
		t.Fatalf("read used_count: %v", err)
	}
	if usedCount != 1 {
		t.Fatalf("expected used_count 1, got %d", usedCount)
	}

	var lineTotal int64
	if err := pool.QueryRow(ctx, `SELECT total_cents FROM order_lines WHERE order_id = $1`, conf.OrderID).Scan(&lineTotal); err != nil {
		t.Fatalf("read order line: %v", err)
	}
	if lineTotal != 20000 {
		t.Fatalf("expected undiscounted line total 20000, got %d", lineTotal)
	}

	var (
		usageOrderID string
		amountBefore int64
		discount     int64
	)
	err = pool.QueryRow(ctx,
		`SELECT order_id::text, amount_before_cents, discount_amount_cents FROM coupon_usages WHERE coupon_id = $1 AND user_id = $2`,
		couponID, userID,
	).Scan(&usageOrderID, &amountBefore, &discount)
	if err != nil {
		t.Fatalf("read coupon usage: %v", err)
	}
	if usageOrderID != conf.OrderID || amountBefore != 20000 || discount != 2000 {
		t.Fatalf("unexpected usage row order=%s before=%d discount=%d", usageOrderID, amountBefore, discount)
	}

	// Re-creating the code in a different case must hit the LOWER(code)
	// unique index and come back as the sentinel, not a driver error.
	if _, err := couponRepo.Create(ctx, domain.Coupon{Code: "save10", Type: "PERCENT", Value: 5}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for duplicate code, got %v", err)
	}

	// RecordUsage against the exhausted coupon reports the conflict so the
	// caller rolls back.
	tx, err := pool.Begin(ctx)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	usageErr := couponRepo.RecordUsage(ctx, tx, domain.CouponUsage{CouponID: couponID, UserID: userID, AmountBeforeCents: 10000})
	tx.Rollback(ctx)
	if !errors.Is(usageErr, domain.ErrCouponExhausted) {
		t.Fatalf("expected ErrCouponExhausted, got %v", usageErr)
	}

	// The limit is exhausted now; a second checkout with the same coupon
	// must fail before any writes.
	if _, err := pool.Exec(ctx, `INSERT INTO cart_items (user_id, product_id, quantity) VALUES ($1, $2, 1)`, userID, productID); err != nil {
		t.Fatalf("insert second cart row: %v", err)
	}
	_, err = svc.Checkout(ctx, userID, Input{
		SelectedProductIDs: []string{productID},
		CouponCode:         "SAVE10",
	})
	var couponErr *CouponInvalidError
	if !errors.As(err, &couponErr) {
		t.Fatalf("expected coupon invalid error, got %v", err)
	}

	var orderCount int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM orders WHERE user_id = $1`, userID).Scan(&orderCount); err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if orderCount != 1 {
		t.Fatalf("expected rejected checkout to create no order, got %d", orderCount)
	}
}

// lineWriteFailer delegates the order header insert to the real repo and
// fails the line insert, so the transaction dies between the two writes.
type lineWriteFailer struct {
	orders orderrepo.Repository
}

func (f *lineWriteFailer) Create(ctx context.Context, tx pgx.Tx, userID string, totalCents int64, status string) (string, error) {
	return f.orders.Create(ctx, tx, userID, totalCents, status)
}

func (f *lineWriteFailer) CreateLines(context.Context, pgx.Tx, string, []domain.OrderLine) error {
	return errors.New("line insert failed")
}

func TestCheckout_LineInsertFailureLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	pool := checkoutPool(ctx, t)
	defer pool.Close()
	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	var userID string
	if err := pool.QueryRow(ctx, `INSERT INTO users (email, password_hash) VALUES ('it2@example.com', 'x') RETURNING id::text`).Scan(&userID); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	var productID string
	if err := pool.QueryRow(ctx, `INSERT INTO products (name, price_cents, stock) VALUES ('Gadget', 10000, 8) RETURNING id::text`).Scan(&productID); err != nil {
		t.Fatalf("insert product: %v", err)
	}
	if _, err := pool.Exec(ctx, `INSERT INTO cart_items (user_id, product_id, quantity) VALUES ($1, $2, 2)`, userID, productID); err != nil {
		t.Fatalf("insert cart row: %v", err)
	}
	var couponID string
	if err := pool.QueryRow(ctx, `INSERT INTO coupons (code, type, value) VALUES ('FLAT100', 'FLAT', 10000) RETURNING id::text`).Scan(&couponID); err != nil {
		t.Fatalf("insert coupon: %v", err)
	}

	cartRepo := cartrepo.NewPostgres(pool)
	orderRepo := orderrepo.NewPostgres(pool, nil)
	couponRepo := couponrepo.NewPostgres(pool, nil)
	if err := couponRepo.DetectCapabilities(ctx); err != nil {
		t.Fatalf("detect capabilities: %v", err)
	}
	eval := couponsvc.New(couponRepo, orderRepo)
	svc := New(pool, cartRepo, &lineWriteFailer{orders: orderRepo}, couponRepo, eval, nil)

	_, err := svc.Checkout(ctx, userID, Input{
		SelectedProductIDs: []string{productID},
		CouponCode:         "FLAT100",
	})
	if err == nil {
		t.Fatalf("expected checkout to fail")
	}

	// The header insert succeeded inside the transaction; after rollback
	// no order, line, cart change or coupon usage may be observable.
	var orders, lines, usages int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&orders); err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM order_lines`).Scan(&lines); err != nil {
		t.Fatalf("count order lines: %v", err)
	}
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM coupon_usages`).Scan(&usages); err != nil {
		t.Fatalf("count coupon usages: %v", err)
	}
	if orders != 0 || lines != 0 || usages != 0 {
		t.Fatalf("rollback left traces: orders=%d lines=%d usages=%d", orders, lines, usages)
	}

	var qty int
	if err := pool.QueryRow(ctx, `SELECT quantity FROM cart_items WHERE user_id = $1 AND product_id = $2`, userID, productID).Scan(&qty); err != nil {
		t.Fatalf("read cart row: %v", err)
	}
	if qty != 2 {
		t.Fatalf("expected cart row intact with quantity 2, got %d", qty)
	}

	var usedCount int
	if err := pool.QueryRow(ctx, `SELECT used_count FROM coupons WHERE id = $1`, couponID).Scan(&usedCount); err != nil {
		t.Fatalf("read used_count: %v", err)
	}
	if usedCount != 0 {
		t.Fatalf("expected used_count 0 after rollback, got %d", usedCount)
	}
}
