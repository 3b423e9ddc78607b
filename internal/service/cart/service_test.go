package cart

import (
	"context"
	"errors"
	"testing"

	"webshop-api/internal/domain"
)

type stubCartRepo struct {
	quantities map[string]int
	addErr     error
	setErr     error
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{quantities: map[string]int{}}
}

func (s *stubCartRepo) Items(_ context.Context, _ string) ([]domain.CartItem, error) {
	var items []domain.CartItem
	for id, qty := range s.quantities {
		items = append(items, domain.CartItem{ProductID: id, Quantity: qty})
	}
	return items, nil
}

func (s *stubCartRepo) Quantity(_ context.Context, _, productID string) (int, error) {
	qty, ok := s.quantities[productID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return qty, nil
}

func (s *stubCartRepo) Add(_ context.Context, _, productID string, qty int) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.quantities[productID] += qty
	return nil
}

func (s *stubCartRepo) SetQuantity(_ context.Context, _, productID string, qty int) error {
	if s.setErr != nil {
		return s.setErr
	}
	if _, ok := s.quantities[productID]; !ok {
		return domain.ErrNotFound
	}
	s.quantities[productID] = qty
	return nil
}

func (s *stubCartRepo) Remove(_ context.Context, _, productID string) (int, error) {
	qty, ok := s.quantities[productID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	delete(s.quantities, productID)
	return qty, nil
}

func (s *stubCartRepo) Clear(_ context.Context, _ string) error {
	s.quantities = map[string]int{}
	return nil
}

type stubStockRepo struct {
	stocks map[string]int
}

func (s *stubStockRepo) DecrementStock(_ context.Context, id string, qty int) (int, error) {
	cur, ok := s.stocks[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if cur < qty {
		return 0, domain.ErrInsufficientStock
	}
	s.stocks[id] = cur - qty
	return s.stocks[id], nil
}

func (s *stubStockRepo) IncrementStock(_ context.Context, id string, qty int) (int, error) {
	cur, ok := s.stocks[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	s.stocks[id] = cur + qty
	return s.stocks[id], nil
}

func TestAdd_ReservesStock(t *testing.T) {
	repo := newStubCartRepo()
	stock := &stubStockRepo{stocks: map[string]int{"p1": 5}}
	svc := New(repo, stock, nil)

	res, err := svc.Add(context.Background(), "u1", "p1", 3)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if stock.stocks["p1"] != 2 {
		t.Fatalf("expected stock 2, got %d", stock.stocks["p1"])
	}
	if repo.quantities["p1"] != 3 {
		t.Fatalf("expected cart qty 3, got %d", repo.quantities["p1"])
	}
	if res.UpdatedStocks["p1"] != 2 {
		t.Fatalf("expected reported stock 2, got %d", res.UpdatedStocks["p1"])
	}
}

func TestAdd_InsufficientStockLeavesCartUntouched(t *testing.T) {
	repo := newStubCartRepo()
	stock := &stubStockRepo{stocks: map[string]int{"p1": 2}}
	svc := New(repo, stock, nil)

	_, err := svc.Add(context.Background(), "u1", "p1", 3)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if stock.stocks["p1"] != 2 {
		t.Fatalf("stock mutated on failed add: %d", stock.stocks["p1"])
	}
	if len(repo.quantities) != 0 {
		t.Fatalf("cart mutated on failed add")
	}
}

func TestAdd_CompensatesWhenCartWriteFails(t *testing.T) {
	repo := newStubCartRepo()
	repo.addErr = errors.New("db down")
	stock := &stubStockRepo{stocks: map[string]int{"p1": 5}}
	svc := New(repo, stock, nil)

	_, err := svc.Add(context.Background(), "u1", "p1", 3)
	if err == nil {
		t.Fatalf("expected error")
	}
	if stock.stocks["p1"] != 5 {
		t.Fatalf("expected compensating increment back to 5, got %d", stock.stocks["p1"])
	}
}

func TestAdd_RejectsNonPositiveQuantity(t *testing.T) {
	svc := New(newStubCartRepo(), &stubStockRepo{stocks: map[string]int{}}, nil)
	if _, err := svc.Add(context.Background(), "u1", "p1", 0); err == nil {
		t.Fatalf("expected error for zero quantity")
	}
}

func TestUpdate_HigherQuantityReservesDifference(t *testing.T) {
	repo := newStubCartRepo()
	repo.quantities["p1"] = 2
	stock := &stubStockRepo{stocks: map[string]int{"p1": 10}}
	svc := New(repo, stock, nil)

	res, err := svc.Update(context.Background(), "u1", "p1", 5)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if stock.stocks["p1"] != 7 {
		t.Fatalf("expected stock 7, got %d", stock.stocks["p1"])
	}
	if repo.quantities["p1"] != 5 {
		t.Fatalf("expected cart qty 5, got %d", repo.quantities["p1"])
	}
	if res.UpdatedStocks["p1"] != 7 {
		t.Fatalf("expected reported stock 7, got %d", res.UpdatedStocks["p1"])
	}
}

func TestUpdate_HigherQuantityCompensatesOnWriteFailure(t *testing.T) {
	repo := newStubCartRepo()
	repo.quantities["p1"] = 2
	repo.setErr = errors.New("db down")
	stock := &stubStockRepo{stocks: map[string]int{"p1": 10}}
	svc := New(repo, stock, nil)

	if _, err := svc.Update(context.Background(), "u1", "p1", 5); err == nil {
		t.Fatalf("expected error")
	}
	if stock.stocks["p1"] != 10 {
		t.Fatalf("expected stock back to 10, got %d", stock.stocks["p1"])
	}
	if repo.quantities["p1"] != 2 {
		t.Fatalf("cart qty changed on failed update")
	}
}

func TestUpdate_LowerQuantityReleasesDifference(t *testing.T) {
	repo := newStubCartRepo()
	repo.quantities["p1"] = 5
	stock := &stubStockRepo{stocks: map[string]int{"p1": 3}}
	svc := New(repo, stock, nil)

	_, err := svc.Update(context.Background(), "u1", "p1", 2)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if stock.stocks["p1"] != 6 {
		t.Fatalf("expected stock 6, got %d", stock.stocks["p1"])
	}
	if repo.quantities["p1"] != 2 {
		t.Fatalf("expected cart qty 2, got %d", repo.quantities["p1"])
	}
}

func TestUpdate_SameQuantityIsNoOp(t *testing.T) {
	repo := newStubCartRepo()
	repo.quantities["p1"] = 4
	stock := &stubStockRepo{stocks: map[string]int{"p1": 3}}
	svc := New(repo, stock, nil)

	res, err := svc.Update(context.Background(), "u1", "p1", 4)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if stock.stocks["p1"] != 3 {
		t.Fatalf("stock mutated on no-op update")
	}
	if len(res.UpdatedStocks) != 0 {
		t.Fatalf("unexpected stock report on no-op update")
	}
}

func TestRemove_ReleasesStock(t *testing.T) {
	repo := newStubCartRepo()
	repo.quantities["p1"] = 3
	stock := &stubStockRepo{stocks: map[string]int{"p1": 2}}
	svc := New(repo, stock, nil)

	res, err := svc.Remove(context.Background(), "u1", "p1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if stock.stocks["p1"] != 5 {
		t.Fatalf("expected stock 5, got %d", stock.stocks["p1"])
	}
	if len(repo.quantities) != 0 {
		t.Fatalf("cart row survived remove")
	}
	if res.UpdatedStocks["p1"] != 5 {
		t.Fatalf("expected reported stock 5, got %d", res.UpdatedStocks["p1"])
	}
}

func TestClear_ReleasesAllStock(t *testing.T) {
	repo := newStubCartRepo()
	repo.quantities["p1"] = 2
	repo.quantities["p2"] = 4
	stock := &stubStockRepo{stocks: map[string]int{"p1": 1, "p2": 0}}
	svc := New(repo, stock, nil)

	res, err := svc.Clear(context.Background(), "u1")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if stock.stocks["p1"] != 3 || stock.stocks["p2"] != 4 {
		t.Fatalf("unexpected stocks after clear: %+v", stock.stocks)
	}
	if len(repo.quantities) != 0 {
		t.Fatalf("cart rows survived clear")
	}
	if len(res.Items) != 0 {
		t.Fatalf("expected empty cart result")
	}
}

// Stock plus cart quantity should stay constant through a round trip of
// add, update and remove.
func TestConservationAcrossMutations(t *testing.T) {
	repo := newStubCartRepo()
	stock := &stubStockRepo{stocks: map[string]int{"p1": 10}}
	svc := New(repo, stock, nil)
	ctx := context.Background()

	check := func(step string) {
		total := stock.stocks["p1"] + repo.quantities["p1"]
		if total != 10 {
			t.Fatalf("%s: conservation broken, stock=%d cart=%d", step, stock.stocks["p1"], repo.quantities["p1"])
		}
	}

	if _, err := svc.Add(ctx, "u1", "p1", 4); err != nil {
		t.Fatalf("add: %v", err)
	}
	check("add")
	if _, err := svc.Update(ctx, "u1", "p1", 7); err != nil {
		t.Fatalf("update up: %v", err)
	}
	check("update up")
	if _, err := svc.Update(ctx, "u1", "p1", 1); err != nil {
		t.Fatalf("update down: %v", err)
	}
	check("update down")
	if _, err := svc.Remove(ctx, "u1", "p1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	check("remove")
}
