package coupon

import (
	"context"
	"fmt"
	"strings"
	"time"

	"webshop-api/internal/domain"
)

// fallbackNewUserCodes lists legacy promotional codes that were
// new-user-only before the schema carried the flag. Consulted only when
// the column is absent.
var fallbackNewUserCodes = map[string]struct{}{
	"WELCOME10": {},
	"NEWUSER5":  {},
}

type couponRepo interface {
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	ListActive(ctx context.Context) ([]domain.Coupon, error)
	Create(ctx context.Context, c domain.Coupon) (*domain.Coupon, error)
	HasNewUserOnlyColumn() bool
}

type orderCounter interface {
	CountByUser(ctx context.Context, userID string) (int, error)
}

// Service evaluates coupon codes. Evaluation is read-only: it is safe to
// call speculatively for a live cart preview and again authoritatively
// inside checkout.
type Service struct {
	coupons couponRepo
	orders  orderCounter
	now     func() time.Time
}

func New(coupons couponRepo, orders orderCounter) *Service {
	return &Service{coupons: coupons, orders: orders, now: time.Now}
}

// Evaluate validates code against amountCents for userID and computes the
// discount. A blank code is the no-coupon case: valid, zero discount.
func (s *Service) Evaluate(ctx context.Context, code string, amountCents int64, userID string) (domain.DiscountOutcome, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.DiscountOutcome{Valid: true, Reason: "No coupon", NewAmountCents: amountCents}, nil
	}

	c, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		if err == domain.ErrNotFound {
			return domain.DiscountOutcome{Valid: false, Reason: "Coupon not found"}, nil
		}
		return domain.DiscountOutcome{}, err
	}

	if s.newUserOnly(c) {
		count, err := s.orders.CountByUser(ctx, userID)
		if err != nil {
			return domain.DiscountOutcome{}, err
		}
		if count > 0 {
			return domain.DiscountOutcome{Valid: false, Reason: "Coupon valid for new users only"}, nil
		}
	}

	if !c.Active {
		return domain.DiscountOutcome{Valid: false, Reason: "Coupon is inactive"}, nil
	}
	if c.ExpiresAt != nil && c.ExpiresAt.Before(s.now()) {
		return domain.DiscountOutcome{Valid: false, Reason: "Coupon expired"}, nil
	}
	if amountCents < c.MinAmountCents {
		return domain.DiscountOutcome{
			Valid:  false,
			Reason: fmt.Sprintf("Minimum amount for coupon is %d", c.MinAmountCents),
		}, nil
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return domain.DiscountOutcome{Valid: false, Reason: "Coupon usage limit reached"}, nil
	}

	discount := Discount(c, amountCents)
	newAmount := amountCents - discount
	if newAmount < 0 {
		newAmount = 0
	}
	return domain.DiscountOutcome{
		Valid:          true,
		Reason:         "OK",
		CouponID:       c.ID,
		DiscountCents:  discount,
		NewAmountCents: newAmount,
	}, nil
}

// Discount computes the raw discount for a coupon against an amount:
// PERCENT takes value% of the amount, anything else is a flat value,
// clamped to MaxDiscountCents when set.
func Discount(c *domain.Coupon, amountCents int64) int64 {
	var discount int64
	if strings.EqualFold(c.Type, domain.CouponTypePercent) {
		discount = amountCents * c.Value / 100
	} else {
		discount = c.Value
	}
	if c.MaxDiscountCents != nil && discount > *c.MaxDiscountCents {
		discount = *c.MaxDiscountCents
	}
	return discount
}

// Listing is one active coupon decorated for the storefront.
type Listing struct {
	CouponID       string `json:"couponId"`
	Code           string `json:"code"`
	Label          string `json:"label"`
	MinAmountCents int64  `json:"minAmount"`
	NewUserOnly    bool   `json:"newUserOnly"`
	Applicable     bool   `json:"applicable"`
}

// ListForUser returns active coupons with an applicability flag computed
// against the user's order history.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Listing, error) {
	coupons, err := s.coupons.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	orderCount := -1
	out := make([]Listing, 0, len(coupons))
	for i := range coupons {
		c := &coupons[i]
		newUserOnly := s.newUserOnly(c)
		applicable := true
		if newUserOnly && userID != "" {
			if orderCount < 0 {
				orderCount, err = s.orders.CountByUser(ctx, userID)
				if err != nil {
					return nil, err
				}
			}
			applicable = orderCount == 0
		}
		out = append(out, Listing{
			CouponID:       c.ID,
			Code:           c.Code,
			Label:          label(c),
			MinAmountCents: c.MinAmountCents,
			NewUserOnly:    newUserOnly,
			Applicable:     applicable,
		})
	}
	return out, nil
}

// ListActive returns the raw active coupons, for the admin screen.
func (s *Service) ListActive(ctx context.Context) ([]domain.Coupon, error) {
	return s.coupons.ListActive(ctx)
}

// Create registers a new coupon after normalizing the code and checking
// the discount definition makes sense.
func (s *Service) Create(ctx context.Context, c domain.Coupon) (*domain.Coupon, error) {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	if c.Code == "" {
		return nil, fmt.Errorf("coupon code required")
	}
	switch strings.ToUpper(c.Type) {
	case domain.CouponTypePercent:
		c.Type = domain.CouponTypePercent
		if c.Value <= 0 || c.Value > 100 {
			return nil, fmt.Errorf("percent value must be between 1 and 100")
		}
	case domain.CouponTypeFlat:
		c.Type = domain.CouponTypeFlat
		if c.Value <= 0 {
			return nil, fmt.Errorf("flat value must be positive")
		}
	default:
		return nil, fmt.Errorf("unknown coupon type %q", c.Type)
	}
	if c.MinAmountCents < 0 {
		return nil, fmt.Errorf("minimum amount cannot be negative")
	}
	return s.coupons.Create(ctx, c)
}

func (s *Service) newUserOnly(c *domain.Coupon) bool {
	if s.coupons.HasNewUserOnlyColumn() {
		return c.NewUserOnly
	}
	_, ok := fallbackNewUserCodes[strings.ToUpper(strings.TrimSpace(c.Code))]
	return ok
}

func label(c *domain.Coupon) string {
	if strings.EqualFold(c.Type, domain.CouponTypePercent) {
		return fmt.Sprintf("%d%% off", c.Value)
	}
	return fmt.Sprintf("₹%d off", c.Value/100)
}
