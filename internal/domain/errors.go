package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInsufficientStock indicates a conditional stock decrement matched no row.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrCouponExhausted indicates a coupon hit its usage limit between
	// evaluation and redemption.
	ErrCouponExhausted = errors.New("coupon exhausted")
)
