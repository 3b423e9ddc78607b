package httpserver

import (
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"webshop-api/internal/domain"

	"github.com/gin-gonic/gin"
)

type productRequest struct {
	CategoryID  string `json:"categoryId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"priceCents"`
	// Stock is honored on create only. After that, stock moves through
	// cart reservations and releases; updates carry the stored value
	// forward.
	Stock int `json:"stock"`
	// ImageBase64 carries the raw image bytes; empty on update keeps the
	// stored image.
	ImageBase64 string `json:"imageBase64"`
}

func (r productRequest) toDomain(id string) (domain.Product, error) {
	p := domain.Product{
		ID:          id,
		CategoryID:  r.CategoryID,
		Name:        r.Name,
		Description: r.Description,
		PriceCents:  r.PriceCents,
		Stock:       r.Stock,
	}
	if r.ImageBase64 != "" {
		img, err := base64.StdEncoding.DecodeString(r.ImageBase64)
		if err != nil {
			return domain.Product{}, err
		}
		p.Image = img
	}
	return p, nil
}

func (h *handlers) adminCreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := req.toDomain("")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid image encoding")
		return
	}
	created, err := h.deps.ProductSvc.Create(c.Request.Context(), p)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) adminUpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := req.toDomain(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid image encoding")
		return
	}
	current, err := h.deps.ProductSvc.Get(c.Request.Context(), p.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	p.Stock = current.Stock
	updated, err := h.deps.ProductSvc.Update(c.Request.Context(), p)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) adminDeleteProduct(c *gin.Context) {
	if err := h.deps.ProductSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *handlers) adminCreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.deps.CategorySvc.Create(c.Request.Context(), req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) adminRenameCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.deps.CategorySvc.Rename(c.Request.Context(), c.Param("id"), req.Name); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *handlers) adminDeleteCategory(c *gin.Context) {
	if err := h.deps.CategorySvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type couponRequest struct {
	Code             string     `json:"code" binding:"required"`
	Type             string     `json:"type" binding:"required"`
	Value            int64      `json:"value" binding:"required"`
	MinAmountCents   int64      `json:"minAmountCents"`
	MaxDiscountCents *int64     `json:"maxDiscountCents"`
	ExpiresAt        *time.Time `json:"expiresAt"`
	UsageLimit       *int       `json:"usageLimit"`
	NewUserOnly      bool       `json:"newUserOnly"`
}

func (h *handlers) adminListCoupons(c *gin.Context) {
	coupons, err := h.deps.CouponSvc.ListActive(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if coupons == nil {
		coupons = []domain.Coupon{}
	}
	c.JSON(http.StatusOK, gin.H{"coupons": coupons})
}

func (h *handlers) adminCreateCoupon(c *gin.Context) {
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.deps.CouponSvc.Create(c.Request.Context(), domain.Coupon{
		Code:             req.Code,
		Type:             req.Type,
		Value:            req.Value,
		MinAmountCents:   req.MinAmountCents,
		MaxDiscountCents: req.MaxDiscountCents,
		ExpiresAt:        req.ExpiresAt,
		UsageLimit:       req.UsageLimit,
		Active:           true,
		NewUserOnly:      req.NewUserOnly,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			respondError(c, http.StatusConflict, "coupon code already exists")
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) adminListUsers(c *gin.Context) {
	users, err := h.deps.UserSvc.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

type blockedRequest struct {
	Blocked *bool `json:"blocked" binding:"required"`
}

func (h *handlers) adminSetUserBlocked(c *gin.Context) {
	var req blockedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.deps.UserSvc.SetBlocked(c.Request.Context(), c.Param("id"), *req.Blocked); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
