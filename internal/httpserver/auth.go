package httpserver

import (
	"errors"
	"net/http"

	"webshop-api/internal/domain"
	usersvc "webshop-api/internal/service/user"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *handlers) signup(c *gin.Context) {
	var req usersvc.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.deps.UserSvc.Signup(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			respondError(c, http.StatusConflict, "email already registered")
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u})
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, token, err := h.deps.UserSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usersvc.ErrInvalidCredentials):
			respondError(c, http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, usersvc.ErrBlocked):
			respondError(c, http.StatusForbidden, "account is blocked")
		default:
			respondServiceError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":        u,
		"accessToken": token,
		"expiresIn":   h.deps.UserSvc.AccessTTLSeconds(),
	})
}

func (h *handlers) logout(c *gin.Context) {
	if err := h.deps.UserSvc.Logout(c.Request.Context(), bearerToken(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *handlers) me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": currentUser(c)})
}
