package handler

import (
	"net/http"
	"time"

	"github.com/erp/cashledger/internal/infrastructure/auth"
	"github.com/erp/cashledger/internal/interfaces/http/dto"
	"github.com/erp/cashledger/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler manages the bearer token of the caller
type AuthHandler struct {
	BaseHandler
	blacklist  auth.TokenBlacklist
	expiration time.Duration
}

// NewAuthHandler creates a new AuthHandler. expiration bounds how long a
// user-wide revocation must be remembered.
func NewAuthHandler(blacklist auth.TokenBlacklist, expiration time.Duration) *AuthHandler {
	return &AuthHandler{
		BaseHandler: newBaseHandler(0),
		blacklist:   blacklist,
		expiration:  expiration,
	}
}

// SessionResponse describes the token of the current request
// @Description Current session
type SessionResponse struct {
	BranchID  string    `json:"branch_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	UserID    string    `json:"user_id" example:"550e8400-e29b-41d4-a716-446655440002"`
	Username  string    `json:"username" example:"encargado.centro"`
	ExpiresAt time.Time `json:"expires_at" example:"2026-01-14T20:00:00Z"`
}

// Session godoc
// @ID           getAuthSession
// @Summary      Describe the current token
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[SessionResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}
	resp := SessionResponse{
		BranchID: claims.BranchID,
		UserID:   claims.UserID,
		Username: claims.Username,
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time
	}
	h.Success(c, resp)
}

// Logout godoc
// @ID           logout
// @Summary      Revoke the current token
// @Tags         auth
// @Produce      json
// @Success      204
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil || claims.ID == "" {
		h.Unauthorized(c, "Token cannot be revoked")
		return
	}
	if err := h.blacklist.Revoke(c.Request.Context(), claims.ID, claims.GetRemainingTTL()); err != nil {
		_ = c.Error(err)
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "Failed to revoke token")
		return
	}
	c.Status(http.StatusNoContent)
}

// LogoutAll godoc
// @ID           logoutAll
// @Summary      Revoke every token issued to the current user so far
// @Tags         auth
// @Produce      json
// @Success      204
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	userID, ok := h.user(c)
	if !ok {
		return
	}
	if err := h.blacklist.RevokeUser(c.Request.Context(), userID.String(), h.expiration); err != nil {
		_ = c.Error(err)
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "Failed to revoke tokens")
		return
	}
	c.Status(http.StatusNoContent)
}
