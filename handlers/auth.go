package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/visualmate/visualmate/backend/admin-service/internal/authstate"
	"github.com/visualmate/visualmate/backend/admin-service/internal/config"
	"github.com/visualmate/visualmate/backend/admin-service/internal/guard"
	"github.com/visualmate/visualmate/backend/admin-service/internal/identity"
	"github.com/visualmate/visualmate/backend/admin-service/internal/sessions"
	"github.com/visualmate/visualmate/backend/admin-service/internal/tokens"
	"github.com/visualmate/visualmate/backend/admin-service/internal/users"
	"github.com/visualmate/visualmate/backend/admin-service/pkg/logger"
	"github.com/visualmate/visualmate/backend/admin-service/pkg/metrics"
	"github.com/visualmate/visualmate/backend/admin-service/pkg/middleware"
)

// Messages shown to operators on the login screen. The wording is part of
// the product contract with support staff; do not edit casually.
const (
	MsgProfileNotFound = "User profile not found. Please contact support."
	MsgNoPermission    = "You do not have permission to access the admin console."
	MsgDeactivated     = "This account has been deactivated. Please contact your supervisor or administrator."
	MsgWrongPassword   = "Current password is incorrect."
	MsgTooManyAttempts = "Too many sign-in attempts. Please try again later."
)

// LoginRequest is the console sign-in payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthHandler holds dependencies for the /auth routes.
type AuthHandler struct {
	cfg         *config.Config
	identitySvc *identity.Service
	usersSvc    *users.Service
	sessionsSvc *sessions.Service
	resolver    *authstate.Resolver
}

func NewAuthHandler(cfg *config.Config, id *identity.Service, u *users.Service, s *sessions.Service, r *authstate.Resolver) *AuthHandler {
	return &AuthHandler{cfg: cfg, identitySvc: id, usersSvc: u, sessionsSvc: s, resolver: r}
}

// Register routes under /auth. The password-change route needs a verified
// token, so it gets the auth middleware individually.
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/login", h.Login)
	a.POST("/refresh", h.Refresh)
	a.POST("/logout", h.Logout)
	a.POST("/password", middleware.AuthMiddleware(h.cfg.JWT.Secret, h.resolver), h.ChangePassword)
	a.POST("/reset", h.SendReset)
	a.POST("/reset/confirm", h.ConfirmReset)
}

// Login authenticates the credential and then gates on the profile: it must
// exist, carry an admin role, and be active. A failed gate never leaves a
// session behind.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid, err := h.identitySvc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrTooManyAttempts):
			metrics.LoginAttempts.WithLabelValues("throttled").Inc()
			c.JSON(http.StatusTooManyRequests, gin.H{"error": MsgTooManyAttempts})
		case errors.Is(err, identity.ErrInvalidCredentials):
			metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
		default:
			logger.Error().Err(err).Msg("sign-in failed")
			metrics.LoginAttempts.WithLabelValues("error").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Sign-in failed. Please try again."})
		}
		return
	}

	profile, err := h.usersSvc.Get(c.Request.Context(), uid)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sign-in failed. Please try again."})
		return
	}
	if profile == nil {
		metrics.LoginAttempts.WithLabelValues("no_profile").Inc()
		c.JSON(http.StatusForbidden, gin.H{"error": MsgProfileNotFound})
		return
	}
	role := guard.NormalizeRole(profile.Role)
	if !guard.CanLogin(role, true) {
		metrics.LoginAttempts.WithLabelValues("wrong_role").Inc()
		c.JSON(http.StatusForbidden, gin.H{"error": MsgNoPermission})
		return
	}
	if !profile.IsActive() {
		metrics.LoginAttempts.WithLabelValues("deactivated").Inc()
		c.JSON(http.StatusForbidden, gin.H{"error": MsgDeactivated})
		return
	}

	rft, err := h.sessionsSvc.CreateSession(c.Request.Context(), uid, h.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	access, err := tokens.GenerateAccessToken(h.cfg, profile, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{
		"accessToken":  access,
		"refreshToken": rft,
		"user":         profile,
		"expiresIn":    int(h.cfg.JWT.AccessTokenTTL.Seconds()),
	})
}

// Refresh exchanges a refresh token for a new access token. The profile
// gate is re-run so a deactivated account cannot keep refreshing.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := h.sessionsSvc.ValidateRefresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "validation failed"})
		return
	}
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	profile, err := h.usersSvc.Get(c.Request.Context(), sess.UID)
	if err != nil || profile == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": MsgProfileNotFound})
		return
	}
	if !guard.CanLogin(guard.NormalizeRole(profile.Role), profile.IsActive()) {
		c.JSON(http.StatusForbidden, gin.H{"error": MsgDeactivated})
		return
	}
	access, err := tokens.GenerateAccessToken(h.cfg, profile, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": access, "expiresIn": int(h.cfg.JWT.AccessTokenTTL.Seconds())})
}

// Logout removes the refresh session and blacklists the presented access
// token for its remaining lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	auth := c.GetHeader("Authorization")
	if auth != "" {
		var at string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &at); n == 1 {
			if exp, err := parseExpFromJWT(at); err == nil {
				if ttl := time.Until(exp); ttl > 0 {
					if err := sessions.BlacklistAccessToken(c.Request.Context(), at, ttl); err != nil {
						c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to blacklist access token"})
						return
					}
				}
			}
			if claims, err := tokens.VerifyAccessToken(h.cfg.JWT.Secret, at); err == nil {
				h.resolver.Invalidate(claims.UID)
			}
		}
	}
	if err := h.sessionsSvc.DeleteRefresh(c.Request.Context(), req.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// ChangePassword reauthenticates with the current password before storing
// the new one.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	uid := c.GetString(middleware.CtxUID)
	if err := h.identitySvc.Reauthenticate(c.Request.Context(), uid, req.CurrentPassword); err != nil {
		if errors.Is(err, identity.ErrWrongCurrentPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"error": MsgWrongPassword})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "password change failed"})
		return
	}
	if err := h.identitySvc.UpdatePassword(c.Request.Context(), uid, req.NewPassword); err != nil {
		if errors.Is(err, identity.ErrWeakPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password is too weak. Use at least 8 characters with uppercase letters, digits or symbols."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "password change failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// SendReset issues a password-reset token. The response does not reveal
// whether the email exists.
func (h *AuthHandler) SendReset(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.identitySvc.SendPasswordReset(c.Request.Context(), req.Email)
	switch {
	case err == nil, errors.Is(err, identity.ErrNoSuchAccount):
		c.JSON(http.StatusOK, gin.H{"message": "If that account exists, a reset link has been sent."})
	case errors.Is(err, identity.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address."})
	default:
		logger.Error().Err(err).Msg("password reset failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reset failed"})
	}
}

// ConfirmReset consumes a reset token and stores the new password.
func (h *AuthHandler) ConfirmReset(c *gin.Context) {
	var req struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.identitySvc.ConfirmPasswordReset(c.Request.Context(), req.Token, req.NewPassword)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "password updated"})
	case errors.Is(err, identity.ErrInvalidResetToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token."})
	case errors.Is(err, identity.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password is too weak."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reset failed"})
	}
}

// Me returns the caller's resolved auth state.
func (h *AuthHandler) Me(c *gin.Context) {
	snap, ok := middleware.Snapshot(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// parseExpFromJWT decodes the JWT payload and returns the exp claim. Payload
// only, no signature verification; the result is used solely to compute the
// blacklist TTL.
func parseExpFromJWT(tok string) (time.Time, error) {
	parts := strings.Split(tok, ".")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("invalid token")
	}
	b, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		b, err = base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			return time.Time{}, err
		}
	}
	var claims map[string]interface{}
	if err := json.Unmarshal(b, &claims); err != nil {
		return time.Time{}, err
	}
	v, ok := claims["exp"]
	if !ok {
		return time.Time{}, fmt.Errorf("exp claim not present")
	}
	switch vv := v.(type) {
	case float64:
		return time.Unix(int64(vv), 0), nil
	case json.Number:
		i64, err := vv.Int64()
		if err != nil {
			return time.Time{}, err
		}
		return time.Unix(i64, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported exp type %T", v)
	}
}
