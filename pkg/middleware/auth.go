package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/visualmate/visualmate/backend/admin-service/internal/authstate"
	"github.com/visualmate/visualmate/backend/admin-service/internal/guard"
	"github.com/visualmate/visualmate/backend/admin-service/internal/models"
	"github.com/visualmate/visualmate/backend/admin-service/internal/sessions"
	"github.com/visualmate/visualmate/backend/admin-service/internal/tokens"
)

// Context keys set by AuthMiddleware.
const (
	CtxUID      = "uid"
	CtxClaims   = "claims"
	CtxSnapshot = "authstate"
)

// AuthMiddleware verifies the Bearer access token, rejects blacklisted
// tokens, and attaches the caller's resolved auth state to the context.
func AuthMiddleware(secret string, resolver *authstate.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}
		// Expect 'Bearer <token>'
		var token string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &token); n != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		if black, err := sessions.IsAccessTokenBlacklisted(c.Request.Context(), token); err == nil && black {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token revoked"})
			return
		}

		claims, err := tokens.VerifyAccessToken(secret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		snap, err := resolver.Resolve(c.Request.Context(), claims.UID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "auth state unavailable"})
			return
		}

		c.Set(CtxUID, claims.UID)
		c.Set(CtxClaims, claims)
		c.Set(CtxSnapshot, snap)
		c.Next()
	}
}

// Snapshot returns the auth state attached by AuthMiddleware.
func Snapshot(c *gin.Context) (authstate.Snapshot, bool) {
	v, ok := c.Get(CtxSnapshot)
	if !ok {
		return authstate.Snapshot{}, false
	}
	snap, ok := v.(authstate.Snapshot)
	return snap, ok
}

// RequireConsoleAccess gates the admin API: the resolved role must pass the
// sign-in policy and the profile must still be active. Accounts deactivated
// mid-session lose access on their next request.
func RequireConsoleAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, ok := Snapshot(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		active := snap.Profile != nil && snap.Profile.IsActive()
		if !guard.CanLogin(snap.Role, active) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access the admin console."})
			return
		}
		c.Next()
	}
}

// RequireSuperadmin gates superadmin-only operations.
func RequireSuperadmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, ok := Snapshot(c)
		if !ok || guard.NormalizeRole(snap.Role) != models.RoleSuperadmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "superadmin role required"})
			return
		}
		c.Next()
	}
}
