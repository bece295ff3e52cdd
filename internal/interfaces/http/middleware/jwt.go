package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/atlaserp/backend/internal/infrastructure/auth"
	"github.com/atlaserp/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// gin context keys populated for authenticated requests
const (
	JWTUserIDKey   = "jwt_user_id"
	JWTTenantIDKey = "jwt_tenant_id"
	JWTUsernameKey = "jwt_username"
)

// JWTMiddlewareConfig configures bearer-token authentication for the API.
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	// SkipPaths bypass authentication entirely, for health probes.
	SkipPaths []string
	// Logger records rejected requests; nil disables that logging.
	Logger *zap.Logger
}

// JWTAuthMiddlewareWithConfig authenticates each request with a bearer
// token. On success the claims land in the gin context for the handler
// base, and the request context logger is tagged with the tenant and
// user so every log line downstream carries both.
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, skip := range cfg.SkipPaths {
			if c.Request.URL.Path == skip {
				c.Next()
				return
			}
		}

		token, err := bearerToken(c)
		if err != nil {
			rejectRequest(c, cfg, err)
			return
		}

		claims, err := cfg.JWTService.ValidateToken(token)
		if err != nil {
			rejectRequest(c, cfg, err)
			return
		}

		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTTenantIDKey, claims.TenantID)
		c.Set(JWTUsernameKey, claims.Username)

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, log = logger.WithTenantID(ctx, log, claims.TenantID)
		ctx, _ = logger.WithUserID(ctx, log, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", fmt.Errorf("%w: missing Authorization header", auth.ErrInvalidToken)
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", fmt.Errorf("%w: Authorization header is not a bearer token", auth.ErrInvalidToken)
	}
	return token, nil
}

// rejectRequest aborts with 401 and the same error envelope the
// handlers use.
func rejectRequest(c *gin.Context, cfg JWTMiddlewareConfig, err error) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("request rejected by auth",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
	}

	code, message := "ERR_TOKEN_INVALID", "Invalid token"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = "ERR_TOKEN_EXPIRED", "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		message = "Token is not yet valid"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// GetJWTUserID returns the authenticated user ID, or "" when the
// request carried no valid token.
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

// GetJWTTenantID returns the authenticated tenant ID, or "" when the
// request carried no valid token.
func GetJWTTenantID(c *gin.Context) string {
	return c.GetString(JWTTenantIDKey)
}

// GetJWTUsername returns the authenticated username, or "" when the
// request carried no valid token.
func GetJWTUsername(c *gin.Context) string {
	return c.GetString(JWTUsernameKey)
}
