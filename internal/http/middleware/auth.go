package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/verifeye-backend/internal/http/response"
	"github.com/yungbote/verifeye-backend/internal/platform/ctxutil"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
	"github.com/yungbote/verifeye-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), authService: authService}
}

// RequireAuth rejects requests without a verifiable session with 401.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !am.attach(c) {
			response.AbortUnauthorized(c)
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid session is present and otherwise lets the
// request through anonymous.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		am.attach(c)
		c.Next()
	}
}

func (am *AuthMiddleware) attach(c *gin.Context) bool {
	tokenString := am.extractToken(c)
	if tokenString == "" {
		return false
	}
	ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
	if err != nil {
		am.log.Debug("Session rejected", "path", c.FullPath(), "error", err)
		return false
	}
	if ctxutil.UserID(ctx) == uuid.Nil {
		return false
	}
	c.Request = c.Request.WithContext(ctx)
	return true
}

// extractToken prefers the Authorization header over the session cookie.
func (am *AuthMiddleware) extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if v, err := c.Cookie(am.authService.SessionCookieName()); err == nil {
		return strings.TrimSpace(v)
	}
	return ""
}
