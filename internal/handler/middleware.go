package handler

import (
	"strings"

	"makeapi/auth/internal/domain"
	"makeapi/auth/internal/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const claimsContextKey = "token_claims"

// AuthMiddleware verifies the bearer token and stores the decoded claims in
// the gin context. Claims are a snapshot of the user at issuance time; no
// store lookup happens here.
func (h *AuthHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			zap.L().Warn("Authorization header missing")
			tokenVerificationsTotal.WithLabelValues("failure").Inc()
			handleServiceError(c, domain.ErrTokenInvalid)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			zap.L().Warn("Invalid Authorization header format")
			tokenVerificationsTotal.WithLabelValues("failure").Inc()
			handleServiceError(c, domain.ErrTokenInvalid)
			return
		}

		claims := h.issuer.Decode(parts[1])
		if claims == nil {
			tokenVerificationsTotal.WithLabelValues("failure").Inc()
			handleServiceError(c, domain.ErrTokenInvalid)
			return
		}

		tokenVerificationsTotal.WithLabelValues("success").Inc()
		c.Set(claimsContextKey, claims)
		zap.L().Debug("Access token verified successfully", zap.Int64("userID", claims.UserID))
		c.Next()
	}
}

// claimsFromContext returns the verified claims stored by AuthMiddleware.
func claimsFromContext(c *gin.Context) (*token.Claims, bool) {
	raw, exists := c.Get(claimsContextKey)
	if !exists {
		return nil, false
	}
	claims, ok := raw.(*token.Claims)
	return claims, ok
}
