package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getMe answers from the verified token claims alone. The token is a
// snapshot: a role change after issuance is not reflected here, consistent
// with the no-revocation design.
func (h *AuthHandler) getMe(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		zap.L().Error("Token claims missing in context during /auth/me")
		handleServiceError(c, errors.New("internal server error: context missing claims"))
		return
	}

	c.JSON(http.StatusOK, meResponse{
		IDUser: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	})
}
