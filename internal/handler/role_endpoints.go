package handler

import (
	"errors"
	"net/http"

	"makeapi/auth/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *AuthHandler) changeRole(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		zap.L().Error("Token claims missing in context during change-role")
		handleServiceError(c, errors.New("internal server error: context missing claims"))
		return
	}

	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Code: ErrCodeBadRequest, Message: "Invalid request body: " + err.Error()})
		return
	}

	err := h.authService.ChangeRole(c.Request.Context(), claims.UserID, claims.Role, req.UserID, *req.NewRole)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOwnRoleChange), errors.Is(err, domain.ErrRoleNotAllowed):
			roleChangesTotal.WithLabelValues("denied").Inc()
		case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrInvalidRole):
			roleChangesTotal.WithLabelValues("rejected").Inc()
		default:
			roleChangesTotal.WithLabelValues("error").Inc()
		}
		handleServiceError(c, err)
		return
	}

	roleChangesTotal.WithLabelValues("success").Inc()

	c.JSON(http.StatusOK, changeRoleResponse{
		Status:  http.StatusOK,
		Success: true,
		Message: "user role updated successfully",
	})
}
