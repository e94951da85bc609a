package handler

import (
	"errors"
	"net/http"

	"makeapi/auth/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *AuthHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Code: ErrCodeBadRequest, Message: "Invalid request data: " + err.Error()})
		return
	}

	if req.Role != nil {
		// Ignored by design: privilege at signup is never client-controlled.
		zap.L().Debug("Client-supplied role on register ignored", zap.Int("requestedRole", *req.Role))
	}

	result, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	registrationsTotal.Inc()

	c.JSON(http.StatusCreated, registerResponse{
		ID:          result.User.ID,
		Name:        result.User.Name,
		Email:       result.User.Email,
		AccessToken: result.AccessToken,
	})
}

func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Code: ErrCodeBadRequest, Message: "Invalid request body: " + err.Error()})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			loginsTotal.WithLabelValues("failure").Inc()
		}
		handleServiceError(c, err)
		return
	}

	loginsTotal.WithLabelValues("success").Inc()

	c.JSON(http.StatusOK, loginResponse{
		AccessToken: result.AccessToken,
		Status:      http.StatusOK,
		ID:          result.UserID,
	})
}
