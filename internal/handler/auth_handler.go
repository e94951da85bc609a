package handler

import (
	"makeapi/auth/internal/service"
	"makeapi/auth/internal/token"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles the HTTP surface of the auth service.
type AuthHandler struct {
	authService service.AuthService
	issuer      *token.Issuer
}

func NewAuthHandler(authService service.AuthService, issuer *token.Issuer) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		issuer:      issuer,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.Engine) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.POST("/change-role", h.AuthMiddleware(), h.changeRole)
		authGroup.GET("/me", h.AuthMiddleware(), h.getMe)
	}
}
