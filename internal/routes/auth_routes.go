package routes

import (
	"approval-crm/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes регистрирует публичные маршруты.
// Эти маршруты не требуют middleware для проверки токена.
func RegisterAuthRoutes(r *gin.Engine) {
	r.POST("/auth/register", handlers.RegisterHandler)
	r.POST("/auth/login", handlers.LoginHandler)

	r.GET("/healthz", handlers.HealthHandler)
}
