package routes

import (
	"approval-crm/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes инициализирует все маршруты приложения.
func SetupRoutes(r *gin.Engine) {
	// Публичные маршруты: аутентификация и проверка живости.
	RegisterAuthRoutes(r)

	// Всё остальное доступно только с валидным токеном.
	authRequired := r.Group("/")
	authRequired.Use(middleware.AuthMiddleware())
	{
		RegisterAPIRoutes(authRequired)
	}
}
