package routes

import (
	"approval-crm/internal/handlers"
	"approval-crm/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes регистрирует маршруты API, требующие аутентификации.
// Роли нигде не перечисляются: каждый маршрут ссылается на операцию,
// а разрешённые роли живут в таблице политик middleware.RolePolicy.
func RegisterAPIRoutes(api *gin.RouterGroup) {
	apiGroup := api.Group("/api")
	{
		transactions := apiGroup.Group("/transactions")
		{
			transactions.POST("", middleware.RequirePermission(middleware.OpTransactionsCreate), handlers.CreateTransactionHandler)
			transactions.GET("", middleware.RequirePermission(middleware.OpTransactionsView), handlers.ListTransactionsHandler)
			transactions.POST("/:id/approve", middleware.RequirePermission(middleware.OpTransactionsApprove), handlers.ApproveTransactionHandler)
			transactions.GET("/export", middleware.RequirePermission(middleware.OpTransactionsExport), handlers.ExportTransactionsHandler)

			// Живая лента для дашборда; достаточно аутентификации.
			transactions.GET("/ws", handlers.FeedWSEndpoint)
		}
	}
}
