package middleware

import (
	"net/http"

	"approval-crm/models"

	"github.com/gin-gonic/gin"
)

// Имена операций API. Маршруты ссылаются на операции, а не на списки ролей.
const (
	OpTransactionsCreate  = "transactions.create"
	OpTransactionsView    = "transactions.view"
	OpTransactionsApprove = "transactions.approve"
	OpTransactionsExport  = "transactions.export"
)

// RolePolicy - единственное место, где операции сопоставлены ролям.
// Раньше списки ролей висели на каждом маршруте и неизбежно расходились.
var RolePolicy = map[string][]string{
	OpTransactionsCreate:  {models.RoleInputter},
	OpTransactionsView:    {models.RoleInputter, models.RoleApprover, models.RoleAuditor},
	OpTransactionsApprove: {models.RoleApprover},
	OpTransactionsExport:  {models.RoleAuditor, models.RoleApprover},
}

// RoleAllowed проверяет операцию по таблице политик.
func RoleAllowed(operation, role string) bool {
	for _, allowed := range RolePolicy[operation] {
		if allowed == role {
			return true
		}
	}
	return false
}

// RequirePermission - guard для маршрута: смотрит роль из контекста
// (её уже положил AuthMiddleware) и сверяет с таблицей политик.
func RequirePermission(operation string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Role not found in context"})
			c.Abort()
			return
		}

		roleName, ok := role.(string)
		if !ok || !RoleAllowed(operation, roleName) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
			c.Abort()
			return
		}

		c.Next()
	}
}
