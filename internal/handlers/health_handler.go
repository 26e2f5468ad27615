package handlers

import (
	"net/http"

	"approval-crm/config"

	"github.com/gin-gonic/gin"
)

// HealthHandler отвечает на проверку живости и пингует базу.
func HealthHandler(c *gin.Context) {
	sqlDB, err := config.DB.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
