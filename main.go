package main

import (
	"log/slog"
	"os"

	"approval-crm/config"
	"approval-crm/internal/handlers"
	"approval-crm/internal/routes"
	"approval-crm/internal/rules"
	"approval-crm/models"

	"github.com/gin-gonic/gin"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	config.ConnectDB()
	config.ConnectRedis()
	config.InitJWT()

	if err := config.DB.AutoMigrate(&models.User{}, &models.Transaction{}); err != nil {
		slog.Error("Ошибка миграции схемы БД", "error", err)
		os.Exit(1)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := models.SeedDemoData(); err != nil {
			slog.Error("Ошибка загрузки демо-данных", "error", err)
			os.Exit(1)
		}
	}

	reviewRule, err := rules.FromEnv()
	if err != nil {
		slog.Error("Ошибка конфигурации правила контроля", "error", err)
		os.Exit(1)
	}
	handlers.ReviewRule = reviewRule

	go handlers.GlobalFeedHub.Run()

	r := gin.Default()
	routes.SetupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	slog.Info("Сервер запускается", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("Сервер остановился с ошибкой", "error", err)
		os.Exit(1)
	}
}
