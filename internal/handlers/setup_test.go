package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"approval-crm/config"
	"approval-crm/internal/middleware"
	"approval-crm/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var feedHubOnce sync.Once

// setupTestRouter поднимает полный роутер поверх SQLite в памяти,
// с настоящими middleware аутентификации и таблицей политик.
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	feedHubOnce.Do(func() { go GlobalFeedHub.Run() })

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(10000)", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Transaction{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	config.DB = db
	config.RDB = nil
	config.JwtKey = []byte("test-secret")

	// Зеркало продакшен-роутинга; через пакет routes не собрать из-за цикла импортов.
	r := gin.New()
	r.POST("/auth/register", RegisterHandler)
	r.POST("/auth/login", LoginHandler)
	r.GET("/healthz", HealthHandler)

	authRequired := r.Group("/", middleware.AuthMiddleware())
	api := authRequired.Group("/api")
	transactions := api.Group("/transactions")
	transactions.POST("", middleware.RequirePermission(middleware.OpTransactionsCreate), CreateTransactionHandler)
	transactions.GET("", middleware.RequirePermission(middleware.OpTransactionsView), ListTransactionsHandler)
	transactions.POST("/:id/approve", middleware.RequirePermission(middleware.OpTransactionsApprove), ApproveTransactionHandler)
	transactions.GET("/export", middleware.RequirePermission(middleware.OpTransactionsExport), ExportTransactionsHandler)
	transactions.GET("/ws", FeedWSEndpoint)

	return r
}

func createTestUser(t *testing.T, email, role string) models.User {
	t.Helper()
	user := models.User{Email: email, FirstName: "Test", LastName: "User", Role: role}
	if err := user.SetPassword("password123"); err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if err := config.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := issueToken(user)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}
