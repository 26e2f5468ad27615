package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"approval-crm/config"
	"approval-crm/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// CachedUserData - снимок данных авторизации пользователя для кэша.
type CachedUserData struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

const authCacheTTL = 10 * time.Minute

func authCacheKey(userID uint) string {
	return fmt.Sprintf("user:%d:auth", userID)
}

// AuthMiddleware проверяет bearer-токен и кладёт данные пользователя в контекст.
// Роль берётся из БД (или кэша), а не из claims: токен живёт долго,
// а права пользователя могли поменяться после его выдачи.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				handleAuthError(c, "Invalid Authorization header format")
				return
			}
			tokenStr = parts[1]
		} else if cookieToken, err := c.Cookie("auth_token"); err == nil {
			tokenStr = cookieToken
		}
		if tokenStr == "" {
			handleAuthError(c, "Authorization token not provided")
			return
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return config.JwtKey, nil
		})
		if err != nil || !token.Valid {
			handleAuthError(c, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			handleAuthError(c, "Invalid token claims")
			return
		}

		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			handleAuthError(c, "Invalid user ID format in token")
			return
		}
		userID := uint(userIDFloat)

		if config.RDB != nil {
			cached, err := config.RDB.Get(config.Ctx, authCacheKey(userID)).Result()
			if err == nil {
				var userData CachedUserData
				if json.Unmarshal([]byte(cached), &userData) == nil {
					setContextAndProceed(c, &userData)
					return
				}
				slog.Warn("Failed to unmarshal cached auth data", "user_id", userID)
			} else if err != redis.Nil {
				slog.Error("Redis GET command failed", "error", err, "user_id", userID)
			}
		}

		var dbUser models.User
		if err := config.DB.First(&dbUser, userID).Error; err != nil {
			handleAuthError(c, "User from token not found in DB")
			return
		}

		userData := CachedUserData{
			UserID: dbUser.ID,
			Email:  dbUser.Email,
			Role:   dbUser.Role,
		}

		if config.RDB != nil {
			jsonData, err := json.Marshal(userData)
			if err != nil {
				slog.Error("Failed to marshal auth data for caching", "error", err, "user_id", userID)
			} else if err := config.RDB.Set(config.Ctx, authCacheKey(userID), jsonData, authCacheTTL).Err(); err != nil {
				slog.Error("Failed to SET auth data to cache", "error", err, "user_id", userID)
			}
		}

		setContextAndProceed(c, &userData)
	}
}

func setContextAndProceed(c *gin.Context, userData *CachedUserData) {
	c.Set("user_id", userData.UserID)
	c.Set("email", userData.Email)
	c.Set("role", userData.Role)
	c.Next()
}

func handleAuthError(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": message})
	c.Abort()
}
