package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// JwtKey - ключ подписи токенов (HS256). Обязателен.
var JwtKey []byte

// TokenTTL - срок жизни выданного токена.
var TokenTTL = 24 * time.Hour

// InitJWT читает JWT_SECRET и опциональный JWT_TTL_HOURS из окружения.
func InitJWT() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		slog.Error("Критическая ошибка: переменная окружения JWT_SECRET не установлена.")
		os.Exit(1)
	}
	JwtKey = []byte(secret)

	if ttlStr := os.Getenv("JWT_TTL_HOURS"); ttlStr != "" {
		hours, err := strconv.Atoi(ttlStr)
		if err != nil || hours <= 0 {
			slog.Warn("Некорректное значение JWT_TTL_HOURS, используется срок по умолчанию", "value", ttlStr)
		} else {
			TokenTTL = time.Duration(hours) * time.Hour
		}
	}
}
