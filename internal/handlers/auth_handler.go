package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"approval-crm/config"
	"approval-crm/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// RegisterInput defines the payload for creating a new account.
type RegisterInput struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Role      string `json:"role" binding:"required,oneof=INPUTTER APPROVER AUDITOR"`
}

// LoginInput defines the payload for credential authentication.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse - ответ обоих эндпоинтов аутентификации.
type AuthResponse struct {
	AccessToken string              `json:"access_token"`
	User        models.UserResponse `json:"user"`
}

// RegisterHandler создаёт новую учётную запись и сразу выдаёт токен.
func RegisterHandler(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := models.User{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      input.Role,
	}
	if err := user.SetPassword(input.Password); err != nil {
		slog.Error("Failed to hash password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	// Уникальность email обеспечивает индекс в БД: проверка First+Create
	// здесь бы гонялась сама с собой при параллельных регистрациях.
	if err := config.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
			return
		}
		slog.Error("Failed to create user", "error", err, "email", input.Email)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := issueToken(user)
	if err != nil {
		slog.Error("Failed to sign token", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	slog.Info("Зарегистрирован новый пользователь", "user_id", user.ID, "role", user.Role)
	c.JSON(http.StatusCreated, AuthResponse{AccessToken: token, User: user.ToResponse()})
}

// LoginHandler проверяет учётные данные и выдаёт токен.
// Неизвестный email и неверный пароль дают одинаковый ответ,
// чтобы по нему нельзя было перебирать адреса.
func LoginHandler(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !user.CheckPassword(input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := issueToken(user)
	if err != nil {
		slog.Error("Failed to sign token", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{AccessToken: token, User: user.ToResponse()})
}

func issueToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(config.TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.JwtKey)
}
