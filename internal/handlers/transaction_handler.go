package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"approval-crm/config"
	"approval-crm/internal/rules"
	"approval-crm/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ReviewRule - правило пометки транзакций на особый контроль.
// Устанавливается при старте приложения; nil означает "правило не задано".
var ReviewRule *rules.Engine

// CreateTransactionInput defines the payload for creating a transaction.
type CreateTransactionInput struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// ApproveTransactionInput defines the payload for the approve endpoint.
// Комментарий принимается для совместимости с клиентом, но никуда не сохраняется.
type ApproveTransactionInput struct {
	Comment string `json:"comment"`
}

// CreateTransactionHandler создаёт транзакцию в статусе PENDING.
// Автором всегда становится вызывающий; роль уже проверена таблицей политик.
func CreateTransactionHandler(c *gin.Context) {
	var input CreateTransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !input.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
		return
	}
	if input.Amount.Exponent() < -2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must have at most 2 decimal places"})
		return
	}
	// Лимит в символах, не в байтах: кириллическое описание длиннее в UTF-8.
	if n := utf8.RuneCountInString(input.Description); n == 0 || n > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Description must be between 1 and 500 characters"})
		return
	}

	txn := models.Transaction{
		Amount:      input.Amount,
		Description: input.Description,
		Status:      models.TxStatusPending,
		CreatedByID: c.GetUint("user_id"),
	}

	if ReviewRule != nil {
		flagged, err := ReviewRule.NeedsReview(input.Amount, input.Description)
		if err != nil {
			slog.Error("Ошибка вычисления правила контроля", "error", err)
		} else {
			txn.NeedsReview = flagged
		}
	}

	if err := config.DB.Create(&txn).Error; err != nil {
		slog.Error("Failed to create transaction", "error", err, "user_id", txn.CreatedByID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create transaction"})
		return
	}

	if err := config.DB.Preload("CreatedBy").First(&txn, "id = ?", txn.ID).Error; err != nil {
		slog.Error("Failed to reload transaction", "error", err, "transaction_id", txn.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transaction"})
		return
	}

	GlobalFeedHub.BroadcastEvent(EventTransactionCreated, txn)
	c.JSON(http.StatusCreated, txn)
}

// ListTransactionsHandler возвращает все транзакции с профилями авторов.
// Без параметра page отдаётся полный массив; с ним - страничный ответ.
func ListTransactionsHandler(c *gin.Context) {
	var txns []models.Transaction
	query := config.DB.Preload("CreatedBy").Preload("ApprovedBy").Order("created_at desc")

	if c.Query("page") == "" {
		if err := query.Find(&txns).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch transactions"})
			return
		}
		c.JSON(http.StatusOK, txns)
		return
	}

	var totalRows int64
	if err := config.DB.Model(&models.Transaction{}).Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch transactions"})
		return
	}
	if err := query.Scopes(Paginate(c)).Find(&txns).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch transactions"})
		return
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, txns, totalRows))
}

// ApproveTransactionHandler утверждает транзакцию в статусе PENDING.
// Переход выполняется атомарно: при двух конкурентных запросах один
// получит 200, второй - 400, повторное утверждение невозможно.
func ApproveTransactionHandler(c *gin.Context) {
	id := c.Param("id")

	// Тело запроса опционально, комментарий не персистится.
	var payload ApproveTransactionInput
	_ = c.ShouldBindJSON(&payload)

	txn, err := models.ApproveTransaction(id, c.GetUint("user_id"))
	switch {
	case errors.Is(err, models.ErrTransactionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	case errors.Is(err, models.ErrTransactionNotPending):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Transaction cannot be approved with status %s", txn.Status),
		})
		return
	case err != nil:
		slog.Error("Failed to approve transaction", "error", err, "transaction_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve transaction"})
		return
	}

	slog.Info("Транзакция утверждена", "transaction_id", txn.ID, "approver_id", c.GetUint("user_id"))
	GlobalFeedHub.BroadcastEvent(EventTransactionApproved, *txn)
	c.JSON(http.StatusOK, txn)
}
