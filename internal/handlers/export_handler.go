package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"approval-crm/config"
	"approval-crm/models"

	"github.com/divan/num2words"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ExportTransactionsHandler выгружает весь реестр транзакций в XLSX.
// Эндпоинт для аудита, поэтому сумма дублируется прописью.
func ExportTransactionsHandler(c *gin.Context) {
	var txns []models.Transaction
	if err := config.DB.Preload("CreatedBy").Preload("ApprovedBy").Order("created_at asc").Find(&txns).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch transactions"})
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headers := []string{"ID", "Amount", "Amount (words)", "Description", "Status", "Needs review", "Created by", "Approved by", "Approved at", "Created at"}
	for i, title := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, title)
	}

	for row, txn := range txns {
		amount, _ := txn.Amount.Float64()

		approver := ""
		if txn.ApprovedBy != nil {
			approver = fmt.Sprintf("%s %s", txn.ApprovedBy.FirstName, txn.ApprovedBy.LastName)
		}
		approvedAt := ""
		if txn.ApprovedAt != nil {
			approvedAt = txn.ApprovedAt.Format(time.RFC3339)
		}
		creator := ""
		if txn.CreatedBy != nil {
			creator = fmt.Sprintf("%s %s", txn.CreatedBy.FirstName, txn.CreatedBy.LastName)
		}

		values := []interface{}{
			txn.ID,
			amount,
			amountInWords(txn.Amount),
			txn.Description,
			txn.Status,
			txn.NeedsReview,
			creator,
			approver,
			approvedAt,
			txn.CreatedAt.Format(time.RFC3339),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	fileName := fmt.Sprintf("transactions_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", fileName))

	if err := f.Write(c.Writer); err != nil {
		slog.Error("Ошибка записи XLSX в ответ", "error", err)
	}
}

// amountInWords переводит сумму в словесную форму для печатной выгрузки.
func amountInWords(amount decimal.Decimal) string {
	units := amount.IntPart()
	cents := amount.Sub(decimal.NewFromInt(units)).Mul(decimal.NewFromInt(100)).IntPart()
	return fmt.Sprintf("%s and %02d/100", num2words.Convert(int(units)), cents)
}
