package models

import (
	"errors"
	"time"

	"approval-crm/config"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Статусы жизненного цикла транзакции. REJECTED объявлен в модели,
// но ни одна операция его не выставляет (reject так и не был реализован).
const (
	TxStatusPending  = "PENDING"
	TxStatusApproved = "APPROVED"
	TxStatusRejected = "REJECTED"
)

var (
	// ErrTransactionNotFound - транзакция с таким ID не существует.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrTransactionNotPending - транзакция уже покинула статус PENDING.
	ErrTransactionNotPending = errors.New("transaction is not pending")
)

// Transaction представляет одну финансовую операцию, ожидающую утверждения.
type Transaction struct {
	ID           string          `json:"id" gorm:"primaryKey;size:36"`
	Amount       decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	Description  string          `json:"description" gorm:"size:500;not null"`
	Status       string          `json:"status" gorm:"size:16;not null;default:'PENDING';index"`
	NeedsReview  bool            `json:"needsReview" gorm:"not null;default:false"`
	CreatedByID  uint            `json:"createdBy" gorm:"not null;index"`
	CreatedBy    *User           `json:"user,omitempty" gorm:"foreignKey:CreatedByID"`
	ApprovedByID *uint           `json:"approvedBy,omitempty"`
	ApprovedBy   *User           `json:"approver,omitempty" gorm:"foreignKey:ApprovedByID"`
	ApprovedAt   *time.Time      `json:"approvedAt,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// BeforeCreate выдаёт транзакции UUID, если он не задан явно.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = TxStatusPending
	}
	return nil
}

// ApproveTransaction переводит транзакцию PENDING -> APPROVED одним условным
// UPDATE. Проверка статуса и запись выполняются атомарно, поэтому из двух
// конкурентных вызовов победит ровно один, второй получит ErrTransactionNotPending.
func ApproveTransaction(id string, approverID uint) (*Transaction, error) {
	now := time.Now()

	result := config.DB.Model(&Transaction{}).
		Where("id = ? AND status = ?", id, TxStatusPending).
		Updates(map[string]interface{}{
			"status":         TxStatusApproved,
			"approved_by_id": approverID,
			"approved_at":    now,
		})
	if result.Error != nil {
		return nil, result.Error
	}

	var txn Transaction
	if err := config.DB.Preload("CreatedBy").Preload("ApprovedBy").First(&txn, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	// Ноль затронутых строк: либо ID не существует (отсечено выше),
	// либо статус уже не PENDING - кто-то успел раньше.
	if result.RowsAffected == 0 {
		return &txn, ErrTransactionNotPending
	}

	return &txn, nil
}
