package models

import (
	"log/slog"

	"approval-crm/config"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedDemoData наполняет базу демонстрационными пользователями и транзакциями.
// Запускается только при SEED_DEMO_DATA=true; повторный запуск ничего не дублирует.
func SeedDemoData() error {
	demoUsers := []User{
		{Email: "inputter@example.com", FirstName: "John", LastName: "Inputter", Role: RoleInputter},
		{Email: "approver@example.com", FirstName: "Jane", LastName: "Approver", Role: RoleApprover},
		{Email: "auditor@example.com", FirstName: "Mike", LastName: "Auditor", Role: RoleAuditor},
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		for i := range demoUsers {
			if err := demoUsers[i].SetPassword("password123"); err != nil {
				return err
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "email"}},
				DoNothing: true,
			}).Create(&demoUsers[i]).Error; err != nil {
				return err
			}
			// При конфликте Create не заполняет ID - дочитываем запись.
			if err := tx.Where("email = ?", demoUsers[i].Email).First(&demoUsers[i]).Error; err != nil {
				return err
			}
		}

		var count int64
		if err := tx.Model(&Transaction{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		inputterID := demoUsers[0].ID
		samples := []Transaction{
			{Amount: decimal.NewFromFloat(1500.50), Description: "Office supplies purchase", CreatedByID: inputterID},
			{Amount: decimal.NewFromInt(2750), Description: "Marketing campaign budget", CreatedByID: inputterID},
			{Amount: decimal.NewFromFloat(450.25), Description: "Software license renewal", CreatedByID: inputterID},
		}
		return tx.Create(&samples).Error
	})
	if err != nil {
		return err
	}

	slog.Info("Демо-данные загружены", "users", len(demoUsers))
	return nil
}
