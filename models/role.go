package models

// Роли пользователей. У пользователя ровно одна роль.
const (
	RoleInputter = "INPUTTER" // создаёт транзакции
	RoleApprover = "APPROVER" // утверждает транзакции
	RoleAuditor  = "AUDITOR"  // только просмотр
)

// ValidRole проверяет, что строка является одной из известных ролей.
func ValidRole(role string) bool {
	switch role {
	case RoleInputter, RoleApprover, RoleAuditor:
		return true
	}
	return false
}
