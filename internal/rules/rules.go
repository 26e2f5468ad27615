// Package rules вычисляет настраиваемое правило, по которому транзакция
// помечается на особый контроль для утверждающих.
package rules

import (
	"fmt"
	"os"

	"github.com/Knetic/govaluate"
	"github.com/shopspring/decimal"
)

// Engine хранит скомпилированное выражение правила.
// Выражению доступны параметры amount и description_length,
// например: "amount >= 10000 || description_length < 5".
type Engine struct {
	raw  string
	expr *govaluate.EvaluableExpression
}

// New компилирует выражение правила.
func New(rule string) (*Engine, error) {
	expr, err := govaluate.NewEvaluableExpression(rule)
	if err != nil {
		return nil, fmt.Errorf("некорректное правило контроля %q: %w", rule, err)
	}
	return &Engine{raw: rule, expr: expr}, nil
}

// FromEnv читает правило из APPROVAL_REVIEW_RULE.
// Пустая переменная означает, что контроль выключен: возвращается nil без ошибки.
func FromEnv() (*Engine, error) {
	rule := os.Getenv("APPROVAL_REVIEW_RULE")
	if rule == "" {
		return nil, nil
	}
	return New(rule)
}

// NeedsReview вычисляет правило для конкретной транзакции.
func (e *Engine) NeedsReview(amount decimal.Decimal, description string) (bool, error) {
	amountFloat, _ := amount.Float64()
	parameters := map[string]interface{}{
		"amount":             amountFloat,
		"description_length": float64(len(description)),
	}

	result, err := e.expr.Evaluate(parameters)
	if err != nil {
		return false, fmt.Errorf("не удалось вычислить правило %q: %w", e.raw, err)
	}

	flagged, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("результат правила %q не является булевым", e.raw)
	}
	return flagged, nil
}
