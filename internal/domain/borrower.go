package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Borrower represents a borrower entity. Credit score and income are
// supplied at submission time and never mutated by this service.
type Borrower struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	Name              string          `json:"name" db:"name"`
	Email             string          `json:"email" db:"email"`
	CreditScore       int             `json:"credit_score" db:"credit_score"`
	AnnualIncome      decimal.Decimal `json:"annual_income" db:"annual_income"`
	DebtToIncomeRatio decimal.Decimal `json:"debt_to_income_ratio" db:"debt_to_income_ratio"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
}

type BorrowerInput struct {
	Name              string          `json:"name" validate:"required"`
	Email             string          `json:"email" validate:"required,email"`
	CreditScore       int             `json:"credit_score" validate:"gte=0"`
	AnnualIncome      decimal.Decimal `json:"annual_income"`
	DebtToIncomeRatio decimal.Decimal `json:"debt_to_income_ratio"`
}
