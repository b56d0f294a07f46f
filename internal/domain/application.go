package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanApplication represents a loan application entity tracked through the
// Pending -> Approved/Rejected -> Disbursed lifecycle.
type LoanApplication struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	BorrowerID  uuid.UUID       `json:"borrower_id" db:"borrower_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	TermMonths  int             `json:"term_months" db:"term_months"`
	Purpose     string          `json:"purpose" db:"purpose"`
	Status      Status          `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	ApprovedAt  *time.Time      `json:"approved_at,omitempty" db:"approved_at"`
	DisbursedAt *time.Time      `json:"disbursed_at,omitempty" db:"disbursed_at"`

	// Repayments is populated on reads, ordered oldest first.
	Repayments []*Repayment `json:"repayments,omitempty" db:"-"`
}

// DTOs for requests and responses

type ApplicationInput struct {
	Amount     decimal.Decimal `json:"amount"`
	TermMonths int             `json:"term_months" validate:"required,gt=0"`
	Purpose    string          `json:"purpose" validate:"required"`
}

type SubmitLoanRequest struct {
	Borrower    BorrowerInput    `json:"borrower" validate:"required"`
	Application ApplicationInput `json:"application" validate:"required"`
}

// SubmitLoanResponse carries the persisted application plus any eligibility
// violations found at submission time. The application is stored even when
// violations are present; they are informational on this path.
type SubmitLoanResponse struct {
	Borrower    *Borrower        `json:"borrower"`
	Application *LoanApplication `json:"application"`
	Violations  []string         `json:"violations,omitempty"`
}

type TransitionResponse struct {
	Application *LoanApplication `json:"application"`
}
