package service

import (
	"github.com/shopspring/decimal"

	"github.com/AAteddy/Kifiya-LPS/internal/domain"
)

// Violation messages are surfaced to callers verbatim; their wording and
// order are part of the API contract.
const (
	MsgCreditScoreTooLow   = "Credit score too low"
	MsgInvalidAnnualIncome = "Invalid annual income"
	MsgDebtToIncomeTooHigh = "Debt to income ratio too high"
)

// EligibilityRules holds the thresholds the validator checks against.
type EligibilityRules struct {
	MinCreditScore  int
	MaxDebtToIncome decimal.Decimal
}

// DefaultEligibilityRules returns the standard underwriting thresholds.
func DefaultEligibilityRules() EligibilityRules {
	return EligibilityRules{
		MinCreditScore:  600,
		MaxDebtToIncome: decimal.RequireFromString("0.4"),
	}
}

// Validate runs every eligibility check against the borrower and returns the
// violations in fixed check order: credit score, income, debt-to-income.
// An empty result means the borrower is eligible. Checks are evaluated
// independently, never short-circuited.
func (r EligibilityRules) Validate(borrower *domain.Borrower) []string {
	var violations []string

	if borrower.CreditScore < r.MinCreditScore {
		violations = append(violations, MsgCreditScoreTooLow)
	}
	if !borrower.AnnualIncome.IsPositive() {
		violations = append(violations, MsgInvalidAnnualIncome)
	}
	if borrower.DebtToIncomeRatio.GreaterThan(r.MaxDebtToIncome) {
		violations = append(violations, MsgDebtToIncomeTooHigh)
	}

	return violations
}
