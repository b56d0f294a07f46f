package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repayment is an immutable record appended against a disbursed application.
// PaidAt is set by the server at recording time, never by the client.
type Repayment struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	ApplicationID uuid.UUID       `json:"application_id" db:"application_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	PaidAt        time.Time       `json:"paid_at" db:"paid_at"`
}

type RepayRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type RepayResponse struct {
	Repayment *Repayment `json:"repayment"`
	Status    Status     `json:"status"`
}
