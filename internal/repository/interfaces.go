package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AAteddy/Kifiya-LPS/internal/domain"
)

// BorrowerRepository defines the interface for borrower data operations
type BorrowerRepository interface {
	// GetByID retrieves a borrower by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Borrower, error)
}

// LoanRepository defines the interface for loan application data operations
type LoanRepository interface {
	// CreateWithBorrower persists a borrower and its loan application in a
	// single transaction
	CreateWithBorrower(ctx context.Context, borrower *domain.Borrower, app *domain.LoanApplication) error

	// GetByID retrieves a loan application by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanApplication, error)

	// UpdateStatus transitions an application from one status to another.
	// The write only lands if the stored status still equals from; the
	// returned bool reports whether a row was updated. Non-nil timestamps
	// are stamped alongside the status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.Status, approvedAt, disbursedAt *time.Time) (bool, error)

	// ListStalePending retrieves pending applications created before cutoff
	ListStalePending(ctx context.Context, cutoff time.Time) ([]*domain.LoanApplication, error)
}

// RepaymentRepository defines the interface for repayment data operations
type RepaymentRepository interface {
	// Create appends a new repayment record
	Create(ctx context.Context, repayment *domain.Repayment) error

	// GetByApplicationID retrieves all repayments for an application,
	// oldest first
	GetByApplicationID(ctx context.Context, applicationID uuid.UUID) ([]*domain.Repayment, error)
}
