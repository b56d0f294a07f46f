package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/AAteddy/Kifiya-LPS/internal/domain"
	customError "github.com/AAteddy/Kifiya-LPS/pkg/errors"
)

const pqUniqueViolation = "23505"

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) CreateWithBorrower(ctx context.Context, borrower *domain.Borrower, app *domain.LoanApplication) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	borrowerQuery := `
		INSERT INTO borrowers (id, name, email, credit_score, annual_income, debt_to_income_ratio, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.ExecContext(ctx, borrowerQuery,
		borrower.ID,
		borrower.Name,
		borrower.Email,
		borrower.CreditScore,
		borrower.AnnualIncome,
		borrower.DebtToIncomeRatio,
		borrower.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return customError.ErrDuplicateEmail
		}
		return err
	}

	appQuery := `
		INSERT INTO loan_applications (id, borrower_id, amount, term_months, purpose, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.ExecContext(ctx, appQuery,
		app.ID,
		app.BorrowerID,
		app.Amount,
		app.TermMonths,
		app.Purpose,
		app.Status,
		app.CreatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanApplication, error) {
	query := `
		SELECT id, borrower_id, amount, term_months, purpose, status, created_at, approved_at, disbursed_at
		FROM loan_applications
		WHERE id = $1
	`

	var app domain.LoanApplication
	err := r.db.GetContext(ctx, &app, query, id)
	if err != nil {
		return nil, err
	}

	return &app, nil
}

func (r *loanRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.Status, approvedAt, disbursedAt *time.Time) (bool, error) {
	query := `
		UPDATE loan_applications
		SET status = $3,
		    approved_at = COALESCE($4, approved_at),
		    disbursed_at = COALESCE($5, disbursed_at)
		WHERE id = $1 AND status = $2
	`

	result, err := r.db.ExecContext(ctx, query, id, from, to, approvedAt, disbursedAt)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows == 1, nil
}

func (r *loanRepository) ListStalePending(ctx context.Context, cutoff time.Time) ([]*domain.LoanApplication, error) {
	query := `
		SELECT id, borrower_id, amount, term_months, purpose, status, created_at, approved_at, disbursed_at
		FROM loan_applications
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at
	`

	var apps []*domain.LoanApplication
	err := r.db.SelectContext(ctx, &apps, query, domain.StatusPending, cutoff)
	if err != nil {
		return nil, err
	}

	return apps, nil
}
