package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AAteddy/Kifiya-LPS/internal/domain"
)

type repaymentRepository struct {
	db *sqlx.DB
}

func NewRepaymentRepository(db *sqlx.DB) RepaymentRepository {
	return &repaymentRepository{db: db}
}

func (r *repaymentRepository) Create(ctx context.Context, repayment *domain.Repayment) error {
	query := `
		INSERT INTO loan_repayments (id, application_id, amount, paid_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		repayment.ID,
		repayment.ApplicationID,
		repayment.Amount,
		repayment.PaidAt,
	)

	return err
}

func (r *repaymentRepository) GetByApplicationID(ctx context.Context, applicationID uuid.UUID) ([]*domain.Repayment, error) {
	query := `
		SELECT id, application_id, amount, paid_at
		FROM loan_repayments
		WHERE application_id = $1
		ORDER BY paid_at, id
	`

	var repayments []*domain.Repayment
	err := r.db.SelectContext(ctx, &repayments, query, applicationID)
	if err != nil {
		return nil, err
	}

	return repayments, nil
}
