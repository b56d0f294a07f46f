package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AAteddy/Kifiya-LPS/internal/domain"
)

type borrowerRepository struct {
	db *sqlx.DB
}

func NewBorrowerRepository(db *sqlx.DB) BorrowerRepository {
	return &borrowerRepository{db: db}
}

func (r *borrowerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Borrower, error) {
	query := `
		SELECT id, name, email, credit_score, annual_income, debt_to_income_ratio, created_at
		FROM borrowers
		WHERE id = $1
	`

	var borrower domain.Borrower
	err := r.db.GetContext(ctx, &borrower, query, id)
	if err != nil {
		return nil, err
	}

	return &borrower, nil
}
