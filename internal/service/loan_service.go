package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/AAteddy/Kifiya-LPS/internal/config"
	"github.com/AAteddy/Kifiya-LPS/internal/domain"
	"github.com/AAteddy/Kifiya-LPS/internal/repository"
	customError "github.com/AAteddy/Kifiya-LPS/pkg/errors"
	"github.com/AAteddy/Kifiya-LPS/pkg/utils"
)

// LoanService owns every status transition and the side effects that go with
// it. It operates on one application at a time; serialization of concurrent
// transitions on the same application relies on the repository's
// compare-and-swap status update.
type LoanService struct {
	BorrowerRepo  repository.BorrowerRepository
	LoanRepo      repository.LoanRepository
	RepaymentRepo repository.RepaymentRepository
	Rules         EligibilityRules

	redis    *redis.Client
	cacheTTL time.Duration
}

func NewLoanService(
	borrowerRepo repository.BorrowerRepository,
	loanRepo repository.LoanRepository,
	repaymentRepo repository.RepaymentRepository,
	redisClient *redis.Client,
	cfg *config.Config,
) *LoanService {
	rules := DefaultEligibilityRules()
	if cfg != nil {
		rules = EligibilityRules{
			MinCreditScore:  cfg.Business.MinCreditScore,
			MaxDebtToIncome: cfg.GetMaxDebtToIncome(),
		}
	}

	svc := &LoanService{
		BorrowerRepo:  borrowerRepo,
		LoanRepo:      loanRepo,
		RepaymentRepo: repaymentRepo,
		Rules:         rules,
		redis:         redisClient,
	}
	if cfg != nil {
		svc.cacheTTL = cfg.Redis.CacheTTL
	}
	return svc
}

// Submit creates the borrower and the loan application atomically in Pending
// status, then runs eligibility validation. Violations found here are
// returned to the caller but do not block the write; only the approve path
// enforces them.
func (s *LoanService) Submit(ctx context.Context, request *domain.SubmitLoanRequest) (*domain.SubmitLoanResponse, error) {
	if !utils.IsPositiveAmount(request.Application.Amount) {
		return nil, customError.WrapBadInput("amount must be a positive monetary value", customError.ErrInvalidAmount)
	}

	now := time.Now().UTC()

	borrower := &domain.Borrower{
		ID:                uuid.New(),
		Name:              request.Borrower.Name,
		Email:             request.Borrower.Email,
		CreditScore:       request.Borrower.CreditScore,
		AnnualIncome:      request.Borrower.AnnualIncome,
		DebtToIncomeRatio: request.Borrower.DebtToIncomeRatio,
		CreatedAt:         now,
	}

	app := &domain.LoanApplication{
		ID:         uuid.New(),
		BorrowerID: borrower.ID,
		Amount:     utils.MoneyRound(request.Application.Amount),
		TermMonths: request.Application.TermMonths,
		Purpose:    request.Application.Purpose,
		Status:     domain.StatusPending,
		CreatedAt:  now,
	}

	if err := s.LoanRepo.CreateWithBorrower(ctx, borrower, app); err != nil {
		if errors.Is(err, customError.ErrDuplicateEmail) {
			return nil, customError.WrapDuplicateEmail(borrower.Email)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	violations := s.Rules.Validate(borrower)
	if len(violations) > 0 {
		log.Printf("loan application %s submitted with eligibility violations: %v", app.ID, violations)
	}

	return &domain.SubmitLoanResponse{
		Borrower:    borrower,
		Application: app,
		Violations:  violations,
	}, nil
}

// Get returns a snapshot of an application with its repayments. Snapshots are
// cached in Redis and invalidated on every transition, so repeated gets with
// no intervening transition return identical data.
func (s *LoanService) Get(ctx context.Context, id uuid.UUID) (*domain.LoanApplication, error) {
	if cached := s.cacheGet(ctx, id); cached != nil {
		return cached, nil
	}

	app, err := s.loadApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	repayments, err := s.RepaymentRepo.GetByApplicationID(ctx, id)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	app.Repayments = repayments

	s.cacheSet(ctx, app)

	return app, nil
}

// Approve transitions a Pending application to Approved, provided the
// borrower passes every eligibility check.
func (s *LoanService) Approve(ctx context.Context, id uuid.UUID) (*domain.LoanApplication, error) {
	app, err := s.loadApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	switch app.Status {
	case domain.StatusPending:
	case domain.StatusApproved:
		return nil, customError.WrapInvalidTransition(
			fmt.Sprintf("Loan application %s is already approved", id), customError.ErrAlreadyApproved)
	default:
		return nil, customError.WrapInvalidTransition(
			fmt.Sprintf("Loan application %s cannot be approved from status %s", id, app.Status), customError.ErrNotPending)
	}

	borrower, err := s.BorrowerRepo.GetByID(ctx, app.BorrowerID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if violations := s.Rules.Validate(borrower); len(violations) > 0 {
		return nil, customError.WrapValidationFailed(violations)
	}

	now := time.Now().UTC()
	updated, err := s.LoanRepo.UpdateStatus(ctx, id, domain.StatusPending, domain.StatusApproved, &now, nil)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if !updated {
		return nil, s.transitionConflict(ctx, id, "approved")
	}

	s.cacheInvalidate(ctx, id)

	app.Status = domain.StatusApproved
	app.ApprovedAt = &now
	return app, nil
}

// Reject transitions a Pending application to Rejected. No eligibility check
// applies on this path.
func (s *LoanService) Reject(ctx context.Context, id uuid.UUID) (*domain.LoanApplication, error) {
	app, err := s.loadApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	switch app.Status {
	case domain.StatusPending:
	case domain.StatusRejected:
		return nil, customError.WrapInvalidTransition(
			fmt.Sprintf("Loan application %s is already rejected", id), customError.ErrAlreadyRejected)
	default:
		return nil, customError.WrapInvalidTransition(
			fmt.Sprintf("Loan application %s cannot be rejected from status %s", id, app.Status), customError.ErrNotPending)
	}

	updated, err := s.LoanRepo.UpdateStatus(ctx, id, domain.StatusPending, domain.StatusRejected, nil, nil)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if !updated {
		return nil, s.transitionConflict(ctx, id, "rejected")
	}

	s.cacheInvalidate(ctx, id)

	app.Status = domain.StatusRejected
	return app, nil
}

// Disburse transitions an Approved application to Disbursed.
func (s *LoanService) Disburse(ctx context.Context, id uuid.UUID) (*domain.LoanApplication, error) {
	app, err := s.loadApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	switch app.Status {
	case domain.StatusApproved:
	case domain.StatusDisbursed:
		return nil, customError.WrapInvalidTransition(
			fmt.Sprintf("Loan application %s is already disbursed", id), customError.ErrAlreadyDisbursed)
	default:
		return nil, customError.WrapInvalidTransition(
			fmt.Sprintf("Loan application %s cannot be disbursed from status %s", id, app.Status), customError.ErrNotApproved)
	}

	now := time.Now().UTC()
	updated, err := s.LoanRepo.UpdateStatus(ctx, id, domain.StatusApproved, domain.StatusDisbursed, nil, &now)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if !updated {
		return nil, s.transitionConflict(ctx, id, "disbursed")
	}

	s.cacheInvalidate(ctx, id)

	app.Status = domain.StatusDisbursed
	app.DisbursedAt = &now
	return app, nil
}

// Repay appends a repayment record against a Disbursed application. The
// status itself does not change. Disbursed is terminal, so the status read
// here cannot go stale under concurrent transitions.
func (s *LoanService) Repay(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*domain.Repayment, error) {
	if !utils.IsPositiveAmount(amount) {
		return nil, customError.WrapBadInput("repayment amount must be a positive monetary value", customError.ErrInvalidAmount)
	}

	app, err := s.loadApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	if app.Status != domain.StatusDisbursed {
		return nil, customError.WrapInvalidTransition(
			fmt.Sprintf("Loan application %s cannot be repaid from status %s", id, app.Status), customError.ErrNotDisbursed)
	}

	repayment := &domain.Repayment{
		ID:            uuid.New(),
		ApplicationID: id,
		Amount:        utils.MoneyRound(amount),
		PaidAt:        time.Now().UTC(),
	}

	if err := s.RepaymentRepo.Create(ctx, repayment); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.cacheInvalidate(ctx, id)

	return repayment, nil
}

// ListStalePending returns Pending applications older than the given age.
// Used by the scheduler sweep.
func (s *LoanService) ListStalePending(ctx context.Context, olderThan time.Duration) ([]*domain.LoanApplication, error) {
	cutoff := time.Now().UTC().Add(-olderThan)

	apps, err := s.LoanRepo.ListStalePending(ctx, cutoff)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return apps, nil
}

func (s *LoanService) loadApplication(ctx context.Context, id uuid.UUID) (*domain.LoanApplication, error) {
	app, err := s.LoanRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapApplicationNotFound(id.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return app, nil
}

// transitionConflict maps a lost compare-and-swap to the precise
// InvalidTransition a caller racing against another writer should see.
func (s *LoanService) transitionConflict(ctx context.Context, id uuid.UUID, operation string) error {
	app, err := s.loadApplication(ctx, id)
	if err != nil {
		return err
	}

	switch app.Status {
	case domain.StatusApproved:
		return customError.WrapInvalidTransition(
			fmt.Sprintf("Loan application %s is already approved", id), customError.ErrAlreadyApproved)
	case domain.StatusRejected:
		return customError.WrapInvalidTransition(
			fmt.Sprintf("Loan application %s is already rejected", id), customError.ErrAlreadyRejected)
	case domain.StatusDisbursed:
		return customError.WrapInvalidTransition(
			fmt.Sprintf("Loan application %s is already disbursed", id), customError.ErrAlreadyDisbursed)
	default:
		return customError.WrapInvalidTransition(
			fmt.Sprintf("Loan application %s could not be %s from status %s", id, operation, app.Status), customError.ErrNotPending)
	}
}

func (s *LoanService) cacheKey(id uuid.UUID) string {
	return "loan:" + id.String()
}

func (s *LoanService) cacheGet(ctx context.Context, id uuid.UUID) *domain.LoanApplication {
	if s.redis == nil {
		return nil
	}

	data, err := s.redis.Get(ctx, s.cacheKey(id)).Bytes()
	if err != nil {
		return nil
	}

	var app domain.LoanApplication
	if err := json.Unmarshal(data, &app); err != nil {
		return nil
	}
	return &app
}

// cacheSet stores a snapshot. Cache failures are logged and swallowed; the
// database remains the source of truth.
func (s *LoanService) cacheSet(ctx context.Context, app *domain.LoanApplication) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(app)
	if err != nil {
		return
	}

	if err := s.redis.Set(ctx, s.cacheKey(app.ID), data, s.cacheTTL).Err(); err != nil {
		log.Printf("failed to cache loan application %s: %v", app.ID, err)
	}
}

func (s *LoanService) cacheInvalidate(ctx context.Context, id uuid.UUID) {
	if s.redis == nil {
		return
	}

	if err := s.redis.Del(ctx, s.cacheKey(id)).Err(); err != nil {
		log.Printf("failed to invalidate cache for loan application %s: %v", id, err)
	}
}
