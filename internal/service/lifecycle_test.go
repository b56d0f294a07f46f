package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AAteddy/Kifiya-LPS/internal/domain"
	customError "github.com/AAteddy/Kifiya-LPS/pkg/errors"
)

// fakeStore is an in-memory record store implementing all three repository
// interfaces. Status updates are compare-and-swap under a mutex, matching
// the atomicity the Postgres implementation gets from its conditional UPDATE.
type fakeStore struct {
	mu         sync.Mutex
	borrowers  map[uuid.UUID]*domain.Borrower
	emails     map[string]bool
	apps       map[uuid.UUID]*domain.LoanApplication
	repayments map[uuid.UUID][]*domain.Repayment
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		borrowers:  make(map[uuid.UUID]*domain.Borrower),
		emails:     make(map[string]bool),
		apps:       make(map[uuid.UUID]*domain.LoanApplication),
		repayments: make(map[uuid.UUID][]*domain.Repayment),
	}
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Borrower, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.borrowers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *b
	return &copied, nil
}

func (f *fakeStore) CreateWithBorrower(ctx context.Context, borrower *domain.Borrower, app *domain.LoanApplication) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.emails[borrower.Email] {
		return customError.ErrDuplicateEmail
	}

	b := *borrower
	a := *app
	f.borrowers[b.ID] = &b
	f.emails[b.Email] = true
	f.apps[a.ID] = &a
	return nil
}

func (f *fakeStore) getApp(id uuid.UUID) (*domain.LoanApplication, error) {
	app, ok := f.apps[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *app
	return &copied, nil
}

func (f *fakeStore) GetApplicationByID(ctx context.Context, id uuid.UUID) (*domain.LoanApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getApp(id)
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.Status, approvedAt, disbursedAt *time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	app, ok := f.apps[id]
	if !ok || app.Status != from {
		return false, nil
	}

	app.Status = to
	if approvedAt != nil {
		app.ApprovedAt = approvedAt
	}
	if disbursedAt != nil {
		app.DisbursedAt = disbursedAt
	}
	return true, nil
}

func (f *fakeStore) ListStalePending(ctx context.Context, cutoff time.Time) ([]*domain.LoanApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*domain.LoanApplication
	for _, app := range f.apps {
		if app.Status == domain.StatusPending && app.CreatedAt.Before(cutoff) {
			copied := *app
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeStore) Create(ctx context.Context, repayment *domain.Repayment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	r := *repayment
	f.repayments[r.ApplicationID] = append(f.repayments[r.ApplicationID], &r)
	return nil
}

func (f *fakeStore) GetByApplicationID(ctx context.Context, applicationID uuid.UUID) ([]*domain.Repayment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored := f.repayments[applicationID]
	out := make([]*domain.Repayment, 0, len(stored))
	for _, r := range stored {
		copied := *r
		out = append(out, &copied)
	}
	return out, nil
}

// loanStoreAdapter narrows fakeStore's method set to the LoanRepository
// interface; GetByID on the fake is taken by the borrower lookup.
type loanStoreAdapter struct{ *fakeStore }

func (a loanStoreAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanApplication, error) {
	return a.GetApplicationByID(ctx, id)
}

func newLifecycleService(store *fakeStore) *LoanService {
	return &LoanService{
		BorrowerRepo:  store,
		LoanRepo:      loanStoreAdapter{store},
		RepaymentRepo: store,
		Rules:         DefaultEligibilityRules(),
	}
}

func submitRequest(email string, creditScore int) *domain.SubmitLoanRequest {
	return &domain.SubmitLoanRequest{
		Borrower: domain.BorrowerInput{
			Name:              "Abel Tesfaye",
			Email:             email,
			CreditScore:       creditScore,
			AnnualIncome:      decimal.NewFromInt(50000),
			DebtToIncomeRatio: decimal.NewFromFloat(0.2),
		},
		Application: domain.ApplicationInput{
			Amount:     decimal.NewFromInt(10000),
			TermMonths: 12,
			Purpose:    "home improvement",
		},
	}
}

func TestLifecycle_EligibleBorrowerEndToEnd(t *testing.T) {
	store := newFakeStore()
	svc := newLifecycleService(store)
	ctx := context.Background()

	submitted, err := svc.Submit(ctx, submitRequest("abel@example.com", 650))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, submitted.Application.Status)
	assert.Empty(t, submitted.Violations)

	id := submitted.Application.ID

	approved, err := svc.Approve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, approved.Status)
	assert.NotNil(t, approved.ApprovedAt)

	disbursed, err := svc.Disburse(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDisbursed, disbursed.Status)
	assert.NotNil(t, disbursed.DisbursedAt)

	repayment, err := svc.Repay(ctx, id, decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.True(t, repayment.Amount.Equal(decimal.NewFromInt(500)))

	snapshot, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDisbursed, snapshot.Status)
	require.Len(t, snapshot.Repayments, 1)
	assert.True(t, snapshot.Repayments[0].Amount.Equal(decimal.NewFromInt(500)))
}

func TestLifecycle_IneligibleBorrowerPersistsButCannotBeApproved(t *testing.T) {
	store := newFakeStore()
	svc := newLifecycleService(store)
	ctx := context.Background()

	submitted, err := svc.Submit(ctx, submitRequest("sara@example.com", 550))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, submitted.Application.Status)
	assert.Equal(t, []string{MsgCreditScoreTooLow}, submitted.Violations)

	id := submitted.Application.ID

	_, err = svc.Approve(ctx, id)
	bizErr := assertBusinessCode(t, err, customError.ErrCodeValidationFailed)
	assert.Equal(t, []string{MsgCreditScoreTooLow}, bizErr.Violations)

	snapshot, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, snapshot.Status)
}

func TestLifecycle_DuplicateEmailRejectedOnResubmission(t *testing.T) {
	store := newFakeStore()
	svc := newLifecycleService(store)
	ctx := context.Background()

	_, err := svc.Submit(ctx, submitRequest("abel@example.com", 650))
	require.NoError(t, err)

	_, err = svc.Submit(ctx, submitRequest("abel@example.com", 650))
	assertBusinessCode(t, err, customError.ErrCodeBadInput)
	assert.ErrorIs(t, err, customError.ErrDuplicateEmail)
}

func TestLifecycle_RepeatedGetReturnsIdenticalSnapshot(t *testing.T) {
	store := newFakeStore()
	svc := newLifecycleService(store)
	ctx := context.Background()

	submitted, err := svc.Submit(ctx, submitRequest("abel@example.com", 650))
	require.NoError(t, err)

	first, err := svc.Get(ctx, submitted.Application.ID)
	require.NoError(t, err)
	second, err := svc.Get(ctx, submitted.Application.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestLifecycle_RepaymentsAccumulateInOrder(t *testing.T) {
	store := newFakeStore()
	svc := newLifecycleService(store)
	ctx := context.Background()

	submitted, err := svc.Submit(ctx, submitRequest("abel@example.com", 650))
	require.NoError(t, err)
	id := submitted.Application.ID

	_, err = svc.Approve(ctx, id)
	require.NoError(t, err)
	_, err = svc.Disburse(ctx, id)
	require.NoError(t, err)

	_, err = svc.Repay(ctx, id, decimal.NewFromInt(500))
	require.NoError(t, err)
	_, err = svc.Repay(ctx, id, decimal.NewFromInt(250))
	require.NoError(t, err)

	snapshot, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, snapshot.Repayments, 2)
	assert.True(t, snapshot.Repayments[0].Amount.Equal(decimal.NewFromInt(500)))
	assert.True(t, snapshot.Repayments[1].Amount.Equal(decimal.NewFromInt(250)))
}

func TestLifecycle_ConcurrentApprovesExactlyOneWins(t *testing.T) {
	store := newFakeStore()
	svc := newLifecycleService(store)
	ctx := context.Background()

	submitted, err := svc.Submit(ctx, submitRequest("abel@example.com", 650))
	require.NoError(t, err)
	id := submitted.Application.ID

	const callers = 8
	errs := make([]error, callers)

	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Approve(ctx, id)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, customError.ErrAlreadyApproved)
		}
	}
	assert.Equal(t, 1, successes)

	snapshot, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, snapshot.Status)
}
