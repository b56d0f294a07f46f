package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/AAteddy/Kifiya-LPS/internal/domain"
	customError "github.com/AAteddy/Kifiya-LPS/pkg/errors"
	"github.com/AAteddy/Kifiya-LPS/pkg/response"
	"github.com/AAteddy/Kifiya-LPS/pkg/utils"
)

// LoanLifecycle is the slice of the loan service the HTTP layer needs.
type LoanLifecycle interface {
	Submit(ctx context.Context, request *domain.SubmitLoanRequest) (*domain.SubmitLoanResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.LoanApplication, error)
	Approve(ctx context.Context, id uuid.UUID) (*domain.LoanApplication, error)
	Reject(ctx context.Context, id uuid.UUID) (*domain.LoanApplication, error)
	Disburse(ctx context.Context, id uuid.UUID) (*domain.LoanApplication, error)
	Repay(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*domain.Repayment, error)
}

type LoanHandler struct {
	service   LoanLifecycle
	validator *validator.Validate
}

func NewLoanHandler(service LoanLifecycle) *LoanHandler {
	return &LoanHandler{
		service:   service,
		validator: validator.New(),
	}
}

// SubmitLoan handles POST /api/v1/loans
func (h *LoanHandler) SubmitLoan(w http.ResponseWriter, r *http.Request) {
	var request domain.SubmitLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Request validation failed", err)
		return
	}

	result, err := h.service.Submit(r.Context(), &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, result)
}

// GetLoan handles GET /api/v1/loans/{id}
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	id, ok := h.loanID(w, r)
	if !ok {
		return
	}

	app, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, &domain.TransitionResponse{Application: app})
}

// ApproveLoan handles PUT /api/v1/loans/{id}/approve
func (h *LoanHandler) ApproveLoan(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Approve)
}

// RejectLoan handles PUT /api/v1/loans/{id}/reject
func (h *LoanHandler) RejectLoan(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Reject)
}

// DisburseLoan handles POST /api/v1/loans/{id}/disburse
func (h *LoanHandler) DisburseLoan(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Disburse)
}

// RepayLoan handles POST /api/v1/loans/{id}/repay
func (h *LoanHandler) RepayLoan(w http.ResponseWriter, r *http.Request) {
	id, ok := h.loanID(w, r)
	if !ok {
		return
	}

	var request domain.RepayRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	repayment, err := h.service.Repay(r.Context(), id, request.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, &domain.RepayResponse{
		Repayment: repayment,
		Status:    domain.StatusDisbursed,
	})
}

func (h *LoanHandler) transition(w http.ResponseWriter, r *http.Request, op func(context.Context, uuid.UUID) (*domain.LoanApplication, error)) {
	id, ok := h.loanID(w, r)
	if !ok {
		return
	}

	app, err := op(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, &domain.TransitionResponse{Application: app})
}

func (h *LoanHandler) loanID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := mux.Vars(r)["id"]

	id, err := utils.ParseID(raw)
	if err != nil {
		response.BadRequest(w, "Invalid loan ID", err)
		return uuid.Nil, false
	}

	return id, true
}

// writeError maps the error taxonomy to HTTP status codes: NotFound to 404,
// BadInput/ValidationFailed/InvalidTransition to 400, anything else to 500.
func writeError(w http.ResponseWriter, err error) {
	var bizErr *customError.BusinessError
	if !errors.As(err, &bizErr) {
		response.InternalServerError(w, "An unexpected error occurred", nil)
		return
	}

	switch bizErr.Code {
	case customError.ErrCodeNotFound:
		response.ErrorWithCode(w, http.StatusNotFound, bizErr.Code, bizErr.Message, nil, nil)
	case customError.ErrCodeBadInput, customError.ErrCodeInvalidTransition:
		response.ErrorWithCode(w, http.StatusBadRequest, bizErr.Code, bizErr.Message, bizErr.Err, nil)
	case customError.ErrCodeValidationFailed:
		response.ErrorWithCode(w, http.StatusBadRequest, bizErr.Code, bizErr.Message, nil, bizErr.Violations)
	default:
		// Store connectivity and the like: reported generically.
		response.InternalServerError(w, "An unexpected error occurred", nil)
	}
}
