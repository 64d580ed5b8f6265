package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/loanworks/loan-engine/internal/domain"
	"github.com/loanworks/loan-engine/internal/service"
	customError "github.com/loanworks/loan-engine/pkg/errors"
	"github.com/loanworks/loan-engine/pkg/response"
)

// LoanHandler exposes the engine over HTTP. It is a thin translation layer:
// decode, validate, delegate, encode.
type LoanHandler struct {
	service   *service.LoanService
	validator *validator.Validate
}

func NewLoanHandler(service *service.LoanService) *LoanHandler {
	return &LoanHandler{
		service:   service,
		validator: validator.New(),
	}
}

// CreateLoan handles POST /api/v1/loans
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "invalid loan request", err)
		return
	}

	loan, schedule, err := h.service.CreateLoan(r.Context(), &request)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Created(w, &domain.CreateLoanResponse{Loan: loan, Schedule: schedule})
}

// GetLoan handles GET /api/v1/loans/{loanId}
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	loan, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, loan)
}

// GetSchedule handles GET /api/v1/loans/{loanId}/schedule
func (h *LoanHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	schedule, err := h.service.GetSchedule(r.Context(), loanID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, &domain.ScheduleResponse{LoanID: loanID, Schedule: schedule})
}

// GetOutstanding handles GET /api/v1/loans/{loanId}/outstanding
func (h *LoanHandler) GetOutstanding(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	outstanding, err := h.service.GetOutstanding(r.Context(), loanID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, outstanding)
}

// HandleEvent handles POST /api/v1/loans/{loanId}/events
func (h *LoanHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var event domain.LoanEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	event.LoanID = mux.Vars(r)["loanId"]

	if err := h.validator.Struct(&event); err != nil {
		response.BadRequest(w, "invalid loan event", err)
		return
	}

	result, err := h.service.HandleEvent(r.Context(), &event)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, result)
}

// writeBusinessError maps the engine's error taxonomy to HTTP statuses.
func writeBusinessError(w http.ResponseWriter, err error) {
	var businessErr *customError.BusinessError
	if !errors.As(err, &businessErr) {
		response.InternalServerError(w, "internal error", err)
		return
	}

	switch businessErr.Code {
	case customError.ErrCodeLoanNotFound:
		response.NotFound(w, businessErr.Message)
	case customError.ErrCodeInvalidArgument,
		customError.ErrCodeUnsupportedFrequency,
		customError.ErrCodeInvalidDateRange,
		customError.ErrCodeInvalidEvent:
		response.BadRequest(w, businessErr.Message, businessErr.Err)
	case customError.ErrCodeLoanAlreadyExists,
		customError.ErrCodeLoanClosed,
		customError.ErrCodeExtraPaymentExceedsBalance:
		response.Error(w, http.StatusConflict, businessErr.Message, businessErr.Err)
	default:
		response.InternalServerError(w, businessErr.Message, businessErr.Err)
	}
}
