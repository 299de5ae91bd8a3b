package http

import (
	"encoding/json"
	"net/http"

	"github.com/frotaops/frota-backend-go/internal/domain/debit"
	"github.com/frotaops/frota-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type DebitHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ApplyPayment(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
}

type debitHandlerImpl struct {
	debitService debit.DebitService
}

func NewDebitHandler(debitService debit.DebitService) DebitHandler {
	return &debitHandlerImpl{debitService: debitService}
}

func (h *debitHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var req debit.RegisterDebitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.debitService.Register(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Debit registered", result)
}

func (h *debitHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Debit ID is required", nil)
		return
	}

	result, err := h.debitService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *debitHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := debit.DebitFilter{
		Page:  parseIntQuery(r, "page", 1),
		Limit: parseIntQuery(r, "limit", 20),
	}
	if v := r.URL.Query().Get("driver_id"); v != "" {
		filter.DriverID = &v
	}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}

	result, err := h.debitService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: totalPages(result.TotalCount, result.Limit),
	})
}

func (h *debitHandlerImpl) ApplyPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Debit ID is required", nil)
		return
	}

	var req debit.ApplyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.debitService.ApplyPayment(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payment applied", result)
}

func (h *debitHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Debit ID is required", nil)
		return
	}

	result, err := h.debitService.Cancel(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Debit cancelled", result)
}
