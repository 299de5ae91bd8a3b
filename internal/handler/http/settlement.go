package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/frotaops/frota-backend-go/internal/domain/settlement"
	"github.com/frotaops/frota-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SettlementHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Recalculate(w http.ResponseWriter, r *http.Request)
	Transition(w http.ResponseWriter, r *http.Request)

	// Daily work records
	AddDailyRecord(w http.ResponseWriter, r *http.Request)
	ListDailyRecords(w http.ResponseWriter, r *http.Request)
	DeleteDailyRecord(w http.ResponseWriter, r *http.Request)

	// Adjustments
	CreateAdjustment(w http.ResponseWriter, r *http.Request)
	ListAdjustments(w http.ResponseWriter, r *http.Request)
	DeleteAdjustment(w http.ResponseWriter, r *http.Request)

	// Expense review
	ReviewExpense(w http.ResponseWriter, r *http.Request)
	ListExpenseValidations(w http.ResponseWriter, r *http.Request)
}

type settlementHandlerImpl struct {
	settlementService settlement.SettlementService
}

func NewSettlementHandler(settlementService settlement.SettlementService) SettlementHandler {
	return &settlementHandlerImpl{settlementService: settlementService}
}

// ========== SETTLEMENTS ==========

func (h *settlementHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req settlement.CreateSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.settlementService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Settlement created", result)
}

func (h *settlementHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Settlement ID is required", nil)
		return
	}

	result, err := h.settlementService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *settlementHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := settlement.SettlementFilter{
		Page:      parseIntQuery(r, "page", 1),
		Limit:     parseIntQuery(r, "limit", 20),
		SortBy:    r.URL.Query().Get("sort_by"),
		SortOrder: r.URL.Query().Get("sort_order"),
	}
	if v := r.URL.Query().Get("driver_id"); v != "" {
		filter.DriverID = &v
	}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}
	if v := r.URL.Query().Get("model"); v != "" {
		filter.Model = &v
	}

	result, err := h.settlementService.List(r.Context(), filter)
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

func (h *settlementHandlerImpl) Recalculate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Settlement ID is required", nil)
		return
	}

	result, err := h.settlementService.Recalculate(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Settlement recalculated", result)
}

func (h *settlementHandlerImpl) Transition(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Settlement ID is required", nil)
		return
	}

	var req settlement.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.settlementService.Transition(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Settlement status updated", result)
}

// ========== DAILY WORK RECORDS ==========

func (h *settlementHandlerImpl) AddDailyRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Settlement ID is required", nil)
		return
	}

	var req settlement.CreateDailyRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.settlementService.AddDailyRecord(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Daily work record created", result)
}

func (h *settlementHandlerImpl) ListDailyRecords(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Settlement ID is required", nil)
		return
	}

	result, err := h.settlementService.ListDailyRecords(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *settlementHandlerImpl) DeleteDailyRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	recordID := chi.URLParam(r, "recordID")
	if id == "" || recordID == "" {
		response.BadRequest(w, "Settlement ID and record ID are required", nil)
		return
	}

	if err := h.settlementService.DeleteDailyRecord(r.Context(), id, recordID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Daily work record deleted", nil)
}

// ========== ADJUSTMENTS ==========

func (h *settlementHandlerImpl) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Settlement ID is required", nil)
		return
	}

	var req settlement.CreateAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.settlementService.CreateAdjustment(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Adjustment created", result)
}

func (h *settlementHandlerImpl) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Settlement ID is required", nil)
		return
	}

	result, err := h.settlementService.ListAdjustments(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *settlementHandlerImpl) DeleteAdjustment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	adjustmentID := chi.URLParam(r, "adjustmentID")
	if id == "" || adjustmentID == "" {
		response.BadRequest(w, "Settlement ID and adjustment ID are required", nil)
		return
	}

	if err := h.settlementService.DeleteAdjustment(r.Context(), id, adjustmentID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Adjustment deleted", nil)
}

// ========== EXPENSE REVIEW ==========

func (h *settlementHandlerImpl) ReviewExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	expenseID := chi.URLParam(r, "expenseID")
	if id == "" || expenseID == "" {
		response.BadRequest(w, "Settlement ID and expense ID are required", nil)
		return
	}

	var req settlement.ReviewExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.settlementService.ReviewExpense(r.Context(), id, expenseID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Expense reviewed", result)
}

func (h *settlementHandlerImpl) ListExpenseValidations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Settlement ID is required", nil)
		return
	}

	result, err := h.settlementService.ListExpenseValidations(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== HELPERS ==========

func parseIntQuery(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed < 1 {
		return fallback
	}
	return parsed
}

func totalPages(totalItems int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := totalItems / int64(limit)
	if totalItems%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}
