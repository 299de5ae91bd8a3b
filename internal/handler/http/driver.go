package http

import (
	"encoding/json"
	"net/http"

	"github.com/frotaops/frota-backend-go/internal/domain/debit"
	"github.com/frotaops/frota-backend-go/internal/domain/driver"
	"github.com/frotaops/frota-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type DriverHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListActiveDebits(w http.ResponseWriter, r *http.Request)
}

type driverHandlerImpl struct {
	driverService driver.DriverService
	debitService  debit.DebitService
}

func NewDriverHandler(driverService driver.DriverService, debitService debit.DebitService) DriverHandler {
	return &driverHandlerImpl{driverService: driverService, debitService: debitService}
}

func (h *driverHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req driver.CreateDriverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.driverService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Driver created", result)
}

func (h *driverHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Driver ID is required", nil)
		return
	}

	result, err := h.driverService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *driverHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	result, err := h.driverService.List(r.Context(), activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *driverHandlerImpl) ListActiveDebits(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Driver ID is required", nil)
		return
	}

	result, err := h.debitService.ListActive(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
