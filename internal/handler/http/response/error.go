package response

import (
	"errors"
	"net/http"

	"github.com/frotaops/frota-backend-go/internal/domain/auth"
	"github.com/frotaops/frota-backend-go/internal/domain/debit"
	"github.com/frotaops/frota-backend-go/internal/domain/driver"
	"github.com/frotaops/frota-backend-go/internal/domain/settlement"
	"github.com/frotaops/frota-backend-go/internal/domain/trip"
	"github.com/frotaops/frota-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrMissingToken):
		Unauthorized(w, "Missing token")

	// Driver domain errors
	case errors.Is(err, driver.ErrDriverNotFound):
		NotFound(w, "Driver not found")
	case errors.Is(err, driver.ErrDriverCodeExists):
		Conflict(w, "Driver code already exists")
	case errors.Is(err, driver.ErrDriverInactive):
		Conflict(w, "Driver is inactive")

	// Settlement domain errors
	case errors.Is(err, settlement.ErrSettlementNotFound):
		NotFound(w, "Settlement not found")
	case errors.Is(err, settlement.ErrPeriodOverlap):
		Conflict(w, "Settlement period overlaps an existing settlement for this driver")
	case errors.Is(err, settlement.ErrIllegalTransition):
		Conflict(w, "Illegal settlement status transition")
	case errors.Is(err, settlement.ErrSettlementFrozen):
		Conflict(w, "Settlement is frozen and can no longer change")
	case errors.Is(err, settlement.ErrValidationIncomplete):
		Conflict(w, "Settlement still has expenses pending validation")
	case errors.Is(err, settlement.ErrPaymentDetailsRequired):
		BadRequest(w, "Payment date and method are required to mark a settlement paid", nil)
	case errors.Is(err, settlement.ErrAdjustmentNotFound):
		NotFound(w, "Adjustment not found")
	case errors.Is(err, settlement.ErrDailyRecordNotFound):
		NotFound(w, "Daily work record not found")
	case errors.Is(err, settlement.ErrDailyRecordExists):
		Conflict(w, "A daily work record already exists for this date")
	case errors.Is(err, settlement.ErrValidationNotFound):
		NotFound(w, "Expense validation not found")
	case errors.Is(err, settlement.ErrExpenseNotFound):
		NotFound(w, "Expense not found")
	case errors.Is(err, settlement.ErrModelMismatch):
		Conflict(w, "Operation does not apply to this compensation model")

	// Debit domain errors
	case errors.Is(err, debit.ErrDebitNotFound):
		NotFound(w, "Debit not found")
	case errors.Is(err, debit.ErrInvalidAmount):
		BadRequest(w, "Amount must be positive and no greater than the remaining balance", nil)
	case errors.Is(err, debit.ErrDebitNotActive):
		Conflict(w, "Debit is not active")
	case errors.Is(err, debit.ErrDebitAlreadySettled):
		Conflict(w, "Debit is already settled")
	case errors.Is(err, debit.ErrDebitHasApplications):
		Conflict(w, "Debit has amounts applied by a live settlement")
	case errors.Is(err, debit.ErrApplicationNotFound):
		NotFound(w, "Debit application not found")
	case errors.Is(err, debit.ErrInvalidKind):
		BadRequest(w, "Invalid debit kind", nil)

	// Trip read model
	case errors.Is(err, trip.ErrTripNotFound):
		NotFound(w, "Trip not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
