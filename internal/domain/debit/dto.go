package debit

import (
	"github.com/frotaops/frota-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type RegisterDebitRequest struct {
	DriverID       string          `json:"driver_id"`
	Kind           string          `json:"kind"`
	Description    string          `json:"description"`
	OriginalAmount decimal.Decimal `json:"original_amount"`
	Installments   *int            `json:"installments,omitempty"`
	DueDate        *string         `json:"due_date,omitempty"` // YYYY-MM-DD
}

func (r *RegisterDebitRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.DriverID) {
		errs = append(errs, validator.ValidationError{Field: "driver_id", Message: "must be a valid UUID"})
	}
	if !Kind(r.Kind).Valid() {
		errs = append(errs, validator.ValidationError{Field: "kind", Message: "must be one of fuel_advance, loan, damage, fine, other"})
	}
	if validator.IsEmpty(r.Description) {
		errs = append(errs, validator.ValidationError{Field: "description", Message: "is required"})
	}
	if r.OriginalAmount.Sign() <= 0 {
		errs = append(errs, validator.ValidationError{Field: "original_amount", Message: "must be positive"})
	}
	if r.Installments != nil && *r.Installments < 1 {
		errs = append(errs, validator.ValidationError{Field: "installments", Message: "must be at least 1"})
	}
	if r.DueDate != nil {
		if _, ok := validator.IsValidDate(*r.DueDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "due_date", Message: "must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ApplyPaymentRequest struct {
	SettlementID string          `json:"settlement_id"`
	Amount       decimal.Decimal `json:"amount"`
}

func (r *ApplyPaymentRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.SettlementID) {
		errs = append(errs, validator.ValidationError{Field: "settlement_id", Message: "must be a valid UUID"})
	}
	if r.Amount.Sign() <= 0 {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DebitFilter struct {
	DriverID *string
	Status   *string
	Page     int
	Limit    int
}

type DebitResponse struct {
	ID             string          `json:"id"`
	DriverID       string          `json:"driver_id"`
	DriverName     *string         `json:"driver_name,omitempty"`
	Kind           string          `json:"kind"`
	Description    string          `json:"description"`
	OriginalAmount decimal.Decimal `json:"original_amount"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	Balance        decimal.Decimal `json:"balance"`
	Installments   int             `json:"installments"`
	Status         string          `json:"status"`
	DueDate        *string         `json:"due_date,omitempty"`
	CreatedAt      string          `json:"created_at"`
}

type ListDebitsResponse struct {
	Data       []DebitResponse `json:"data"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
}

type ApplicationResponse struct {
	ID           string          `json:"id"`
	SettlementID string          `json:"settlement_id"`
	DebitID      string          `json:"debit_id"`
	Amount       decimal.Decimal `json:"amount"`
	AppliedAt    string          `json:"applied_at"`
	Reversed     bool            `json:"reversed"`
}
