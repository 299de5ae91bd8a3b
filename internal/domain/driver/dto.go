package driver

import (
	"github.com/frotaops/frota-backend-go/internal/domain/settlement"
	"github.com/frotaops/frota-backend-go/internal/pkg/validator"
)

type CreateDriverRequest struct {
	Name         string `json:"name"`
	DefaultModel string `json:"default_model"`
	HiredAt      string `json:"hired_at"` // YYYY-MM-DD
}

func (r *CreateDriverRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if !settlement.Model(r.DefaultModel).Valid() {
		errs = append(errs, validator.ValidationError{Field: "default_model", Message: "must be 'commission' or 'payroll'"})
	}
	if _, ok := validator.IsValidDate(r.HiredAt); !ok {
		errs = append(errs, validator.ValidationError{Field: "hired_at", Message: "must be in YYYY-MM-DD format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DriverResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Code         string `json:"code"`
	DefaultModel string `json:"default_model"`
	Active       bool   `json:"active"`
	HiredAt      string `json:"hired_at"`
	CreatedAt    string `json:"created_at"`
}
