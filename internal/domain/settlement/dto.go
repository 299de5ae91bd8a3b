package settlement

import (
	"github.com/frotaops/frota-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== SETTLEMENT DTOs ==========

type CreateSettlementRequest struct {
	DriverID       string           `json:"driver_id"`
	PeriodStart    string           `json:"period_start"` // YYYY-MM-DD
	PeriodEnd      string           `json:"period_end"`   // YYYY-MM-DD
	Model          string           `json:"model"`        // "commission" or "payroll"
	CommissionRate *decimal.Decimal `json:"commission_rate,omitempty"`
	AdvancesTotal  *decimal.Decimal `json:"advances_total,omitempty"`
	Deductions     *decimal.Decimal `json:"deductions,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
}

func (r *CreateSettlementRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.DriverID) {
		errs = append(errs, validator.ValidationError{Field: "driver_id", Message: "must be a valid UUID"})
	}
	if _, _, ok := validator.IsValidPeriod(r.PeriodStart, r.PeriodEnd); !ok {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "period_start and period_end must be YYYY-MM-DD with start <= end"})
	}
	if !Model(r.Model).Valid() {
		errs = append(errs, validator.ValidationError{Field: "model", Message: "must be 'commission' or 'payroll'"})
	}
	if Model(r.Model) == ModelCommission {
		if r.CommissionRate == nil {
			errs = append(errs, validator.ValidationError{Field: "commission_rate", Message: "is required for the commission model"})
		} else if !validator.IsValidPercentage(*r.CommissionRate) {
			errs = append(errs, validator.ValidationError{Field: "commission_rate", Message: "must be between 0 and 100"})
		}
	}
	if r.AdvancesTotal != nil && r.AdvancesTotal.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "advances_total", Message: "must be non-negative"})
	}
	if r.Deductions != nil && r.Deductions.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "deductions", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TransitionRequest struct {
	Target        string  `json:"target"`
	PaymentDate   *string `json:"payment_date,omitempty"` // YYYY-MM-DD
	PaymentMethod *string `json:"payment_method,omitempty"`
}

func (r *TransitionRequest) Validate() error {
	var errs validator.ValidationErrors

	if !Status(r.Target).Valid() {
		errs = append(errs, validator.ValidationError{Field: "target", Message: "must be a valid settlement status"})
	}
	if Status(r.Target) == StatusOpen {
		errs = append(errs, validator.ValidationError{Field: "target", Message: "a settlement cannot be moved back to open"})
	}
	if r.PaymentDate != nil {
		if _, ok := validator.IsValidDate(*r.PaymentDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if Status(r.Target) == StatusPaid {
		if r.PaymentDate == nil || r.PaymentMethod == nil || validator.IsEmpty(*r.PaymentMethod) {
			errs = append(errs, validator.ValidationError{Field: "payment", Message: "payment_date and payment_method are required"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SettlementFilter struct {
	DriverID  *string
	Status    *string
	Model     *string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

type SettlementResponse struct {
	ID          string  `json:"id"`
	Code        string  `json:"code"`
	DriverID    string  `json:"driver_id"`
	DriverName  *string `json:"driver_name,omitempty"`
	DriverCode  *string `json:"driver_code,omitempty"`
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
	Model       string  `json:"model"`
	Status      string  `json:"status"`

	CommissionRate    decimal.Decimal `json:"commission_rate"`
	Revenue           decimal.Decimal `json:"revenue"`
	NonReimbursable   decimal.Decimal `json:"non_reimbursable"`
	CommissionBase    decimal.Decimal `json:"commission_base"`
	CommissionValue   decimal.Decimal `json:"commission_value"`
	ReimbursableTotal decimal.Decimal `json:"reimbursable_total"`

	PerDiemTotal  decimal.Decimal `json:"per_diem_total"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	OvertimeValue decimal.Decimal `json:"overtime_value"`
	WeekendHours  decimal.Decimal `json:"weekend_hours"`
	WeekendValue  decimal.Decimal `json:"weekend_value"`
	HolidayHours  decimal.Decimal `json:"holiday_hours"`
	HolidayValue  decimal.Decimal `json:"holiday_value"`
	NightHours    decimal.Decimal `json:"night_hours"`
	NightValue    decimal.Decimal `json:"night_value"`
	WorkedDays    int             `json:"worked_days"`

	GrossTotal      decimal.Decimal `json:"gross_total"`
	AdjustmentsNet  decimal.Decimal `json:"adjustments_net"`
	DebitsApplied   decimal.Decimal `json:"debits_applied"`
	AdvancesTotal   decimal.Decimal `json:"advances_total"`
	OtherDeductions decimal.Decimal `json:"other_deductions"`
	NetTotal        decimal.Decimal `json:"net_total"`
	NetTotalDisplay string          `json:"net_total_display"`

	PaymentDate   *string `json:"payment_date,omitempty"`
	PaymentMethod *string `json:"payment_method,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

type ListSettlementsResponse struct {
	Data       []SettlementResponse `json:"data"`
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
}

// ========== DAILY RECORD DTOs ==========

type CreateDailyRecordRequest struct {
	Date          string           `json:"date"` // YYYY-MM-DD
	TotalHours    decimal.Decimal  `json:"total_hours"`
	NormalHours   decimal.Decimal  `json:"normal_hours"`
	OvertimeHours decimal.Decimal  `json:"overtime_hours"`
	DistanceKM    *decimal.Decimal `json:"distance_km,omitempty"`
	MovementHours *decimal.Decimal `json:"movement_hours,omitempty"`
	IdleHours     *decimal.Decimal `json:"idle_hours,omitempty"`
	NightHours    *decimal.Decimal `json:"night_hours,omitempty"`
	PerDiemValue  decimal.Decimal  `json:"per_diem_value"`
	OvertimeValue decimal.Decimal  `json:"overtime_value"`
	WeekendValue  decimal.Decimal  `json:"weekend_value"`
	HolidayValue  decimal.Decimal  `json:"holiday_value"`
	NightValue    decimal.Decimal  `json:"night_value"`
	Holiday       bool             `json:"holiday"`
	HolidayName   *string          `json:"holiday_name,omitempty"`
	Origin        string           `json:"origin"`
}

func (r *CreateDailyRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be in YYYY-MM-DD format"})
	}
	if !RecordOrigin(r.Origin).Valid() {
		errs = append(errs, validator.ValidationError{Field: "origin", Message: "must be one of manual, document, telemetry"})
	}

	nonNegative := map[string]decimal.Decimal{
		"total_hours":    r.TotalHours,
		"normal_hours":   r.NormalHours,
		"overtime_hours": r.OvertimeHours,
		"per_diem_value": r.PerDiemValue,
		"overtime_value": r.OvertimeValue,
		"weekend_value":  r.WeekendValue,
		"holiday_value":  r.HolidayValue,
		"night_value":    r.NightValue,
	}
	for field, v := range nonNegative {
		if v.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
		}
	}
	optional := map[string]*decimal.Decimal{
		"distance_km":    r.DistanceKM,
		"movement_hours": r.MovementHours,
		"idle_hours":     r.IdleHours,
		"night_hours":    r.NightHours,
	}
	for field, v := range optional {
		if v != nil && v.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
		}
	}
	if r.Holiday && (r.HolidayName == nil || validator.IsEmpty(*r.HolidayName)) {
		errs = append(errs, validator.ValidationError{Field: "holiday_name", Message: "is required when holiday is true"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DayTotal derives the day's value from its components; records always store
// the derived figure, never a hand-entered one.
func (r *CreateDailyRecordRequest) DayTotal() decimal.Decimal {
	return r.PerDiemValue.
		Add(r.OvertimeValue).
		Add(r.WeekendValue).
		Add(r.HolidayValue).
		Add(r.NightValue)
}

type DailyRecordResponse struct {
	ID            string           `json:"id"`
	SettlementID  string           `json:"settlement_id"`
	Date          string           `json:"date"`
	Weekday       int              `json:"weekday"`
	TotalHours    decimal.Decimal  `json:"total_hours"`
	NormalHours   decimal.Decimal  `json:"normal_hours"`
	OvertimeHours decimal.Decimal  `json:"overtime_hours"`
	DistanceKM    *decimal.Decimal `json:"distance_km,omitempty"`
	MovementHours *decimal.Decimal `json:"movement_hours,omitempty"`
	IdleHours     *decimal.Decimal `json:"idle_hours,omitempty"`
	NightHours    decimal.Decimal  `json:"night_hours"`
	PerDiemValue  decimal.Decimal  `json:"per_diem_value"`
	OvertimeValue decimal.Decimal  `json:"overtime_value"`
	WeekendValue  decimal.Decimal  `json:"weekend_value"`
	HolidayValue  decimal.Decimal  `json:"holiday_value"`
	NightValue    decimal.Decimal  `json:"night_value"`
	DayTotal      decimal.Decimal  `json:"day_total"`
	Holiday       bool             `json:"holiday"`
	HolidayName   *string          `json:"holiday_name,omitempty"`
	Origin        string           `json:"origin"`
}

// ========== ADJUSTMENT DTOs ==========

type CreateAdjustmentRequest struct {
	Kind          string          `json:"kind"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Value         decimal.Decimal `json:"value"`
	Justification string          `json:"justification"`
	ProofRef      *string         `json:"proof_ref,omitempty"`
}

func (r *CreateAdjustmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if !AdjustmentKind(r.Kind).Valid() {
		errs = append(errs, validator.ValidationError{Field: "kind", Message: "must be one of bonus, penalty, correction, other"})
	}
	if validator.IsEmpty(r.Description) {
		errs = append(errs, validator.ValidationError{Field: "description", Message: "is required"})
	}
	if validator.IsEmpty(r.Justification) {
		errs = append(errs, validator.ValidationError{Field: "justification", Message: "is required"})
	}
	switch AdjustmentKind(r.Kind) {
	case AdjustmentBonus:
		if r.Value.Sign() <= 0 {
			errs = append(errs, validator.ValidationError{Field: "value", Message: "bonus value must be positive"})
		}
	case AdjustmentPenalty:
		if r.Value.Sign() >= 0 {
			errs = append(errs, validator.ValidationError{Field: "value", Message: "penalty value must be negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AdjustmentResponse struct {
	ID            string          `json:"id"`
	SettlementID  string          `json:"settlement_id"`
	Kind          string          `json:"kind"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Value         decimal.Decimal `json:"value"`
	Justification string          `json:"justification"`
	ProofRef      *string         `json:"proof_ref,omitempty"`
	Author        string          `json:"author"`
	CreatedAt     string          `json:"created_at"`
}

// ========== EXPENSE VALIDATION DTOs ==========

type ReviewExpenseRequest struct {
	Status        string           `json:"status"` // approved | rejected | adjusted
	ApprovedValue *decimal.Decimal `json:"approved_value,omitempty"`
	Justification *string          `json:"justification,omitempty"`
}

func (r *ReviewExpenseRequest) Validate() error {
	var errs validator.ValidationErrors

	status := ValidationStatus(r.Status)
	if !status.Valid() || status == ValidationPending {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be approved, rejected or adjusted"})
	}
	if status == ValidationAdjusted {
		if r.ApprovedValue == nil {
			errs = append(errs, validator.ValidationError{Field: "approved_value", Message: "is required for an adjusted review"})
		} else if r.ApprovedValue.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "approved_value", Message: "must be non-negative"})
		}
	}
	if status == ValidationRejected && (r.Justification == nil || validator.IsEmpty(*r.Justification)) {
		errs = append(errs, validator.ValidationError{Field: "justification", Message: "is required when rejecting an expense"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ExpenseValidationResponse struct {
	ID            string           `json:"id"`
	ExpenseID     string           `json:"expense_id"`
	SettlementID  string           `json:"settlement_id"`
	Status        string           `json:"status"`
	OriginalValue decimal.Decimal  `json:"original_value"`
	ApprovedValue *decimal.Decimal `json:"approved_value,omitempty"`
	Justification *string          `json:"justification,omitempty"`
	Reviewer      *string          `json:"reviewer,omitempty"`
	ReviewedAt    *string          `json:"reviewed_at,omitempty"`
}
