package settlement

import (
	"time"

	"github.com/shopspring/decimal"
)

// Model enum - how the driver is compensated for the period.
type Model string

const (
	ModelCommission Model = "commission"
	ModelPayroll    Model = "payroll"
)

func (m Model) Valid() bool {
	return m == ModelCommission || m == ModelPayroll
}

// Status enum
type Status string

const (
	StatusOpen      Status = "open"
	StatusInReview  Status = "in_review"
	StatusApproved  Status = "approved"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInReview, StatusApproved, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// transitions is the exhaustive state table. Anything not listed is illegal.
var transitions = map[Status][]Status{
	StatusOpen:      {StatusInReview, StatusCancelled},
	StatusInReview:  {StatusApproved, StatusCancelled},
	StatusApproved:  {StatusPaid, StatusCancelled},
	StatusPaid:      {},
	StatusCancelled: {},
}

// CanTransitionTo reports whether target is reachable from s in one step.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Settlement - one computed payout/deduction statement per (driver, period).
// Totals are derived by the engine and never hand-edited:
// net = gross + adjustments - debits_applied - advances - other_deductions.
type Settlement struct {
	ID          string
	Code        string
	DriverID    string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Model       Model
	Status      Status

	// Commission model fields
	CommissionRate    decimal.Decimal
	Revenue           decimal.Decimal
	NonReimbursable   decimal.Decimal
	CommissionBase    decimal.Decimal
	CommissionValue   decimal.Decimal
	ReimbursableTotal decimal.Decimal

	// Payroll model sub-totals
	PerDiemTotal  decimal.Decimal
	OvertimeHours decimal.Decimal
	OvertimeValue decimal.Decimal
	WeekendHours  decimal.Decimal
	WeekendValue  decimal.Decimal
	HolidayHours  decimal.Decimal
	HolidayValue  decimal.Decimal
	NightHours    decimal.Decimal
	NightValue    decimal.Decimal
	WorkedDays    int

	// Settlement-level totals
	GrossTotal      decimal.Decimal
	AdjustmentsNet  decimal.Decimal
	DebitsApplied   decimal.Decimal
	AdvancesTotal   decimal.Decimal
	OtherDeductions decimal.Decimal
	NetTotal        decimal.Decimal

	PaymentDate   *time.Time
	PaymentMethod *string
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined fields
	DriverName *string
	DriverCode *string
}

// IsMutable reports whether the settlement's inputs (daily records,
// adjustments, expense validations, debit applications) may still change.
func (s *Settlement) IsMutable() bool {
	return s.Status == StatusOpen || s.Status == StatusInReview
}

// IsFrozen reports whether the settlement and its children are read-only.
func (s *Settlement) IsFrozen() bool {
	return s.Status == StatusApproved || s.Status == StatusPaid
}

// ComputeNetTotal re-derives the net from the stored components.
func (s *Settlement) ComputeNetTotal() decimal.Decimal {
	return s.GrossTotal.
		Add(s.AdjustmentsNet).
		Sub(s.DebitsApplied).
		Sub(s.AdvancesTotal).
		Sub(s.OtherDeductions)
}

// RecordOrigin enum - where a daily work record came from.
type RecordOrigin string

const (
	OriginManual    RecordOrigin = "manual"
	OriginDocument  RecordOrigin = "document"
	OriginTelemetry RecordOrigin = "telemetry"
)

func (o RecordOrigin) Valid() bool {
	return o == OriginManual || o == OriginDocument || o == OriginTelemetry
}

// DailyWorkRecord - one labor day inside a payroll-model settlement.
// Value fields are computed at entry time; the engine only aggregates them.
// Invariant: day_total = per_diem + overtime + weekend + holiday + night.
type DailyWorkRecord struct {
	ID           string
	SettlementID string
	Date         time.Time
	Weekday      int // 0 = Sunday .. 6 = Saturday

	TotalHours    decimal.Decimal
	NormalHours   decimal.Decimal
	OvertimeHours decimal.Decimal

	// Telemetry-derived, absent for manual entries
	DistanceKM    *decimal.Decimal
	MovementHours *decimal.Decimal
	IdleHours     *decimal.Decimal
	NightHours    decimal.Decimal

	PerDiemValue  decimal.Decimal
	OvertimeValue decimal.Decimal
	WeekendValue  decimal.Decimal
	HolidayValue  decimal.Decimal
	NightValue    decimal.Decimal
	DayTotal      decimal.Decimal

	Holiday     bool
	HolidayName *string
	Origin      RecordOrigin
	CreatedAt   time.Time
}

// AdjustmentKind enum
type AdjustmentKind string

const (
	AdjustmentBonus      AdjustmentKind = "bonus"
	AdjustmentPenalty    AdjustmentKind = "penalty"
	AdjustmentCorrection AdjustmentKind = "correction"
	AdjustmentOther      AdjustmentKind = "other"
)

func (k AdjustmentKind) Valid() bool {
	switch k {
	case AdjustmentBonus, AdjustmentPenalty, AdjustmentCorrection, AdjustmentOther:
		return true
	}
	return false
}

// Adjustment - one-off signed entry tied to exactly one settlement.
// Bonuses are positive, penalties negative, corrections carry their sign.
type Adjustment struct {
	ID            string
	SettlementID  string
	Kind          AdjustmentKind
	Category      string
	Description   string
	Value         decimal.Decimal
	Justification string
	ProofRef      *string
	Author        string
	CreatedAt     time.Time
}

// ValidationStatus enum for expense reviews.
type ValidationStatus string

const (
	ValidationPending  ValidationStatus = "pending"
	ValidationApproved ValidationStatus = "approved"
	ValidationRejected ValidationStatus = "rejected"
	ValidationAdjusted ValidationStatus = "adjusted"
)

func (s ValidationStatus) Valid() bool {
	switch s {
	case ValidationPending, ValidationApproved, ValidationRejected, ValidationAdjusted:
		return true
	}
	return false
}

// ExpenseValidation - review decision joining a raw expense to a settlement.
// Unique per (expense, settlement); re-reviewing overwrites the decision.
type ExpenseValidation struct {
	ID            string
	ExpenseID     string
	SettlementID  string
	Status        ValidationStatus
	OriginalValue decimal.Decimal
	ApprovedValue *decimal.Decimal // present only for approved/adjusted
	Justification *string
	Reviewer      *string
	ReviewedAt    *time.Time
	CreatedAt     time.Time
}

// CountableValue returns the amount this validation contributes to the
// settlement: the full value when approved, the reviewer's value when
// adjusted, zero otherwise.
func (v *ExpenseValidation) CountableValue() decimal.Decimal {
	switch v.Status {
	case ValidationApproved:
		return v.OriginalValue
	case ValidationAdjusted:
		if v.ApprovedValue != nil {
			return *v.ApprovedValue
		}
		return decimal.Zero
	default:
		return decimal.Zero
	}
}
