package debit

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind enum
type Kind string

const (
	KindFuelAdvance Kind = "fuel_advance"
	KindLoan        Kind = "loan"
	KindDamage      Kind = "damage"
	KindFine        Kind = "fine"
	KindOther       Kind = "other"
)

func (k Kind) Valid() bool {
	switch k {
	case KindFuelAdvance, KindLoan, KindDamage, KindFine, KindOther:
		return true
	}
	return false
}

// Status enum
type Status string

const (
	StatusActive    Status = "active"
	StatusSettled   Status = "settled"
	StatusCancelled Status = "cancelled"
)

// Debit - standing obligation owed by a driver. Balance is derived:
// balance = original_amount - amount_paid, never negative.
type Debit struct {
	ID             string
	DriverID       string
	Kind           Kind
	Description    string
	OriginalAmount decimal.Decimal
	AmountPaid     decimal.Decimal
	Balance        decimal.Decimal
	Installments   int
	Status         Status
	DueDate        *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Joined fields
	DriverName *string
}

// ApplyPayment moves amount from balance to paid. The debit must be active
// and the amount must be positive and no greater than the remaining balance.
// When the balance reaches zero the debit settles.
func (d *Debit) ApplyPayment(amount decimal.Decimal) error {
	if d.Status != StatusActive {
		return ErrDebitNotActive
	}
	if amount.Sign() <= 0 || amount.GreaterThan(d.Balance) {
		return ErrInvalidAmount
	}

	d.AmountPaid = d.AmountPaid.Add(amount)
	d.Balance = d.OriginalAmount.Sub(d.AmountPaid)
	if d.Balance.IsZero() {
		d.Status = StatusSettled
	}
	return nil
}

// ReversePayment undoes a previously applied amount, used when the settlement
// that routed the payment is cancelled. A settled debit becomes active again
// once it carries a balance.
func (d *Debit) ReversePayment(amount decimal.Decimal) error {
	if d.Status == StatusCancelled {
		return ErrDebitNotActive
	}
	if amount.Sign() <= 0 || amount.GreaterThan(d.AmountPaid) {
		return ErrInvalidAmount
	}

	d.AmountPaid = d.AmountPaid.Sub(amount)
	d.Balance = d.OriginalAmount.Sub(d.AmountPaid)
	if d.Status == StatusSettled && d.Balance.Sign() > 0 {
		d.Status = StatusActive
	}
	return nil
}

// IsOverdue reports whether the debit is active with a due date in the past.
func (d *Debit) IsOverdue(asOf time.Time) bool {
	return d.Status == StatusActive && d.DueDate != nil && d.DueDate.Before(asOf)
}

// Application records how much of a debit was netted through one settlement.
// The settlement side keeps no back-pointer; this row is the only link.
type Application struct {
	ID           string
	SettlementID string
	DebitID      string
	Amount       decimal.Decimal
	AppliedAt    time.Time
	ReversedAt   *time.Time
}
