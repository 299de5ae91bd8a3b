package trip

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Trip is the engine's read model of a completed trip: the freight it earned
// and the expenses it carried. Trips are produced by the dispatch subsystem;
// the settlement engine only consumes them.
type Trip struct {
	ID           string
	DriverID     string
	Origin       string
	Destination  string
	StartedAt    time.Time
	EndedAt      *time.Time
	FreightValue *decimal.Decimal // nil when the trip has no freight record
	Expenses     []Expense
}

// Expense as seen by a specific settlement: Value is the countable amount
// after expense validation (original when approved, reviewer's figure when
// adjusted, zero when rejected or still pending).
type Expense struct {
	ID               string
	TripID           string
	Description      string
	OriginalValue    decimal.Decimal
	Value            decimal.Decimal
	Reimbursable     bool
	ValidationStatus string
}

var ErrTripNotFound = errors.New("trip not found")

// TripRepository reads trips for settlement computation.
type TripRepository interface {
	// ListForSettlement returns the driver's trips inside the period with
	// expense values resolved against the settlement's validations.
	ListForSettlement(ctx context.Context, driverID string, periodStart, periodEnd time.Time, settlementID string) ([]Trip, error)
	// GetExpenseForSettlement returns one raw expense, provided it belongs
	// to a trip of the given driver inside the period.
	GetExpenseForSettlement(ctx context.Context, expenseID, driverID string, periodStart, periodEnd time.Time) (Expense, error)
}
