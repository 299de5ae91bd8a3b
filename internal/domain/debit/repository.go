package debit

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DebitRepository defines data access methods for the driver debit ledger.
type DebitRepository interface {
	Create(ctx context.Context, d Debit) (Debit, error)
	GetByID(ctx context.Context, id string) (Debit, error)
	// GetByIDForUpdate locks the debit row for the current transaction.
	// Callers must run inside WithTransaction.
	GetByIDForUpdate(ctx context.Context, id string) (Debit, error)
	Update(ctx context.Context, d Debit) (Debit, error)
	List(ctx context.Context, filter DebitFilter) ([]Debit, int64, error)
	ListActiveByDriver(ctx context.Context, driverID string) ([]Debit, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]Debit, error)

	// Applications
	CreateApplication(ctx context.Context, a Application) (Application, error)
	ListApplicationsBySettlement(ctx context.Context, settlementID string) ([]Application, error)
	// HasActiveApplications reports whether any non-reversed application
	// still references the debit.
	HasActiveApplications(ctx context.Context, debitID string) (bool, error)
	SumAppliedBySettlement(ctx context.Context, settlementID string) (decimal.Decimal, error)
	MarkApplicationReversed(ctx context.Context, id string) error
}
