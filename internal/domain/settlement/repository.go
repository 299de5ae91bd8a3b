package settlement

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SettlementRepository defines data access for settlements and the child
// records they exclusively own.
type SettlementRepository interface {
	// Settlements
	Create(ctx context.Context, s Settlement) (Settlement, error)
	GetByID(ctx context.Context, id string) (Settlement, error)
	// GetByIDForUpdate locks the settlement row so recalculation and
	// transition run single-writer. Callers must run inside WithTransaction.
	GetByIDForUpdate(ctx context.Context, id string) (Settlement, error)
	List(ctx context.Context, filter SettlementFilter) ([]Settlement, int64, error)
	// UpdateTotals persists every derived field in one statement.
	UpdateTotals(ctx context.Context, s Settlement) (Settlement, error)
	UpdateStatus(ctx context.Context, id string, status Status, paymentDate *time.Time, paymentMethod *string) (Settlement, error)
	// HasOverlapping reports whether a non-cancelled settlement for the
	// driver intersects [start, end].
	HasOverlapping(ctx context.Context, driverID string, start, end time.Time) (bool, error)

	// Daily work records
	CreateDailyRecord(ctx context.Context, rec DailyWorkRecord) (DailyWorkRecord, error)
	ListDailyRecords(ctx context.Context, settlementID string) ([]DailyWorkRecord, error)
	DeleteDailyRecord(ctx context.Context, settlementID, recordID string) error

	// Adjustments
	CreateAdjustment(ctx context.Context, adj Adjustment) (Adjustment, error)
	ListAdjustments(ctx context.Context, settlementID string) ([]Adjustment, error)
	DeleteAdjustment(ctx context.Context, settlementID, adjustmentID string) error
	SumAdjustments(ctx context.Context, settlementID string) (decimal.Decimal, error)

	// Expense validations
	UpsertValidation(ctx context.Context, v ExpenseValidation) (ExpenseValidation, error)
	ListValidations(ctx context.Context, settlementID string) ([]ExpenseValidation, error)
	CountPendingValidations(ctx context.Context, settlementID string) (int, error)
}
