package settlement

import "context"

// SettlementService is the driver settlement engine's public surface.
type SettlementService interface {
	Create(ctx context.Context, req CreateSettlementRequest) (SettlementResponse, error)
	Get(ctx context.Context, id string) (SettlementResponse, error)
	List(ctx context.Context, filter SettlementFilter) (ListSettlementsResponse, error)

	// Recalculate re-derives every total from current inputs. Safe to call
	// repeatedly while the settlement is still mutable.
	Recalculate(ctx context.Context, id string) (SettlementResponse, error)

	// Transition drives the settlement state machine.
	Transition(ctx context.Context, id string, req TransitionRequest) (SettlementResponse, error)

	// Daily work records (payroll model)
	AddDailyRecord(ctx context.Context, settlementID string, req CreateDailyRecordRequest) (DailyRecordResponse, error)
	ListDailyRecords(ctx context.Context, settlementID string) ([]DailyRecordResponse, error)
	DeleteDailyRecord(ctx context.Context, settlementID, recordID string) error

	// Adjustments
	CreateAdjustment(ctx context.Context, settlementID string, req CreateAdjustmentRequest) (AdjustmentResponse, error)
	ListAdjustments(ctx context.Context, settlementID string) ([]AdjustmentResponse, error)
	DeleteAdjustment(ctx context.Context, settlementID, adjustmentID string) error

	// Expense review workflow
	ReviewExpense(ctx context.Context, settlementID, expenseID string, req ReviewExpenseRequest) (ExpenseValidationResponse, error)
	ListExpenseValidations(ctx context.Context, settlementID string) ([]ExpenseValidationResponse, error)
}
