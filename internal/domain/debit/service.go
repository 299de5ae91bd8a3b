package debit

import "context"

// DebitService exposes the driver debit ledger to callers.
type DebitService interface {
	Register(ctx context.Context, req RegisterDebitRequest) (DebitResponse, error)
	Get(ctx context.Context, id string) (DebitResponse, error)
	List(ctx context.Context, filter DebitFilter) (ListDebitsResponse, error)
	ListActive(ctx context.Context, driverID string) ([]DebitResponse, error)
	ApplyPayment(ctx context.Context, debitID string, req ApplyPaymentRequest) (DebitResponse, error)
	Cancel(ctx context.Context, id string) (DebitResponse, error)

	// ReverseSettlementApplications undoes every payment routed through the
	// given settlement. Called by the settlement engine on cancellation.
	ReverseSettlementApplications(ctx context.Context, settlementID string) error

	// SweepOverdue emits an event for each active debit past its due date.
	SweepOverdue(ctx context.Context) (int, error)
}
