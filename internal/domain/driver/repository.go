package driver

import "context"

type DriverRepository interface {
	Create(ctx context.Context, d Driver) (Driver, error)
	GetByID(ctx context.Context, id string) (Driver, error)
	// GetByIDForUpdate locks the driver row for the current transaction.
	// Callers must run inside WithTransaction.
	GetByIDForUpdate(ctx context.Context, id string) (Driver, error)
	List(ctx context.Context, activeOnly bool) ([]Driver, error)
}

type DriverService interface {
	Create(ctx context.Context, req CreateDriverRequest) (DriverResponse, error)
	Get(ctx context.Context, id string) (DriverResponse, error)
	List(ctx context.Context, activeOnly bool) ([]DriverResponse, error)
}
