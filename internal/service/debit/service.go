package debit

import (
	"context"
	"time"

	"github.com/frotaops/frota-backend-go/internal/domain/debit"
	"github.com/frotaops/frota-backend-go/internal/domain/driver"
	"github.com/frotaops/frota-backend-go/internal/domain/settlement"
	"github.com/frotaops/frota-backend-go/internal/pkg/database"
	"github.com/frotaops/frota-backend-go/internal/pkg/events"
	"github.com/frotaops/frota-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DebitServiceImpl struct {
	db             *database.DB
	debitRepo      debit.DebitRepository
	driverRepo     driver.DriverRepository
	settlementRepo settlement.SettlementRepository
	hub            *events.Hub
}

func NewDebitService(
	db *database.DB,
	debitRepo debit.DebitRepository,
	driverRepo driver.DriverRepository,
	settlementRepo settlement.SettlementRepository,
	hub *events.Hub,
) debit.DebitService {
	return &DebitServiceImpl{
		db:             db,
		debitRepo:      debitRepo,
		driverRepo:     driverRepo,
		settlementRepo: settlementRepo,
		hub:            hub,
	}
}

func (s *DebitServiceImpl) Register(ctx context.Context, req debit.RegisterDebitRequest) (debit.DebitResponse, error) {
	if err := req.Validate(); err != nil {
		return debit.DebitResponse{}, err
	}

	drv, err := s.driverRepo.GetByID(ctx, req.DriverID)
	if err != nil {
		return debit.DebitResponse{}, err
	}
	if !drv.Active {
		return debit.DebitResponse{}, driver.ErrDriverInactive
	}

	newDebit := debit.Debit{
		ID:             uuid.Must(uuid.NewV7()).String(),
		DriverID:       drv.ID,
		Kind:           debit.Kind(req.Kind),
		Description:    req.Description,
		OriginalAmount: req.OriginalAmount,
		AmountPaid:     decimal.Zero,
		Balance:        req.OriginalAmount,
		Installments:   1,
		Status:         debit.StatusActive,
	}
	if req.Installments != nil {
		newDebit.Installments = *req.Installments
	}
	if req.DueDate != nil {
		due, _ := time.Parse("2006-01-02", *req.DueDate)
		newDebit.DueDate = &due
	}

	created, err := s.debitRepo.Create(ctx, newDebit)
	if err != nil {
		return debit.DebitResponse{}, err
	}

	return mapToDebitResponse(created), nil
}

func (s *DebitServiceImpl) Get(ctx context.Context, id string) (debit.DebitResponse, error) {
	found, err := s.debitRepo.GetByID(ctx, id)
	if err != nil {
		return debit.DebitResponse{}, err
	}
	return mapToDebitResponse(found), nil
}

func (s *DebitServiceImpl) List(ctx context.Context, filter debit.DebitFilter) (debit.ListDebitsResponse, error) {
	debits, totalCount, err := s.debitRepo.List(ctx, filter)
	if err != nil {
		return debit.ListDebitsResponse{}, err
	}

	result := make([]debit.DebitResponse, 0, len(debits))
	for _, d := range debits {
		result = append(result, mapToDebitResponse(d))
	}

	return debit.ListDebitsResponse{
		Data:       result,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *DebitServiceImpl) ListActive(ctx context.Context, driverID string) ([]debit.DebitResponse, error) {
	debits, err := s.debitRepo.ListActiveByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}

	result := make([]debit.DebitResponse, 0, len(debits))
	for _, d := range debits {
		result = append(result, mapToDebitResponse(d))
	}
	return result, nil
}

// ApplyPayment nets part of a debit through a settlement. Both rows are
// locked in one transaction so the balance and the settlement totals move
// together.
func (s *DebitServiceImpl) ApplyPayment(ctx context.Context, debitID string, req debit.ApplyPaymentRequest) (debit.DebitResponse, error) {
	if err := req.Validate(); err != nil {
		return debit.DebitResponse{}, err
	}

	var updated debit.Debit
	var pending []events.Event
	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		stmt, err := s.settlementRepo.GetByIDForUpdate(txCtx, req.SettlementID)
		if err != nil {
			return err
		}
		if !stmt.IsMutable() {
			return settlement.ErrSettlementFrozen
		}

		locked, err := s.debitRepo.GetByIDForUpdate(txCtx, debitID)
		if err != nil {
			return err
		}
		if locked.DriverID != stmt.DriverID {
			return debit.ErrDebitNotFound
		}

		if err := locked.ApplyPayment(req.Amount); err != nil {
			return err
		}

		updated, err = s.debitRepo.Update(txCtx, locked)
		if err != nil {
			return err
		}

		_, err = s.debitRepo.CreateApplication(txCtx, debit.Application{
			ID:           uuid.Must(uuid.NewV7()).String(),
			SettlementID: stmt.ID,
			DebitID:      locked.ID,
			Amount:       req.Amount,
		})
		if err != nil {
			return err
		}

		applied, err := s.debitRepo.SumAppliedBySettlement(txCtx, stmt.ID)
		if err != nil {
			return err
		}
		stmt.DebitsApplied = applied
		stmt.NetTotal = stmt.ComputeNetTotal()
		if _, err := s.settlementRepo.UpdateTotals(txCtx, stmt); err != nil {
			return err
		}

		if updated.Status == debit.StatusSettled {
			pending = append(pending, events.Event{
				Type:     events.DebitSettled,
				DriverID: updated.DriverID,
				EntityID: updated.ID,
				Payload: map[string]interface{}{
					"settlement_id": stmt.ID,
					"amount":        req.Amount,
				},
			})
		}
		return nil
	})
	if err != nil {
		return debit.DebitResponse{}, err
	}

	// Events describe committed state only.
	for _, ev := range pending {
		s.hub.Publish(ev)
	}

	return mapToDebitResponse(updated), nil
}

// Cancel forgives the remaining balance of an active debit. A debit that a
// live settlement has netted against cannot be cancelled; cancelling the
// settlement first releases the applied amounts.
func (s *DebitServiceImpl) Cancel(ctx context.Context, id string) (debit.DebitResponse, error) {
	var updated debit.Debit
	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		locked, err := s.debitRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if locked.Status == debit.StatusSettled {
			return debit.ErrDebitAlreadySettled
		}
		if locked.Status != debit.StatusActive {
			return debit.ErrDebitNotActive
		}

		outstanding, err := s.debitRepo.HasActiveApplications(txCtx, locked.ID)
		if err != nil {
			return err
		}
		if outstanding {
			return debit.ErrDebitHasApplications
		}

		locked.Status = debit.StatusCancelled
		updated, err = s.debitRepo.Update(txCtx, locked)
		return err
	})
	if err != nil {
		return debit.DebitResponse{}, err
	}

	return mapToDebitResponse(updated), nil
}

// ReverseSettlementApplications undoes every non-reversed application the
// settlement created. Runs in the caller's transaction when one is present.
func (s *DebitServiceImpl) ReverseSettlementApplications(ctx context.Context, settlementID string) error {
	applications, err := s.debitRepo.ListApplicationsBySettlement(ctx, settlementID)
	if err != nil {
		return err
	}

	for _, app := range applications {
		if app.ReversedAt != nil {
			continue
		}

		locked, err := s.debitRepo.GetByIDForUpdate(ctx, app.DebitID)
		if err != nil {
			return err
		}
		if err := locked.ReversePayment(app.Amount); err != nil {
			return err
		}
		if _, err := s.debitRepo.Update(ctx, locked); err != nil {
			return err
		}
		if err := s.debitRepo.MarkApplicationReversed(ctx, app.ID); err != nil {
			return err
		}
	}
	return nil
}

// SweepOverdue publishes an event per active past-due debit. Idempotent per
// run; subscribers dedupe on the entity id if they need to.
func (s *DebitServiceImpl) SweepOverdue(ctx context.Context) (int, error) {
	overdue, err := s.debitRepo.ListOverdue(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	for _, d := range overdue {
		s.hub.Publish(events.Event{
			Type:     events.DebitOverdue,
			DriverID: d.DriverID,
			EntityID: d.ID,
			Payload: map[string]interface{}{
				"balance":  d.Balance,
				"due_date": d.DueDate,
			},
		})
	}
	return len(overdue), nil
}

func mapToDebitResponse(d debit.Debit) debit.DebitResponse {
	var dueDateStr *string
	if d.DueDate != nil {
		str := d.DueDate.Format("2006-01-02")
		dueDateStr = &str
	}

	return debit.DebitResponse{
		ID:             d.ID,
		DriverID:       d.DriverID,
		DriverName:     d.DriverName,
		Kind:           string(d.Kind),
		Description:    d.Description,
		OriginalAmount: d.OriginalAmount,
		AmountPaid:     d.AmountPaid,
		Balance:        d.Balance,
		Installments:   d.Installments,
		Status:         string(d.Status),
		DueDate:        dueDateStr,
		CreatedAt:      d.CreatedAt.Format(time.RFC3339),
	}
}
