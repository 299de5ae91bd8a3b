package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/frotaops/frota-backend-go/internal/domain/debit"
	"github.com/frotaops/frota-backend-go/internal/domain/driver"
	"github.com/frotaops/frota-backend-go/internal/domain/settlement"
	"github.com/frotaops/frota-backend-go/internal/domain/trip"
	"github.com/frotaops/frota-backend-go/internal/pkg/database"
	"github.com/frotaops/frota-backend-go/internal/pkg/events"
	"github.com/frotaops/frota-backend-go/internal/pkg/utils"
	"github.com/frotaops/frota-backend-go/internal/repository/postgresql"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SettlementServiceImpl struct {
	db             *database.DB
	settlementRepo settlement.SettlementRepository
	driverRepo     driver.DriverRepository
	tripRepo       trip.TripRepository
	debitRepo      debit.DebitRepository
	debitService   debit.DebitService
	commissionCalc *CommissionCalculator
	payrollCalc    *PayrollCalculator
	hub            *events.Hub
}

func NewSettlementService(
	db *database.DB,
	settlementRepo settlement.SettlementRepository,
	driverRepo driver.DriverRepository,
	tripRepo trip.TripRepository,
	debitRepo debit.DebitRepository,
	debitService debit.DebitService,
	hub *events.Hub,
) settlement.SettlementService {
	return &SettlementServiceImpl{
		db:             db,
		settlementRepo: settlementRepo,
		driverRepo:     driverRepo,
		tripRepo:       tripRepo,
		debitRepo:      debitRepo,
		debitService:   debitService,
		commissionCalc: NewCommissionCalculator(),
		payrollCalc:    NewPayrollCalculator(),
		hub:            hub,
	}
}

// userFromContext extracts the acting user from the JWT claims.
func userFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id claim is missing or invalid")
	}
	return userID, nil
}

// ========== SETTLEMENTS ==========

func (s *SettlementServiceImpl) Create(ctx context.Context, req settlement.CreateSettlementRequest) (settlement.SettlementResponse, error) {
	if err := req.Validate(); err != nil {
		return settlement.SettlementResponse{}, err
	}

	periodStart, _ := time.Parse("2006-01-02", req.PeriodStart)
	periodEnd, _ := time.Parse("2006-01-02", req.PeriodEnd)

	var created settlement.Settlement
	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		// The driver row lock serializes concurrent creations for the same
		// driver; without it two overlapping periods could both pass the
		// overlap check and both commit.
		drv, err := s.driverRepo.GetByIDForUpdate(txCtx, req.DriverID)
		if err != nil {
			return err
		}
		if !drv.Active {
			return driver.ErrDriverInactive
		}

		overlaps, err := s.settlementRepo.HasOverlapping(txCtx, drv.ID, periodStart, periodEnd)
		if err != nil {
			return err
		}
		if overlaps {
			return settlement.ErrPeriodOverlap
		}

		newSettlement := settlement.Settlement{
			ID:          uuid.Must(uuid.NewV7()).String(),
			Code:        utils.SettlementCode(drv.Code, periodStart),
			DriverID:    drv.ID,
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
			Model:       settlement.Model(req.Model),
			Status:      settlement.StatusOpen,
			Notes:       req.Notes,
		}
		if req.CommissionRate != nil {
			newSettlement.CommissionRate = *req.CommissionRate
		}
		if req.AdvancesTotal != nil {
			newSettlement.AdvancesTotal = *req.AdvancesTotal
		}
		if req.Deductions != nil {
			newSettlement.OtherDeductions = *req.Deductions
		}

		created, err = s.settlementRepo.Create(txCtx, newSettlement)
		return err
	})
	if err != nil {
		return settlement.SettlementResponse{}, err
	}

	return mapToSettlementResponse(created), nil
}

func (s *SettlementServiceImpl) Get(ctx context.Context, id string) (settlement.SettlementResponse, error) {
	found, err := s.settlementRepo.GetByID(ctx, id)
	if err != nil {
		return settlement.SettlementResponse{}, err
	}
	return mapToSettlementResponse(found), nil
}

func (s *SettlementServiceImpl) List(ctx context.Context, filter settlement.SettlementFilter) (settlement.ListSettlementsResponse, error) {
	settlements, totalCount, err := s.settlementRepo.List(ctx, filter)
	if err != nil {
		return settlement.ListSettlementsResponse{}, err
	}

	result := make([]settlement.SettlementResponse, 0, len(settlements))
	for _, item := range settlements {
		result = append(result, mapToSettlementResponse(item))
	}

	return settlement.ListSettlementsResponse{
		Data:       result,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *SettlementServiceImpl) Recalculate(ctx context.Context, id string) (settlement.SettlementResponse, error) {
	var updated settlement.Settlement
	var pending []events.Event
	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		locked, err := s.settlementRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		updated, err = s.recalculateLocked(txCtx, locked, &pending)
		return err
	})
	if err != nil {
		return settlement.SettlementResponse{}, err
	}
	s.publishAll(pending)

	return mapToSettlementResponse(updated), nil
}

// recalculateLocked re-derives every total of a row-locked settlement and
// persists them in one statement. All derived fields update together or not
// at all; the surrounding transaction guarantees it. Events go into pending
// so the caller can publish them once the transaction commits.
func (s *SettlementServiceImpl) recalculateLocked(ctx context.Context, locked settlement.Settlement, pending *[]events.Event) (settlement.Settlement, error) {
	if !locked.IsMutable() {
		return settlement.Settlement{}, settlement.ErrSettlementFrozen
	}

	switch locked.Model {
	case settlement.ModelCommission:
		trips, err := s.tripRepo.ListForSettlement(ctx, locked.DriverID, locked.PeriodStart, locked.PeriodEnd, locked.ID)
		if err != nil {
			return settlement.Settlement{}, err
		}
		totals := s.commissionCalc.Calculate(trips, locked.CommissionRate, locked.AdvancesTotal, locked.OtherDeductions)
		locked.Revenue = totals.Revenue
		locked.NonReimbursable = totals.NonReimbursable
		locked.CommissionBase = totals.CommissionBase
		locked.CommissionValue = totals.CommissionValue
		locked.ReimbursableTotal = totals.ReimbursableTotal
		locked.GrossTotal = totals.CommissionValue.Add(totals.ReimbursableTotal)

	case settlement.ModelPayroll:
		records, err := s.settlementRepo.ListDailyRecords(ctx, locked.ID)
		if err != nil {
			return settlement.Settlement{}, err
		}
		totals := s.payrollCalc.Aggregate(records)
		locked.PerDiemTotal = totals.PerDiemTotal
		locked.OvertimeHours = totals.OvertimeHours
		locked.OvertimeValue = totals.OvertimeValue
		locked.WeekendHours = totals.WeekendHours
		locked.WeekendValue = totals.WeekendValue
		locked.HolidayHours = totals.HolidayHours
		locked.HolidayValue = totals.HolidayValue
		locked.NightHours = totals.NightHours
		locked.NightValue = totals.NightValue
		locked.WorkedDays = totals.WorkedDays
		locked.GrossTotal = totals.GrossTotal
	}

	adjustments, err := s.settlementRepo.SumAdjustments(ctx, locked.ID)
	if err != nil {
		return settlement.Settlement{}, err
	}
	locked.AdjustmentsNet = adjustments

	applied, err := s.debitRepo.SumAppliedBySettlement(ctx, locked.ID)
	if err != nil {
		return settlement.Settlement{}, err
	}
	locked.DebitsApplied = applied

	locked.NetTotal = locked.ComputeNetTotal()

	updated, err := s.settlementRepo.UpdateTotals(ctx, locked)
	if err != nil {
		return settlement.Settlement{}, err
	}

	*pending = append(*pending, events.Event{
		Type:     events.SettlementRecalculated,
		DriverID: updated.DriverID,
		EntityID: updated.ID,
		Payload: map[string]interface{}{
			"gross_total": updated.GrossTotal,
			"net_total":   updated.NetTotal,
		},
	})

	return updated, nil
}

// publishAll emits events collected during a transaction. Called only after
// the transaction committed, so subscribers never see rolled-back state.
func (s *SettlementServiceImpl) publishAll(pending []events.Event) {
	for _, ev := range pending {
		s.hub.Publish(ev)
	}
}

// ========== STATE MACHINE ==========

func (s *SettlementServiceImpl) Transition(ctx context.Context, id string, req settlement.TransitionRequest) (settlement.SettlementResponse, error) {
	if err := req.Validate(); err != nil {
		return settlement.SettlementResponse{}, err
	}
	target := settlement.Status(req.Target)

	var updated settlement.Settlement
	var pending []events.Event
	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		locked, err := s.settlementRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}

		if !locked.Status.CanTransitionTo(target) {
			return settlement.ErrIllegalTransition
		}

		var paymentDate *time.Time
		var paymentMethod *string

		switch target {
		case settlement.StatusInReview:
			pending, err := s.settlementRepo.CountPendingValidations(txCtx, locked.ID)
			if err != nil {
				return err
			}
			if pending > 0 {
				return settlement.ErrValidationIncomplete
			}

		case settlement.StatusApproved:
			// Freeze with freshly derived totals.
			if _, err := s.recalculateLocked(txCtx, locked, &pending); err != nil {
				return err
			}

		case settlement.StatusPaid:
			if req.PaymentDate == nil || req.PaymentMethod == nil {
				return settlement.ErrPaymentDetailsRequired
			}
			parsed, _ := time.Parse("2006-01-02", *req.PaymentDate)
			paymentDate = &parsed
			paymentMethod = req.PaymentMethod

		case settlement.StatusCancelled:
			// Release amounts netted through this settlement.
			if err := s.debitService.ReverseSettlementApplications(txCtx, locked.ID); err != nil {
				return err
			}
		}

		updated, err = s.settlementRepo.UpdateStatus(txCtx, locked.ID, target, paymentDate, paymentMethod)
		if err != nil {
			return err
		}

		pending = append(pending, events.Event{
			Type:     events.SettlementStateChanged,
			DriverID: updated.DriverID,
			EntityID: updated.ID,
			Payload: map[string]interface{}{
				"from": string(locked.Status),
				"to":   string(target),
			},
		})
		return nil
	})
	if err != nil {
		return settlement.SettlementResponse{}, err
	}
	s.publishAll(pending)

	return mapToSettlementResponse(updated), nil
}

// ========== DAILY WORK RECORDS ==========

func (s *SettlementServiceImpl) AddDailyRecord(ctx context.Context, settlementID string, req settlement.CreateDailyRecordRequest) (settlement.DailyRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return settlement.DailyRecordResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	var created settlement.DailyWorkRecord
	var pending []events.Event
	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		locked, err := s.settlementRepo.GetByIDForUpdate(txCtx, settlementID)
		if err != nil {
			return err
		}
		if locked.IsFrozen() || locked.Status == settlement.StatusCancelled {
			return settlement.ErrSettlementFrozen
		}
		if locked.Model != settlement.ModelPayroll {
			return settlement.ErrModelMismatch
		}

		rec := settlement.DailyWorkRecord{
			ID:            uuid.Must(uuid.NewV7()).String(),
			SettlementID:  locked.ID,
			Date:          date,
			Weekday:       int(date.Weekday()),
			TotalHours:    req.TotalHours,
			NormalHours:   req.NormalHours,
			OvertimeHours: req.OvertimeHours,
			DistanceKM:    req.DistanceKM,
			MovementHours: req.MovementHours,
			IdleHours:     req.IdleHours,
			PerDiemValue:  req.PerDiemValue,
			OvertimeValue: req.OvertimeValue,
			WeekendValue:  req.WeekendValue,
			HolidayValue:  req.HolidayValue,
			NightValue:    req.NightValue,
			DayTotal:      req.DayTotal(),
			Holiday:       req.Holiday,
			HolidayName:   req.HolidayName,
			Origin:        settlement.RecordOrigin(req.Origin),
		}
		if req.NightHours != nil {
			rec.NightHours = *req.NightHours
		} else {
			rec.NightHours = decimal.Zero
		}

		created, err = s.settlementRepo.CreateDailyRecord(txCtx, rec)
		if err != nil {
			return err
		}

		_, err = s.recalculateLocked(txCtx, locked, &pending)
		return err
	})
	if err != nil {
		return settlement.DailyRecordResponse{}, err
	}
	s.publishAll(pending)

	return mapToDailyRecordResponse(created), nil
}

func (s *SettlementServiceImpl) ListDailyRecords(ctx context.Context, settlementID string) ([]settlement.DailyRecordResponse, error) {
	records, err := s.settlementRepo.ListDailyRecords(ctx, settlementID)
	if err != nil {
		return nil, err
	}

	result := make([]settlement.DailyRecordResponse, 0, len(records))
	for _, rec := range records {
		result = append(result, mapToDailyRecordResponse(rec))
	}
	return result, nil
}

func (s *SettlementServiceImpl) DeleteDailyRecord(ctx context.Context, settlementID, recordID string) error {
	var pending []events.Event
	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		locked, err := s.settlementRepo.GetByIDForUpdate(txCtx, settlementID)
		if err != nil {
			return err
		}
		if locked.IsFrozen() || locked.Status == settlement.StatusCancelled {
			return settlement.ErrSettlementFrozen
		}

		if err := s.settlementRepo.DeleteDailyRecord(txCtx, settlementID, recordID); err != nil {
			return err
		}

		_, err = s.recalculateLocked(txCtx, locked, &pending)
		return err
	})
	if err != nil {
		return err
	}
	s.publishAll(pending)
	return nil
}

// ========== ADJUSTMENTS ==========

func (s *SettlementServiceImpl) CreateAdjustment(ctx context.Context, settlementID string, req settlement.CreateAdjustmentRequest) (settlement.AdjustmentResponse, error) {
	if err := req.Validate(); err != nil {
		return settlement.AdjustmentResponse{}, err
	}

	author, err := userFromContext(ctx)
	if err != nil {
		return settlement.AdjustmentResponse{}, err
	}

	var created settlement.Adjustment
	var pending []events.Event
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		locked, err := s.settlementRepo.GetByIDForUpdate(txCtx, settlementID)
		if err != nil {
			return err
		}
		if !locked.IsMutable() {
			return settlement.ErrSettlementFrozen
		}

		adj := settlement.Adjustment{
			ID:            uuid.Must(uuid.NewV7()).String(),
			SettlementID:  locked.ID,
			Kind:          settlement.AdjustmentKind(req.Kind),
			Category:      req.Category,
			Description:   req.Description,
			Value:         req.Value,
			Justification: req.Justification,
			ProofRef:      req.ProofRef,
			Author:        author,
		}

		created, err = s.settlementRepo.CreateAdjustment(txCtx, adj)
		if err != nil {
			return err
		}

		_, err = s.recalculateLocked(txCtx, locked, &pending)
		return err
	})
	if err != nil {
		return settlement.AdjustmentResponse{}, err
	}
	s.publishAll(pending)

	return mapToAdjustmentResponse(created), nil
}

func (s *SettlementServiceImpl) ListAdjustments(ctx context.Context, settlementID string) ([]settlement.AdjustmentResponse, error) {
	adjustments, err := s.settlementRepo.ListAdjustments(ctx, settlementID)
	if err != nil {
		return nil, err
	}

	result := make([]settlement.AdjustmentResponse, 0, len(adjustments))
	for _, adj := range adjustments {
		result = append(result, mapToAdjustmentResponse(adj))
	}
	return result, nil
}

func (s *SettlementServiceImpl) DeleteAdjustment(ctx context.Context, settlementID, adjustmentID string) error {
	var pending []events.Event
	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		locked, err := s.settlementRepo.GetByIDForUpdate(txCtx, settlementID)
		if err != nil {
			return err
		}
		if !locked.IsMutable() {
			return settlement.ErrSettlementFrozen
		}

		if err := s.settlementRepo.DeleteAdjustment(txCtx, settlementID, adjustmentID); err != nil {
			return err
		}

		_, err = s.recalculateLocked(txCtx, locked, &pending)
		return err
	})
	if err != nil {
		return err
	}
	s.publishAll(pending)
	return nil
}

// ========== EXPENSE REVIEW ==========

func (s *SettlementServiceImpl) ReviewExpense(ctx context.Context, settlementID, expenseID string, req settlement.ReviewExpenseRequest) (settlement.ExpenseValidationResponse, error) {
	if err := req.Validate(); err != nil {
		return settlement.ExpenseValidationResponse{}, err
	}

	reviewer, err := userFromContext(ctx)
	if err != nil {
		return settlement.ExpenseValidationResponse{}, err
	}

	var saved settlement.ExpenseValidation
	var pending []events.Event
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		locked, err := s.settlementRepo.GetByIDForUpdate(txCtx, settlementID)
		if err != nil {
			return err
		}
		// A decision may be corrected while the settlement is still under
		// review, never after the freeze.
		if !locked.IsMutable() {
			return settlement.ErrSettlementFrozen
		}

		// Resolves only against the settlement driver's trips inside the
		// period; any other expense is not this settlement's to review.
		expense, err := s.tripRepo.GetExpenseForSettlement(txCtx, expenseID, locked.DriverID, locked.PeriodStart, locked.PeriodEnd)
		if err != nil {
			return err
		}

		now := time.Now()
		status := settlement.ValidationStatus(req.Status)
		validation := settlement.ExpenseValidation{
			ID:            uuid.Must(uuid.NewV7()).String(),
			ExpenseID:     expense.ID,
			SettlementID:  locked.ID,
			Status:        status,
			OriginalValue: expense.OriginalValue,
			Justification: req.Justification,
			Reviewer:      &reviewer,
			ReviewedAt:    &now,
		}
		switch status {
		case settlement.ValidationApproved:
			validation.ApprovedValue = &expense.OriginalValue
		case settlement.ValidationAdjusted:
			validation.ApprovedValue = req.ApprovedValue
		}

		saved, err = s.settlementRepo.UpsertValidation(txCtx, validation)
		if err != nil {
			return err
		}

		pending = append(pending, events.Event{
			Type:     events.ExpenseReviewed,
			DriverID: locked.DriverID,
			EntityID: saved.ID,
			Payload: map[string]interface{}{
				"expense_id":    saved.ExpenseID,
				"settlement_id": saved.SettlementID,
				"status":        string(saved.Status),
			},
		})

		_, err = s.recalculateLocked(txCtx, locked, &pending)
		return err
	})
	if err != nil {
		return settlement.ExpenseValidationResponse{}, err
	}
	s.publishAll(pending)

	return mapToValidationResponse(saved), nil
}

func (s *SettlementServiceImpl) ListExpenseValidations(ctx context.Context, settlementID string) ([]settlement.ExpenseValidationResponse, error) {
	validations, err := s.settlementRepo.ListValidations(ctx, settlementID)
	if err != nil {
		return nil, err
	}

	result := make([]settlement.ExpenseValidationResponse, 0, len(validations))
	for _, v := range validations {
		result = append(result, mapToValidationResponse(v))
	}
	return result, nil
}

// ========== HELPERS ==========

func mapToSettlementResponse(s settlement.Settlement) settlement.SettlementResponse {
	var paymentDateStr *string
	if s.PaymentDate != nil {
		str := s.PaymentDate.Format("2006-01-02")
		paymentDateStr = &str
	}

	return settlement.SettlementResponse{
		ID:          s.ID,
		Code:        s.Code,
		DriverID:    s.DriverID,
		DriverName:  s.DriverName,
		DriverCode:  s.DriverCode,
		PeriodStart: s.PeriodStart.Format("2006-01-02"),
		PeriodEnd:   s.PeriodEnd.Format("2006-01-02"),
		Model:       string(s.Model),
		Status:      string(s.Status),

		CommissionRate:    s.CommissionRate,
		Revenue:           s.Revenue,
		NonReimbursable:   s.NonReimbursable,
		CommissionBase:    s.CommissionBase,
		CommissionValue:   s.CommissionValue,
		ReimbursableTotal: s.ReimbursableTotal,

		PerDiemTotal:  s.PerDiemTotal,
		OvertimeHours: s.OvertimeHours,
		OvertimeValue: s.OvertimeValue,
		WeekendHours:  s.WeekendHours,
		WeekendValue:  s.WeekendValue,
		HolidayHours:  s.HolidayHours,
		HolidayValue:  s.HolidayValue,
		NightHours:    s.NightHours,
		NightValue:    s.NightValue,
		WorkedDays:    s.WorkedDays,

		GrossTotal:      s.GrossTotal,
		AdjustmentsNet:  s.AdjustmentsNet,
		DebitsApplied:   s.DebitsApplied,
		AdvancesTotal:   s.AdvancesTotal,
		OtherDeductions: s.OtherDeductions,
		NetTotal:        s.NetTotal,
		NetTotalDisplay: utils.FormatBRL(s.NetTotal),

		PaymentDate:   paymentDateStr,
		PaymentMethod: s.PaymentMethod,
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     s.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToDailyRecordResponse(r settlement.DailyWorkRecord) settlement.DailyRecordResponse {
	return settlement.DailyRecordResponse{
		ID:            r.ID,
		SettlementID:  r.SettlementID,
		Date:          r.Date.Format("2006-01-02"),
		Weekday:       r.Weekday,
		TotalHours:    r.TotalHours,
		NormalHours:   r.NormalHours,
		OvertimeHours: r.OvertimeHours,
		DistanceKM:    r.DistanceKM,
		MovementHours: r.MovementHours,
		IdleHours:     r.IdleHours,
		NightHours:    r.NightHours,
		PerDiemValue:  r.PerDiemValue,
		OvertimeValue: r.OvertimeValue,
		WeekendValue:  r.WeekendValue,
		HolidayValue:  r.HolidayValue,
		NightValue:    r.NightValue,
		DayTotal:      r.DayTotal,
		Holiday:       r.Holiday,
		HolidayName:   r.HolidayName,
		Origin:        string(r.Origin),
	}
}

func mapToAdjustmentResponse(a settlement.Adjustment) settlement.AdjustmentResponse {
	return settlement.AdjustmentResponse{
		ID:            a.ID,
		SettlementID:  a.SettlementID,
		Kind:          string(a.Kind),
		Category:      a.Category,
		Description:   a.Description,
		Value:         a.Value,
		Justification: a.Justification,
		ProofRef:      a.ProofRef,
		Author:        a.Author,
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}
}

func mapToValidationResponse(v settlement.ExpenseValidation) settlement.ExpenseValidationResponse {
	var reviewedAtStr *string
	if v.ReviewedAt != nil {
		str := v.ReviewedAt.Format(time.RFC3339)
		reviewedAtStr = &str
	}

	return settlement.ExpenseValidationResponse{
		ID:            v.ID,
		ExpenseID:     v.ExpenseID,
		SettlementID:  v.SettlementID,
		Status:        string(v.Status),
		OriginalValue: v.OriginalValue,
		ApprovedValue: v.ApprovedValue,
		Justification: v.Justification,
		Reviewer:      v.Reviewer,
		ReviewedAt:    reviewedAtStr,
	}
}
