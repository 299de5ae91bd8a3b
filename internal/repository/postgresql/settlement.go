package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/frotaops/frota-backend-go/internal/domain/settlement"
	"github.com/frotaops/frota-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type settlementRepository struct {
	db *database.DB
}

func NewSettlementRepository(db *database.DB) settlement.SettlementRepository {
	return &settlementRepository{db: db}
}

const settlementColumns = `
	s.id, s.code, s.driver_id, s.period_start, s.period_end, s.model, s.status,
	s.commission_rate, s.revenue, s.non_reimbursable, s.commission_base,
	s.commission_value, s.reimbursable_total,
	s.per_diem_total, s.overtime_hours, s.overtime_value, s.weekend_hours,
	s.weekend_value, s.holiday_hours, s.holiday_value, s.night_hours,
	s.night_value, s.worked_days,
	s.gross_total, s.adjustments_net, s.debits_applied, s.advances_total,
	s.other_deductions, s.net_total,
	s.payment_date, s.payment_method, s.notes, s.created_at, s.updated_at`

func scanSettlement(row pgx.Row, withDriver bool) (settlement.Settlement, error) {
	var s settlement.Settlement
	dest := []interface{}{
		&s.ID, &s.Code, &s.DriverID, &s.PeriodStart, &s.PeriodEnd, &s.Model, &s.Status,
		&s.CommissionRate, &s.Revenue, &s.NonReimbursable, &s.CommissionBase,
		&s.CommissionValue, &s.ReimbursableTotal,
		&s.PerDiemTotal, &s.OvertimeHours, &s.OvertimeValue, &s.WeekendHours,
		&s.WeekendValue, &s.HolidayHours, &s.HolidayValue, &s.NightHours,
		&s.NightValue, &s.WorkedDays,
		&s.GrossTotal, &s.AdjustmentsNet, &s.DebitsApplied, &s.AdvancesTotal,
		&s.OtherDeductions, &s.NetTotal,
		&s.PaymentDate, &s.PaymentMethod, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
	}
	if withDriver {
		dest = append(dest, &s.DriverName, &s.DriverCode)
	}
	err := row.Scan(dest...)
	return s, err
}

// ========== SETTLEMENTS ==========

func (r *settlementRepository) Create(ctx context.Context, s settlement.Settlement) (settlement.Settlement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO settlements (id, code, driver_id, period_start, period_end,
			model, status, commission_rate, advances_total, other_deductions, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, code, driver_id, period_start, period_end, model, status,
			commission_rate, revenue, non_reimbursable, commission_base,
			commission_value, reimbursable_total,
			per_diem_total, overtime_hours, overtime_value, weekend_hours,
			weekend_value, holiday_hours, holiday_value, night_hours,
			night_value, worked_days,
			gross_total, adjustments_net, debits_applied, advances_total,
			other_deductions, net_total,
			payment_date, payment_method, notes, created_at, updated_at
	`

	created, err := scanSettlement(q.QueryRow(ctx, query,
		s.ID, s.Code, s.DriverID, s.PeriodStart, s.PeriodEnd,
		s.Model, s.Status, s.CommissionRate, s.AdvancesTotal, s.OtherDeductions, s.Notes,
	), false)
	if err != nil {
		return settlement.Settlement{}, fmt.Errorf("failed to create settlement: %w", err)
	}

	return created, nil
}

func (r *settlementRepository) GetByID(ctx context.Context, id string) (settlement.Settlement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + settlementColumns + `, d.name AS driver_name, d.code AS driver_code
		FROM settlements s
		JOIN drivers d ON s.driver_id = d.id
		WHERE s.id = $1
	`

	found, err := scanSettlement(q.QueryRow(ctx, query, id), true)
	if err != nil {
		if err == pgx.ErrNoRows {
			return settlement.Settlement{}, settlement.ErrSettlementNotFound
		}
		return settlement.Settlement{}, fmt.Errorf("failed to get settlement: %w", err)
	}

	return found, nil
}

func (r *settlementRepository) GetByIDForUpdate(ctx context.Context, id string) (settlement.Settlement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + settlementColumns + `
		FROM settlements s
		WHERE s.id = $1
		FOR UPDATE
	`

	found, err := scanSettlement(q.QueryRow(ctx, query, id), false)
	if err != nil {
		if err == pgx.ErrNoRows {
			return settlement.Settlement{}, settlement.ErrSettlementNotFound
		}
		return settlement.Settlement{}, fmt.Errorf("failed to lock settlement: %w", err)
	}

	return found, nil
}

func (r *settlementRepository) List(ctx context.Context, filter settlement.SettlementFilter) ([]settlement.Settlement, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.DriverID != nil && *filter.DriverID != "" {
		conditions = append(conditions, fmt.Sprintf("s.driver_id = $%d", argIdx))
		args = append(args, *filter.DriverID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Model != nil && *filter.Model != "" {
		conditions = append(conditions, fmt.Sprintf("s.model = $%d", argIdx))
		args = append(args, *filter.Model)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM settlements s WHERE %s", whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count settlements: %w", err)
	}

	validSortColumns := map[string]string{
		"period_start": "s.period_start",
		"net_total":    "s.net_total",
		"status":       "s.status",
		"created_at":   "s.created_at",
	}
	sortColumn, ok := validSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "s.created_at"
	}

	sortOrder := "DESC"
	if strings.ToUpper(filter.SortOrder) == "ASC" {
		sortOrder = "ASC"
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT`+settlementColumns+`, d.name AS driver_name, d.code AS driver_code
		FROM settlements s
		JOIN drivers d ON s.driver_id = d.id
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []settlement.Settlement
	for rows.Next() {
		s, err := scanSettlement(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, s)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return settlements, total, nil
}

func (r *settlementRepository) UpdateTotals(ctx context.Context, s settlement.Settlement) (settlement.Settlement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE settlements SET
			commission_rate = $2, revenue = $3, non_reimbursable = $4,
			commission_base = $5, commission_value = $6, reimbursable_total = $7,
			per_diem_total = $8, overtime_hours = $9, overtime_value = $10,
			weekend_hours = $11, weekend_value = $12, holiday_hours = $13,
			holiday_value = $14, night_hours = $15, night_value = $16,
			worked_days = $17,
			gross_total = $18, adjustments_net = $19, debits_applied = $20,
			advances_total = $21, other_deductions = $22, net_total = $23,
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, code, driver_id, period_start, period_end, model, status,
			commission_rate, revenue, non_reimbursable, commission_base,
			commission_value, reimbursable_total,
			per_diem_total, overtime_hours, overtime_value, weekend_hours,
			weekend_value, holiday_hours, holiday_value, night_hours,
			night_value, worked_days,
			gross_total, adjustments_net, debits_applied, advances_total,
			other_deductions, net_total,
			payment_date, payment_method, notes, created_at, updated_at
	`

	updated, err := scanSettlement(q.QueryRow(ctx, query,
		s.ID,
		s.CommissionRate, s.Revenue, s.NonReimbursable,
		s.CommissionBase, s.CommissionValue, s.ReimbursableTotal,
		s.PerDiemTotal, s.OvertimeHours, s.OvertimeValue,
		s.WeekendHours, s.WeekendValue, s.HolidayHours,
		s.HolidayValue, s.NightHours, s.NightValue,
		s.WorkedDays,
		s.GrossTotal, s.AdjustmentsNet, s.DebitsApplied,
		s.AdvancesTotal, s.OtherDeductions, s.NetTotal,
	), false)
	if err != nil {
		if err == pgx.ErrNoRows {
			return settlement.Settlement{}, settlement.ErrSettlementNotFound
		}
		return settlement.Settlement{}, fmt.Errorf("failed to update settlement totals: %w", err)
	}

	return updated, nil
}

func (r *settlementRepository) UpdateStatus(ctx context.Context, id string, status settlement.Status, paymentDate *time.Time, paymentMethod *string) (settlement.Settlement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE settlements SET
			status = $2,
			payment_date = COALESCE($3, payment_date),
			payment_method = COALESCE($4, payment_method),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, code, driver_id, period_start, period_end, model, status,
			commission_rate, revenue, non_reimbursable, commission_base,
			commission_value, reimbursable_total,
			per_diem_total, overtime_hours, overtime_value, weekend_hours,
			weekend_value, holiday_hours, holiday_value, night_hours,
			night_value, worked_days,
			gross_total, adjustments_net, debits_applied, advances_total,
			other_deductions, net_total,
			payment_date, payment_method, notes, created_at, updated_at
	`

	updated, err := scanSettlement(q.QueryRow(ctx, query, id, status, paymentDate, paymentMethod), false)
	if err != nil {
		if err == pgx.ErrNoRows {
			return settlement.Settlement{}, settlement.ErrSettlementNotFound
		}
		return settlement.Settlement{}, fmt.Errorf("failed to update settlement status: %w", err)
	}

	return updated, nil
}

func (r *settlementRepository) HasOverlapping(ctx context.Context, driverID string, start, end time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM settlements
			WHERE driver_id = $1
			  AND status <> 'cancelled'
			  AND period_start <= $3
			  AND period_end >= $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, driverID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check overlapping settlements: %w", err)
	}

	return exists, nil
}

// ========== DAILY WORK RECORDS ==========

func (r *settlementRepository) CreateDailyRecord(ctx context.Context, rec settlement.DailyWorkRecord) (settlement.DailyWorkRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO settlement_daily_records (id, settlement_id, date, weekday,
			total_hours, normal_hours, overtime_hours, distance_km, movement_hours,
			idle_hours, night_hours, per_diem_value, overtime_value, weekend_value,
			holiday_value, night_value, day_total, holiday, holiday_name, origin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id, settlement_id, date, weekday, total_hours, normal_hours,
			overtime_hours, distance_km, movement_hours, idle_hours, night_hours,
			per_diem_value, overtime_value, weekend_value, holiday_value,
			night_value, day_total, holiday, holiday_name, origin, created_at
	`

	var created settlement.DailyWorkRecord
	err := q.QueryRow(ctx, query,
		rec.ID, rec.SettlementID, rec.Date, rec.Weekday,
		rec.TotalHours, rec.NormalHours, rec.OvertimeHours, rec.DistanceKM, rec.MovementHours,
		rec.IdleHours, rec.NightHours, rec.PerDiemValue, rec.OvertimeValue, rec.WeekendValue,
		rec.HolidayValue, rec.NightValue, rec.DayTotal, rec.Holiday, rec.HolidayName, rec.Origin,
	).Scan(
		&created.ID, &created.SettlementID, &created.Date, &created.Weekday,
		&created.TotalHours, &created.NormalHours, &created.OvertimeHours,
		&created.DistanceKM, &created.MovementHours, &created.IdleHours, &created.NightHours,
		&created.PerDiemValue, &created.OvertimeValue, &created.WeekendValue,
		&created.HolidayValue, &created.NightValue, &created.DayTotal,
		&created.Holiday, &created.HolidayName, &created.Origin, &created.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "uk_daily_record_date") {
			return settlement.DailyWorkRecord{}, settlement.ErrDailyRecordExists
		}
		return settlement.DailyWorkRecord{}, fmt.Errorf("failed to create daily record: %w", err)
	}

	return created, nil
}

func (r *settlementRepository) ListDailyRecords(ctx context.Context, settlementID string) ([]settlement.DailyWorkRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, settlement_id, date, weekday, total_hours, normal_hours,
			overtime_hours, distance_km, movement_hours, idle_hours, night_hours,
			per_diem_value, overtime_value, weekend_value, holiday_value,
			night_value, day_total, holiday, holiday_name, origin, created_at
		FROM settlement_daily_records
		WHERE settlement_id = $1
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, settlementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily records: %w", err)
	}
	defer rows.Close()

	var records []settlement.DailyWorkRecord
	for rows.Next() {
		var rec settlement.DailyWorkRecord
		err := rows.Scan(
			&rec.ID, &rec.SettlementID, &rec.Date, &rec.Weekday,
			&rec.TotalHours, &rec.NormalHours, &rec.OvertimeHours,
			&rec.DistanceKM, &rec.MovementHours, &rec.IdleHours, &rec.NightHours,
			&rec.PerDiemValue, &rec.OvertimeValue, &rec.WeekendValue,
			&rec.HolidayValue, &rec.NightValue, &rec.DayTotal,
			&rec.Holiday, &rec.HolidayName, &rec.Origin, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily record: %w", err)
		}
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *settlementRepository) DeleteDailyRecord(ctx context.Context, settlementID, recordID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM settlement_daily_records
		WHERE id = $1 AND settlement_id = $2
		RETURNING id
	`

	var deletedID string
	err := q.QueryRow(ctx, query, recordID, settlementID).Scan(&deletedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return settlement.ErrDailyRecordNotFound
		}
		return fmt.Errorf("failed to delete daily record: %w", err)
	}

	return nil
}

// ========== ADJUSTMENTS ==========

func (r *settlementRepository) CreateAdjustment(ctx context.Context, adj settlement.Adjustment) (settlement.Adjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO settlement_adjustments (id, settlement_id, kind, category,
			description, value, justification, proof_ref, author)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, settlement_id, kind, category, description, value,
			justification, proof_ref, author, created_at
	`

	var created settlement.Adjustment
	err := q.QueryRow(ctx, query,
		adj.ID, adj.SettlementID, adj.Kind, adj.Category,
		adj.Description, adj.Value, adj.Justification, adj.ProofRef, adj.Author,
	).Scan(
		&created.ID, &created.SettlementID, &created.Kind, &created.Category,
		&created.Description, &created.Value, &created.Justification,
		&created.ProofRef, &created.Author, &created.CreatedAt,
	)
	if err != nil {
		return settlement.Adjustment{}, fmt.Errorf("failed to create adjustment: %w", err)
	}

	return created, nil
}

func (r *settlementRepository) ListAdjustments(ctx context.Context, settlementID string) ([]settlement.Adjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, settlement_id, kind, category, description, value,
			justification, proof_ref, author, created_at
		FROM settlement_adjustments
		WHERE settlement_id = $1
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, settlementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list adjustments: %w", err)
	}
	defer rows.Close()

	var adjustments []settlement.Adjustment
	for rows.Next() {
		var adj settlement.Adjustment
		err := rows.Scan(
			&adj.ID, &adj.SettlementID, &adj.Kind, &adj.Category,
			&adj.Description, &adj.Value, &adj.Justification,
			&adj.ProofRef, &adj.Author, &adj.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan adjustment: %w", err)
		}
		adjustments = append(adjustments, adj)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return adjustments, nil
}

func (r *settlementRepository) DeleteAdjustment(ctx context.Context, settlementID, adjustmentID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM settlement_adjustments
		WHERE id = $1 AND settlement_id = $2
		RETURNING id
	`

	var deletedID string
	err := q.QueryRow(ctx, query, adjustmentID, settlementID).Scan(&deletedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return settlement.ErrAdjustmentNotFound
		}
		return fmt.Errorf("failed to delete adjustment: %w", err)
	}

	return nil
}

func (r *settlementRepository) SumAdjustments(ctx context.Context, settlementID string) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(value), 0)
		FROM settlement_adjustments
		WHERE settlement_id = $1
	`

	var sum decimal.Decimal
	if err := q.QueryRow(ctx, query, settlementID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum adjustments: %w", err)
	}

	return sum, nil
}

// ========== EXPENSE VALIDATIONS ==========

func (r *settlementRepository) UpsertValidation(ctx context.Context, v settlement.ExpenseValidation) (settlement.ExpenseValidation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO expense_validations (id, expense_id, settlement_id, status,
			original_value, approved_value, justification, reviewer, reviewed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (expense_id, settlement_id) DO UPDATE SET
			status = EXCLUDED.status,
			approved_value = EXCLUDED.approved_value,
			justification = EXCLUDED.justification,
			reviewer = EXCLUDED.reviewer,
			reviewed_at = EXCLUDED.reviewed_at
		RETURNING id, expense_id, settlement_id, status, original_value,
			approved_value, justification, reviewer, reviewed_at, created_at
	`

	var saved settlement.ExpenseValidation
	err := q.QueryRow(ctx, query,
		v.ID, v.ExpenseID, v.SettlementID, v.Status,
		v.OriginalValue, v.ApprovedValue, v.Justification, v.Reviewer, v.ReviewedAt,
	).Scan(
		&saved.ID, &saved.ExpenseID, &saved.SettlementID, &saved.Status,
		&saved.OriginalValue, &saved.ApprovedValue, &saved.Justification,
		&saved.Reviewer, &saved.ReviewedAt, &saved.CreatedAt,
	)
	if err != nil {
		return settlement.ExpenseValidation{}, fmt.Errorf("failed to upsert expense validation: %w", err)
	}

	return saved, nil
}

func (r *settlementRepository) ListValidations(ctx context.Context, settlementID string) ([]settlement.ExpenseValidation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, expense_id, settlement_id, status, original_value,
			approved_value, justification, reviewer, reviewed_at, created_at
		FROM expense_validations
		WHERE settlement_id = $1
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, settlementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense validations: %w", err)
	}
	defer rows.Close()

	var validations []settlement.ExpenseValidation
	for rows.Next() {
		var v settlement.ExpenseValidation
		err := rows.Scan(
			&v.ID, &v.ExpenseID, &v.SettlementID, &v.Status,
			&v.OriginalValue, &v.ApprovedValue, &v.Justification,
			&v.Reviewer, &v.ReviewedAt, &v.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense validation: %w", err)
		}
		validations = append(validations, v)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return validations, nil
}

// CountPendingValidations counts the settlement's expenses that still lack a
// decision: explicit pending rows plus expenses in the period with no
// validation row at all.
func (r *settlementRepository) CountPendingValidations(ctx context.Context, settlementID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM settlements s
		JOIN trips t ON t.driver_id = s.driver_id
			AND t.started_at::date BETWEEN s.period_start AND s.period_end
		JOIN trip_expenses e ON e.trip_id = t.id
		LEFT JOIN expense_validations ev
			ON ev.expense_id = e.id AND ev.settlement_id = s.id
		WHERE s.id = $1
		  AND (ev.id IS NULL OR ev.status = 'pending')
	`

	var count int
	if err := q.QueryRow(ctx, query, settlementID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending validations: %w", err)
	}

	return count, nil
}
