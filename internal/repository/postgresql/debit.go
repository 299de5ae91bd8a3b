package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/frotaops/frota-backend-go/internal/domain/debit"
	"github.com/frotaops/frota-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type debitRepository struct {
	db *database.DB
}

func NewDebitRepository(db *database.DB) debit.DebitRepository {
	return &debitRepository{db: db}
}

const debitColumns = `
	d.id, d.driver_id, d.kind, d.description, d.original_amount, d.amount_paid,
	d.balance, d.installments, d.status, d.due_date, d.created_at, d.updated_at`

func scanDebit(row pgx.Row) (debit.Debit, error) {
	var d debit.Debit
	err := row.Scan(
		&d.ID, &d.DriverID, &d.Kind, &d.Description, &d.OriginalAmount, &d.AmountPaid,
		&d.Balance, &d.Installments, &d.Status, &d.DueDate, &d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

func (r *debitRepository) Create(ctx context.Context, d debit.Debit) (debit.Debit, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO debits (id, driver_id, kind, description, original_amount,
			amount_paid, balance, installments, status, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, driver_id, kind, description, original_amount, amount_paid,
			balance, installments, status, due_date, created_at, updated_at
	`

	created, err := scanDebit(q.QueryRow(ctx, query,
		d.ID, d.DriverID, d.Kind, d.Description, d.OriginalAmount,
		d.AmountPaid, d.Balance, d.Installments, d.Status, d.DueDate,
	))
	if err != nil {
		return debit.Debit{}, fmt.Errorf("failed to create debit: %w", err)
	}

	return created, nil
}

func (r *debitRepository) GetByID(ctx context.Context, id string) (debit.Debit, error) {
	return r.getByID(ctx, id, false)
}

func (r *debitRepository) GetByIDForUpdate(ctx context.Context, id string) (debit.Debit, error) {
	return r.getByID(ctx, id, true)
}

func (r *debitRepository) getByID(ctx context.Context, id string, forUpdate bool) (debit.Debit, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + debitColumns + `, dr.name AS driver_name
		FROM debits d
		JOIN drivers dr ON d.driver_id = dr.id
		WHERE d.id = $1
	`
	if forUpdate {
		query += ` FOR UPDATE OF d`
	}

	var d debit.Debit
	err := q.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.DriverID, &d.Kind, &d.Description, &d.OriginalAmount, &d.AmountPaid,
		&d.Balance, &d.Installments, &d.Status, &d.DueDate, &d.CreatedAt, &d.UpdatedAt,
		&d.DriverName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return debit.Debit{}, debit.ErrDebitNotFound
		}
		return debit.Debit{}, fmt.Errorf("failed to get debit: %w", err)
	}

	return d, nil
}

func (r *debitRepository) Update(ctx context.Context, d debit.Debit) (debit.Debit, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE debits SET
			amount_paid = $2,
			balance = $3,
			status = $4,
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, driver_id, kind, description, original_amount, amount_paid,
			balance, installments, status, due_date, created_at, updated_at
	`

	updated, err := scanDebit(q.QueryRow(ctx, query, d.ID, d.AmountPaid, d.Balance, d.Status))
	if err != nil {
		if err == pgx.ErrNoRows {
			return debit.Debit{}, debit.ErrDebitNotFound
		}
		return debit.Debit{}, fmt.Errorf("failed to update debit: %w", err)
	}

	return updated, nil
}

func (r *debitRepository) List(ctx context.Context, filter debit.DebitFilter) ([]debit.Debit, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.DriverID != nil && *filter.DriverID != "" {
		conditions = append(conditions, fmt.Sprintf("d.driver_id = $%d", argIdx))
		args = append(args, *filter.DriverID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("d.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM debits d WHERE %s", whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count debits: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT`+debitColumns+`, dr.name AS driver_name
		FROM debits d
		JOIN drivers dr ON d.driver_id = dr.id
		WHERE %s
		ORDER BY d.created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list debits: %w", err)
	}
	defer rows.Close()

	var debits []debit.Debit
	for rows.Next() {
		var d debit.Debit
		err := rows.Scan(
			&d.ID, &d.DriverID, &d.Kind, &d.Description, &d.OriginalAmount, &d.AmountPaid,
			&d.Balance, &d.Installments, &d.Status, &d.DueDate, &d.CreatedAt, &d.UpdatedAt,
			&d.DriverName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan debit: %w", err)
		}
		debits = append(debits, d)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return debits, total, nil
}

func (r *debitRepository) ListActiveByDriver(ctx context.Context, driverID string) ([]debit.Debit, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + debitColumns + `
		FROM debits d
		WHERE d.driver_id = $1 AND d.status = 'active'
		ORDER BY d.created_at DESC
	`

	rows, err := q.Query(ctx, query, driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active debits: %w", err)
	}
	defer rows.Close()

	return collectDebits(rows)
}

func (r *debitRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]debit.Debit, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + debitColumns + `
		FROM debits d
		WHERE d.status = 'active' AND d.due_date IS NOT NULL AND d.due_date < $1
		ORDER BY d.due_date ASC
	`

	rows, err := q.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue debits: %w", err)
	}
	defer rows.Close()

	return collectDebits(rows)
}

func collectDebits(rows pgx.Rows) ([]debit.Debit, error) {
	var debits []debit.Debit
	for rows.Next() {
		d, err := scanDebit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debit: %w", err)
		}
		debits = append(debits, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return debits, nil
}

// ========== APPLICATIONS ==========

func (r *debitRepository) CreateApplication(ctx context.Context, a debit.Application) (debit.Application, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO settlement_debit_applications (id, settlement_id, debit_id, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, settlement_id, debit_id, amount, applied_at, reversed_at
	`

	var created debit.Application
	err := q.QueryRow(ctx, query, a.ID, a.SettlementID, a.DebitID, a.Amount).Scan(
		&created.ID, &created.SettlementID, &created.DebitID,
		&created.Amount, &created.AppliedAt, &created.ReversedAt,
	)
	if err != nil {
		return debit.Application{}, fmt.Errorf("failed to create debit application: %w", err)
	}

	return created, nil
}

func (r *debitRepository) ListApplicationsBySettlement(ctx context.Context, settlementID string) ([]debit.Application, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, settlement_id, debit_id, amount, applied_at, reversed_at
		FROM settlement_debit_applications
		WHERE settlement_id = $1
		ORDER BY applied_at ASC
	`

	rows, err := q.Query(ctx, query, settlementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list debit applications: %w", err)
	}
	defer rows.Close()

	var applications []debit.Application
	for rows.Next() {
		var a debit.Application
		err := rows.Scan(&a.ID, &a.SettlementID, &a.DebitID, &a.Amount, &a.AppliedAt, &a.ReversedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debit application: %w", err)
		}
		applications = append(applications, a)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return applications, nil
}

func (r *debitRepository) HasActiveApplications(ctx context.Context, debitID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM settlement_debit_applications
			WHERE debit_id = $1 AND reversed_at IS NULL
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, debitID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check debit applications: %w", err)
	}

	return exists, nil
}

func (r *debitRepository) SumAppliedBySettlement(ctx context.Context, settlementID string) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM settlement_debit_applications
		WHERE settlement_id = $1 AND reversed_at IS NULL
	`

	var sum decimal.Decimal
	if err := q.QueryRow(ctx, query, settlementID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum debit applications: %w", err)
	}

	return sum, nil
}

func (r *debitRepository) MarkApplicationReversed(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE settlement_debit_applications
		SET reversed_at = NOW()
		WHERE id = $1 AND reversed_at IS NULL
		RETURNING id
	`

	var reversedID string
	err := q.QueryRow(ctx, query, id).Scan(&reversedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return debit.ErrApplicationNotFound
		}
		return fmt.Errorf("failed to reverse debit application: %w", err)
	}

	return nil
}
