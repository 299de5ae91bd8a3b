package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/frotaops/frota-backend-go/internal/domain/debit"
)

// DebitJobs wires the debit ledger's periodic work into the scheduler.
type DebitJobs struct {
	debitService debit.DebitService
}

func NewDebitJobs(debitService debit.DebitService) *DebitJobs {
	return &DebitJobs{debitService: debitService}
}

// Register adds the overdue sweep. Daily is enough; due dates carry no time
// component.
func (j *DebitJobs) Register(scheduler *Scheduler) {
	scheduler.AddJob("debit-overdue-sweep", 24*time.Hour, j.sweepOverdue)
}

func (j *DebitJobs) sweepOverdue(ctx context.Context) error {
	count, err := j.debitService.SweepOverdue(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		slog.Info("Overdue debits flagged", "count", count)
	}
	return nil
}
