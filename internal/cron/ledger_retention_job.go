package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/glazeworks/window-storefront/pkg/logger"
)

const ledgerRetentionDays = 90

type LedgerRetentionJobParams struct {
	Logger     *logger.Logger
	Repository ledgerRetentionRepo
	Retention  int
}

type ledgerRetentionRepo interface {
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewLedgerRetentionJob drops quote export rows older than the retention
// window in days.
func NewLedgerRetentionJob(params LedgerRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = ledgerRetentionDays
	}
	return &ledgerRetentionJob{
		logg:      params.Logger,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type ledgerRetentionJob struct {
	logg      *logger.Logger
	repo      ledgerRetentionRepo
	retention int
	now       func() time.Time
}

func (j *ledgerRetentionJob) Name() string { return "ledger-retention" }

func (j *ledgerRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retention) * 24 * time.Hour)
	deleted, err := j.repo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("ledger retention: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retention,
		"rows_deleted":   deleted,
	})
	j.logg.Info(logCtx, "ledger retention cleanup complete")
	return nil
}
