package cron

import (
	"context"
	"fmt"

	"github.com/glazeworks/window-storefront/pkg/logger"
)

// Prober is the health surface of the pricing backend.
type Prober interface {
	Health(ctx context.Context) error
}

type WarmupJobParams struct {
	Logger  *logger.Logger
	Backend Prober
}

// NewWarmupJob pings the pricing backend so it stays out of cold start
// between visitors.
func NewWarmupJob(params WarmupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Backend == nil {
		return nil, fmt.Errorf("backend prober required")
	}
	return &warmupJob{logg: params.Logger, backend: params.Backend}, nil
}

type warmupJob struct {
	logg    *logger.Logger
	backend Prober
}

func (j *warmupJob) Name() string { return "backend-warmup" }

func (j *warmupJob) Run(ctx context.Context) error {
	if err := j.backend.Health(ctx); err != nil {
		return fmt.Errorf("backend warmup: %w", err)
	}
	return nil
}
