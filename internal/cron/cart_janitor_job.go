package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/DisguisedKairos/supermarket-backend/pkg/logger"
	"github.com/DisguisedKairos/supermarket-backend/pkg/metrics"
)

const (
	defaultCartTTL      = 720 * time.Hour
	defaultPruneBatch   = 500
	defaultPruneBatches = 10
)

type cartPruner interface {
	PruneStaleBatch(ctx context.Context, cutoff time.Time, limit int) (int64, error)
}

// CartJanitorJobParams configure the stale cart cleanup job.
type CartJanitorJobParams struct {
	Logger     *logger.Logger
	Repository cartPruner
	Metrics    *metrics.JobMetrics
	TTL        time.Duration
	BatchSize  int
	MaxBatches int
}

// NewCartJanitorJob builds the job that evicts abandoned cart lines.
func NewCartJanitorJob(params CartJanitorJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	ttl := params.TTL
	if ttl <= 0 {
		ttl = defaultCartTTL
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = defaultPruneBatch
	}
	maxBatches := params.MaxBatches
	if maxBatches <= 0 {
		maxBatches = defaultPruneBatches
	}
	return &cartJanitorJob{
		logg:       params.Logger,
		repo:       params.Repository,
		metrics:    params.Metrics,
		ttl:        ttl,
		batchSize:  batchSize,
		maxBatches: maxBatches,
		now:        time.Now,
	}, nil
}

type cartJanitorJob struct {
	logg       *logger.Logger
	repo       cartPruner
	metrics    *metrics.JobMetrics
	ttl        time.Duration
	batchSize  int
	maxBatches int
	now        func() time.Time
}

func (j *cartJanitorJob) Name() string { return "cart-janitor" }

func (j *cartJanitorJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.ttl)

	var pruned int64
	var errs []error
	for i := 0; i < j.maxBatches; i++ {
		rows, err := j.repo.PruneStaleBatch(ctx, cutoff, j.batchSize)
		if err != nil {
			errs = append(errs, fmt.Errorf("prune batch %d: %w", i+1, err))
			break
		}
		pruned += rows
		if rows < int64(j.batchSize) {
			break
		}
	}

	j.metrics.AddPruned(j.Name(), pruned)
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":      cutoff,
		"rows_pruned": pruned,
	})
	j.logg.Info(logCtx, "cart janitor complete")
	return multierr.Combine(errs...)
}
