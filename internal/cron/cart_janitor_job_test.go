package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DisguisedKairos/supermarket-backend/pkg/logger"
)

type fakePruner struct {
	batches []int64
	calls   int
	cutoffs []time.Time
	err     error
}

func (f *fakePruner) PruneStaleBatch(_ context.Context, cutoff time.Time, _ int) (int64, error) {
	f.cutoffs = append(f.cutoffs, cutoff)
	if f.err != nil {
		return 0, f.err
	}
	if f.calls >= len(f.batches) {
		return 0, nil
	}
	rows := f.batches[f.calls]
	f.calls++
	return rows, nil
}

func TestCartJanitorPrunesUntilShortBatch(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	pruner := &fakePruner{batches: []int64{5, 5, 2}}
	job, err := NewCartJanitorJob(CartJanitorJobParams{
		Logger:     logg,
		Repository: pruner,
		TTL:        24 * time.Hour,
		BatchSize:  5,
		MaxBatches: 10,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if pruner.calls != 3 {
		t.Fatalf("expected 3 batches, got %d", pruner.calls)
	}
}

func TestCartJanitorStopsAtMaxBatches(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	pruner := &fakePruner{batches: []int64{5, 5, 5, 5, 5}}
	job, err := NewCartJanitorJob(CartJanitorJobParams{
		Logger:     logg,
		Repository: pruner,
		BatchSize:  5,
		MaxBatches: 2,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if pruner.calls != 2 {
		t.Fatalf("expected 2 batches, got %d", pruner.calls)
	}
}

func TestCartJanitorReturnsBatchError(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	pruner := &fakePruner{err: errors.New("db down")}
	job, err := NewCartJanitorJob(CartJanitorJobParams{
		Logger:     logg,
		Repository: pruner,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}

	if err := job.Run(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCartJanitorCutoffUsesTTL(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	pruner := &fakePruner{}
	job, err := NewCartJanitorJob(CartJanitorJobParams{
		Logger:     logg,
		Repository: pruner,
		TTL:        48 * time.Hour,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(pruner.cutoffs) == 0 {
		t.Fatalf("expected at least one prune call")
	}
	want := time.Now().UTC().Add(-48 * time.Hour)
	if diff := pruner.cutoffs[0].Sub(want); diff > time.Minute || diff < -time.Minute {
		t.Fatalf("cutoff %v not near %v", pruner.cutoffs[0], want)
	}
}
