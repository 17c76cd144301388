package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/redis/go-redis/v9"

	"github.com/daanhekking/ping-pong-august/pkg/cache"
	"github.com/daanhekking/ping-pong-august/pkg/logger"
)

// MarkerStore remembers the last month a snapshot was saved for, so
// the job runs at most once per calendar month.
type MarkerStore interface {
	LastSaved(ctx context.Context) (month time.Month, year int, ok bool, err error)
	SetSaved(ctx context.Context, month time.Month, year int) error
}

// RedisMarkerStore keeps the marker under a single redis key.
type RedisMarkerStore struct {
	rdb *redis.Client
}

func NewRedisMarkerStore(rdb *redis.Client) *RedisMarkerStore {
	return &RedisMarkerStore{rdb: rdb}
}

func (s *RedisMarkerStore) LastSaved(ctx context.Context) (time.Month, int, bool, error) {
	raw, err := s.rdb.Get(ctx, cache.KeyLastSavedMonth).Result()
	if err == redis.Nil {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, fmt.Errorf("read snapshot marker: %w", err)
	}

	var month, year int
	if _, err := fmt.Sscanf(raw, "%d-%d", &year, &month); err != nil {
		return 0, 0, false, fmt.Errorf("parse snapshot marker %q: %w", raw, err)
	}
	return time.Month(month), year, true, nil
}

func (s *RedisMarkerStore) SetSaved(ctx context.Context, month time.Month, year int) error {
	value := fmt.Sprintf("%d-%d", year, int(month))
	if err := s.rdb.Set(ctx, cache.KeyLastSavedMonth, value, 0).Err(); err != nil {
		return fmt.Errorf("write snapshot marker: %w", err)
	}
	return nil
}

// SnapshotAggregator is the slice of AwardsService the snapshot job
// needs.
type SnapshotAggregator interface {
	ComputeMonth(month time.Month, year int) (*CategoryResults, error)
	SaveComputedAwards(ctx context.Context, results *CategoryResults, month time.Month, year int) (int, error)
}

// AwardSnapshotService persists the previous month's category winners
// on the first day of a new month. The clock and marker store are
// injected so the schedule is testable without waiting for midnight.
type AwardSnapshotService struct {
	awards SnapshotAggregator
	marker MarkerStore
	now    func() time.Time

	mu        sync.Mutex
	scheduler gocron.Scheduler
}

func NewAwardSnapshotService(awards SnapshotAggregator, marker MarkerStore, now func() time.Time) *AwardSnapshotService {
	if now == nil {
		now = time.Now
	}
	return &AwardSnapshotService{
		awards: awards,
		marker: marker,
		now:    now,
	}
}

// CheckAndSave runs one snapshot check: on the 1st of a month that
// has not been saved yet, it aggregates the previous calendar month
// and upserts its winners. The marker moves only after the save
// succeeds, so a failed save is retried on the next check.
func (s *AwardSnapshotService) CheckAndSave(ctx context.Context) error {
	// The startup catch-up and the scheduled run can coincide at 00:05
	// on the 1st; serialize so only one of them saves.
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	if now.Day() != 1 {
		return nil
	}

	month, year := now.Month(), now.Year()

	savedMonth, savedYear, ok, err := s.marker.LastSaved(ctx)
	if err != nil {
		return err
	}
	if ok && savedMonth == month && savedYear == year {
		return nil
	}

	prev := now.AddDate(0, -1, 0)
	prevMonth, prevYear := prev.Month(), prev.Year()

	results, err := s.awards.ComputeMonth(prevMonth, prevYear)
	if err != nil {
		return fmt.Errorf("snapshot aggregation failed: %w", err)
	}
	if results == nil {
		logger.Info("No matches to snapshot", "month", prevMonth.String(), "year", prevYear)
		return nil
	}

	saved, err := s.awards.SaveComputedAwards(ctx, results, prevMonth, prevYear)
	if err != nil {
		return err
	}
	if saved == 0 {
		return nil
	}

	if err := s.marker.SetSaved(ctx, month, year); err != nil {
		return err
	}

	logger.Info("Award snapshot completed",
		"snapshotMonth", prevMonth.String(),
		"snapshotYear", prevYear,
		"awards", saved,
	)

	return nil
}

// Start runs one immediate check and then a daily one. Errors are
// logged and swallowed; the next day's run is the retry.
func (s *AwardSnapshotService) Start() error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	s.scheduler = scheduler

	run := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.CheckAndSave(ctx); err != nil {
			logger.Error("Award snapshot check failed", "error", err)
		}
	}

	_, err = scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 5, 0))),
		gocron.NewTask(run),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule snapshot job: %w", err)
	}

	scheduler.Start()

	// Catch up immediately in case the process was down at 00:05.
	go run()

	return nil
}

// Stop shuts the scheduler down.
func (s *AwardSnapshotService) Stop() {
	if s.scheduler != nil {
		_ = s.scheduler.Shutdown()
	}
}
