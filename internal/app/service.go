// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"

	"github.com/okian/swingscore/internal/adapters/mq/queue"
	"github.com/okian/swingscore/internal/adapters/mq/worker"
	"github.com/okian/swingscore/internal/adapters/repository"
	"github.com/okian/swingscore/internal/domain/anomaly"
	"github.com/okian/swingscore/internal/domain/bands"
	"github.com/okian/swingscore/internal/domain/dedupe"
	"github.com/okian/swingscore/internal/domain/model"
	"github.com/okian/swingscore/internal/domain/scoring"
	"github.com/okian/swingscore/internal/domain/types"
	"github.com/okian/swingscore/pkg/logger"
	"github.com/okian/swingscore/pkg/metrics"
)

// Default service configuration.
const (
	defaultQueueSize    = 10000
	defaultDedupeSize   = 50000
	defaultHistoryLimit = 50
	defaultStopTimeout  = 10 * time.Second
)

// Service scores analyses synchronously or through the worker pool and
// keeps results for lookups.
type Service struct {
	mu sync.RWMutex

	store   *repository.MemStore
	deduper dedupe.Deduper
	queue   *queue.InMemoryQueue
	scorer  scoring.Scorer
	pool    *worker.Pool
	cancel  context.CancelFunc

	workerCount  int
	queueSize    int
	dedupeSize   int
	historyLimit int
	maxRecords   int
	stopTimeout  time.Duration
	engineOpts   []scoring.Option
	newID        func() string

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the analysis queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithHistoryLimit sets how many analyses are kept per player.
func WithHistoryLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// WithMaxRecords caps the total number of stored analyses.
func WithMaxRecords(n int) Option {
	return func(s *Service) {
		s.maxRecords = n
	}
}

// WithStopTimeout bounds how long Stop waits for queued analyses to drain.
func WithStopTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.stopTimeout = d
		}
	}
}

// WithProfiles sets the band profiles used by the engine.
func WithProfiles(p bands.Profiles) Option {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, scoring.WithProfiles(p))
	}
}

// WithThresholds sets the anomaly thresholds used by the engine.
func WithThresholds(th anomaly.Thresholds) Option {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, scoring.WithThresholds(th))
	}
}

// WithIDGenerator replaces the random analysis ID source.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. The engine is built immediately, so invalid
// profiles fail here; workers start with Start.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		workerCount:  runtime.NumCPU(),
		queueSize:    defaultQueueSize,
		dedupeSize:   defaultDedupeSize,
		historyLimit: defaultHistoryLimit,
		stopTimeout:  defaultStopTimeout,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	engine, err := scoring.NewEngine(s.engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}
	s.scorer = instrumentedScorer{next: engine}
	s.store = repository.NewMemStore(
		repository.WithHistoryLimit(s.historyLimit),
		repository.WithMaxRecords(s.maxRecords),
	)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	return s, nil
}

// Start launches the worker pool. It is a no-op when already started.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.pool = worker.NewPool(s.workerCount, s.queue, s.scorer, s.store)
	s.pool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "scoring service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
		logger.Int("history_limit", s.historyLimit),
	)
	return nil
}

// Stop drains queued analyses and stops the workers.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping scoring service")

	stopCtx, cancel := context.WithTimeout(ctx, s.stopTimeout)
	defer cancel()
	err := s.pool.Shutdown(stopCtx)
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "scoring service stopped")
	return err
}

// Score scores a synchronously and stores the result. An empty ID is
// replaced with a generated one.
func (s *Service) Score(ctx context.Context, a model.Analysis) (model.Record, error) { //nolint:gocritic // hugeParam: analyses are values
	if a.ID == "" {
		a.ID = s.newID()
	}
	if a.SubmittedAt.IsZero() {
		a.SubmittedAt = time.Now()
	}

	res, err := s.scorer.Score(ctx, scoring.Input{Raw: a.Raw, Config: a.Config})
	if err != nil {
		if ctx.Err() != nil {
			return model.Record{}, err
		}
		return model.Record{}, fmt.Errorf("%w: %w", ErrInvalidAnalysis, err)
	}

	rec := model.Record{Analysis: a, Result: res, ScoredAt: time.Now()}
	if err := s.store.Put(ctx, rec); err != nil {
		return model.Record{}, fmt.Errorf("store analysis: %w", err)
	}
	s.logger.Debug(ctx, "analysis scored",
		logger.String("analysis_id", a.ID),
		logger.Bool("flagged", res.Weirdness.HasAny),
	)
	return rec, nil
}

// Submit queues a for asynchronous scoring. A resubmitted ID is reported as
// a duplicate and not queued again.
func (s *Service) Submit(ctx context.Context, a model.Analysis) (types.Submission, error) { //nolint:gocritic // hugeParam: analyses are values
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return types.Submission{}, ErrNotStarted
	}
	if a.ID == "" {
		a.ID = s.newID()
	}
	if a.SubmittedAt.IsZero() {
		a.SubmittedAt = time.Now()
	}

	if s.deduper.SeenAndRecord(ctx, a.ID) {
		metrics.RecordAnalysisDuplicate()
		s.logger.Debug(ctx, "duplicate analysis", logger.String("analysis_id", a.ID))
		return types.Submission{ID: a.ID, Duplicate: true}, nil
	}
	if !s.queue.Enqueue(ctx, a) {
		s.deduper.Unrecord(ctx, a.ID)
		return types.Submission{}, fmt.Errorf("%w: %s", ErrBackpressure, a.ID)
	}
	return types.Submission{ID: a.ID}, nil
}

// Result returns the stored record for an analysis.
func (s *Service) Result(ctx context.Context, id string) (model.Record, error) {
	return s.store.Get(ctx, id)
}

// History returns a player's analyses, newest first. limit 0 uses the
// configured history limit.
func (s *Service) History(ctx context.Context, playerID string, limit int) ([]types.Entry, error) {
	if limit == 0 {
		limit = s.historyLimit
	}
	recs, err := s.store.History(ctx, playerID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]types.Entry, len(recs))
	for i, r := range recs {
		out[i] = types.EntryFromRecord(r)
	}
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) types.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := types.Stats{
		Started:       s.started,
		Workers:       s.workerCount,
		QueueCapacity: s.queueSize,
		Analyses:      s.store.Count(ctx),
		Deduped:       s.deduper.Size(),
	}
	if s.started {
		st.Workers = s.pool.Size()
		st.QueueLength = s.queue.Len()
		metrics.UpdateQueueSize(st.QueueLength, s.queueSize)
	}

	overalls := s.store.Overalls(ctx)
	if mean, err := stats.Mean(overalls); err == nil {
		st.OverallMean = &mean
	}
	if median, err := stats.Median(overalls); err == nil {
		st.OverallMedian = &median
	}
	return st
}
