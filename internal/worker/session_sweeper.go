package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/wildfire-market/checkout/internal/domain/model"
)

// CheckoutFacade exposes the subset of application functionality required by the sweeper.
type CheckoutFacade interface {
	SessionsToSweep(ctx context.Context, limit int) ([]model.CheckoutSession, error)
	RemoveSession(ctx context.Context, sessionID string) error
}

// SessionSweeper removes abandoned checkout sessions concurrently. Sessions
// with a settlement attempt in flight are never selected for sweeping.
type SessionSweeper struct {
	facade        CheckoutFacade
	sweepInterval time.Duration
	batchSize     int
	workers       int
	logger        *slog.Logger

	jobs   chan model.CheckoutSession
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewSessionSweeper constructs session sweeper worker pool.
func NewSessionSweeper(facade CheckoutFacade, sweepInterval time.Duration, batchSize, workers int, logger *slog.Logger) *SessionSweeper {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &SessionSweeper{
		facade:        facade,
		sweepInterval: sweepInterval,
		batchSize:     batchSize,
		workers:       workers,
		logger:        logger,
		jobs:          make(chan model.CheckoutSession, batchSize*workers),
	}
}

// Start launches background sweeping.
func (s *SessionSweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(runCtx)
	}

	s.wg.Add(1)
	go s.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (s *SessionSweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *SessionSweeper) dispatch(ctx context.Context) {
	defer s.wg.Done()
	defer close(s.jobs)
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fetchAndDispatch(ctx)
		}
	}
}

func (s *SessionSweeper) fetchAndDispatch(ctx context.Context) {
	sessions, err := s.facade.SessionsToSweep(ctx, s.batchSize)
	if err != nil {
		s.logger.Error("fetch sessions to sweep failed", slog.String("error", err.Error()))
		return
	}
	for _, session := range sessions {
		select {
		case <-ctx.Done():
			return
		case s.jobs <- session:
		}
	}
}

func (s *SessionSweeper) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case session, ok := <-s.jobs:
			if !ok {
				return
			}
			s.handleSession(ctx, session)
		}
	}
}

func (s *SessionSweeper) handleSession(ctx context.Context, session model.CheckoutSession) {
	if err := s.facade.RemoveSession(ctx, session.ID); err != nil {
		s.logger.Error("remove abandoned session failed",
			slog.String("session", session.ID),
			slog.String("error", err.Error()),
		)
		return
	}
	s.logger.Info("abandoned session removed", slog.String("session", session.ID))
}
