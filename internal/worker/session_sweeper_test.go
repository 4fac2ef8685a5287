package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wildfire-market/checkout/internal/domain/model"
	testhelpers "github.com/wildfire-market/checkout/internal/test"
)

func TestNewSessionSweeperDefaults(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	sweeper := NewSessionSweeper(&testhelpers.SweeperFacadeStub{}, time.Second, 0, 0, logger)
	if sweeper.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", sweeper.batchSize)
	}
	if sweeper.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", sweeper.workers)
	}
}

func TestSessionSweeperRemovesSessions(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.SweeperFacadeStub{Sessions: [][]model.CheckoutSession{{{ID: "s1"}}}}
	sweeper := NewSessionSweeper(facade, 10*time.Millisecond, 1, 1, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper.Start(ctx)

	deadline := time.After(500 * time.Millisecond)
	for {
		facade.Lock()
		swept := len(facade.Removed) > 0
		facade.Unlock()
		if swept {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for session sweep")
		case <-time.After(10 * time.Millisecond):
		}
	}

	sweeper.Stop()
	facade.Lock()
	defer facade.Unlock()
	if len(facade.Removed) == 0 {
		t.Fatalf("expected session removal")
	}
	if facade.Removed[0] != "s1" {
		t.Fatalf("expected session s1 to be removed, got %q", facade.Removed[0])
	}
}

func TestSessionSweeperContinuesAfterRemoveFailure(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	attempts := int32(0)
	facade := &testhelpers.SweeperFacadeStub{
		Sessions: [][]model.CheckoutSession{{{ID: "s1"}}, {{ID: "s2"}}},
		RemoveFn: func(_ context.Context, sessionID string) error {
			if atomic.AddInt32(&attempts, 1) == 1 {
				return errors.New("transient")
			}
			return nil
		},
	}

	sweeper := NewSessionSweeper(facade, 5*time.Millisecond, 1, 1, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper.Start(ctx)

	deadline := time.After(time.Second)
	for atomic.LoadInt32(&attempts) < 2 {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for second sweep attempt")
		case <-time.After(10 * time.Millisecond):
		}
	}
	sweeper.Stop()
}

func TestSessionSweeperStopWithoutStart(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	sweeper := NewSessionSweeper(&testhelpers.SweeperFacadeStub{}, time.Second, 1, 1, logger)
	sweeper.Stop()
}
