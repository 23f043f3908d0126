package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	inventoryapp "github.com/erp/stockdesk/internal/application/inventory"
	tradeapp "github.com/erp/stockdesk/internal/application/trade"
)

type fakeSweeper struct {
	calls atomic.Int32
	err   error
	block chan struct{}
	seen  atomic.Value
}

func (f *fakeSweeper) MarkOverdueInvoices(_ context.Context, now time.Time) (*tradeapp.OverdueSweepResult, error) {
	f.calls.Add(1)
	f.seen.Store(now)
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	return &tradeapp.OverdueSweepResult{Checked: 2, Marked: 1}, nil
}

type fakeRefresher struct {
	calls atomic.Int32
}

func (f *fakeRefresher) ListAlerts(_ context.Context) (*inventoryapp.AlertListResponse, error) {
	f.calls.Add(1)
	return &inventoryapp.AlertListResponse{Total: 3}, nil
}

func testConfig() Config {
	return Config{
		Enabled:         true,
		OverdueInterval: 10 * time.Millisecond,
		AlertInterval:   10 * time.Millisecond,
		JobTimeout:      time.Second,
	}
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.AlertInterval = -time.Second
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.JobTimeout = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestMaintenanceScheduler_Jobs(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("registers both jobs", func(t *testing.T) {
		s := NewMaintenanceScheduler(&fakeSweeper{}, &fakeRefresher{}, logger, testConfig())
		assert.Equal(t, []string{JobOverdueInvoices, JobStockAlerts}, s.Jobs())
	})

	t.Run("nil dependencies leave jobs out", func(t *testing.T) {
		s := NewMaintenanceScheduler(nil, &fakeRefresher{}, logger, testConfig())
		assert.Equal(t, []string{JobStockAlerts}, s.Jobs())
	})
}

func TestMaintenanceScheduler_StartStop(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("runs jobs on their interval", func(t *testing.T) {
		sweeper := &fakeSweeper{}
		refresher := &fakeRefresher{}
		s := NewMaintenanceScheduler(sweeper, refresher, logger, testConfig())

		require.NoError(t, s.Start(context.Background()))
		assert.True(t, s.IsRunning())

		assert.Eventually(t, func() bool {
			return sweeper.calls.Load() >= 2 && refresher.calls.Load() >= 2
		}, time.Second, 5*time.Millisecond)

		require.NoError(t, s.Stop(context.Background()))
		assert.False(t, s.IsRunning())

		after := sweeper.calls.Load()
		time.Sleep(30 * time.Millisecond)
		assert.Equal(t, after, sweeper.calls.Load(), "no runs after stop")
	})

	t.Run("disabled scheduler does nothing", func(t *testing.T) {
		cfg := testConfig()
		cfg.Enabled = false
		s := NewMaintenanceScheduler(&fakeSweeper{}, nil, logger, cfg)

		require.NoError(t, s.Start(context.Background()))
		assert.False(t, s.IsRunning())
		assert.NoError(t, s.Stop(context.Background()))
	})

	t.Run("invalid config is rejected on start", func(t *testing.T) {
		cfg := testConfig()
		cfg.JobTimeout = 0
		s := NewMaintenanceScheduler(&fakeSweeper{}, nil, logger, cfg)

		assert.ErrorIs(t, s.Start(context.Background()), ErrInvalidConfig)
		assert.False(t, s.IsRunning())
	})

	t.Run("zero interval disables a single job", func(t *testing.T) {
		cfg := testConfig()
		cfg.OverdueInterval = 0
		sweeper := &fakeSweeper{}
		refresher := &fakeRefresher{}
		s := NewMaintenanceScheduler(sweeper, refresher, logger, cfg)

		require.NoError(t, s.Start(context.Background()))
		assert.Eventually(t, func() bool { return refresher.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
		require.NoError(t, s.Stop(context.Background()))
		assert.Zero(t, sweeper.calls.Load())
	})
}

func TestMaintenanceScheduler_Trigger(t *testing.T) {
	logger := zaptest.NewLogger(t)
	cfg := testConfig()
	cfg.OverdueInterval = 0
	cfg.AlertInterval = 0

	t.Run("requires a running scheduler", func(t *testing.T) {
		s := NewMaintenanceScheduler(&fakeSweeper{}, nil, logger, cfg)
		assert.ErrorIs(t, s.Trigger(context.Background(), JobOverdueInvoices), ErrSchedulerNotRunning)
	})

	t.Run("unknown job", func(t *testing.T) {
		s := NewMaintenanceScheduler(&fakeSweeper{}, nil, logger, cfg)
		require.NoError(t, s.Start(context.Background()))
		defer func() { _ = s.Stop(context.Background()) }()

		assert.ErrorIs(t, s.Trigger(context.Background(), JobStockAlerts), ErrUnknownJob)
	})

	t.Run("passes the scheduler clock to the sweep", func(t *testing.T) {
		fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		sweeper := &fakeSweeper{}
		s := NewMaintenanceScheduler(sweeper, nil, logger, cfg)
		s.now = func() time.Time { return fixed }

		require.NoError(t, s.Start(context.Background()))
		require.NoError(t, s.Trigger(context.Background(), JobOverdueInvoices))
		require.NoError(t, s.Stop(context.Background()))

		assert.Equal(t, int32(1), sweeper.calls.Load())
		assert.Equal(t, fixed, sweeper.seen.Load())
	})

	t.Run("failed run is logged and the scheduler keeps going", func(t *testing.T) {
		sweeper := &fakeSweeper{err: errors.New("db down")}
		s := NewMaintenanceScheduler(sweeper, nil, logger, cfg)

		require.NoError(t, s.Start(context.Background()))
		require.NoError(t, s.Trigger(context.Background(), JobOverdueInvoices))
		assert.Eventually(t, func() bool { return sweeper.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
		assert.True(t, s.IsRunning())
		require.NoError(t, s.Stop(context.Background()))
	})

	t.Run("overlapping runs are skipped", func(t *testing.T) {
		sweeper := &fakeSweeper{block: make(chan struct{})}
		s := NewMaintenanceScheduler(sweeper, nil, logger, cfg)

		require.NoError(t, s.Start(context.Background()))
		require.NoError(t, s.Trigger(context.Background(), JobOverdueInvoices))
		assert.Eventually(t, func() bool { return sweeper.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

		require.NoError(t, s.Trigger(context.Background(), JobOverdueInvoices))
		time.Sleep(20 * time.Millisecond)
		close(sweeper.block)
		require.NoError(t, s.Stop(context.Background()))

		assert.Equal(t, int32(1), sweeper.calls.Load())
	})
}
