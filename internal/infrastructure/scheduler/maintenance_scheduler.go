package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	inventoryapp "github.com/erp/stockdesk/internal/application/inventory"
	tradeapp "github.com/erp/stockdesk/internal/application/trade"
)

// Job names accepted by Trigger
const (
	JobOverdueInvoices = "overdue_invoices"
	JobStockAlerts     = "stock_alerts"
)

// OverdueInvoiceSweeper flags sent invoices that are past their due date
type OverdueInvoiceSweeper interface {
	MarkOverdueInvoices(ctx context.Context, now time.Time) (*tradeapp.OverdueSweepResult, error)
}

// AlertRefresher recomputes the open stock alerts and records the alert gauge
type AlertRefresher interface {
	ListAlerts(ctx context.Context) (*inventoryapp.AlertListResponse, error)
}

// Config holds configuration for the maintenance scheduler
type Config struct {
	// Enabled determines if the scheduler is active
	Enabled bool

	// OverdueInterval is the time between overdue invoice sweeps. Zero disables the job.
	OverdueInterval time.Duration

	// AlertInterval is the time between stock alert refreshes. Zero disables the job.
	AlertInterval time.Duration

	// JobTimeout is the maximum time for a single run of any job
	JobTimeout time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		OverdueInterval: time.Hour,
		AlertInterval:   5 * time.Minute,
		JobTimeout:      2 * time.Minute,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.OverdueInterval < 0 || c.AlertInterval < 0 {
		return fmt.Errorf("%w: intervals cannot be negative", ErrInvalidConfig)
	}
	if c.JobTimeout <= 0 {
		return fmt.Errorf("%w: job timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

type job struct {
	name     string
	interval time.Duration
	run      func(ctx context.Context) error
}

// MaintenanceScheduler runs periodic housekeeping jobs: the overdue invoice
// sweep and the stock alert refresh. Each job runs on its own ticker and
// never overlaps with itself.
type MaintenanceScheduler struct {
	logger    *zap.Logger
	config    Config
	now       func() time.Time
	jobs      map[string]*job
	running   map[string]*sync.Mutex
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewMaintenanceScheduler creates a scheduler. A nil sweeper or refresher
// leaves the corresponding job unregistered.
func NewMaintenanceScheduler(
	invoices OverdueInvoiceSweeper,
	alerts AlertRefresher,
	logger *zap.Logger,
	config Config,
) *MaintenanceScheduler {
	s := &MaintenanceScheduler{
		logger:  logger,
		config:  config,
		now:     time.Now,
		jobs:    make(map[string]*job),
		running: make(map[string]*sync.Mutex),
	}

	if invoices != nil {
		s.register(JobOverdueInvoices, config.OverdueInterval, func(ctx context.Context) error {
			result, err := invoices.MarkOverdueInvoices(ctx, s.now())
			if err != nil {
				return err
			}
			s.logger.Info("Overdue invoice sweep completed",
				zap.Int("checked", result.Checked),
				zap.Int("marked", result.Marked),
				zap.Int("failed", result.Failed),
			)
			return nil
		})
	}
	if alerts != nil {
		s.register(JobStockAlerts, config.AlertInterval, func(ctx context.Context) error {
			resp, err := alerts.ListAlerts(ctx)
			if err != nil {
				return err
			}
			s.logger.Debug("Stock alerts refreshed", zap.Int("open_alerts", resp.Total))
			return nil
		})
	}
	return s
}

func (s *MaintenanceScheduler) register(name string, interval time.Duration, run func(ctx context.Context) error) {
	s.jobs[name] = &job{name: name, interval: interval, run: run}
	s.running[name] = &sync.Mutex{}
}

// Jobs returns the registered job names, sorted
func (s *MaintenanceScheduler) Jobs() []string {
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Start starts one loop per job with a positive interval
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Maintenance scheduler is disabled")
		return nil
	}
	if err := s.config.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, name := range s.Jobs() {
		j := s.jobs[name]
		if j.interval <= 0 {
			s.logger.Info("Maintenance job disabled", zap.String("job", j.name))
			continue
		}
		s.wg.Add(1)
		go s.loop(ctx, j)
	}

	s.logger.Info("Maintenance scheduler started",
		zap.Duration("overdue_interval", s.config.OverdueInterval),
		zap.Duration("alert_interval", s.config.AlertInterval),
	)
	return nil
}

// Stop gracefully stops the scheduler
func (s *MaintenanceScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Maintenance scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Maintenance scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning returns whether the scheduler is running
func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// Trigger runs a job immediately in the background
func (s *MaintenanceScheduler) Trigger(ctx context.Context, name string) error {
	j, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}

	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info("Triggering maintenance job", zap.String("job", name))
	go func() {
		defer s.wg.Done()
		s.execute(ctx, j)
	}()
	return nil
}

func (s *MaintenanceScheduler) loop(ctx context.Context, j *job) {
	defer s.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Maintenance loop stopping", zap.String("job", j.name))
			return
		case <-ticker.C:
			s.execute(ctx, j)
		}
	}
}

// execute runs j once. A run that starts while the previous one is still in
// progress is skipped.
func (s *MaintenanceScheduler) execute(ctx context.Context, j *job) {
	lock := s.running[j.name]
	if !lock.TryLock() {
		s.logger.Debug("Maintenance job already running, skipping", zap.String("job", j.name))
		return
	}
	defer lock.Unlock()

	runCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	startTime := time.Now()
	err := j.run(runCtx)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Maintenance job failed",
			zap.String("job", j.name),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}
	s.logger.Debug("Maintenance job completed",
		zap.String("job", j.name),
		zap.Duration("duration", duration),
	)
}
