// Package worker runs the periodic fleet maintenance scan in the
// background: recompute component conditions from odometer data, then
// generate work orders for anything degraded.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/refayetSiam/SpareHub/internal/metrics"
	"github.com/refayetSiam/SpareHub/internal/service"
)

// Scanner periodically refreshes component conditions and generates work
// orders for the whole fleet.
type Scanner struct {
	fleet      service.FleetService
	workOrders service.WorkOrderService
	config     Config
	logger     *slog.Logger

	// Synchronization
	wg     sync.WaitGroup
	stopCh chan struct{}
}

// New creates a new Scanner with the given configuration.
// The scanner must be started with Start() and stopped with Stop().
func New(fleet service.FleetService, workOrders service.WorkOrderService, config Config, logger *slog.Logger) (*Scanner, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Scanner{
		fleet:      fleet,
		workOrders: workOrders,
		config:     config,
		logger:     logger,
		stopCh:     make(chan struct{}),
	}, nil
}

// Start begins periodic scanning. An initial scan runs immediately so a
// freshly started service does not wait a full interval before catching
// up with the fleet's wear state.
func (s *Scanner) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("Fleet scanner started", "interval", s.config.ScanInterval)
}

// Stop signals the scanner to stop and waits for a running scan to
// finish, up to the configured ShutdownTimeout.
func (s *Scanner) Stop() {
	s.logger.Info("Stopping fleet scanner...")
	close(s.stopCh)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Fleet scanner stopped gracefully")
	case <-time.After(s.config.ShutdownTimeout):
		s.logger.Warn("Fleet scanner shutdown timeout exceeded, a scan may still be running")
	}
}

// run is the scanner's main loop.
func (s *Scanner) run(ctx context.Context) {
	defer s.wg.Done()

	s.scan(ctx)

	ticker := time.NewTicker(s.config.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.scan(ctx)
		}
	}
}

// scan performs one full pass: refresh conditions, then generate work
// orders. Errors are logged and counted; the next tick retries from
// scratch.
func (s *Scanner) scan(ctx context.Context) {
	start := time.Now()

	changed, err := s.fleet.RefreshConditions(ctx)
	if err != nil {
		s.logger.Error("condition refresh failed", "error", err)
		metrics.ScansTotal.WithLabelValues("failed").Inc()
		return
	}

	created, err := s.workOrders.GenerateForFleet(ctx)
	if err != nil {
		s.logger.Error("fleet generation failed", "error", err)
		metrics.ScansTotal.WithLabelValues("failed").Inc()
		return
	}

	elapsed := time.Since(start)
	metrics.ScansTotal.WithLabelValues("ok").Inc()
	metrics.ScanDuration.Observe(elapsed.Seconds())

	s.logger.Info("fleet scan finished",
		"conditions_changed", changed,
		"work_orders_created", len(created),
		"duration", elapsed,
	)
}
