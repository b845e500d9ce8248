// Package scheduler runs the periodic dispatch cycle. Approved expense
// batches accumulate in Pending Upload until the cron tick (or an
// operator) pushes them to the accounting endpoint.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"expense-report-service/internal/application/service"
)

// Scheduler triggers the export dispatch on a cron spec.
type Scheduler struct {
	cron     *cron.Cron
	dispatch service.DispatchService
	logger   service.Logger
}

// New creates a scheduler with the standard five-field cron parser.
func New(dispatch service.DispatchService, logger service.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		dispatch: dispatch,
		logger:   logger,
	}
}

// Register adds a dispatch job on the given cron spec. The job logs and
// swallows dispatch failures; reports stay in Pending Upload and the
// next tick retries them.
func (s *Scheduler) Register(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		result, err := s.dispatch.DispatchPending(context.Background())
		if err != nil {
			s.logger.Error("Scheduled dispatch failed", "error", err)
			return
		}
		if result.ReportCount == 0 {
			s.logger.Info("Scheduled dispatch found nothing to send")
			return
		}
		s.logger.Info("Scheduled dispatch completed",
			"batch_id", result.BatchID,
			"report_count", result.ReportCount,
			"filename", result.Filename)
	})
	if err != nil {
		return fmt.Errorf("invalid dispatch cron spec %q: %w", spec, err)
	}
	return nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Dispatch scheduler started")
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Dispatch scheduler stopped")
}
