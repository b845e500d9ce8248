package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"expense-report-service/internal/application/port"
	"expense-report-service/internal/domain/entity"
	"expense-report-service/internal/export"
)

// DispatchResult summarizes one dispatch cycle
type DispatchResult struct {
	BatchID     string `json:"batch_id"`
	ReportCount int    `json:"report_count"`
	Filename    string `json:"filename,omitempty"`
}

// DispatchService exports Pending Upload reports and transmits them to
// the external accounting endpoint
type DispatchService interface {
	// DispatchPending formats the current Pending Upload batch, uploads
	// it as one file, and marks the reports Completed only after the
	// upload is confirmed. A failed upload leaves every report in
	// Pending Upload so the operator can safely retry.
	DispatchPending(ctx context.Context) (DispatchResult, error)

	// ExportPending formats the current Pending Upload batch without
	// transmitting or mutating anything.
	ExportPending(ctx context.Context) (string, error)
}

type dispatchServiceImpl struct {
	reportRepo port.ReportRepository
	transport  port.ExportTransport
	txManager  port.TransactionManager
	logger     Logger
	now        func() time.Time
}

// NewDispatchService creates a new DispatchService
func NewDispatchService(
	reportRepo port.ReportRepository,
	transport port.ExportTransport,
	txManager port.TransactionManager,
	logger Logger,
) DispatchService {
	return &dispatchServiceImpl{
		reportRepo: reportRepo,
		transport:  transport,
		txManager:  txManager,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *dispatchServiceImpl) DispatchPending(ctx context.Context) (DispatchResult, error) {
	reports, err := s.reportRepo.ListByStatus(ctx, entity.StatusPendingUpload)
	if err != nil {
		s.logger.Error("Failed to load pending upload reports", "error", err)
		return DispatchResult{}, err
	}
	if len(reports) == 0 {
		s.logger.Info("No reports waiting for upload")
		return DispatchResult{ReportCount: 0}, nil
	}

	// Configuration problems surface before any network or status work.
	if err := s.transport.Validate(ctx); err != nil {
		return DispatchResult{}, err
	}

	payload, err := export.FormatBatch(reports)
	if err != nil {
		return DispatchResult{}, err
	}
	filename := export.BatchFilename(s.now())
	batchID := uuid.NewString()

	if err := s.transport.Upload(ctx, filename, []byte(payload)); err != nil {
		s.logger.Error("Dispatch upload failed, reports left in Pending Upload",
			"error", err,
			"batch_id", batchID,
			"report_count", len(reports))
		return DispatchResult{}, err
	}

	ids := make([]int64, 0, len(reports))
	for _, report := range reports {
		ids = append(ids, report.ID)
	}
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.reportRepo.UpdateStatuses(txCtx, ids, entity.StatusCompleted)
	})
	if err != nil {
		// The file is already on the remote host; the batch will be
		// re-sent on retry and deduplicated downstream.
		s.logger.Error("Failed to mark reports completed after upload",
			"error", err,
			"batch_id", batchID)
		return DispatchResult{}, err
	}

	s.logger.Info("Dispatched expense batch",
		"batch_id", batchID,
		"report_count", len(reports),
		"filename", filename)
	return DispatchResult{BatchID: batchID, ReportCount: len(reports), Filename: filename}, nil
}

func (s *dispatchServiceImpl) ExportPending(ctx context.Context) (string, error) {
	reports, err := s.reportRepo.ListByStatus(ctx, entity.StatusPendingUpload)
	if err != nil {
		s.logger.Error("Failed to load pending upload reports", "error", err)
		return "", err
	}
	return export.FormatBatch(reports)
}
