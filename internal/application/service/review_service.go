package service

import (
	"context"
	"errors"
	"fmt"

	"expense-report-service/internal/application/port"
	"expense-report-service/internal/domain/entity"
	"expense-report-service/internal/domain/review"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

var (
	// ErrReportNotFound is returned when the referenced report does not exist
	ErrReportNotFound = errors.New("report not found")

	// ErrNotAssigned is returned when the actor is not the report's assigned supervisor
	ErrNotAssigned = errors.New("not assigned to this report")
)

// ReviewService applies supervisor review batches to reports
type ReviewService interface {
	// Review validates and applies the decision batch on behalf of the
	// given supervisor, persisting line and report status together.
	Review(ctx context.Context, reportID, supervisorID int64, decisions review.DecisionSet) (review.Outcome, error)

	// Queue returns the supervisor's pending review queue, oldest first.
	Queue(ctx context.Context, supervisorID int64) ([]*entity.Report, error)
}

type reviewServiceImpl struct {
	reportRepo port.ReportRepository
	lineRepo   port.LineRepository
	txManager  port.TransactionManager
	logger     Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	reportRepo port.ReportRepository,
	lineRepo port.LineRepository,
	txManager port.TransactionManager,
	logger Logger,
) ReviewService {
	return &reviewServiceImpl{
		reportRepo: reportRepo,
		lineRepo:   lineRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// Review applies a review decision batch. The batch is validated in full
// before any mutation, and the mutated lines and report are committed in
// a single transaction so a review can never be half persisted.
func (s *reviewServiceImpl) Review(ctx context.Context, reportID, supervisorID int64, decisions review.DecisionSet) (review.Outcome, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		s.logger.Error("Failed to load report for review", "error", err, "report_id", reportID)
		return review.Outcome{}, err
	}
	if report == nil {
		return review.Outcome{}, ErrReportNotFound
	}
	if report.SupervisorID != supervisorID {
		return review.Outcome{}, ErrNotAssigned
	}

	outcome, err := review.Apply(report, decisions)
	if err != nil {
		return review.Outcome{}, err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, line := range report.Lines {
			if err := s.lineRepo.UpdateReview(txCtx, line); err != nil {
				return fmt.Errorf("update line %d: %w", line.ID, err)
			}
		}
		if err := s.reportRepo.UpdateReview(txCtx, report); err != nil {
			return fmt.Errorf("update report: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to persist review", "error", err, "report_id", reportID)
		return review.Outcome{}, err
	}

	s.logger.Info("Review applied",
		"report_id", reportID,
		"supervisor_id", supervisorID,
		"status", report.Status.String())
	return outcome, nil
}

// Queue retrieves the reports awaiting review by the supervisor
func (s *reviewServiceImpl) Queue(ctx context.Context, supervisorID int64) ([]*entity.Report, error) {
	reports, err := s.reportRepo.ListBySupervisorAndStatus(ctx, supervisorID, entity.StatusPendingReview)
	if err != nil {
		s.logger.Error("Failed to list review queue", "error", err, "supervisor_id", supervisorID)
		return nil, err
	}
	return reports, nil
}
