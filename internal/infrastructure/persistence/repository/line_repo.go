package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"expense-report-service/internal/application/port"
	"expense-report-service/internal/domain/entity"
	"expense-report-service/internal/infrastructure/persistence/sqlite"
)

// LineRepository implements port.LineRepository
type LineRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLineRepository creates a new line repository
func NewLineRepository(db *sql.DB, logger *zap.Logger) port.LineRepository {
	return &LineRepository{
		db:     db,
		logger: logger,
	}
}

// CreateBatch inserts the lines of one report in display order,
// assigning IDs and the owning report ID.
func (r *LineRepository) CreateBatch(ctx context.Context, reportID int64, lines []*entity.Line) error {
	query := `
		INSERT INTO expense_lines (expense_report_id, date, expense_type, gl_account, vendor,
			description, amount, receipt_url, review_status, review_comment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	exec := r.getExecutor(ctx)
	for _, line := range lines {
		line.ReportID = reportID
		result, err := exec.ExecContext(ctx, query,
			line.ReportID,
			line.Date,
			line.ExpenseType,
			line.GLAccount,
			line.Vendor,
			nullString(line.Description),
			line.Amount,
			nullString(line.ReceiptURL),
			line.ReviewStatus.String(),
			nullString(line.ReviewComment),
		)
		if err != nil {
			r.logger.Error("Failed to create expense line",
				zap.Int64("report_id", reportID),
				zap.Error(err))
			return fmt.Errorf("failed to create line: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		line.ID = id
	}
	return nil
}

// UpdateReview persists the review verdict of a single line
func (r *LineRepository) UpdateReview(ctx context.Context, line *entity.Line) error {
	query := `
		UPDATE expense_lines
		SET review_status = ?, review_comment = ?
		WHERE id = ?
	`

	_, err := r.getExecutor(ctx).ExecContext(ctx, query,
		line.ReviewStatus.String(),
		nullString(line.ReviewComment),
		line.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update line review", zap.Int64("id", line.ID), zap.Error(err))
		return fmt.Errorf("failed to update line: %w", err)
	}
	return nil
}

func (r *LineRepository) getExecutor(ctx context.Context) sqlite.Executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.LineRepository = (*LineRepository)(nil)
