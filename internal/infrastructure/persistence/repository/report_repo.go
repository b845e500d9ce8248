package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"expense-report-service/internal/application/port"
	"expense-report-service/internal/domain/entity"
	"expense-report-service/internal/infrastructure/persistence/sqlite"
)

// reportColumns is the shared select list; e/s are the employee and
// supervisor user aliases.
const reportColumns = `
	r.id, r.employee_id, r.supervisor_id, r.report_month, r.notes,
	r.status, r.rejection_comment, r.created_at, r.updated_at,
	e.email, s.email
`

const reportJoin = `
	FROM expense_reports r
	JOIN users e ON e.id = r.employee_id
	JOIN users s ON s.id = r.supervisor_id
`

// ReportRepository implements port.ReportRepository
type ReportRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *sql.DB, logger *zap.Logger) port.ReportRepository {
	return &ReportRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts the report header and assigns its ID
func (r *ReportRepository) Create(ctx context.Context, report *entity.Report) error {
	query := `
		INSERT INTO expense_reports (employee_id, supervisor_id, report_month, notes, status, rejection_comment)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		report.EmployeeID,
		report.SupervisorID,
		report.ReportMonth,
		nullString(report.Notes),
		report.Status.String(),
		nullString(report.RejectionComment),
	)
	if err != nil {
		r.logger.Error("Failed to create report", zap.Error(err))
		return fmt.Errorf("failed to create report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	report.ID = id
	return nil
}

// GetByID retrieves a report with its lines, nil when absent
func (r *ReportRepository) GetByID(ctx context.Context, id int64) (*entity.Report, error) {
	query := `SELECT` + reportColumns + reportJoin + `WHERE r.id = ?`

	report, err := r.scanReport(r.getExecutor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get report", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	if err := r.loadLines(ctx, []*entity.Report{report}); err != nil {
		return nil, err
	}
	return report, nil
}

// ListByEmployee returns the employee's reports, newest first
func (r *ReportRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]*entity.Report, error) {
	query := `SELECT` + reportColumns + reportJoin + `WHERE r.employee_id = ? ORDER BY r.created_at DESC, r.id DESC`
	return r.list(ctx, query, employeeID)
}

// ListBySupervisorAndStatus returns the supervisor's queue, oldest first
func (r *ReportRepository) ListBySupervisorAndStatus(ctx context.Context, supervisorID int64, status entity.ReportStatus) ([]*entity.Report, error) {
	query := `SELECT` + reportColumns + reportJoin + `WHERE r.supervisor_id = ? AND r.status = ? ORDER BY r.created_at ASC, r.id ASC`
	return r.list(ctx, query, supervisorID, status.String())
}

// ListByStatus returns all reports in the given status, by id ascending
func (r *ReportRepository) ListByStatus(ctx context.Context, status entity.ReportStatus) ([]*entity.Report, error) {
	query := `SELECT` + reportColumns + reportJoin + `WHERE r.status = ? ORDER BY r.id ASC`
	return r.list(ctx, query, status.String())
}

// UpdateReview persists the report-level outcome of a review batch
func (r *ReportRepository) UpdateReview(ctx context.Context, report *entity.Report) error {
	query := `
		UPDATE expense_reports
		SET status = ?, rejection_comment = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.getExecutor(ctx).ExecContext(ctx, query,
		report.Status.String(),
		nullString(report.RejectionComment),
		report.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update report review", zap.Int64("id", report.ID), zap.Error(err))
		return fmt.Errorf("failed to update report: %w", err)
	}
	return nil
}

// UpdateStatuses moves every named report to the given status
func (r *ReportRepository) UpdateStatuses(ctx context.Context, ids []int64, status entity.ReportStatus) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimRight(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf(`
		UPDATE expense_reports
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id IN (%s)
	`, placeholders)

	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, status.String())
	for _, id := range ids {
		args = append(args, id)
	}

	_, err := r.getExecutor(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update report statuses",
			zap.Int("count", len(ids)),
			zap.String("status", status.String()),
			zap.Error(err))
		return fmt.Errorf("failed to update report statuses: %w", err)
	}
	return nil
}

func (r *ReportRepository) list(ctx context.Context, query string, args ...interface{}) ([]*entity.Report, error) {
	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list reports", zap.Error(err))
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*entity.Report
	for rows.Next() {
		report, err := r.scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}

	if err := r.loadLines(ctx, reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *ReportRepository) scanReport(row rowScanner) (*entity.Report, error) {
	var report entity.Report
	var status string
	var notes, rejection sql.NullString

	err := row.Scan(
		&report.ID,
		&report.EmployeeID,
		&report.SupervisorID,
		&report.ReportMonth,
		&notes,
		&status,
		&rejection,
		&report.CreatedAt,
		&report.UpdatedAt,
		&report.EmployeeEmail,
		&report.SupervisorEmail,
	)
	if err != nil {
		return nil, err
	}

	report.Status = entity.ReportStatus(status)
	report.Notes = notes.String
	report.RejectionComment = rejection.String
	return &report, nil
}

// loadLines attaches lines in creation order to the given reports.
func (r *ReportRepository) loadLines(ctx context.Context, reports []*entity.Report) error {
	if len(reports) == 0 {
		return nil
	}

	byID := make(map[int64]*entity.Report, len(reports))
	args := make([]interface{}, 0, len(reports))
	for _, report := range reports {
		byID[report.ID] = report
		args = append(args, report.ID)
	}

	placeholders := strings.TrimRight(strings.Repeat("?,", len(reports)), ",")
	query := fmt.Sprintf(`
		SELECT id, expense_report_id, date, expense_type, gl_account, vendor,
			description, amount, receipt_url, review_status, review_comment, created_at
		FROM expense_lines
		WHERE expense_report_id IN (%s)
		ORDER BY id ASC
	`, placeholders)

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to load report lines", zap.Error(err))
		return fmt.Errorf("failed to load lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line entity.Line
		var status string
		var description, receiptURL, reviewComment sql.NullString

		err := rows.Scan(
			&line.ID,
			&line.ReportID,
			&line.Date,
			&line.ExpenseType,
			&line.GLAccount,
			&line.Vendor,
			&description,
			&line.Amount,
			&receiptURL,
			&status,
			&reviewComment,
			&line.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to scan line: %w", err)
		}

		line.ReviewStatus = entity.LineReviewStatus(status)
		line.Description = description.String
		line.ReceiptURL = receiptURL.String
		line.ReviewComment = reviewComment.String

		if report, ok := byID[line.ReportID]; ok {
			report.Lines = append(report.Lines, &line)
		}
	}
	return rows.Err()
}

// getExecutor returns the open transaction when present
func (r *ReportRepository) getExecutor(ctx context.Context) sqlite.Executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.db
}

// nullString maps "" to NULL for optional text columns
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Verify interface compliance
var _ port.ReportRepository = (*ReportRepository)(nil)
