package port

import (
	"context"

	"expense-report-service/internal/domain/entity"
)

// ReportRepository defines persistence operations for Report. Reads
// return reports with their lines and contact emails loaded; lines keep
// creation order.
type ReportRepository interface {
	// Create inserts the report header and assigns its ID.
	Create(ctx context.Context, report *entity.Report) error

	// GetByID retrieves a report with lines loaded, nil when absent.
	GetByID(ctx context.Context, id int64) (*entity.Report, error)

	// ListByEmployee returns the employee's reports, newest first.
	ListByEmployee(ctx context.Context, employeeID int64) ([]*entity.Report, error)

	// ListBySupervisorAndStatus returns the supervisor's queue, oldest first.
	ListBySupervisorAndStatus(ctx context.Context, supervisorID int64, status entity.ReportStatus) ([]*entity.Report, error)

	// ListByStatus returns all reports in the given status, by id ascending.
	ListByStatus(ctx context.Context, status entity.ReportStatus) ([]*entity.Report, error)

	// UpdateReview persists the report-level outcome of a review batch.
	UpdateReview(ctx context.Context, report *entity.Report) error

	// UpdateStatuses moves every named report to the given status.
	UpdateStatuses(ctx context.Context, ids []int64, status entity.ReportStatus) error
}

// LineRepository defines persistence operations for Line.
type LineRepository interface {
	// CreateBatch inserts the lines of one report in display order.
	CreateBatch(ctx context.Context, reportID int64, lines []*entity.Line) error

	// UpdateReview persists a line's review status and comment.
	UpdateReview(ctx context.Context, line *entity.Line) error
}

// UserRepository defines the read operations the expense workflow needs
// on users; account management itself lives elsewhere.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	ListApprovedSupervisors(ctx context.Context) ([]*entity.User, error)
}

// SettingRepository defines persistence operations for AppSetting rows.
type SettingRepository interface {
	// Get returns the value for key; found is false when no row exists.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string, isSecret bool) error
	List(ctx context.Context) ([]*entity.AppSetting, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
