package service

import (
	"context"
	"fmt"

	"expense-report-service/internal/application/port"
	"expense-report-service/internal/domain/entity"
	"expense-report-service/pkg/utils"
)

// InputError reports invalid submission input. The message is safe to
// show to the submitting user.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string {
	return e.Msg
}

// ReceiptUpload is an optional receipt file attached to one line.
type ReceiptUpload struct {
	Filename string
	Content  []byte
}

// LineInput is one expense line as submitted by the employee form.
type LineInput struct {
	Date        string  `json:"date"`
	ExpenseType string  `json:"expense_type"`
	GLAccount   string  `json:"gl_account"`
	Vendor      string  `json:"vendor"`
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	Receipt     *ReceiptUpload `json:"-"`
}

// SubmitReportInput carries a full report submission.
type SubmitReportInput struct {
	EmployeeID      int64       `json:"-"`
	SupervisorID    int64       `json:"supervisor_id"`
	ReportMonth     string      `json:"report_month"` // YYYY-MM
	Notes           string      `json:"notes"`
	SubmitForReview bool        `json:"submit_for_review"`
	Lines           []LineInput `json:"lines"`
}

// ReportService manages employee report submission and retrieval
type ReportService interface {
	// Submit validates and stores a new report with its lines in one
	// transaction. Status is Pending Review when SubmitForReview is set,
	// Draft otherwise.
	Submit(ctx context.Context, input SubmitReportInput) (*entity.Report, error)

	// Get retrieves a report with lines; ErrReportNotFound when absent.
	Get(ctx context.Context, id int64) (*entity.Report, error)

	// ListByEmployee returns the employee's reports, newest first.
	ListByEmployee(ctx context.Context, employeeID int64) ([]*entity.Report, error)

	// Supervisors lists the users selectable as reviewers.
	Supervisors(ctx context.Context) ([]*entity.User, error)
}

type reportServiceImpl struct {
	reportRepo port.ReportRepository
	lineRepo   port.LineRepository
	userRepo   port.UserRepository
	refData    port.ReferenceDataProvider
	receipts   port.ReceiptStorage
	txManager  port.TransactionManager
	logger     Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	reportRepo port.ReportRepository,
	lineRepo port.LineRepository,
	userRepo port.UserRepository,
	refData port.ReferenceDataProvider,
	receipts port.ReceiptStorage,
	txManager port.TransactionManager,
	logger Logger,
) ReportService {
	return &reportServiceImpl{
		reportRepo: reportRepo,
		lineRepo:   lineRepo,
		userRepo:   userRepo,
		refData:    refData,
		receipts:   receipts,
		txManager:  txManager,
		logger:     logger,
	}
}

func (s *reportServiceImpl) Submit(ctx context.Context, input SubmitReportInput) (*entity.Report, error) {
	supervisor, err := s.userRepo.GetByID(ctx, input.SupervisorID)
	if err != nil {
		s.logger.Error("Failed to load supervisor", "error", err, "supervisor_id", input.SupervisorID)
		return nil, err
	}
	if supervisor == nil || !supervisor.CanReview() {
		return nil, &InputError{Msg: "Select a valid supervisor."}
	}

	month, err := utils.ParseReportMonth(input.ReportMonth)
	if err != nil {
		return nil, &InputError{Msg: "Choose a valid report month."}
	}

	if len(input.Lines) == 0 {
		return nil, &InputError{Msg: "Add at least one expense line."}
	}

	validAccounts, err := s.glAccountCodes(ctx)
	if err != nil {
		// Reference data unavailable is a degraded-service condition,
		// surfaced as-is for the caller to map.
		return nil, err
	}

	lines := make([]*entity.Line, 0, len(input.Lines))
	for i, in := range input.Lines {
		lineDate, err := utils.ParseLineDate(in.Date)
		if err != nil {
			return nil, &InputError{Msg: fmt.Sprintf("Line %d: invalid date.", i+1)}
		}
		amount, err := utils.ParseAmount(in.Amount)
		if err != nil {
			return nil, &InputError{Msg: fmt.Sprintf("Line %d: amount must be numeric.", i+1)}
		}
		if !validAccounts[in.GLAccount] {
			return nil, &InputError{Msg: fmt.Sprintf("Line %d: select a GL account from the approved list.", i+1)}
		}
		lines = append(lines, &entity.Line{
			Date:         lineDate,
			ExpenseType:  in.ExpenseType,
			GLAccount:    in.GLAccount,
			Vendor:       in.Vendor,
			Description:  in.Description,
			Amount:       amount,
			ReviewStatus: entity.LinePending,
		})
	}

	status := entity.StatusDraft
	if input.SubmitForReview {
		status = entity.StatusPendingReview
	}
	report := &entity.Report{
		EmployeeID:   input.EmployeeID,
		SupervisorID: input.SupervisorID,
		ReportMonth:  entity.NormalizeMonth(month),
		Notes:        input.Notes,
		Status:       status,
	}
	if err := report.Validate(); err != nil {
		return nil, err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.reportRepo.Create(txCtx, report); err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		for i, line := range lines {
			upload := input.Lines[i].Receipt
			if upload != nil && len(upload.Content) > 0 {
				url, err := s.receipts.Store(txCtx, report.ID, i, upload.Filename, upload.Content)
				if err != nil {
					return fmt.Errorf("store receipt for line %d: %w", i+1, err)
				}
				line.ReceiptURL = url
			}
		}
		if err := s.lineRepo.CreateBatch(txCtx, report.ID, lines); err != nil {
			return fmt.Errorf("create lines: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to store report", "error", err, "employee_id", input.EmployeeID)
		return nil, err
	}

	report.Lines = lines
	s.logger.Info("Expense report saved",
		"report_id", report.ID,
		"employee_id", report.EmployeeID,
		"status", report.Status.String(),
		"line_count", len(lines))
	return report, nil
}

func (s *reportServiceImpl) glAccountCodes(ctx context.Context) (map[string]bool, error) {
	accounts, err := s.refData.GLAccounts(ctx)
	if err != nil {
		return nil, err
	}
	codes := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		if a.Account != "" {
			codes[a.Account] = true
		}
	}
	return codes, nil
}

func (s *reportServiceImpl) Get(ctx context.Context, id int64) (*entity.Report, error) {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get report", "error", err, "report_id", id)
		return nil, err
	}
	if report == nil {
		return nil, ErrReportNotFound
	}
	return report, nil
}

func (s *reportServiceImpl) ListByEmployee(ctx context.Context, employeeID int64) ([]*entity.Report, error) {
	reports, err := s.reportRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("Failed to list reports", "error", err, "employee_id", employeeID)
		return nil, err
	}
	return reports, nil
}

func (s *reportServiceImpl) Supervisors(ctx context.Context) ([]*entity.User, error) {
	return s.userRepo.ListApprovedSupervisors(ctx)
}
