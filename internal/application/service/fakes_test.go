package service

import (
	"context"
	"errors"

	"expense-report-service/internal/application/port"
	"expense-report-service/internal/domain/entity"
)

type fakeTxManager struct{}

func (fakeTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeReportRepo struct {
	reports     []*entity.Report
	listErr     error
	statusByID  map[int64]entity.ReportStatus
	reviewSaved []int64
}

func newFakeReportRepo(reports ...*entity.Report) *fakeReportRepo {
	repo := &fakeReportRepo{reports: reports, statusByID: make(map[int64]entity.ReportStatus)}
	for _, r := range reports {
		repo.statusByID[r.ID] = r.Status
	}
	return repo
}

func (f *fakeReportRepo) Create(_ context.Context, report *entity.Report) error {
	report.ID = int64(len(f.reports) + 1)
	f.reports = append(f.reports, report)
	f.statusByID[report.ID] = report.Status
	return nil
}

func (f *fakeReportRepo) GetByID(_ context.Context, id int64) (*entity.Report, error) {
	for _, r := range f.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeReportRepo) ListByEmployee(_ context.Context, employeeID int64) ([]*entity.Report, error) {
	var out []*entity.Report
	for _, r := range f.reports {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReportRepo) ListBySupervisorAndStatus(_ context.Context, supervisorID int64, status entity.ReportStatus) ([]*entity.Report, error) {
	var out []*entity.Report
	for _, r := range f.reports {
		if r.SupervisorID == supervisorID && r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReportRepo) ListByStatus(_ context.Context, status entity.ReportStatus) ([]*entity.Report, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*entity.Report
	for _, r := range f.reports {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReportRepo) UpdateReview(_ context.Context, report *entity.Report) error {
	f.reviewSaved = append(f.reviewSaved, report.ID)
	f.statusByID[report.ID] = report.Status
	return nil
}

func (f *fakeReportRepo) UpdateStatuses(_ context.Context, ids []int64, status entity.ReportStatus) error {
	for _, id := range ids {
		f.statusByID[id] = status
		for _, r := range f.reports {
			if r.ID == id {
				r.Status = status
			}
		}
	}
	return nil
}

type fakeLineRepo struct {
	created []*entity.Line
	updated []*entity.Line
}

func (f *fakeLineRepo) CreateBatch(_ context.Context, reportID int64, lines []*entity.Line) error {
	for i, line := range lines {
		line.ID = int64(i + 1)
		line.ReportID = reportID
	}
	f.created = append(f.created, lines...)
	return nil
}

func (f *fakeLineRepo) UpdateReview(_ context.Context, line *entity.Line) error {
	f.updated = append(f.updated, line)
	return nil
}

type fakeUserRepo struct {
	users map[int64]*entity.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) ListApprovedSupervisors(_ context.Context) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range f.users {
		if u.CanReview() {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeRefData struct {
	accounts []port.GLAccount
	types    []string
	err      error
}

func (f *fakeRefData) GLAccounts(context.Context) ([]port.GLAccount, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.accounts, nil
}

func (f *fakeRefData) ExpenseTypes(context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.types, nil
}

func (f *fakeRefData) Invalidate() {}

type fakeReceiptStorage struct {
	stored int
}

func (f *fakeReceiptStorage) Store(_ context.Context, reportID int64, lineIndex int, _ string, _ []byte) (string, error) {
	f.stored++
	return "local://receipts/1", nil
}

type uploadCall struct {
	filename string
	payload  []byte
}

type fakeTransport struct {
	validateErr error
	uploadErr   error
	uploads     []uploadCall
}

func (f *fakeTransport) Validate(context.Context) error {
	return f.validateErr
}

func (f *fakeTransport) Upload(_ context.Context, filename string, payload []byte) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads = append(f.uploads, uploadCall{filename: filename, payload: payload})
	return nil
}

var errBoom = errors.New("boom")
