package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expense-report-service/internal/application/port"
	"expense-report-service/internal/application/service"
	"expense-report-service/internal/domain/entity"
	"expense-report-service/internal/domain/review"
	"expense-report-service/internal/infrastructure/transport/sftp"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeReportService struct {
	report  *entity.Report
	getErr  error
	listed  []*entity.Report
	listErr error
}

func (f *fakeReportService) Submit(_ context.Context, _ service.SubmitReportInput) (*entity.Report, error) {
	return f.report, f.getErr
}

func (f *fakeReportService) Get(_ context.Context, _ int64) (*entity.Report, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.report, nil
}

func (f *fakeReportService) ListByEmployee(_ context.Context, _ int64) ([]*entity.Report, error) {
	return f.listed, f.listErr
}

func (f *fakeReportService) Supervisors(_ context.Context) ([]*entity.User, error) {
	return nil, nil
}

type fakeReviewService struct {
	outcome      review.Outcome
	err          error
	gotReportID  int64
	gotActorID   int64
	gotDecisions review.DecisionSet
}

func (f *fakeReviewService) Review(_ context.Context, reportID, supervisorID int64, decisions review.DecisionSet) (review.Outcome, error) {
	f.gotReportID = reportID
	f.gotActorID = supervisorID
	f.gotDecisions = decisions
	return f.outcome, f.err
}

func (f *fakeReviewService) Queue(_ context.Context, _ int64) ([]*entity.Report, error) {
	return nil, nil
}

type fakeDispatchService struct {
	result    service.DispatchResult
	payload   string
	err       error
	exportErr error
}

func (f *fakeDispatchService) DispatchPending(_ context.Context) (service.DispatchResult, error) {
	return f.result, f.err
}

func (f *fakeDispatchService) ExportPending(_ context.Context) (string, error) {
	return f.payload, f.exportErr
}

type fakeSettingsService struct {
	settings []*entity.AppSetting
	setKey   string
	setValue string
	secret   bool
}

func (f *fakeSettingsService) List(_ context.Context) ([]*entity.AppSetting, error) {
	return f.settings, nil
}

func (f *fakeSettingsService) Set(_ context.Context, key, value string, isSecret bool) error {
	f.setKey, f.setValue, f.secret = key, value, isSecret
	return nil
}

func (f *fakeSettingsService) DispatchSettings(_ context.Context) (sftp.Settings, error) {
	return sftp.Settings{}, nil
}

type fakeRefData struct {
	accounts    []port.GLAccount
	types       []string
	err         error
	invalidated bool
}

func (f *fakeRefData) GLAccounts(_ context.Context) ([]port.GLAccount, error) {
	return f.accounts, f.err
}

func (f *fakeRefData) ExpenseTypes(_ context.Context) ([]string, error) {
	return f.types, f.err
}

func (f *fakeRefData) Invalidate() {
	f.invalidated = true
}

type serverFakes struct {
	reports  *fakeReportService
	reviews  *fakeReviewService
	dispatch *fakeDispatchService
	settings *fakeSettingsService
	refData  *fakeRefData
}

func newTestServer() (*Server, *serverFakes) {
	fakes := &serverFakes{
		reports:  &fakeReportService{},
		reviews:  &fakeReviewService{},
		dispatch: &fakeDispatchService{},
		settings: &fakeSettingsService{},
		refData:  &fakeRefData{},
	}
	server := NewServer(
		DefaultServerConfig(),
		fakes.reports,
		fakes.reviews,
		fakes.dispatch,
		fakes.settings,
		fakes.refData,
		nopLogger{},
	)
	return server, fakes
}

func doJSON(t *testing.T, server *Server, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	server, _ := newTestServer()

	rec := doJSON(t, server, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)
}

func TestReviewReport_Success(t *testing.T) {
	server, fakes := newTestServer()
	fakes.reviews.outcome = review.Outcome{
		Message:  "All expense lines approved. Report queued for NetSuite upload.",
		Severity: review.SeveritySuccess,
	}

	body := ReviewRequest{Decisions: []ReviewDecisionRequest{
		{LineID: 10, Action: "approve"},
		{LineID: 11, Action: "reject", Comment: "missing receipt"},
	}}
	rec := doJSON(t, server, http.MethodPost, "/api/reports/7/review", "42", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), fakes.reviews.gotReportID)
	assert.Equal(t, int64(42), fakes.reviews.gotActorID)
	require.Len(t, fakes.reviews.gotDecisions, 2)
	assert.Equal(t, review.ActionReject, fakes.reviews.gotDecisions[11].Action)
	assert.Contains(t, rec.Body.String(), "queued for NetSuite upload")
	assert.Contains(t, rec.Body.String(), `"severity":"success"`)
}

func TestReviewReport_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "validation error",
			err:        &review.ValidationError{Reason: review.ReasonMissingComment, Msg: "Rejected lines need a comment."},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "not assigned",
			err:        service.ErrNotAssigned,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "not found",
			err:        service.ErrReportNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unexpected failure",
			err:        assert.AnError,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, fakes := newTestServer()
			fakes.reviews.err = tt.err

			body := ReviewRequest{Decisions: []ReviewDecisionRequest{{LineID: 1, Action: "approve"}}}
			rec := doJSON(t, server, http.MethodPost, "/api/reports/7/review", "42", body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), `"success":false`)
		})
	}
}

func TestReviewReport_InvalidAction(t *testing.T) {
	server, fakes := newTestServer()

	body := ReviewRequest{Decisions: []ReviewDecisionRequest{{LineID: 1, Action: "maybe"}}}
	rec := doJSON(t, server, http.MethodPost, "/api/reports/7/review", "42", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// Rejected before the service is ever invoked.
	assert.Zero(t, fakes.reviews.gotReportID)
}

func TestReviewReport_MissingIdentity(t *testing.T) {
	server, _ := newTestServer()

	body := ReviewRequest{Decisions: []ReviewDecisionRequest{{LineID: 1, Action: "approve"}}}
	rec := doJSON(t, server, http.MethodPost, "/api/reports/7/review", "", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "X-User-ID")
}

func TestGetReport_OwnershipEnforced(t *testing.T) {
	server, fakes := newTestServer()
	fakes.reports.report = &entity.Report{ID: 7, EmployeeID: 1, SupervisorID: 2, Status: entity.StatusDraft}

	rec := doJSON(t, server, http.MethodGet, "/api/reports/7", "99", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/reports/7", "1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/reports/7", "2", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDownloadPendingExport(t *testing.T) {
	server, fakes := newTestServer()
	fakes.dispatch.payload = "report_id,employee_email\n7,emp@example.com\n"

	rec := doJSON(t, server, http.MethodGet, "/api/exports/pending.csv", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	disposition := rec.Header().Get("Content-Disposition")
	assert.True(t, strings.HasPrefix(disposition, `attachment; filename="netsuite-expenses-`), disposition)
	assert.Equal(t, fakes.dispatch.payload, rec.Body.String())
}

func TestDispatch_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "configuration error",
			err:        &port.ConfigurationError{Msg: "NetSuite SFTP credentials are not fully configured."},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "not fully configured",
		},
		{
			name:       "transport failure",
			err:        &port.DispatchError{Op: "connect", Err: assert.AnError},
			wantStatus: http.StatusBadGateway,
			wantBody:   "dispatch to the accounting endpoint failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, fakes := newTestServer()
			fakes.dispatch.err = tt.err

			rec := doJSON(t, server, http.MethodPost, "/api/dispatch", "", nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestDispatch_Success(t *testing.T) {
	server, fakes := newTestServer()
	fakes.dispatch.result = service.DispatchResult{
		BatchID:     "b-1",
		ReportCount: 3,
		Filename:    "netsuite-expenses-2026-08-01.csv",
	}

	rec := doJSON(t, server, http.MethodPost, "/api/dispatch", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"report_count":3`)
	assert.Contains(t, rec.Body.String(), "netsuite-expenses-2026-08-01.csv")
}

func TestReferenceData_DegradedService(t *testing.T) {
	server, fakes := newTestServer()
	fakes.refData.err = &port.ReferenceDataError{Msg: "reference workbook could not be read"}

	rec := doJSON(t, server, http.MethodGet, "/api/reference/gl-accounts", "", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReloadReferenceData(t *testing.T) {
	server, fakes := newTestServer()

	rec := doJSON(t, server, http.MethodPost, "/api/reference/reload", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, fakes.refData.invalidated)
}

func TestUpdateSetting(t *testing.T) {
	server, fakes := newTestServer()

	body := UpdateSettingRequest{Key: entity.SettingSFTPHost, Value: "sftp.example.com"}
	rec := doJSON(t, server, http.MethodPut, "/api/admin/settings", "", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.SettingSFTPHost, fakes.settings.setKey)
	assert.Equal(t, "sftp.example.com", fakes.settings.setValue)
}
