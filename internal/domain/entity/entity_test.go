package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportStatus(t *testing.T) {
	for _, s := range []ReportStatus{StatusDraft, StatusPendingReview, StatusPendingUpload, StatusCompleted} {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, ReportStatus("Archived").IsValid())
	assert.False(t, ReportStatus("").IsValid())

	assert.True(t, StatusCompleted.IsTerminal())
	assert.False(t, StatusPendingUpload.IsTerminal())
}

func TestLineReviewStatus(t *testing.T) {
	for _, s := range []LineReviewStatus{LinePending, LineApproved, LineRejected} {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, LineReviewStatus("Maybe").IsValid())
}

func TestReportValidate(t *testing.T) {
	report := &Report{EmployeeID: 1, SupervisorID: 2, Status: StatusDraft}
	require.NoError(t, report.Validate())

	report.Status = "Unknown"
	var domainErr *DomainError
	require.ErrorAs(t, report.Validate(), &domainErr)
	assert.Equal(t, "status", domainErr.Field)

	report = &Report{SupervisorID: 2, Status: StatusDraft}
	require.ErrorAs(t, report.Validate(), &domainErr)
	assert.Equal(t, "employee_id", domainErr.Field)
}

func TestLineValidate(t *testing.T) {
	tests := []struct {
		name      string
		line      Line
		wantField string
	}{
		{
			name: "pending line is valid",
			line: Line{ReviewStatus: LinePending, Amount: decimal.NewFromInt(10)},
		},
		{
			name:      "rejected line needs a comment",
			line:      Line{ReviewStatus: LineRejected, Amount: decimal.NewFromInt(10)},
			wantField: "review_comment",
		},
		{
			name:      "approved line must not carry a comment",
			line:      Line{ReviewStatus: LineApproved, ReviewComment: "looks fine", Amount: decimal.NewFromInt(10)},
			wantField: "review_comment",
		},
		{
			name:      "negative amount",
			line:      Line{ReviewStatus: LinePending, Amount: decimal.NewFromInt(-1)},
			wantField: "amount",
		},
		{
			name:      "unknown status",
			line:      Line{ReviewStatus: "Maybe", Amount: decimal.NewFromInt(10)},
			wantField: "review_status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.line.Validate()
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			var domainErr *DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.wantField, domainErr.Field)
		})
	}
}

func TestNormalizeMonth(t *testing.T) {
	in := time.Date(2026, time.March, 17, 14, 30, 0, 0, time.Local)
	got := NormalizeMonth(in)

	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), got)
	// Already-normalized values are untouched.
	assert.Equal(t, got, NormalizeMonth(got))
}

func TestUserCanReview(t *testing.T) {
	assert.True(t, (&User{Role: RoleSupervisor, Approved: true}).CanReview())
	assert.False(t, (&User{Role: RoleSupervisor, Approved: false}).CanReview())
	assert.False(t, (&User{Role: RoleEmployee, Approved: true}).CanReview())
	assert.False(t, (&User{Role: RoleSuperAdmin, Approved: true}).CanReview())
}
