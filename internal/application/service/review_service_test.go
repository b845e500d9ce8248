package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expense-report-service/internal/domain/entity"
	"expense-report-service/internal/domain/review"
)

func reviewableReport() *entity.Report {
	return &entity.Report{
		ID:           1,
		EmployeeID:   10,
		SupervisorID: 20,
		Status:       entity.StatusPendingReview,
		Lines: []*entity.Line{
			{ID: 1, ReportID: 1, Amount: decimal.NewFromInt(100), ReviewStatus: entity.LinePending},
			{ID: 2, ReportID: 1, Amount: decimal.NewFromInt(25), ReviewStatus: entity.LinePending},
		},
	}
}

func TestReviewPersistsLinesAndReportTogether(t *testing.T) {
	repo := newFakeReportRepo(reviewableReport())
	lines := &fakeLineRepo{}
	svc := NewReviewService(repo, lines, fakeTxManager{}, nopLogger{})

	decisions := review.DecisionSet{
		1: {LineID: 1, Action: review.ActionApprove},
		2: {LineID: 2, Action: review.ActionApprove},
	}
	outcome, err := svc.Review(context.Background(), 1, 20, decisions)
	require.NoError(t, err)

	assert.Equal(t, review.SeveritySuccess, outcome.Severity)
	assert.Len(t, lines.updated, 2)
	assert.Equal(t, []int64{1}, repo.reviewSaved)
	assert.Equal(t, entity.StatusPendingUpload, repo.statusByID[1])
}

func TestReviewRejectsUnassignedSupervisor(t *testing.T) {
	repo := newFakeReportRepo(reviewableReport())
	lines := &fakeLineRepo{}
	svc := NewReviewService(repo, lines, fakeTxManager{}, nopLogger{})

	_, err := svc.Review(context.Background(), 1, 99, review.DecisionSet{})

	require.ErrorIs(t, err, ErrNotAssigned)
	assert.Empty(t, lines.updated)
}

func TestReviewUnknownReport(t *testing.T) {
	svc := NewReviewService(newFakeReportRepo(), &fakeLineRepo{}, fakeTxManager{}, nopLogger{})

	_, err := svc.Review(context.Background(), 404, 20, review.DecisionSet{})

	require.ErrorIs(t, err, ErrReportNotFound)
}

func TestReviewValidationErrorSkipsPersistence(t *testing.T) {
	repo := newFakeReportRepo(reviewableReport())
	lines := &fakeLineRepo{}
	svc := NewReviewService(repo, lines, fakeTxManager{}, nopLogger{})

	// Rejection without a comment fails validation before persistence.
	decisions := review.DecisionSet{
		1: {LineID: 1, Action: review.ActionReject, Comment: ""},
		2: {LineID: 2, Action: review.ActionApprove},
	}
	_, err := svc.Review(context.Background(), 1, 20, decisions)

	var verr *review.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, lines.updated)
	assert.Empty(t, repo.reviewSaved)
	assert.Equal(t, entity.StatusPendingReview, repo.statusByID[1])
}
