package entity

// ReportStatus represents a report's position in the review lifecycle
type ReportStatus string

const (
	StatusDraft         ReportStatus = "Draft"
	StatusPendingReview ReportStatus = "Pending Review"
	StatusPendingUpload ReportStatus = "Pending Upload"
	StatusCompleted     ReportStatus = "Completed"
)

var validReportStatuses = map[ReportStatus]bool{
	StatusDraft:         true,
	StatusPendingReview: true,
	StatusPendingUpload: true,
	StatusCompleted:     true,
}

// IsValid returns true if the status is a known report status
func (s ReportStatus) IsValid() bool {
	return validReportStatuses[s]
}

// IsTerminal returns true if the status admits no further transitions
func (s ReportStatus) IsTerminal() bool {
	return s == StatusCompleted
}

// String returns the string representation of the status
func (s ReportStatus) String() string {
	return string(s)
}

// LineReviewStatus represents a single line's review verdict
type LineReviewStatus string

const (
	LinePending  LineReviewStatus = "Pending"
	LineApproved LineReviewStatus = "Approved"
	LineRejected LineReviewStatus = "Rejected"
)

var validLineStatuses = map[LineReviewStatus]bool{
	LinePending:  true,
	LineApproved: true,
	LineRejected: true,
}

// IsValid returns true if the status is a known line review status
func (s LineReviewStatus) IsValid() bool {
	return validLineStatuses[s]
}

// String returns the string representation of the status
func (s LineReviewStatus) String() string {
	return string(s)
}
