package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Line is one individual expense item within a Report. Lines are created
// together with their parent report and cascade with it on delete.
type Line struct {
	ID            int64            `json:"id"`
	ReportID      int64            `json:"report_id"`
	Date          time.Time        `json:"date"`
	ExpenseType   string           `json:"expense_type"`
	GLAccount     string           `json:"gl_account"`
	Vendor        string           `json:"vendor"`
	Description   string           `json:"description,omitempty"`
	Amount        decimal.Decimal  `json:"amount"`
	ReceiptURL    string           `json:"receipt_url,omitempty"`
	ReviewStatus  LineReviewStatus `json:"review_status"`
	ReviewComment string           `json:"review_comment,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// Validate checks the line against the entity model. A rejected line must
// carry a review comment; an approved line must not.
func (l *Line) Validate() error {
	if !l.ReviewStatus.IsValid() {
		return &DomainError{Field: "review_status", Msg: "unknown line review status " + string(l.ReviewStatus)}
	}
	if l.ReviewStatus == LineRejected && l.ReviewComment == "" {
		return &DomainError{Field: "review_comment", Msg: "rejected line requires a review comment"}
	}
	if l.ReviewStatus == LineApproved && l.ReviewComment != "" {
		return &DomainError{Field: "review_comment", Msg: "approved line must not carry a review comment"}
	}
	if l.Amount.IsNegative() {
		return &DomainError{Field: "amount", Msg: "amount must not be negative"}
	}
	return nil
}
