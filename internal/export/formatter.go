// Package export serializes approved expense lines into the flat CSV
// payload consumed by the NetSuite import.
package export

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"expense-report-service/internal/domain/entity"
)

// Header is the mandatory first row of every export payload. Field order
// is part of the wire contract with the accounting system.
var Header = []string{
	"report_id",
	"employee_email",
	"supervisor_email",
	"expense_date",
	"expense_type",
	"gl_account",
	"vendor",
	"description",
	"amount",
	"receipt_url",
}

// FormatBatch flattens the given reports into one CSV payload, one row
// per approved line. Callers are expected to pass reports already
// filtered to Pending Upload status; the formatter does not re-check the
// report status, but it does skip any line that is not Approved so a
// stray unresolved line can never leak into the accounting feed.
func FormatBatch(reports []*entity.Report) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(Header); err != nil {
		return "", fmt.Errorf("failed to write export header: %w", err)
	}

	for _, report := range reports {
		for _, line := range report.Lines {
			if line.ReviewStatus != entity.LineApproved {
				continue
			}
			row := []string{
				strconv.FormatInt(report.ID, 10),
				report.EmployeeEmail,
				report.SupervisorEmail,
				line.Date.Format("2006-01-02"),
				line.ExpenseType,
				line.GLAccount,
				line.Vendor,
				line.Description,
				line.Amount.StringFixed(2),
				line.ReceiptURL,
			}
			if err := w.Write(row); err != nil {
				return "", fmt.Errorf("failed to write export row for report %d: %w", report.ID, err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush export payload: %w", err)
	}
	return sb.String(), nil
}

// BatchFilename returns the remote filename for a batch dispatched at t.
func BatchFilename(t time.Time) string {
	return fmt.Sprintf("netsuite-expenses-%s.csv", t.Format("2006-01-02"))
}
