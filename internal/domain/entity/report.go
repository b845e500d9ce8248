package entity

import "time"

// Report is an employee's monthly expense submission and the aggregate
// root for its Lines. Supervisors review reports line by line before
// finance dispatches the approved records to the accounting system.
type Report struct {
	ID               int64        `json:"id"`
	EmployeeID       int64        `json:"employee_id"`
	SupervisorID     int64        `json:"supervisor_id"`
	ReportMonth      time.Time    `json:"report_month"` // day normalized to 1st
	Notes            string       `json:"notes"`
	Status           ReportStatus `json:"status"`
	RejectionComment string       `json:"rejection_comment,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`

	// Loaded associations. EmployeeEmail and SupervisorEmail are contact
	// identifiers resolved from the users table; Lines preserve creation
	// order.
	EmployeeEmail   string  `json:"employee_email,omitempty"`
	SupervisorEmail string  `json:"supervisor_email,omitempty"`
	Lines           []*Line `json:"lines,omitempty"`
}

// Validate checks the report against the entity model.
func (r *Report) Validate() error {
	if !r.Status.IsValid() {
		return &DomainError{Field: "status", Msg: "unknown report status " + string(r.Status)}
	}
	if r.EmployeeID == 0 {
		return &DomainError{Field: "employee_id", Msg: "employee reference is required"}
	}
	if r.SupervisorID == 0 {
		return &DomainError{Field: "supervisor_id", Msg: "supervisor reference is required"}
	}
	return nil
}

// NormalizeMonth returns t with the day-of-month forced to the 1st.
func NormalizeMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
