package entity

import "time"

// Role constants for User
const (
	RoleEmployee   = "employee"
	RoleSupervisor = "supervisor"
	RoleSuperAdmin = "super_admin"
)

// User is a registered application user. Authentication and role
// bookkeeping live outside this service; reports only reference users as
// owners (employee) and reviewers (supervisor).
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         string    `json:"role"`
	Approved     bool      `json:"approved"`
	SupervisorID *int64    `json:"supervisor_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CanReview returns true if the user is an approved supervisor.
func (u *User) CanReview() bool {
	return u.Role == RoleSupervisor && u.Approved
}
