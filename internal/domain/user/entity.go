package user

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"  // Full access, manages users and finalizes payroll
	RoleHR     Role = "hr"     // Runs payroll, manages employees and transactions
	RoleViewer Role = "viewer" // Read-only access
)

type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if user has full administrative access
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanRunPayroll checks if user may trigger payroll generation
func (u *User) CanRunPayroll() bool {
	return u.Role == RoleAdmin || u.Role == RoleHR
}
