package user

import "time"

type Role string

const (
	RoleEmployee Role = "employee" // Checks in and out
	RoleHR       Role = "hr"       // Can view the daily roster
	RoleAdmin    Role = "admin"    // Full access
)

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleHR, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           string
	EmployeeID   *string
	Name         string
	Email        string
	PhoneNumber  *string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// CanViewRoster checks if user may read every employee's attendance
func (u *User) CanViewRoster() bool {
	return u.Role == RoleHR || u.Role == RoleAdmin
}
