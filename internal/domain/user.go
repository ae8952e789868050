package domain

import "time"

// Role enumerates civil-service account permission levels, lowest first.
type Role string

const (
	RoleEmployee   Role = "employee"
	RoleManager    Role = "manager"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

var roleRank = map[Role]int{
	RoleEmployee:   0,
	RoleManager:    1,
	RoleAdmin:      2,
	RoleSuperAdmin: 3,
}

// Valid reports whether the role is a recognized value.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether the role sits at or above min in the hierarchy
// employee < manager < admin < super_admin.
func (r Role) AtLeast(min Role) bool {
	rank, ok := roleRank[r]
	if !ok {
		return false
	}
	minRank, ok := roleRank[min]
	if !ok {
		return false
	}
	return rank >= minRank
}

// User is a login account. Distinct from Employee: employees are tracked
// staff records with no credentials.
type User struct {
	ID                   string
	FirstName            string
	LastName             string
	Email                string
	PasswordHash         string
	Role                 Role
	IsActive             bool
	LastLogin            *time.Time
	PasswordChangedAt    *time.Time
	PasswordResetToken   *string
	PasswordResetExpires *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ChangedPasswordAfter reports whether the password changed after the given
// token issue time. Tokens issued before a password change are stale.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt.Before(*u.PasswordChangedAt)
}
