package entity

type UserRole string

const (
	RoleCounter UserRole = "counter"
	RoleAdmin   UserRole = "admin"
)

// User is a ticket counter account. Admins manage the fleet and may cancel
// bookings; counters only sell.
type User struct {
	Base
	CounterCode  string   `db:"counter_code"`
	Name         string   `db:"name"`
	PasswordHash string   `db:"password"`
	Role         UserRole `db:"role"`
	IsActive     bool     `db:"is_active"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
