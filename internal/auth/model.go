package auth

import "time"

const (
	RoleAdmin      = "ADMIN"
	RoleSupervisor = "SUPERVISOR"
)

// User is the domain entity.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleSupervisor
}
