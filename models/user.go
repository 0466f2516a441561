package models

import "time"

// Roles ordered by capability. Review needs supervisor, approval needs manager.
const (
	RoleOperator   = "operator"
	RoleSupervisor = "supervisor"
	RoleManager    = "manager"
)

var roleRanks = map[string]int{
	RoleOperator:   1,
	RoleSupervisor: 2,
	RoleManager:    3,
}

// RoleAtLeast reports whether role carries at least the capability of
// required. Unknown roles never qualify.
func RoleAtLeast(role, required string) bool {
	r, ok := roleRanks[role]
	req, ok2 := roleRanks[required]
	return ok && ok2 && r >= req
}

type User struct {
	ID        int       `json:"id"`
	UserID    string    `json:"userId"`
	Mobile    string    `json:"mobile"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// SafeUser is the identity view returned by the API. The password never
// crosses the service boundary.
type SafeUser struct {
	ID     int    `json:"id"`
	UserID string `json:"userId"`
	Mobile string `json:"mobile"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

func (u *User) Sanitize() SafeUser {
	return SafeUser{
		ID:     u.ID,
		UserID: u.UserID,
		Mobile: u.Mobile,
		Name:   u.Name,
		Role:   u.Role,
	}
}

type InsertUser struct {
	UserID   string
	Mobile   string
	Password string
	Role     string
	Name     string
}

type LoginRequest struct {
	UserID   string `json:"userId" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type CreateUserRequest struct {
	UserID   string `json:"userId" binding:"required"`
	Mobile   string `json:"mobile" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=operator supervisor manager"`
	Name     string `json:"name" binding:"required"`
}
