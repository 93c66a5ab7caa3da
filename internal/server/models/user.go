// Package models defines the records the development backend keeps and the
// JSON it sends for them.
package models

import "time"

const (
	RoleRegular       = 0
	RoleAdministrator = 1
)

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID             int64     `json:"userID"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Role           int       `json:"role"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	PasswordHash   []byte    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdministrator
}
