package models

import (
	"time"
)

// Role is the closed set of account roles. Authorization decisions match
// exhaustively on this type; there is no free-form role string anywhere else.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleStaff Role = "STAFF"
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff:
		return true
	}
	return false
}

// SeedAdminUsername is the protected bootstrap account. It cannot be deleted,
// deactivated or demoted through the API.
const SeedAdminUsername = "admin"

// User is a staff or admin account.
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:100" json:"email"`
	FullName     string    `gorm:"size:100;not null" json:"fullName"`
	MobileNumber string    `gorm:"size:15;not null" json:"mobileNumber"`
	PasswordHash string    `gorm:"size:120;not null" json:"-"`
	Role         Role      `gorm:"size:20;not null" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedDate  time.Time `gorm:"autoCreateTime" json:"createdDate"`
}

// IsSeedAdmin reports whether u is the protected bootstrap admin.
func (u *User) IsSeedAdmin() bool {
	return u.Username == SeedAdminUsername
}
