package models

import "time"

// User describes a staff account with admin access to survey exports.
// Accounts are provisioned out of band; there is no self-registration.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	// MustChangePassword blocks every protected operation except the
	// password change itself until a new password is set.
	MustChangePassword bool `gorm:"default:false" json:"must_change_password"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the table aligned with the provisioning scripts.
func (User) TableName() string { return "users" }
