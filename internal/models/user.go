package models

import "time"

// User represents a registered account.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;type:varchar(100);not null" validate:"required"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"` // Never serialized for security
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser is the subset of User that is safe to return to clients.
type PublicUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// Public returns the client-facing view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username}
}
