package models

import "time"

// Admin defines the admin model based on the 'admins' table
type Admin struct {
	ID                int64      `json:"id" db:"id"`
	Username          string     `json:"username" db:"username"`
	Password          string     `json:"-" db:"password"` // bcrypt hash, excluded from JSON
	Email             string     `json:"email" db:"email"`
	ResetToken        *string    `json:"-" db:"reset_token"`
	ResetTokenExpires *time.Time `json:"-" db:"reset_token_expires"`
	CreatedAt         time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time  `json:"updatedAt" db:"updated_at"`
}
