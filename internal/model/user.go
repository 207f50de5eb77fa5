// Package model defines the data structures used throughout the application.
package model

import "time"

// User is an account created on first Google login.
//
// ID is our own xid; GoogleID is the provider's stable subject id and is what
// a returning login is matched on. Email, DisplayName and AvatarURL are
// refreshed from the provider every time the user logs in.
type User struct {
	ID          string    `json:"id"           db:"id"`
	GoogleID    string    `json:"google_id"    db:"google_id"`
	Email       string    `json:"email"        db:"email"`
	DisplayName string    `json:"display_name" db:"display_name"`
	AvatarURL   string    `json:"avatar_url"   db:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"   db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"   db:"updated_at"`
}
