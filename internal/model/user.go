package model

import "time"

// User is a registered account.
//
// Two ways in: email/password (PasswordHash set, bcrypt) or Google sign-in
// (GoogleID set to Google's stable subject identifier). An account created via
// OAuth has an empty PasswordHash and can't log in with a password.
//
// PasswordHash is never serialized — note the json:"-".
type User struct {
	ID           string    `json:"id"        db:"id"`
	Email        string    `json:"email"     db:"email"`
	Name         string    `json:"name"      db:"name"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	GoogleID     string    `json:"-"         db:"google_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
