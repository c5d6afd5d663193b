// Package models defines server-side data models persisted in the database.
package models

import "time"

// Account is a registered user. Email is stored normalised (trimmed,
// lower-cased); PasswordHash is a bcrypt modular-crypt string.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
