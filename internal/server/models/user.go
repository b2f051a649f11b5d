// Package models defines server-side data models persisted by the
// repositories.
package models

import "time"

// User is a registered account. Email is unique and compared exactly as
// stored; PasswordHash is a salted bcrypt hash.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}
