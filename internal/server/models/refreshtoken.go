package models

import "time"

// RefreshToken is the single stored refresh record of a user. Only the
// SHA-256 hash of the issued token is kept.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Active reports whether the record is still usable at now.
func (r *RefreshToken) Active(now time.Time) bool {
	return now.Before(r.ExpiresAt)
}
