package auth

import "time"

// TokenManager holds the two signing secrets and lifetimes of a session.
// Access and refresh tokens must use different secrets so that one can
// never be presented as the other.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// IssueAccess returns an access token for userID and its expiry.
func (m *TokenManager) IssueAccess(userID string, now time.Time) (string, time.Time, error) {
	return GenerateToken(userID, m.accessSecret, now, m.accessTTL)
}

// IssueRefresh returns a refresh token for userID and its expiry.
func (m *TokenManager) IssueRefresh(userID string, now time.Time) (string, time.Time, error) {
	return GenerateToken(userID, m.refreshSecret, now, m.refreshTTL)
}

// VerifyAccess is stateless: signature and expiry only.
func (m *TokenManager) VerifyAccess(token string, now time.Time) (string, error) {
	return GetUserIDFromToken(token, m.accessSecret, now)
}
