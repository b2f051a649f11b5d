// Package services contains server-side business logic. This file implements
// SessionService, which registers users, logs them in, verifies access tokens
// and exchanges stored refresh tokens for new access tokens.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskpulse/internal/common"
	"github.com/dmitrijs2005/taskpulse/internal/logging"
	"github.com/dmitrijs2005/taskpulse/internal/server/auth"
	"github.com/dmitrijs2005/taskpulse/internal/server/config"
	"github.com/dmitrijs2005/taskpulse/internal/server/metrics"
	"github.com/dmitrijs2005/taskpulse/internal/server/models"
	"github.com/dmitrijs2005/taskpulse/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
)

// maxPasswordBytes is the longest input bcrypt hashes.
const maxPasswordBytes = 72

var validate = validator.New()

// dummyPassword is hashed once at startup so that a login for an unknown
// email costs one bcrypt comparison, like a login with a wrong password.
const dummyPassword = "taskpulse-dummy-password"

// TokenPair bundles a short-lived access token and a long-lived refresh token.
// RefreshToken is empty when a refresh did not rotate it.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// SessionService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials, mint tokens, replace the stored refresh record
// - VerifyAccess: stateless access-token check
// - Refresh: mint an access token for a stored refresh token
// - Logout: drop the user's refresh record
type SessionService struct {
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenManager
	bcryptCost  int
	rotate      bool
	dummyHash   []byte
	now         func() time.Time
	log         logging.Logger
}

// NewSessionService constructs a SessionService using repositories and server config.
func NewSessionService(m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) (*SessionService, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("token secrets must be set")
	}
	dummy, err := auth.HashPassword(dummyPassword, cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}
	if log == nil {
		log = logging.Nop{}
	}
	return &SessionService{
		repomanager: m,
		tokens: auth.NewTokenManager(cfg.AccessSecret, cfg.RefreshSecret,
			cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration),
		bcryptCost: cfg.BcryptCost,
		rotate:     cfg.RotateRefreshTokens,
		dummyHash:  dummy,
		now:        time.Now,
		log:        log,
	}, nil
}

// Register creates a new user. A taken email fails with common.ErrDuplicateUser.
func (s *SessionService) Register(ctx context.Context, email, password string) (u *models.User, err error) {
	defer func() { record("register", err) }()

	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	repo := s.repomanager.Users(s.repomanager.Conn())
	u, err = repo.Create(ctx, &models.User{Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUser) {
			return nil, common.ErrDuplicateUser
		}
		return nil, s.storeError(ctx, "create user", err)
	}

	s.log.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Login verifies the password and, on success, returns a new TokenPair. The
// user's previous refresh record is replaced by the new one atomically, so
// only the newest login can refresh.
func (s *SessionService) Login(ctx context.Context, email, password string) (pair *TokenPair, err error) {
	defer func() { record("login", err) }()

	repo := s.repomanager.Users(s.repomanager.Conn())
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = auth.CheckPassword(s.dummyHash, password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, s.storeError(ctx, "find user", err)
	}

	// bcrypt ignores everything past 72 bytes
	if len(password) > maxPasswordBytes {
		_, _ = auth.CheckPassword(s.dummyHash, password)
		return nil, common.ErrInvalidCredentials
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		s.log.Warn(ctx, "password check failed", "user_id", user.ID, "error", err)
		return nil, common.ErrInvalidCredentials
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	now := s.now()
	pair = &TokenPair{}
	pair.AccessToken, _, err = s.tokens.IssueAccess(user.ID, now)
	if err != nil {
		return nil, fmt.Errorf("error issuing access token: %w", err)
	}

	pair.RefreshToken, err = s.replaceRefreshRecord(ctx, user.ID, now)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user logged in", "user_id", user.ID)
	return pair, nil
}

// VerifyAccess checks signature and expiry only; the store is not consulted.
func (s *SessionService) VerifyAccess(token string) (userID string, err error) {
	userID, err = s.tokens.VerifyAccess(token, s.now())
	if err != nil {
		record("verify", err)
		return "", common.ErrUnauthorized
	}
	return userID, nil
}

// Refresh looks up the stored record by the hash of refreshToken and mints a
// new access token for its owner. The token's own signature is not checked:
// the store decides. With rotation enabled the refresh token is replaced too.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (pair *TokenPair, err error) {
	defer func() { record("refresh", err) }()

	if refreshToken == "" {
		return nil, common.ErrUnauthorized
	}

	now := s.now()
	repo := s.repomanager.RefreshTokens(s.repomanager.Conn())
	rec, err := repo.FindByHash(ctx, auth.HashToken(refreshToken), now)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, s.storeError(ctx, "find refresh record", err)
	}

	pair = &TokenPair{}
	pair.AccessToken, _, err = s.tokens.IssueAccess(rec.UserID, now)
	if err != nil {
		return nil, fmt.Errorf("error issuing access token: %w", err)
	}

	if s.rotate {
		pair.RefreshToken, err = s.replaceRefreshRecord(ctx, rec.UserID, now)
		if err != nil {
			return nil, err
		}
	}

	s.log.Debug(ctx, "access token refreshed", "user_id", rec.UserID, "rotated", s.rotate)
	return pair, nil
}

// Logout removes every refresh record of userID. It is idempotent. Access
// tokens already issued stay valid until they expire.
func (s *SessionService) Logout(ctx context.Context, userID string) (err error) {
	defer func() { record("logout", err) }()

	repo := s.repomanager.RefreshTokens(s.repomanager.Conn())
	if err := repo.DeleteForUser(ctx, userID); err != nil {
		return s.storeError(ctx, "delete refresh records", err)
	}

	s.log.Info(ctx, "user logged out", "user_id", userID)
	return nil
}

// --- helpers below ---

// replaceRefreshRecord issues a refresh token for userID and stores its hash
// in place of any earlier record.
func (s *SessionService) replaceRefreshRecord(ctx context.Context, userID string, now time.Time) (string, error) {
	refresh, expires, err := s.tokens.IssueRefresh(userID, now)
	if err != nil {
		return "", fmt.Errorf("error issuing refresh token: %w", err)
	}

	rec := &models.RefreshToken{
		UserID:    userID,
		TokenHash: auth.HashToken(refresh),
		ExpiresAt: expires,
		CreatedAt: now,
	}

	repo := s.repomanager.RefreshTokens(s.repomanager.Conn())
	if err := repo.Replace(ctx, rec); err != nil {
		return "", s.storeError(ctx, "replace refresh record", err)
	}
	return refresh, nil
}

func (s *SessionService) storeError(ctx context.Context, op string, err error) error {
	s.log.Error(ctx, "store failure", "op", op, "error", err)
	return fmt.Errorf("%w: %s: %w", common.ErrStoreUnavailable, op, err)
}

func validateCredentials(email, password string) error {
	switch {
	case strings.TrimSpace(email) == "":
		return fmt.Errorf("%w: email is required", common.ErrValidation)
	case validate.Var(email, "email") != nil:
		return fmt.Errorf("%w: email is invalid", common.ErrValidation)
	case password == "":
		return fmt.Errorf("%w: password is required", common.ErrValidation)
	case len(password) > maxPasswordBytes:
		return fmt.Errorf("%w: password is longer than %d bytes", common.ErrValidation, maxPasswordBytes)
	}
	return nil
}

func record(operation string, err error) {
	metrics.RecordAuthOperation(operation, outcome(err))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, common.ErrValidation):
		return metrics.OutcomeValidation
	case errors.Is(err, common.ErrDuplicateUser):
		return metrics.OutcomeDuplicateUser
	case errors.Is(err, common.ErrInvalidCredentials):
		return metrics.OutcomeInvalidCredentials
	case errors.Is(err, common.ErrUnauthorized):
		return metrics.OutcomeUnauthorized
	case errors.Is(err, common.ErrStoreUnavailable):
		return metrics.OutcomeStoreUnavailable
	default:
		return metrics.OutcomeError
	}
}
