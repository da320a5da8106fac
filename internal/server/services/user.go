// Package services contains server-side business logic. This file implements
// UserService, the authenticator: it turns (email, password) into a verified
// identity and resolves bearer tokens back into identities.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/feedbackhub/feedbackhub/internal/common"
	"github.com/feedbackhub/feedbackhub/internal/cryptox"
	"github.com/feedbackhub/feedbackhub/internal/server/auth"
	"github.com/feedbackhub/feedbackhub/internal/server/config"
	"github.com/feedbackhub/feedbackhub/internal/server/models"
	"github.com/feedbackhub/feedbackhub/internal/server/repositories/repomanager"
	"github.com/feedbackhub/feedbackhub/internal/server/validation"
)

// dummyHash is a valid bcrypt hash verified against when the email is
// unknown, so that a failed lookup costs the same as a failed password.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserService provides authentication-related operations:
//   - Register: create accounts
//   - Authenticate / Login: verify credentials and mint tokens
//   - Resolve / ResolveOptional: map bearer tokens to identities
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	bcryptCost                  int
	policy                      validation.PasswordPolicy
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		bcryptCost:                  cfg.BcryptCost,
		policy: validation.PasswordPolicy{
			MinLength:      cfg.MinPasswordLength,
			RequireUpper:   cfg.RequireUppercase,
			RequireLower:   cfg.RequireLowercase,
			RequireDigit:   cfg.RequireDigit,
			RequireSpecial: cfg.RequireSpecial,
		},
	}
}

// Policy returns the active password policy.
func (s *UserService) Policy() validation.PasswordPolicy {
	return s.policy
}

// Register validates the email and password, hashes the password, and
// creates the account. A duplicate email yields common.ErrorAlreadyExists;
// the users table's unique constraint backs this even under a race.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := s.policy.Validate(password); err != nil {
		return nil, err
	}

	hash, err := cryptox.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{Email: email, PasswordHash: hash, IsActive: true}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, common.ErrorInternal
	}

	return u, nil
}

// Authenticate verifies (email, password) and returns the identity. Unknown
// email, wrong password, and inactive account all collapse to the same
// common.ErrorUnauthorized so the response never confirms which one failed.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn the same hashing cost as a real verification
			cryptox.VerifyPassword(password, dummyHash)
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !cryptox.VerifyPassword(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}
	if !user.IsActive {
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}

// Login authenticates and mints a bearer token whose subject is the user's
// email.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}

	token, err := auth.GenerateToken(user.Email, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}

// Resolve verifies a bearer token and returns the identity it names.
// Invalid or expired tokens, unknown subjects, and inactive accounts all
// yield common.ErrorUnauthorized.
func (s *UserService) Resolve(ctx context.Context, token string) (*models.User, error) {
	subject, err := auth.GetSubjectFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !user.IsActive {
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}

// ResolveOptional is Resolve for endpoints that personalize output but do
// not require authentication: a missing or invalid token is nil, never an
// error.
func (s *UserService) ResolveOptional(ctx context.Context, token string) *models.User {
	if token == "" {
		return nil
	}
	user, err := s.Resolve(ctx, token)
	if err != nil {
		return nil
	}
	return user
}
