// Package services contains server-side business logic. This file implements
// UserService, the identity gateway: signup, login, and resolving the current
// user from a request's Authorization header.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/codequest-dev/codequest/internal/common"
	"github.com/codequest-dev/codequest/internal/dbx"
	"github.com/codequest-dev/codequest/internal/logging"
	"github.com/codequest-dev/codequest/internal/server/auth"
	"github.com/codequest-dev/codequest/internal/server/config"
	"github.com/codequest-dev/codequest/internal/server/models"
	"github.com/codequest-dev/codequest/internal/server/repositories/repomanager"
)

// SignupParams carries the signup request fields. Optional fields default in
// Signup: Level to "beginner", Profile to the empty-state document.
type SignupParams struct {
	Name         string
	Email        string
	Password     string
	ProfilePhoto string
	Level        string
	Problems     []string
	Quizzes      []string
	Profile      json.RawMessage
}

// UserService provides authentication-related operations:
// - Signup: create accounts with unique emails
// - Login: verify credentials and mint a bearer token
// - ResolveUser: authenticate a request from its Authorization header
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	logger                logging.Logger
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, l logging.Logger) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		logger:                l.With("module", "user_service"),
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// normalizeEmail fixes the case policy for uniqueness and lookup: emails are
// trimmed and lowercased on every path that touches the users table.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates a new account. The duplicate check and the insert run in one
// transaction; the unique index on email is the backstop for concurrent
// signups racing past the check, so exactly one of two racing signups wins
// and the other gets common.ErrorAlreadyExists.
func (s *UserService) Signup(ctx context.Context, p SignupParams) (*models.User, error) {

	email := normalizeEmail(p.Email)

	level := strings.ToLower(strings.TrimSpace(p.Level))
	if level == "" {
		level = "beginner"
	}

	profile := p.Profile
	if len(profile) == 0 {
		profile = models.DefaultProfile()
	}

	passwordHash, err := auth.HashPassword(p.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         p.Name,
		Email:        email,
		PasswordHash: passwordHash,
		ProfilePhoto: p.ProfilePhoto,
		Level:        level,
		Problems:     p.Problems,
		Quizzes:      p.Quizzes,
		Profile:      profile,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetByEmail(ctx, email)
		if err == nil {
			return common.ErrorAlreadyExists
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		_, err = repo.Create(ctx, user)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and, on success, returns a bearer token and
// the user. An unknown email and a wrong password both return
// common.ErrInvalidCredentials so callers cannot tell the cases apart.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "login lookup failed", "error", err.Error())
		return "", nil, common.ErrorInternal
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return "", nil, common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		s.logger.Error(ctx, "token issue failed", "error", err.Error())
		return "", nil, common.ErrorInternal
	}

	return token, user, nil
}

// ResolveUser authenticates a request from its raw Authorization header
// value. The header must start with "Bearer "; this is checked before any
// token parsing. A valid token whose subject no longer exists is still an
// authentication failure: tokens do not prove continued account existence.
//
// Failure causes stay distinct here for logging; the HTTP boundary collapses
// them all into one unauthorized response.
func (s *UserService) ResolveUser(ctx context.Context, authHeader string) (*models.User, error) {
	if !strings.HasPrefix(authHeader, common.BearerSchemePrefix) {
		return nil, common.ErrMalformedAuthHeader
	}

	claims, err := auth.ParseToken(strings.TrimPrefix(authHeader, common.BearerSchemePrefix), s.jwtSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "user lookup failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	return user, nil
}
