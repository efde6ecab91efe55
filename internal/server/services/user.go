// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and bearer-token checks.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/kynetix/internal/common"
	"github.com/dmitrijs2005/kynetix/internal/dbx"
	"github.com/dmitrijs2005/kynetix/internal/logging"
	"github.com/dmitrijs2005/kynetix/internal/server/models"
	"github.com/dmitrijs2005/kynetix/internal/server/repositories/repomanager"
)

// PasswordHasher is the credential codec used by UserService.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
	NeedsRehash(encoded string) bool
	// Burn spends the same work as a Verify without checking anything.
	Burn(password string)
}

// TokenIssuer mints and checks bearer tokens bound to a user id.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
	Verify(token string) (int64, error)
}

// UserService provides authentication-related operations:
//   - Register: validate input, hash the password and create the user
//   - Login: verify credentials and mint an access token
//   - Authenticate / Profile: resolve a bearer token to the caller's profile
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	tokens      TokenIssuer
	logger      logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, tokens TokenIssuer, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		logger:      logger.With("module", "user_service"),
	}
}

// Register creates a new user and returns its public profile.
//
// Errors: *common.ValidationError for bad input, common.ErrorConflict when the
// phone number or email is taken, common.ErrorStorage when the database fails.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.Profile, error) {
	in, err := ValidateRegistration(in)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: hashing password: %w", common.ErrorInternal, err)
	}

	user := models.NewUser(in.PhoneNumber, in.FullName, in.Email, hash)

	var created *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		created, err = s.repomanager.Users(tx).Create(ctx, user)
		return err
	})
	if err != nil {
		return nil, storageError(err)
	}

	s.logger.Info(ctx, "user registered", "user_id", created.ID)
	return created.Profile(), nil
}

// Login checks the phone number and password and returns the user's profile
// with a fresh access token.
//
// Unknown phone numbers, wrong passwords and deactivated accounts all return
// the same common.ErrorUnauthorized, so callers cannot tell which one it was.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*models.Profile, string, error) {
	phone := strings.TrimSpace(in.PhoneNumber)
	if phone == "" || in.Password == "" {
		return nil, "", common.ErrorUnauthorized
	}

	var user *models.User
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) error {
		var err error
		user, err = s.repomanager.Users(conn).GetUserByPhone(ctx, phone)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Burn(in.Password)
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", storageError(err)
	}

	if !s.hasher.Verify(in.Password, user.HashedPassword) {
		return nil, "", common.ErrorUnauthorized
	}

	if !user.IsActive {
		s.logger.Warn(ctx, "login attempt for inactive user", "user_id", user.ID)
		return nil, "", common.ErrorUnauthorized
	}

	if s.hasher.NeedsRehash(user.HashedPassword) {
		s.logger.Info(ctx, "password hash uses outdated parameters", "user_id", user.ID)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("%w: issuing token: %w", common.ErrorInternal, err)
	}

	return user.Profile(), token, nil
}

// Authenticate resolves a bearer token to a user id.
func (s *UserService) Authenticate(ctx context.Context, token string) (int64, error) {
	return s.tokens.Verify(token)
}

// Profile returns the public profile of an authenticated caller. A user that
// no longer exists or was deactivated is treated as unauthenticated.
func (s *UserService) Profile(ctx context.Context, userID int64) (*models.Profile, error) {
	var user *models.User
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) error {
		var err error
		user, err = s.repomanager.Users(conn).GetUserByID(ctx, userID)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, storageError(err)
	}

	if !user.IsActive {
		return nil, common.ErrorUnauthorized
	}

	return user.Profile(), nil
}

// storageError passes through conflicts and storage errors and tags anything
// else coming out of the database layer (pool checkout, begin, commit) as
// a storage failure.
func storageError(err error) error {
	if errors.Is(err, common.ErrorConflict) || errors.Is(err, common.ErrorStorage) {
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrorStorage, err)
}
