package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/domain/repository"
	pkgAuth "github.com/polkiloo/digistore/internal/pkg/auth"
)

// AuthUseCase handles user lifecycle and token management.
type AuthUseCase struct {
	users        repository.UserRepository
	hasher       pkgAuth.PasswordHasher
	tokens       pkgAuth.Strategy
	gamification *GamificationUseCase
	settings     Settings
	logger       *slog.Logger
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(
	users repository.UserRepository,
	hasher pkgAuth.PasswordHasher,
	strategy pkgAuth.Strategy,
	gamification *GamificationUseCase,
	settings Settings,
	logger *slog.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		users:        users,
		hasher:       hasher,
		tokens:       strategy,
		gamification: gamification,
		settings:     settings,
		logger:       logger,
	}
}

// bcrypt ignores input past this length.
const maxPasswordBytes = 72

// Register creates a new customer account and returns auth token.
func (u *AuthUseCase) Register(ctx context.Context, login, email, password string) (*model.User, string, error) {
	if !u.settings.Flags.RegistrationEnabled {
		return nil, "", domainErrors.ErrRegistrationClosed
	}
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}
	if len(password) > maxPasswordBytes {
		return nil, "", fmt.Errorf("%w: password longer than %d bytes", domainErrors.ErrValidation, maxPasswordBytes)
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	usr, err := u.users.Create(ctx, login, strings.TrimSpace(email), hash, model.RoleUser)
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, "", domainErrors.ErrAlreadyExists
		}
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// Authenticate validates credentials and returns auth token. The daily login
// bonus is awarded best-effort.
func (u *AuthUseCase) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	if profile, awarded, err := u.gamification.AwardDailyLoginXP(ctx, usr.ID); err != nil {
		u.logger.Warn("daily login xp failed", slog.Int64("user_id", usr.ID), slog.String("error", err.Error()))
	} else if awarded {
		usr.XP, usr.Level = profile.XP, profile.Level
	}

	return usr, token, nil
}

// ParseToken extracts user ID from provided token.
func (u *AuthUseCase) ParseToken(token string) (int64, error) {
	if token == "" {
		return 0, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// Principal resolves the current role of an authenticated user.
func (u *AuthUseCase) Principal(ctx context.Context, userID int64) (model.Principal, error) {
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return model.Principal{}, domainErrors.ErrUnauthorized
		}
		return model.Principal{}, err
	}
	return model.Principal{UserID: usr.ID, Role: usr.Role}, nil
}

// GetByID fetches user by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}

// SeedAdmin creates the bootstrap administrator or promotes an existing
// account with the same login. The password is only used on creation.
func (u *AuthUseCase) SeedAdmin(ctx context.Context, login, email, password string) (*model.User, bool, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, false, fmt.Errorf("%w: login is required", domainErrors.ErrValidation)
	}

	existing, err := u.users.GetByLogin(ctx, login)
	switch {
	case err == nil:
		if existing.Role != model.RoleAdmin {
			if err := u.users.SetRole(ctx, existing.ID, model.RoleAdmin); err != nil {
				return nil, false, err
			}
			existing.Role = model.RoleAdmin
		}
		return existing, false, nil
	case !errors.Is(err, domainErrors.ErrNotFound):
		return nil, false, err
	}

	if password == "" {
		return nil, false, fmt.Errorf("%w: password is required", domainErrors.ErrValidation)
	}
	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, false, err
	}
	usr, err := u.users.Create(ctx, login, strings.TrimSpace(email), hash, model.RoleAdmin)
	if err != nil {
		return nil, false, err
	}
	u.logger.Info("administrator seeded", slog.Int64("user_id", usr.ID), slog.String("login", usr.Login))
	return usr, true, nil
}
