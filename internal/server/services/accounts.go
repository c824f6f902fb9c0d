// Package services holds the forum business logic. Services take an explicit
// models.Actor for the caller and run every mutation in one transaction
// through repomanager.RepositoryManager.WithTx.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/imprint/internal/common"
	"github.com/dmitrijs2005/imprint/internal/dbx"
	"github.com/dmitrijs2005/imprint/internal/logging"
	"github.com/dmitrijs2005/imprint/internal/server/auth"
	"github.com/dmitrijs2005/imprint/internal/server/config"
	"github.com/dmitrijs2005/imprint/internal/server/mail"
	"github.com/dmitrijs2005/imprint/internal/server/models"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// EmailVerifier is the registration gate.
type EmailVerifier interface {
	IsEmailVerified(ctx context.Context, email string) (bool, error)
}

type RegisterInput struct {
	Email    string
	Password string
	Nickname string
	Name     string
}

// AccountService covers registration, sessions, password reset, profile
// changes and account status transitions.
type AccountService struct {
	repomanager                  repomanager.RepositoryManager
	hasher                       PasswordHasher
	mailer                       mail.Sender
	verifier                     EmailVerifier
	log                          logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	resetTokenValidityDuration   time.Duration
	publicBaseURL                string
	now                          func() time.Time
}

func NewAccountService(m repomanager.RepositoryManager, hasher PasswordHasher, mailer mail.Sender,
	verifier EmailVerifier, cfg *config.Config, log logging.Logger) *AccountService {
	return &AccountService{
		repomanager:                  m,
		hasher:                       hasher,
		mailer:                       mailer,
		verifier:                     verifier,
		log:                          log.With("module", "accounts"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		resetTokenValidityDuration:   cfg.ResetTokenValidityDuration,
		publicBaseURL:                strings.TrimRight(cfg.PublicBaseURL, "/"),
		now:                          time.Now,
	}
}

// Register creates an ACTIVE account. The very first account becomes ADMIN;
// the registration lock keeps two concurrent first sign-ups from both
// getting it.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	nickname, err := requireText("nickname", in.Nickname, maxNicknameLen)
	if err != nil {
		return nil, err
	}
	name, err := requireText("name", in.Name, maxNameLen)
	if err != nil {
		return nil, err
	}

	verified, err := s.verifier.IsEmailVerified(ctx, email)
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, common.ErrEmailNotVerified
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var user *models.User
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		if err := repos.Users().LockRegistration(ctx); err != nil {
			return err
		}
		if err := ensureAbsent(repos.Users().GetByEmail(ctx, email)); err != nil {
			return err
		}
		if err := ensureAbsent(repos.Users().GetByNickname(ctx, nickname)); err != nil {
			return err
		}

		count, err := repos.Users().Count(ctx)
		if err != nil {
			return err
		}
		role := models.RoleUser
		if count == 0 {
			role = models.RoleAdmin
		}

		user, err = repos.Users().Create(ctx, &models.User{
			Email:        email,
			PasswordHash: hash,
			Nickname:     nickname,
			Name:         name,
			Role:         role,
			Status:       models.StatusActive,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// ensureAbsent turns a successful lookup into common.ErrAlreadyExists.
func ensureAbsent(_ *models.User, err error) error {
	if err == nil {
		return common.ErrAlreadyExists
	}
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	return err
}

// Authenticate checks credentials without changing any state.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repomanager.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, common.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if user.Status != models.StatusActive {
		return nil, common.ErrAccessDenied
	}
	return s.generateTokenPair(ctx, s.repomanager, user.ID)
}

// Refresh rotates a refresh token. Expired tokens are deleted and yield
// common.ErrRefreshTokenExpired.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var pair *TokenPair
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		token, err := repos.RefreshTokens().Find(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return fmt.Errorf("error searching refresh token: %w", err)
		}
		if err := repos.RefreshTokens().Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		if token.Expires.Before(s.now()) {
			return &dbx.CommitOnError{Err: common.ErrRefreshTokenExpired}
		}

		user, err := repos.Users().GetByID(ctx, token.UserID)
		if err != nil {
			return err
		}
		if user.Status != models.StatusActive {
			return common.ErrAccessDenied
		}

		pair, err = s.generateTokenPair(ctx, repos, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *AccountService) generateTokenPair(ctx context.Context, repos repomanager.Repositories, userID string) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := repos.RefreshTokens().Create(ctx, userID, refreshToken, s.refreshTokenValidityDuration); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// IssueResetToken stores a fresh reset token, replacing any earlier one, and
// mails the reset link. A failed send rolls the token back. Unknown emails
// are ignored so the endpoint does not reveal which addresses exist.
func (s *AccountService) IssueResetToken(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	err := s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		user, err := repos.Users().GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if user.Status == models.StatusDeleted {
			return common.ErrorNotFound
		}

		token := uuid.NewString()
		expiry := s.now().Add(s.resetTokenValidityDuration)
		if err := repos.Users().SetResetToken(ctx, user.ID, &token, &expiry); err != nil {
			return err
		}

		body := fmt.Sprintf("Use the link below within %d minutes to reset your password:\n%s/reset-password?token=%s\n",
			int(s.resetTokenValidityDuration.Minutes()), s.publicBaseURL, token)
		if err := s.mailer.Send(ctx, user.Email, "Password reset", body); err != nil {
			return fmt.Errorf("send reset mail: %w", err)
		}
		return nil
	})
	if errors.Is(err, common.ErrorNotFound) {
		s.log.Debug(ctx, "reset requested for unknown email")
		return nil
	}
	return err
}

// ConsumeResetToken sets a new password. An expired token is cleared and the
// clearing is committed even though common.ErrTokenExpired is returned.
func (s *AccountService) ConsumeResetToken(ctx context.Context, token, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		user, err := repos.Users().GetByResetToken(ctx, token)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return err
		}

		if user.ResetTokenExpiry == nil || !s.now().Before(*user.ResetTokenExpiry) {
			if err := repos.Users().SetResetToken(ctx, user.ID, nil, nil); err != nil {
				return err
			}
			return &dbx.CommitOnError{Err: common.ErrTokenExpired}
		}

		if err := repos.Users().UpdatePassword(ctx, user.ID, hash); err != nil {
			return err
		}
		_, err = repos.RefreshTokens().DeleteByUser(ctx, user.ID)
		return err
	})
}

func (s *AccountService) GetProfile(ctx context.Context, actor models.Actor) (*models.User, error) {
	return s.repomanager.Users().GetByID(ctx, actor.UserID)
}

// UpdateProfile changes nickname and display name; a nickname held by
// another account yields common.ErrAlreadyExists.
func (s *AccountService) UpdateProfile(ctx context.Context, actor models.Actor, nickname, name string) (*models.User, error) {
	nickname, err := requireText("nickname", nickname, maxNicknameLen)
	if err != nil {
		return nil, err
	}
	name, err = requireText("name", name, maxNameLen)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		other, err := repos.Users().GetByNickname(ctx, nickname)
		switch {
		case err == nil && other.ID != actor.UserID:
			return common.ErrAlreadyExists
		case err != nil && !errors.Is(err, common.ErrorNotFound):
			return err
		}
		if err := repos.Users().UpdateProfile(ctx, actor.UserID, nickname, name); err != nil {
			return err
		}
		user, err = repos.Users().GetByID(ctx, actor.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AccountService) ChangePassword(ctx context.Context, actor models.Actor, oldPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	user, err := s.repomanager.Users().GetByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if !s.hasher.Compare(user.PasswordHash, oldPassword) {
		return common.ErrInvalidCredentials
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repomanager.Users().UpdatePassword(ctx, user.ID, hash)
}

// Withdraw soft-deletes the caller's own account.
func (s *AccountService) Withdraw(ctx context.Context, actor models.Actor) error {
	return s.SoftDelete(ctx, actor.UserID)
}

func (s *AccountService) Ban(ctx context.Context, userID string) error {
	return s.transition(ctx, userID, models.StatusBanned)
}

func (s *AccountService) Activate(ctx context.Context, userID string) error {
	return s.transition(ctx, userID, models.StatusActive)
}

func (s *AccountService) SoftDelete(ctx context.Context, userID string) error {
	return s.transition(ctx, userID, models.StatusDeleted)
}

// transition moves the account to status. Repeating the current status is
// common.ErrInvalidState; a deleted account cannot be banned. Ban and delete
// revoke every refresh token.
func (s *AccountService) transition(ctx context.Context, userID string, status models.Status) error {
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		user, err := repos.Users().GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user.Status == status {
			return fmt.Errorf("%w: account is already %s", common.ErrInvalidState, strings.ToLower(string(status)))
		}
		if status == models.StatusBanned && user.Status == models.StatusDeleted {
			return fmt.Errorf("%w: account is deleted", common.ErrInvalidState)
		}

		if err := repos.Users().UpdateStatus(ctx, userID, status); err != nil {
			return err
		}
		if status != models.StatusActive {
			if _, err := repos.RefreshTokens().DeleteByUser(ctx, userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info(ctx, "account status changed", "user_id", userID, "status", status)
	return nil
}

// ResolveActor loads the caller once per request. Unknown ids are
// common.ErrorUnauthorized.
func (s *AccountService) ResolveActor(ctx context.Context, userID string) (models.Actor, error) {
	user, err := s.repomanager.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return models.Actor{}, common.ErrorUnauthorized
		}
		return models.Actor{}, err
	}
	return models.ActorOf(user), nil
}
