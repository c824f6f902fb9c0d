package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/imprint/internal/common"
	"github.com/dmitrijs2005/imprint/internal/server/config"
	"github.com/dmitrijs2005/imprint/internal/server/mail"
	"github.com/dmitrijs2005/imprint/internal/server/models"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/repomanager"
)

const verificationCodeDigits = 6

// VerificationService issues and checks email verification codes. It is the
// EmailVerifier consulted by registration.
type VerificationService struct {
	repomanager    repomanager.RepositoryManager
	mailer         mail.Sender
	codeValidity   time.Duration
	resendInterval time.Duration
	required       bool
	now            func() time.Time
	newCode        func() (string, error)
}

func NewVerificationService(m repomanager.RepositoryManager, mailer mail.Sender, cfg *config.Config) *VerificationService {
	return &VerificationService{
		repomanager:    m,
		mailer:         mailer,
		codeValidity:   cfg.VerificationCodeValidityDuration,
		resendInterval: cfg.VerificationResendInterval,
		required:       cfg.RequireEmailVerification,
		now:            time.Now,
		newCode:        func() (string, error) { return common.MakeNumericCode(verificationCodeDigits) },
	}
}

// SendCode mails a fresh code and stores it only after the mail went out.
// Addresses that already have an account are rejected.
func (s *VerificationService) SendCode(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if err := ensureAbsent(s.repomanager.Users().GetByEmail(ctx, email)); err != nil {
		return err
	}

	now := s.now()
	prev, err := s.repomanager.Verifications().Get(ctx, email)
	switch {
	case err == nil:
		if now.Sub(prev.SentAt) < s.resendInterval {
			return common.ErrRateLimited
		}
	case !errors.Is(err, common.ErrorNotFound):
		return err
	}

	code, err := s.newCode()
	if err != nil {
		return common.ErrorInternal
	}

	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.\n", code, int(s.codeValidity.Minutes()))
	if err := s.mailer.Send(ctx, email, "Your verification code", body); err != nil {
		return fmt.Errorf("send verification mail: %w", err)
	}

	return s.repomanager.Verifications().Upsert(ctx, &models.Verification{
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(s.codeValidity),
		SentAt:    now,
	})
}

func (s *VerificationService) VerifyCode(ctx context.Context, email, code string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	v, err := s.repomanager.Verifications().Get(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrInvalidCode
		}
		return err
	}
	if !s.now().Before(v.ExpiresAt) {
		return common.ErrTokenExpired
	}
	if subtle.ConstantTimeCompare([]byte(v.Code), []byte(code)) != 1 {
		return common.ErrInvalidCode
	}
	return s.repomanager.Verifications().MarkVerified(ctx, email)
}

// IsEmailVerified always reports true when verification is switched off.
func (s *VerificationService) IsEmailVerified(ctx context.Context, email string) (bool, error) {
	if !s.required {
		return true, nil
	}
	v, err := s.repomanager.Verifications().Get(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, err
	}
	return v.Verified, nil
}
