package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/fbscore/fbscore/cache"
)

const otpTTL = 2 * time.Minute

// OTP purposes namespace the stored codes so a signup code cannot be
// replayed for a password reset.
const (
	OTPPurposeUserSignup     = "user_signup"
	OTPPurposePasswordReset  = "password_reset"
	OTPPurposeTeamSignup     = "team_signup"
	OTPPurposeOfficialSignup = "official_signup"
)

// OTPStore is the subset of cache.OTPStore the services need.
type OTPStore interface {
	Put(ctx context.Context, purpose, email, code string, ttl time.Duration) error
	Consume(ctx context.Context, purpose, email, code string) error
}

type OTPService interface {
	Send(ctx context.Context, purpose, email string) error
	Verify(ctx context.Context, purpose, email, code string) error
}

type otpService struct {
	store  OTPStore
	mailer Mailer
}

func NewOTPService(store OTPStore, mailer Mailer) OTPService {
	return &otpService{store: store, mailer: mailer}
}

// Send issues a fresh 4-digit code, replacing any previous code for the
// same purpose+email, and emails it. The send is awaited: a signup flow
// must not report success if the code never went out.
func (s *otpService) Send(ctx context.Context, purpose, email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidationFailed)
	}

	code, err := generateOTPCode()
	if err != nil {
		return fmt.Errorf("failed to generate otp code: %w", err)
	}

	if err := s.store.Put(ctx, purpose, email, code, otpTTL); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	if err := s.mailer.SendOTPEmail(email, code); err != nil {
		return fmt.Errorf("failed to send otp email: %w", err)
	}
	return nil
}

func (s *otpService) Verify(ctx context.Context, purpose, email, code string) error {
	err := s.store.Consume(ctx, purpose, email, code)
	if err != nil {
		if errors.Is(err, cache.ErrOTPNotFound) || errors.Is(err, cache.ErrOTPMismatch) {
			return ErrOTPInvalid
		}
		return fmt.Errorf("failed to verify otp: %w", err)
	}
	return nil
}

func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
