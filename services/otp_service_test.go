package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPServiceSendStoresFourDigitCode(t *testing.T) {
	store := newFakeOTPStore()
	mailer := newFakeMailer()
	svc := NewOTPService(store, mailer)

	require.NoError(t, svc.Send(context.Background(), OTPPurposeUserSignup, "arman@example.com"))

	code := mailer.lastCode("arman@example.com")
	require.Len(t, code, 4)
	assert.Equal(t, code, store.codes[OTPPurposeUserSignup+":arman@example.com"])
	assert.Equal(t, 2*time.Minute, store.ttls[OTPPurposeUserSignup+":arman@example.com"])
}

func TestOTPServiceSendRequiresEmail(t *testing.T) {
	svc := NewOTPService(newFakeOTPStore(), newFakeMailer())
	require.ErrorIs(t, svc.Send(context.Background(), OTPPurposeUserSignup, ""), ErrValidationFailed)
}

func TestOTPServiceVerifyConsumesCode(t *testing.T) {
	store := newFakeOTPStore()
	mailer := newFakeMailer()
	svc := NewOTPService(store, mailer)

	require.NoError(t, svc.Send(context.Background(), OTPPurposeUserSignup, "arman@example.com"))
	code := mailer.lastCode("arman@example.com")

	require.NoError(t, svc.Verify(context.Background(), OTPPurposeUserSignup, "arman@example.com", code))

	// a consumed code does not verify twice
	require.ErrorIs(t, svc.Verify(context.Background(), OTPPurposeUserSignup, "arman@example.com", code), ErrOTPInvalid)
}

func TestOTPServiceVerifyRejectsWrongCode(t *testing.T) {
	store := newFakeOTPStore()
	mailer := newFakeMailer()
	svc := NewOTPService(store, mailer)

	require.NoError(t, svc.Send(context.Background(), OTPPurposeUserSignup, "arman@example.com"))
	require.ErrorIs(t, svc.Verify(context.Background(), OTPPurposeUserSignup, "arman@example.com", "0000a"), ErrOTPInvalid)
}

func TestOTPServiceCodesAreScopedByPurpose(t *testing.T) {
	store := newFakeOTPStore()
	mailer := newFakeMailer()
	svc := NewOTPService(store, mailer)

	require.NoError(t, svc.Send(context.Background(), OTPPurposeUserSignup, "arman@example.com"))
	code := mailer.lastCode("arman@example.com")

	require.ErrorIs(t, svc.Verify(context.Background(), OTPPurposePasswordReset, "arman@example.com", code), ErrOTPInvalid)
}
