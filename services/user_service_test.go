package services

import (
	"context"
	"testing"

	"github.com/fbscore/fbscore/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userServiceFixture struct {
	svc     UserService
	users   *fakeUserRepo
	players *fakePlayerRepo
	teams   *fakeTeamRepo
	stats   *fakeStatsRepo
	matches *fakeMatchRepo
	store   *fakeOTPStore
	mailer  *fakeMailer
}

func newUserServiceFixture(t *testing.T) *userServiceFixture {
	t.Helper()
	f := &userServiceFixture{
		users:   newFakeUserRepo(),
		players: newFakePlayerRepo(),
		teams:   newFakeTeamRepo(),
		stats:   newFakeStatsRepo(),
		matches: newFakeMatchRepo(),
		store:   newFakeOTPStore(),
		mailer:  newFakeMailer(),
	}
	otp := NewOTPService(f.store, f.mailer)
	f.svc = NewUserService(f.users, f.players, f.teams, f.stats, f.matches, otp, &fakeUploader{})
	return f
}

func (f *userServiceFixture) signup(t *testing.T, email string) *models.User {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.svc.SendSignupOTP(ctx, email))
	user, err := f.svc.Signup(ctx, SignupInput{
		Name:     "Arman",
		Email:    email,
		DOB:      "2000-04-15",
		Gender:   "male",
		Country:  "Kazakhstan",
		Password: "secret123",
		Position: "Forward",
		Foot:     "right",
		OTP:      f.mailer.lastCode(email),
	})
	require.NoError(t, err)
	return user
}

func TestUserServiceSignupRequiresValidOTP(t *testing.T) {
	f := newUserServiceFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SendSignupOTP(ctx, "arman@example.com"))

	_, err := f.svc.Signup(ctx, SignupInput{
		Name:     "Arman",
		Email:    "arman@example.com",
		DOB:      "2000-04-15",
		Password: "secret123",
		OTP:      "wrong",
	})
	require.ErrorIs(t, err, ErrOTPInvalid)
}

func TestUserServiceSignupRejectsBadDOB(t *testing.T) {
	f := newUserServiceFixture(t)

	_, err := f.svc.Signup(context.Background(), SignupInput{
		Name:     "Arman",
		Email:    "arman@example.com",
		DOB:      "15-04-2000",
		Password: "secret123",
	})
	require.ErrorIs(t, err, ErrValidationFailed)
}

func TestUserServiceSignupAndLogin(t *testing.T) {
	f := newUserServiceFixture(t)
	user := f.signup(t, "arman@example.com")
	require.NotZero(t, user.ID)
	assert.Empty(t, user.PasswordHash)

	logged, err := f.svc.Login(context.Background(), models.Credentials{
		Email:    "arman@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.Empty(t, logged.PasswordHash)
}

func TestUserServiceLoginRejectsWrongPassword(t *testing.T) {
	f := newUserServiceFixture(t)
	f.signup(t, "arman@example.com")

	_, err := f.svc.Login(context.Background(), models.Credentials{
		Email:    "arman@example.com",
		Password: "wrong-password",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserServiceLoginRejectsUnknownEmail(t *testing.T) {
	f := newUserServiceFixture(t)

	_, err := f.svc.Login(context.Background(), models.Credentials{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserServiceSendSignupOTPRejectsTakenEmail(t *testing.T) {
	f := newUserServiceFixture(t)
	f.signup(t, "arman@example.com")

	err := f.svc.SendSignupOTP(context.Background(), "arman@example.com")
	require.ErrorIs(t, err, ErrUserEmailConflict)
}

func TestUserServiceResetPasswordFlow(t *testing.T) {
	f := newUserServiceFixture(t)
	f.signup(t, "arman@example.com")
	ctx := context.Background()

	require.NoError(t, f.svc.SendPasswordResetOTP(ctx, "arman@example.com"))
	code := f.mailer.lastCode("arman@example.com")

	require.NoError(t, f.svc.ResetPassword(ctx, "arman@example.com", code, "new-secret"))

	_, err := f.svc.Login(ctx, models.Credentials{Email: "arman@example.com", Password: "secret123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, models.Credentials{Email: "arman@example.com", Password: "new-secret"})
	require.NoError(t, err)
}

func TestUserServiceSendPasswordResetOTPRejectsUnknownEmail(t *testing.T) {
	f := newUserServiceFixture(t)
	err := f.svc.SendPasswordResetOTP(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserServiceGetProfileWithoutTeam(t *testing.T) {
	f := newUserServiceFixture(t)
	user := f.signup(t, "arman@example.com")

	profile, err := f.svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.User.ID)
	assert.Nil(t, profile.Player)
	require.NotNil(t, profile.Career)
	assert.Zero(t, profile.Career.TotalGoals)
}
