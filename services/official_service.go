package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/fbscore/fbscore/models"
	"github.com/fbscore/fbscore/repositories"
)

type OfficialApplicationInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp"`
}

type OfficialService interface {
	SendSignupOTP(ctx context.Context, email string) error
	Apply(ctx context.Context, input OfficialApplicationInput) (*models.OfficialRequest, error)
	Login(ctx context.Context, creds models.Credentials) (*models.MatchOfficial, error)
	GetByID(ctx context.Context, officialID int) (*models.MatchOfficial, error)
}

type officialService struct {
	officialRepo repositories.OfficialRepository
	requestRepo  repositories.OfficialRequestRepository
	otp          OTPService
}

func NewOfficialService(
	officialRepo repositories.OfficialRepository,
	requestRepo repositories.OfficialRequestRepository,
	otp OTPService,
) OfficialService {
	return &officialService{
		officialRepo: officialRepo,
		requestRepo:  requestRepo,
		otp:          otp,
	}
}

func (s *officialService) SendSignupOTP(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidationFailed)
	}

	_, err := s.officialRepo.GetByEmail(ctx, email)
	if err == nil {
		return ErrOfficialEmailTaken
	}
	if !errors.Is(err, repositories.ErrOfficialNotFound) {
		return fmt.Errorf("failed to check official email: %w", err)
	}

	return s.otp.Send(ctx, OTPPurposeOfficialSignup, email)
}

func (s *officialService) Apply(ctx context.Context, input OfficialApplicationInput) (*models.OfficialRequest, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrValidationFailed)
	}

	if err := s.otp.Verify(ctx, OTPPurposeOfficialSignup, input.Email, input.OTP); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	req := &models.OfficialRequest{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("ошибка создания заявки судьи: %w", err)
	}
	return req, nil
}

func (s *officialService) Login(ctx context.Context, creds models.Credentials) (*models.MatchOfficial, error) {
	official, err := s.officialRepo.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrOfficialNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find official by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(official.PasswordHash), []byte(creds.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	official.PasswordHash = ""
	return official, nil
}

func (s *officialService) GetByID(ctx context.Context, officialID int) (*models.MatchOfficial, error) {
	official, err := s.officialRepo.GetByID(ctx, officialID)
	if err != nil {
		if errors.Is(err, repositories.ErrOfficialNotFound) {
			return nil, ErrOfficialNotFound
		}
		return nil, fmt.Errorf("failed to load official: %w", err)
	}
	official.PasswordHash = ""
	return official, nil
}
