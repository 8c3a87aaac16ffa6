package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fbscore/fbscore/models"
	"github.com/fbscore/fbscore/repositories"
	"github.com/fbscore/fbscore/storage"
)

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	DOB      string `json:"dob"` // YYYY-MM-DD
	Gender   string `json:"gender"`
	Country  string `json:"country"`
	Password string `json:"password"`
	Position string `json:"position"`
	Foot     string `json:"foot"`
	OTP      string `json:"otp"`

	PicKey *string `json:"-"`
}

// ProfileView is the denormalized own-profile payload: user fields plus
// the player record and stats aggregated across every roster spell.
type ProfileView struct {
	User   *models.User        `json:"user"`
	Age    int                 `json:"age"`
	Player *models.Player      `json:"player,omitempty"`
	Team   *models.Team        `json:"team,omitempty"`
	Career *models.CareerStats `json:"stats"`

	Teammates     []models.Player `json:"teammates,omitempty"`
	RecentMatches []models.Match  `json:"recent_matches,omitempty"`
}

type UserService interface {
	SendSignupOTP(ctx context.Context, email string) error
	Signup(ctx context.Context, input SignupInput) (*models.User, error)
	Login(ctx context.Context, creds models.Credentials) (*models.User, error)
	SendPasswordResetOTP(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	GetProfile(ctx context.Context, userID int) (*ProfileView, error)
	UpdateProfile(ctx context.Context, userID int, fields map[string]interface{}) (*models.User, error)
	GetByID(ctx context.Context, userID int) (*models.User, error)
}

type userService struct {
	userRepo   repositories.UserRepository
	playerRepo repositories.PlayerRepository
	teamRepo   repositories.TeamRepository
	statsRepo  repositories.StatsRepository
	matchRepo  repositories.MatchRepository
	otp        OTPService
	uploader   storage.FileUploader
}

func NewUserService(
	userRepo repositories.UserRepository,
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	statsRepo repositories.StatsRepository,
	matchRepo repositories.MatchRepository,
	otp OTPService,
	uploader storage.FileUploader,
) UserService {
	return &userService{
		userRepo:   userRepo,
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		statsRepo:  statsRepo,
		matchRepo:  matchRepo,
		otp:        otp,
		uploader:   uploader,
	}
}

func (s *userService) SendSignupOTP(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidationFailed)
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return ErrUserEmailConflict
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	return s.otp.Send(ctx, OTPPurposeUserSignup, email)
}

func (s *userService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrValidationFailed)
	}

	dob, err := time.Parse("2006-01-02", input.DOB)
	if err != nil {
		return nil, fmt.Errorf("%w: dob must be YYYY-MM-DD", ErrValidationFailed)
	}

	if err := s.otp.Verify(ctx, OTPPurposeUserSignup, input.Email, input.OTP); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		DOB:          dob,
		Gender:       input.Gender,
		Country:      input.Country,
		PasswordHash: string(hashedPassword),
		Position:     input.Position,
		Foot:         input.Foot,
		PicKey:       input.PicKey,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrUserEmailConflict
		}
		return nil, fmt.Errorf("ошибка создания пользователя: %w", err)
	}

	populateUserPicURL(user, s.uploader)
	return user, nil
}

func (s *userService) Login(ctx context.Context, creds models.Credentials) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	populateUserPicURL(user, s.uploader)
	return user, nil
}

func (s *userService) SendPasswordResetOTP(ctx context.Context, email string) error {
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to check email: %w", err)
	}

	return s.otp.Send(ctx, OTPPurposePasswordReset, email)
}

func (s *userService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: password is required", ErrValidationFailed)
	}

	if err := s.otp.Verify(ctx, OTPPurposePasswordReset, email, code); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	if err := s.userRepo.UpdatePasswordByEmail(ctx, email, string(hashedPassword)); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("ошибка обновления пароля: %w", err)
	}
	return nil
}

func (s *userService) GetProfile(ctx context.Context, userID int) (*ProfileView, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	populateUserPicURL(user, s.uploader)

	view := &ProfileView{
		User:   user,
		Age:    user.Age(time.Now()),
		Career: &models.CareerStats{},
	}

	// Career totals sum over every roster spell the user ever had.
	allStats, err := s.statsRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	for _, st := range allStats {
		view.Career.TotalGoals += st.TotalGoals
		view.Career.TotalAssists += st.TotalAssists
	}

	player, err := s.playerRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return view, nil // not on a team, career totals only
		}
		return nil, fmt.Errorf("failed to load player: %w", err)
	}
	view.Player = player

	team, err := s.teamRepo.GetByID(ctx, player.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load team: %w", err)
	}
	populateTeamLogoURL(team, s.uploader)
	view.Team = team

	current, err := s.statsRepo.GetByPlayerID(ctx, player.ID)
	if err != nil && !errors.Is(err, repositories.ErrStatsNotFound) {
		return nil, fmt.Errorf("failed to load current stats: %w", err)
	}
	if current != nil {
		view.Career.CurrentGoals = current.TotalGoals
		view.Career.CurrentAssists = current.TotalAssists
	}

	played, _, _, err := s.matchRepo.CountFullTimeByTeam(ctx, player.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to count team matches: %w", err)
	}
	view.Career.TotalMatches = played

	teammates, err := s.playerRepo.ListByTeamID(ctx, player.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load teammates: %w", err)
	}
	for i := range teammates {
		if teammates[i].UserID == userID {
			continue
		}
		mate := teammates[i]
		if u, err := s.userRepo.GetByID(ctx, mate.UserID); err == nil {
			populateUserPicURL(u, s.uploader)
			mate.User = u
		}
		view.Teammates = append(view.Teammates, mate)
	}

	matches, err := s.matchRepo.ListByTeamIDs(ctx, []int{player.TeamID})
	if err != nil {
		return nil, fmt.Errorf("failed to load team matches: %w", err)
	}
	if len(matches) > 5 {
		matches = matches[:5]
	}
	view.RecentMatches = matches

	return view, nil
}

// updatableUserFields whitelists the columns a user may patch themselves.
var updatableUserFields = map[string]bool{
	"name":     true,
	"country":  true,
	"position": true,
	"foot":     true,
	"gender":   true,
	"pic_key":  true,
}

func (s *userService) UpdateProfile(ctx context.Context, userID int, fields map[string]interface{}) (*models.User, error) {
	filtered := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if updatableUserFields[k] {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("%w: no updatable fields provided", ErrValidationFailed)
	}

	user, err := s.userRepo.UpdateFields(ctx, userID, filtered)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	populateUserPicURL(user, s.uploader)
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	populateUserPicURL(user, s.uploader)
	return user, nil
}
