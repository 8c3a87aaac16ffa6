package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/fbscore/fbscore/models"
	"github.com/fbscore/fbscore/repositories"
	"github.com/fbscore/fbscore/storage"
)

type TeamApplicationInput struct {
	TeamName  string `json:"teamname"`
	Country   string `json:"country"`
	CreatedBy string `json:"created_by"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	OTP       string `json:"otp"`

	LogoKey *string `json:"-"`
}

// TeamView is a team with its derived Full Time record.
type TeamView struct {
	Team   *models.Team       `json:"team"`
	Record *models.TeamRecord `json:"record"`
}

type TeamService interface {
	SendSignupOTP(ctx context.Context, email string) error
	Apply(ctx context.Context, input TeamApplicationInput) (*models.TeamRequest, error)
	Login(ctx context.Context, creds models.Credentials) (*models.Team, error)
	GetDetails(ctx context.Context, teamID int) (*TeamView, error)
	SearchTeams(ctx context.Context, query string) ([]*models.Team, error)
	SearchUsers(ctx context.Context, query string) ([]*models.User, error)
	ListUsersWithoutTeam(ctx context.Context) ([]*models.User, error)
}

type teamService struct {
	teamRepo        repositories.TeamRepository
	teamRequestRepo repositories.TeamRequestRepository
	userRepo        repositories.UserRepository
	playerRepo      repositories.PlayerRepository
	matchRepo       repositories.MatchRepository
	otp             OTPService
	uploader        storage.FileUploader
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	teamRequestRepo repositories.TeamRequestRepository,
	userRepo repositories.UserRepository,
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
	otp OTPService,
	uploader storage.FileUploader,
) TeamService {
	return &teamService{
		teamRepo:        teamRepo,
		teamRequestRepo: teamRequestRepo,
		userRepo:        userRepo,
		playerRepo:      playerRepo,
		matchRepo:       matchRepo,
		otp:             otp,
		uploader:        uploader,
	}
}

func (s *teamService) SendSignupOTP(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidationFailed)
	}

	_, err := s.teamRepo.GetByEmail(ctx, email)
	if err == nil {
		return ErrTeamEmailConflict
	}
	if !errors.Is(err, repositories.ErrTeamNotFound) {
		return fmt.Errorf("failed to check team email: %w", err)
	}

	return s.otp.Send(ctx, OTPPurposeTeamSignup, email)
}

// Apply files a TeamRequest; the account only exists after an admin accepts it.
func (s *teamService) Apply(ctx context.Context, input TeamApplicationInput) (*models.TeamRequest, error) {
	if input.TeamName == "" || input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: teamname, email and password are required", ErrValidationFailed)
	}

	if err := s.otp.Verify(ctx, OTPPurposeTeamSignup, input.Email, input.OTP); err != nil {
		return nil, err
	}

	if _, err := s.teamRepo.GetByName(ctx, input.TeamName); err == nil {
		return nil, ErrTeamNameConflict
	} else if !errors.Is(err, repositories.ErrTeamNotFound) {
		return nil, fmt.Errorf("failed to check team name: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	req := &models.TeamRequest{
		TeamName:     input.TeamName,
		Country:      input.Country,
		CreatedBy:    input.CreatedBy,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		LogoKey:      input.LogoKey,
	}

	if err := s.teamRequestRepo.Create(ctx, req); err != nil {
		if errors.Is(err, repositories.ErrTeamRequestNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("ошибка создания заявки команды: %w", err)
	}

	populateTeamRequestLogoURL(req, s.uploader)
	return req, nil
}

func (s *teamService) Login(ctx context.Context, creds models.Credentials) (*models.Team, error) {
	team, err := s.teamRepo.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find team by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(team.PasswordHash), []byte(creds.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func (s *teamService) GetDetails(ctx context.Context, teamID int) (*TeamView, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team: %w", err)
	}
	populateTeamLogoURL(team, s.uploader)

	roster, err := s.playerRepo.ListByTeamID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	for i := range roster {
		if u, err := s.userRepo.GetByID(ctx, roster[i].UserID); err == nil {
			populateUserPicURL(u, s.uploader)
			roster[i].User = u
		}
	}
	team.Roster = roster

	played, won, lost, err := s.matchRepo.CountFullTimeByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to count team matches: %w", err)
	}

	record := &models.TeamRecord{
		TotalMatches: played,
		Wins:         won,
		Draws:        played - won - lost,
		Losses:       lost,
		TotalPlayers: len(roster),
	}

	return &TeamView{Team: team, Record: record}, nil
}

func (s *teamService) SearchTeams(ctx context.Context, query string) ([]*models.Team, error) {
	teams, err := s.teamRepo.SearchByName(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search teams: %w", err)
	}
	for _, t := range teams {
		populateTeamLogoURL(t, s.uploader)
	}
	return teams, nil
}

func (s *teamService) SearchUsers(ctx context.Context, query string) ([]*models.User, error) {
	users, err := s.userRepo.SearchByName(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	for _, u := range users {
		populateUserPicURL(u, s.uploader)
	}
	return users, nil
}

func (s *teamService) ListUsersWithoutTeam(ctx context.Context) ([]*models.User, error) {
	users, err := s.userRepo.ListWithoutTeam(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users without a team: %w", err)
	}
	for _, u := range users {
		populateUserPicURL(u, s.uploader)
	}
	return users, nil
}
