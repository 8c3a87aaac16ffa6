package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fbscore/fbscore/models"
	"github.com/fbscore/fbscore/repositories"
	"github.com/fbscore/fbscore/storage"
)

// PlayerView is the player detail payload: roster spot plus career and
// current-spell stats.
type PlayerView struct {
	Player  *models.Player      `json:"player"`
	Team    *models.Team        `json:"team"`
	User    *models.User        `json:"user"`
	Career  *models.CareerStats `json:"stats"`
	Current *models.PlayerStats `json:"current_stats,omitempty"`
}

type RosterService interface {
	Invite(ctx context.Context, teamID, userID int, playerNo string) (*models.PlayerRequest, error)
	ListUserRequests(ctx context.Context, userID int) ([]models.PlayerRequest, error)
	Resolve(ctx context.Context, userID, requestID int, action models.RequestAction) error
	AddPlayer(ctx context.Context, teamID, userID int, playerNo string) (*models.Player, error)
	RemovePlayer(ctx context.Context, teamID, playerID int) error
	GetPlayerDetails(ctx context.Context, playerID int) (*PlayerView, error)
}

type rosterService struct {
	db          *sql.DB
	playerRepo  repositories.PlayerRepository
	requestRepo repositories.PlayerRequestRepository
	teamRepo    repositories.TeamRepository
	userRepo    repositories.UserRepository
	statsRepo   repositories.StatsRepository
	mailer      Mailer
	uploader    storage.FileUploader
	logger      *slog.Logger
}

func NewRosterService(
	db *sql.DB,
	playerRepo repositories.PlayerRepository,
	requestRepo repositories.PlayerRequestRepository,
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	statsRepo repositories.StatsRepository,
	mailer Mailer,
	uploader storage.FileUploader,
	logger *slog.Logger,
) RosterService {
	return &rosterService{
		db:          db,
		playerRepo:  playerRepo,
		requestRepo: requestRepo,
		teamRepo:    teamRepo,
		userRepo:    userRepo,
		statsRepo:   statsRepo,
		mailer:      mailer,
		uploader:    uploader,
		logger:      logger,
	}
}

func (s *rosterService) Invite(ctx context.Context, teamID, userID int, playerNo string) (*models.PlayerRequest, error) {
	if playerNo == "" {
		return nil, fmt.Errorf("%w: player number is required", ErrValidationFailed)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if _, err := s.playerRepo.GetByUserID(ctx, userID); err == nil {
		return nil, ErrUserAlreadyInTeam
	} else if !errors.Is(err, repositories.ErrPlayerNotFound) {
		return nil, fmt.Errorf("failed to check roster membership: %w", err)
	}

	if _, err := s.playerRepo.GetByTeamAndNo(ctx, teamID, playerNo); err == nil {
		return nil, ErrPlayerNumberTaken
	} else if !errors.Is(err, repositories.ErrPlayerNotFound) {
		return nil, fmt.Errorf("failed to check player number: %w", err)
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load team: %w", err)
	}

	req := &models.PlayerRequest{
		TeamID:   teamID,
		UserID:   userID,
		PlayerNo: playerNo,
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		if errors.Is(err, repositories.ErrPlayerRequestDuplicate) {
			return nil, ErrRequestAlreadyExists
		}
		return nil, fmt.Errorf("failed to create player request: %w", err)
	}

	sendAsync(s.logger, "roster_invite", func() error {
		return s.mailer.SendRosterInviteEmail(user.Email, team.TeamName, playerNo)
	})

	return req, nil
}

func (s *rosterService) ListUserRequests(ctx context.Context, userID int) ([]models.PlayerRequest, error) {
	requests, err := s.requestRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list player requests: %w", err)
	}
	for i := range requests {
		if team, err := s.teamRepo.GetByID(ctx, requests[i].TeamID); err == nil {
			populateTeamLogoURL(team, s.uploader)
			requests[i].Team = team
		}
	}
	return requests, nil
}

// Resolve accepts or rejects an invitation addressed to userID. Accepting
// creates the Player and purges every pending invitation for the user: a
// user can join at most one team, so sibling invitations are moot.
func (s *rosterService) Resolve(ctx context.Context, userID, requestID int, action models.RequestAction) error {
	if !action.Valid() {
		return fmt.Errorf("%w: action must be accept or reject", ErrValidationFailed)
	}

	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerRequestNotFound) {
			return ErrRequestNotFound
		}
		return fmt.Errorf("failed to load player request: %w", err)
	}
	if req.UserID != userID {
		return ErrRequestNotFound
	}

	team, err := s.teamRepo.GetByID(ctx, req.TeamID)
	if err != nil {
		return fmt.Errorf("failed to load team: %w", err)
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	if action == models.RequestActionReject {
		if err := s.requestRepo.Delete(ctx, nil, requestID); err != nil {
			return fmt.Errorf("failed to delete player request: %w", err)
		}
		sendAsync(s.logger, "roster_decision", func() error {
			return s.mailer.SendRosterDecisionEmail(team.Email, user.Name, false)
		})
		return nil
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		player := &models.Player{
			TeamID:   req.TeamID,
			UserID:   userID,
			PlayerNo: req.PlayerNo,
		}
		if err := s.playerRepo.Create(ctx, tx, player); err != nil {
			if errors.Is(err, repositories.ErrPlayerAlreadyOnTeam) {
				return ErrUserAlreadyInTeam
			}
			if errors.Is(err, repositories.ErrPlayerNumberConflict) {
				return ErrPlayerNumberTaken
			}
			return fmt.Errorf("failed to create player: %w", err)
		}
		if _, err := s.statsRepo.EnsureRow(ctx, tx, player.ID, userID); err != nil {
			return err
		}
		return s.requestRepo.DeleteByUserID(ctx, tx, userID)
	})
	if err != nil {
		return err
	}

	sendAsync(s.logger, "roster_decision", func() error {
		return s.mailer.SendRosterDecisionEmail(team.Email, user.Name, true)
	})
	return nil
}

// AddPlayer puts a user straight onto the roster without an invitation.
func (s *rosterService) AddPlayer(ctx context.Context, teamID, userID int, playerNo string) (*models.Player, error) {
	if playerNo == "" {
		return nil, fmt.Errorf("%w: player number is required", ErrValidationFailed)
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	player := &models.Player{
		TeamID:   teamID,
		UserID:   userID,
		PlayerNo: playerNo,
	}

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.playerRepo.Create(ctx, tx, player); err != nil {
			if errors.Is(err, repositories.ErrPlayerAlreadyOnTeam) {
				return ErrUserAlreadyInTeam
			}
			if errors.Is(err, repositories.ErrPlayerNumberConflict) {
				return ErrPlayerNumberTaken
			}
			return fmt.Errorf("failed to create player: %w", err)
		}
		if _, err := s.statsRepo.EnsureRow(ctx, tx, player.ID, userID); err != nil {
			return err
		}
		return s.requestRepo.DeleteByUserID(ctx, tx, userID)
	})
	if err != nil {
		return nil, err
	}
	return player, nil
}

// RemovePlayer takes a player off the roster. Stats rows stay so the
// user's career history survives.
func (s *rosterService) RemovePlayer(ctx context.Context, teamID, playerID int) error {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to load player: %w", err)
	}
	if player.TeamID != teamID {
		return ErrForbiddenOperation
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return fmt.Errorf("failed to load team: %w", err)
	}
	user, err := s.userRepo.GetByID(ctx, player.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.playerRepo.Delete(ctx, nil, playerID); err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}

	sendAsync(s.logger, "roster_removal", func() error {
		return s.mailer.SendPlayerRemovalEmail(user.Email, team.TeamName)
	})
	return nil
}

func (s *rosterService) GetPlayerDetails(ctx context.Context, playerID int) (*PlayerView, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to load player: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, player.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	populateUserPicURL(user, s.uploader)

	team, err := s.teamRepo.GetByID(ctx, player.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load team: %w", err)
	}
	populateTeamLogoURL(team, s.uploader)

	career := &models.CareerStats{}
	allStats, err := s.statsRepo.ListByUserID(ctx, player.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	for _, st := range allStats {
		career.TotalGoals += st.TotalGoals
		career.TotalAssists += st.TotalAssists
	}

	current, err := s.statsRepo.GetByPlayerID(ctx, playerID)
	if err != nil && !errors.Is(err, repositories.ErrStatsNotFound) {
		return nil, fmt.Errorf("failed to load current stats: %w", err)
	}
	if current != nil {
		career.CurrentGoals = current.TotalGoals
		career.CurrentAssists = current.TotalAssists
		lines, err := s.statsRepo.ListLines(ctx, current.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load stat lines: %w", err)
		}
		current.Matches = lines
	}

	return &PlayerView{
		Player:  player,
		Team:    team,
		User:    user,
		Career:  career,
		Current: current,
	}, nil
}
