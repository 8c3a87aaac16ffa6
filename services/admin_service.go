package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/fbscore/fbscore/models"
	"github.com/fbscore/fbscore/repositories"
	"github.com/fbscore/fbscore/storage"
)

type AdminSignupInput struct {
	Name     string `json:"name"`
	AdminID  string `json:"admin_id"`
	Password string `json:"password"`
}

type AdminCredentials struct {
	AdminID  string `json:"admin_id"`
	Password string `json:"password"`
}

// TeamSummary pairs a team with its derived record for the admin listing.
type TeamSummary struct {
	Team   *models.Team       `json:"team"`
	Record *models.TeamRecord `json:"record"`
}

// UserSummary pairs a user with their roster spot and career totals.
type UserSummary struct {
	User   *models.User        `json:"user"`
	Player *models.Player      `json:"player,omitempty"`
	Career *models.CareerStats `json:"stats"`
}

// OfficialSummary pairs an official with their refereeing record.
type OfficialSummary struct {
	Official    *models.MatchOfficial `json:"official"`
	MatchCount  int                   `json:"match_count"`
	LastMatches []models.Match        `json:"last_matches"`
}

// Counts is the admin dashboard summary.
type Counts struct {
	Admins        int `json:"admins"`
	Officials     int `json:"match_officials"`
	Teams         int `json:"teams"`
	Users         int `json:"users"`
	Players       int `json:"players"`
	PlayerUsers   int `json:"player_users"`
	TotalMatches  int `json:"total_matches"`
	TeamRequests  int `json:"team_requests"`
	OfficialReqs  int `json:"official_requests"`
}

type AdminService interface {
	Signup(ctx context.Context, input AdminSignupInput) (*models.Admin, error)
	Login(ctx context.Context, creds AdminCredentials) (*models.Admin, error)

	ListTeamRequests(ctx context.Context) ([]*models.TeamRequest, error)
	ResolveTeamRequest(ctx context.Context, requestID int, action models.RequestAction) (*models.Team, error)
	ListOfficialRequests(ctx context.Context) ([]*models.OfficialRequest, error)
	ResolveOfficialRequest(ctx context.Context, requestID int, action models.RequestAction) (*models.MatchOfficial, error)

	ListTeams(ctx context.Context) ([]TeamSummary, error)
	ListUsers(ctx context.Context) ([]UserSummary, error)
	ListUsersWithoutTeam(ctx context.Context) ([]*models.User, error)
	ListOfficials(ctx context.Context) ([]OfficialSummary, error)
	GetCounts(ctx context.Context) (*Counts, error)

	DeleteUser(ctx context.Context, userID int) error
	DeleteTeam(ctx context.Context, teamID int) error
	DeleteOfficial(ctx context.Context, officialID int) error
	DeletePost(ctx context.Context, postID int) error
}

type adminService struct {
	db            *sql.DB
	adminRepo     repositories.AdminRepository
	userRepo      repositories.UserRepository
	teamRepo      repositories.TeamRepository
	officialRepo  repositories.OfficialRepository
	teamReqRepo   repositories.TeamRequestRepository
	offReqRepo    repositories.OfficialRequestRepository
	playerRepo    repositories.PlayerRepository
	playerReqRepo repositories.PlayerRequestRepository
	matchRepo     repositories.MatchRepository
	statsRepo     repositories.StatsRepository
	postRepo      repositories.PostRepository
	mailer        Mailer
	uploader      storage.FileUploader
	logger        *slog.Logger
}

func NewAdminService(
	db *sql.DB,
	adminRepo repositories.AdminRepository,
	userRepo repositories.UserRepository,
	teamRepo repositories.TeamRepository,
	officialRepo repositories.OfficialRepository,
	teamReqRepo repositories.TeamRequestRepository,
	offReqRepo repositories.OfficialRequestRepository,
	playerRepo repositories.PlayerRepository,
	playerReqRepo repositories.PlayerRequestRepository,
	matchRepo repositories.MatchRepository,
	statsRepo repositories.StatsRepository,
	postRepo repositories.PostRepository,
	mailer Mailer,
	uploader storage.FileUploader,
	logger *slog.Logger,
) AdminService {
	return &adminService{
		db:            db,
		adminRepo:     adminRepo,
		userRepo:      userRepo,
		teamRepo:      teamRepo,
		officialRepo:  officialRepo,
		teamReqRepo:   teamReqRepo,
		offReqRepo:    offReqRepo,
		playerRepo:    playerRepo,
		playerReqRepo: playerReqRepo,
		matchRepo:     matchRepo,
		statsRepo:     statsRepo,
		postRepo:      postRepo,
		mailer:        mailer,
		uploader:      uploader,
		logger:        logger,
	}
}

func (s *adminService) Signup(ctx context.Context, input AdminSignupInput) (*models.Admin, error) {
	if input.Name == "" || input.AdminID == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: name, admin_id and password are required", ErrValidationFailed)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	admin := &models.Admin{
		Name:         input.Name,
		AdminID:      input.AdminID,
		PasswordHash: string(hashedPassword),
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrAdminIDConflict) {
			return nil, ErrAdminIDTaken
		}
		return nil, fmt.Errorf("ошибка создания администратора: %w", err)
	}
	return admin, nil
}

func (s *adminService) Login(ctx context.Context, creds AdminCredentials) (*models.Admin, error) {
	admin, err := s.adminRepo.GetByAdminID(ctx, creds.AdminID)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(creds.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	admin.PasswordHash = ""
	return admin, nil
}

func (s *adminService) ListTeamRequests(ctx context.Context) ([]*models.TeamRequest, error) {
	requests, err := s.teamReqRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list team requests: %w", err)
	}
	for _, req := range requests {
		populateTeamRequestLogoURL(req, s.uploader)
	}
	return requests, nil
}

// ResolveTeamRequest materializes the team account on accept; either way
// the pending request is removed and the applicant is emailed.
func (s *adminService) ResolveTeamRequest(ctx context.Context, requestID int, action models.RequestAction) (*models.Team, error) {
	if !action.Valid() {
		return nil, fmt.Errorf("%w: action must be accept or reject", ErrValidationFailed)
	}

	req, err := s.teamReqRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamRequestNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to load team request: %w", err)
	}

	if action == models.RequestActionReject {
		if err := s.teamReqRepo.Delete(ctx, nil, requestID); err != nil {
			return nil, fmt.Errorf("failed to delete team request: %w", err)
		}
		sendAsync(s.logger, "team_request_result", func() error {
			return s.mailer.SendTeamRequestResultEmail(req.Email, req.TeamName, false)
		})
		return nil, nil
	}

	team := &models.Team{
		TeamName:     req.TeamName,
		Country:      req.Country,
		CreatedBy:    req.CreatedBy,
		Email:        req.Email,
		PasswordHash: req.PasswordHash,
		Active:       true,
		LogoKey:      req.LogoKey,
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.teamRepo.Create(ctx, tx, team); err != nil {
			if errors.Is(err, repositories.ErrTeamNameConflict) {
				return ErrTeamNameConflict
			}
			if errors.Is(err, repositories.ErrTeamEmailConflict) {
				return ErrTeamEmailConflict
			}
			return err
		}
		return s.teamReqRepo.Delete(ctx, tx, requestID)
	})
	if err != nil {
		return nil, err
	}

	sendAsync(s.logger, "team_request_result", func() error {
		return s.mailer.SendTeamRequestResultEmail(req.Email, req.TeamName, true)
	})

	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func (s *adminService) ListOfficialRequests(ctx context.Context) ([]*models.OfficialRequest, error) {
	requests, err := s.offReqRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list official requests: %w", err)
	}
	return requests, nil
}

func (s *adminService) ResolveOfficialRequest(ctx context.Context, requestID int, action models.RequestAction) (*models.MatchOfficial, error) {
	if !action.Valid() {
		return nil, fmt.Errorf("%w: action must be accept or reject", ErrValidationFailed)
	}

	req, err := s.offReqRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrOfficialRequestNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to load official request: %w", err)
	}

	if action == models.RequestActionReject {
		if err := s.offReqRepo.Delete(ctx, nil, requestID); err != nil {
			return nil, fmt.Errorf("failed to delete official request: %w", err)
		}
		sendAsync(s.logger, "official_request_result", func() error {
			return s.mailer.SendOfficialRequestResultEmail(req.Email, req.Name, false)
		})
		return nil, nil
	}

	official := &models.MatchOfficial{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: req.PasswordHash,
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.officialRepo.Create(ctx, tx, official); err != nil {
			if errors.Is(err, repositories.ErrOfficialEmailConflict) {
				return ErrOfficialEmailTaken
			}
			return err
		}
		return s.offReqRepo.Delete(ctx, tx, requestID)
	})
	if err != nil {
		return nil, err
	}

	sendAsync(s.logger, "official_request_result", func() error {
		return s.mailer.SendOfficialRequestResultEmail(req.Email, req.Name, true)
	})

	official.PasswordHash = ""
	return official, nil
}

func (s *adminService) ListTeams(ctx context.Context) ([]TeamSummary, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	summaries := make([]TeamSummary, len(teams))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for i, team := range teams {
		i, team := i, team
		g.Go(func() error {
			populateTeamLogoURL(team, s.uploader)

			played, won, lost, err := s.matchRepo.CountFullTimeByTeam(gctx, team.ID)
			if err != nil {
				return err
			}
			roster, err := s.playerRepo.ListByTeamID(gctx, team.ID)
			if err != nil {
				return err
			}

			summaries[i] = TeamSummary{
				Team: team,
				Record: &models.TeamRecord{
					TotalMatches: played,
					Wins:         won,
					Draws:        played - won - lost,
					Losses:       lost,
					TotalPlayers: len(roster),
				},
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build team summaries: %w", err)
	}
	return summaries, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]UserSummary, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	summaries := make([]UserSummary, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for i, user := range users {
		i, user := i, user
		g.Go(func() error {
			populateUserPicURL(user, s.uploader)

			summary := UserSummary{User: user, Career: &models.CareerStats{}}

			allStats, err := s.statsRepo.ListByUserID(gctx, user.ID)
			if err != nil {
				return err
			}
			for _, st := range allStats {
				summary.Career.TotalGoals += st.TotalGoals
				summary.Career.TotalAssists += st.TotalAssists
			}

			player, err := s.playerRepo.GetByUserID(gctx, user.ID)
			if err == nil {
				summary.Player = player
			} else if !errors.Is(err, repositories.ErrPlayerNotFound) {
				return err
			}

			summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build user summaries: %w", err)
	}
	return summaries, nil
}

func (s *adminService) ListUsersWithoutTeam(ctx context.Context) ([]*models.User, error) {
	users, err := s.userRepo.ListWithoutTeam(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users without team: %w", err)
	}
	for _, u := range users {
		populateUserPicURL(u, s.uploader)
	}
	return users, nil
}

func (s *adminService) ListOfficials(ctx context.Context) ([]OfficialSummary, error) {
	officials, err := s.officialRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list officials: %w", err)
	}

	summaries := make([]OfficialSummary, len(officials))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for i, official := range officials {
		i, official := i, official
		g.Go(func() error {
			official.PasswordHash = ""

			count, err := s.matchRepo.CountByCreator(gctx, official.ID)
			if err != nil {
				return err
			}
			matches, err := s.matchRepo.ListByCreator(gctx, official.ID)
			if err != nil {
				return err
			}
			if len(matches) > 5 {
				matches = matches[:5]
			}

			summaries[i] = OfficialSummary{
				Official:    official,
				MatchCount:  count,
				LastMatches: matches,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build official summaries: %w", err)
	}
	return summaries, nil
}

func (s *adminService) GetCounts(ctx context.Context) (*Counts, error) {
	counts := &Counts{}
	g, gctx := errgroup.WithContext(ctx)

	count := func(dst *int, fn func(context.Context) (int, error)) {
		g.Go(func() error {
			n, err := fn(gctx)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}

	count(&counts.Admins, s.adminRepo.Count)
	count(&counts.Officials, s.officialRepo.Count)
	count(&counts.Teams, s.teamRepo.Count)
	count(&counts.Users, s.userRepo.Count)
	count(&counts.Players, s.playerRepo.Count)
	count(&counts.PlayerUsers, s.playerRepo.DistinctUserCount)
	count(&counts.TotalMatches, s.matchRepo.Count)
	g.Go(func() error {
		reqs, err := s.teamReqRepo.List(gctx)
		if err != nil {
			return err
		}
		counts.TeamRequests = len(reqs)
		return nil
	})
	g.Go(func() error {
		reqs, err := s.offReqRepo.List(gctx)
		if err != nil {
			return err
		}
		counts.OfficialReqs = len(reqs)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to collect counts: %w", err)
	}
	return counts, nil
}

// DeleteUser removes the account. The player row, stats rows, posts,
// likes and comments go with it via FK cascades.
func (s *adminService) DeleteUser(ctx context.Context, userID int) error {
	if err := s.userRepo.Delete(ctx, nil, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// DeleteTeam removes the roster players and their stats rows, then the team.
func (s *adminService) DeleteTeam(ctx context.Context, teamID int) error {
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to load team: %w", err)
	}

	return runInTx(ctx, s.db, func(tx *sql.Tx) error {
		playerIDs, err := s.playerRepo.DeleteByTeamID(ctx, tx, teamID)
		if err != nil {
			return err
		}
		if err := s.statsRepo.DeleteByPlayerIDs(ctx, tx, playerIDs); err != nil {
			return err
		}
		return s.teamRepo.Delete(ctx, tx, teamID)
	})
}

// DeleteOfficial pulls the official's matches out of every player's
// stats, recomputes the affected totals, then deletes the matches and
// the official.
func (s *adminService) DeleteOfficial(ctx context.Context, officialID int) error {
	if _, err := s.officialRepo.GetByID(ctx, officialID); err != nil {
		if errors.Is(err, repositories.ErrOfficialNotFound) {
			return ErrOfficialNotFound
		}
		return fmt.Errorf("failed to load official: %w", err)
	}

	matchIDs, err := s.matchRepo.ListIDsByCreator(ctx, officialID)
	if err != nil {
		return fmt.Errorf("failed to list matches by creator: %w", err)
	}

	lines, err := s.statsRepo.ListByMatchIDs(ctx, matchIDs)
	if err != nil {
		return fmt.Errorf("failed to list stat lines: %w", err)
	}

	type delta struct{ goals, assists int }
	deltas := make(map[int]delta)
	for _, line := range lines {
		d := deltas[line.StatsID]
		d.goals += line.Goals
		d.assists += line.Assists
		deltas[line.StatsID] = d
	}

	return runInTx(ctx, s.db, func(tx *sql.Tx) error {
		for statsID, d := range deltas {
			if d.goals == 0 && d.assists == 0 {
				continue
			}
			if err := s.statsRepo.AdjustTotals(ctx, tx, statsID, -d.goals, -d.assists); err != nil {
				return err
			}
		}
		if err := s.statsRepo.RemoveLinesByMatchIDs(ctx, tx, matchIDs); err != nil {
			return err
		}
		if err := s.matchRepo.DeleteByCreator(ctx, tx, officialID); err != nil {
			return err
		}
		return s.officialRepo.Delete(ctx, tx, officialID)
	})
}

func (s *adminService) DeletePost(ctx context.Context, postID int) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to load post: %w", err)
	}

	if err := s.postRepo.Delete(ctx, nil, postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	if post.ImageKey != nil && *post.ImageKey != "" && s.uploader != nil {
		if err := s.uploader.Delete(ctx, *post.ImageKey); err != nil && s.logger != nil {
			s.logger.Warn("failed to delete post image", slog.String("key", *post.ImageKey), slog.Any("error", err))
		}
	}
	return nil
}
