package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fbscore/fbscore/live"
	"github.com/fbscore/fbscore/models"
	"github.com/fbscore/fbscore/repositories"
	"github.com/fbscore/fbscore/storage"
)

type CreateMatchInput struct {
	TeamAID   int    `json:"team_a_id"`
	TeamBID   int    `json:"team_b_id"`
	MatchDate string `json:"match_date"` // YYYY-MM-DD
	MatchTime string `json:"match_time"` // HH:MM
}

type GoalInput struct {
	TeamID         int  `json:"team_id"`
	ScorerPlayerID int  `json:"scorer_player_id"`
	AssistPlayerID *int `json:"assist_player_id,omitempty"`
}

// MatchView is the denormalized match detail payload.
type MatchView struct {
	Match *models.Match `json:"match"`
	MVP   *models.User  `json:"mvp,omitempty"`
}

// Broadcaster pushes live events to match rooms. *live.Hub satisfies it.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

type MatchService interface {
	Create(ctx context.Context, officialID int, input CreateMatchInput) (*models.Match, error)
	UpdateStatus(ctx context.Context, officialID, matchID int, status models.MatchStatus) (*models.Match, error)
	RecordGoal(ctx context.Context, officialID, matchID int, input GoalInput) (*models.Match, error)
	AssignMVP(ctx context.Context, officialID, matchID, userID int) error
	Details(ctx context.Context, matchID int) (*MatchView, error)
	List(ctx context.Context) ([]models.Match, error)
	SearchByTeamName(ctx context.Context, query string) ([]models.Match, error)
	ListByCreator(ctx context.Context, officialID int) ([]models.Match, error)
}

type matchService struct {
	db         *sql.DB
	matchRepo  repositories.MatchRepository
	teamRepo   repositories.TeamRepository
	playerRepo repositories.PlayerRepository
	userRepo   repositories.UserRepository
	statsRepo  repositories.StatsRepository
	hub        Broadcaster
	uploader   storage.FileUploader
	now        func() time.Time
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	userRepo repositories.UserRepository,
	statsRepo repositories.StatsRepository,
	hub Broadcaster,
	uploader storage.FileUploader,
) MatchService {
	return &matchService{
		db:         db,
		matchRepo:  matchRepo,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		userRepo:   userRepo,
		statsRepo:  statsRepo,
		hub:        hub,
		uploader:   uploader,
		now:        time.Now,
	}
}

// Create schedules a match and seeds a zero-valued stat line for every
// player on both rosters, all in one transaction.
func (s *matchService) Create(ctx context.Context, officialID int, input CreateMatchInput) (*models.Match, error) {
	if input.TeamAID == input.TeamBID {
		return nil, fmt.Errorf("%w: a team cannot play itself", ErrValidationFailed)
	}

	for _, teamID := range []int{input.TeamAID, input.TeamBID} {
		if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, fmt.Errorf("failed to load team: %w", err)
		}
	}

	match := &models.Match{
		TeamAID:   input.TeamAID,
		TeamBID:   input.TeamBID,
		MatchDate: input.MatchDate,
		MatchTime: input.MatchTime,
		Status:    models.MatchStatusUpcoming,
		CreatedBy: officialID,
	}

	kickoff, err := match.KickoffAt()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if kickoff.Before(s.now()) {
		return nil, ErrMatchInPast
	}

	var rosters []models.Player
	for _, teamID := range []int{input.TeamAID, input.TeamBID} {
		players, err := s.playerRepo.ListByTeamID(ctx, teamID)
		if err != nil {
			return nil, fmt.Errorf("failed to load roster: %w", err)
		}
		rosters = append(rosters, players...)
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.matchRepo.Create(ctx, tx, match); err != nil {
			return err
		}
		for _, p := range rosters {
			statsID, err := s.statsRepo.EnsureRow(ctx, tx, p.ID, p.UserID)
			if err != nil {
				return err
			}
			line := &models.MatchStatLine{StatsID: statsID, MatchID: match.ID}
			if err := s.statsRepo.AppendLine(ctx, tx, line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

func (s *matchService) UpdateStatus(ctx context.Context, officialID, matchID int, status models.MatchStatus) (*models.Match, error) {
	if !status.Valid() {
		return nil, ErrMatchInvalidStatus
	}

	match, err := s.getOwnMatch(ctx, officialID, matchID)
	if err != nil {
		return nil, err
	}

	// A match cannot stay Upcoming past its scheduled time.
	if status == models.MatchStatusUpcoming {
		if kickoff, err := match.KickoffAt(); err == nil && kickoff.Before(s.now()) {
			status = models.MatchStatusDelayed
		}
	}

	if err := s.matchRepo.UpdateStatus(ctx, matchID, status); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to update match status: %w", err)
	}
	match.Status = status

	if s.hub != nil {
		s.hub.BroadcastToRoom(live.MatchRoom(matchID), live.Message{
			Type: live.MessageStatusChanged,
			Payload: map[string]interface{}{
				"match_id": matchID,
				"status":   status,
			},
		})
	}
	return match, nil
}

// RecordGoal applies one scoring event atomically: score increment, goal
// insert, scorer and assist stat updates all commit or none do.
func (s *matchService) RecordGoal(ctx context.Context, officialID, matchID int, input GoalInput) (*models.Match, error) {
	match, err := s.getOwnMatch(ctx, officialID, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != models.MatchStatusLive {
		return nil, ErrMatchNotLive
	}
	if input.TeamID != match.TeamAID && input.TeamID != match.TeamBID {
		return nil, ErrTeamNotInMatch
	}

	rosterA, err := s.playerRepo.ListByTeamID(ctx, match.TeamAID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	rosterB, err := s.playerRepo.ListByTeamID(ctx, match.TeamBID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	onRosters := make(map[int]models.Player, len(rosterA)+len(rosterB))
	for _, p := range append(rosterA, rosterB...) {
		onRosters[p.ID] = p
	}

	scorer, ok := onRosters[input.ScorerPlayerID]
	if !ok {
		return nil, ErrPlayerNotOnRosters
	}
	var assist *models.Player
	if input.AssistPlayerID != nil {
		a, ok := onRosters[*input.AssistPlayerID]
		if !ok {
			return nil, ErrPlayerNotOnRosters
		}
		assist = &a
	}

	goal := &models.Goal{
		MatchID:        matchID,
		ScorerPlayerID: input.ScorerPlayerID,
		AssistPlayerID: input.AssistPlayerID,
		TeamID:         input.TeamID,
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.matchRepo.IncrementScore(ctx, tx, matchID, input.TeamID == match.TeamAID); err != nil {
			return err
		}
		if err := s.matchRepo.InsertGoal(ctx, tx, goal); err != nil {
			return err
		}

		scorerStatsID, err := s.statsRepo.EnsureRow(ctx, tx, scorer.ID, scorer.UserID)
		if err != nil {
			return err
		}
		if err := s.statsRepo.AdjustTotals(ctx, tx, scorerStatsID, 1, 0); err != nil {
			return err
		}
		if err := s.statsRepo.AppendLine(ctx, tx, &models.MatchStatLine{
			StatsID: scorerStatsID,
			MatchID: matchID,
			Goals:   1,
		}); err != nil {
			return err
		}

		if assist != nil {
			assistStatsID, err := s.statsRepo.EnsureRow(ctx, tx, assist.ID, assist.UserID)
			if err != nil {
				return err
			}
			if err := s.statsRepo.AdjustTotals(ctx, tx, assistStatsID, 0, 1); err != nil {
				return err
			}
			if err := s.statsRepo.AppendLine(ctx, tx, &models.MatchStatLine{
				StatsID: assistStatsID,
				MatchID: matchID,
				Assists: 1,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if input.TeamID == match.TeamAID {
		match.Score.TeamA++
	} else {
		match.Score.TeamB++
	}
	match.Goals = append(match.Goals, *goal)

	if s.hub != nil {
		s.hub.BroadcastToRoom(live.MatchRoom(matchID), live.Message{
			Type: live.MessageGoalScored,
			Payload: map[string]interface{}{
				"match_id": matchID,
				"team_id":  input.TeamID,
				"score":    match.Score,
				"goal":     goal,
			},
		})
	}
	return match, nil
}

func (s *matchService) AssignMVP(ctx context.Context, officialID, matchID, userID int) error {
	match, err := s.getOwnMatch(ctx, officialID, matchID)
	if err != nil {
		return err
	}
	if match.Status != models.MatchStatusFullTime {
		return ErrMatchNotFullTime
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.matchRepo.SetMVP(ctx, matchID, userID); err != nil {
		return fmt.Errorf("failed to set mvp: %w", err)
	}
	return nil
}

func (s *matchService) Details(ctx context.Context, matchID int) (*MatchView, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match: %w", err)
	}

	if err := s.populateMatch(ctx, match); err != nil {
		return nil, err
	}

	view := &MatchView{Match: match}
	if match.MVPUserID != nil {
		if mvp, err := s.userRepo.GetByID(ctx, *match.MVPUserID); err == nil {
			populateUserPicURL(mvp, s.uploader)
			view.MVP = mvp
		}
	}
	return view, nil
}

func (s *matchService) List(ctx context.Context) ([]models.Match, error) {
	matches, err := s.matchRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	for i := range matches {
		s.populateMatchTeams(ctx, &matches[i])
	}
	return matches, nil
}

func (s *matchService) SearchByTeamName(ctx context.Context, query string) ([]models.Match, error) {
	teams, err := s.teamRepo.SearchByName(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search teams: %w", err)
	}

	teamIDs := make([]int, 0, len(teams))
	for _, t := range teams {
		teamIDs = append(teamIDs, t.ID)
	}

	matches, err := s.matchRepo.ListByTeamIDs(ctx, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches by teams: %w", err)
	}
	for i := range matches {
		s.populateMatchTeams(ctx, &matches[i])
	}
	return matches, nil
}

func (s *matchService) ListByCreator(ctx context.Context, officialID int) ([]models.Match, error) {
	matches, err := s.matchRepo.ListByCreator(ctx, officialID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches by creator: %w", err)
	}
	for i := range matches {
		s.populateMatchTeams(ctx, &matches[i])
	}
	return matches, nil
}

func (s *matchService) getOwnMatch(ctx context.Context, officialID, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match: %w", err)
	}
	if match.CreatedBy != officialID {
		return nil, ErrForbiddenOperation
	}
	return match, nil
}

func (s *matchService) populateMatchTeams(ctx context.Context, match *models.Match) {
	if teamA, err := s.teamRepo.GetByID(ctx, match.TeamAID); err == nil {
		populateTeamLogoURL(teamA, s.uploader)
		match.TeamA = teamA
	}
	if teamB, err := s.teamRepo.GetByID(ctx, match.TeamBID); err == nil {
		populateTeamLogoURL(teamB, s.uploader)
		match.TeamB = teamB
	}
}

func (s *matchService) populateMatch(ctx context.Context, match *models.Match) error {
	s.populateMatchTeams(ctx, match)

	if match.TeamA != nil {
		roster, err := s.playerRepo.ListByTeamID(ctx, match.TeamAID)
		if err != nil {
			return fmt.Errorf("failed to load roster: %w", err)
		}
		match.TeamA.Roster = s.populateRosterUsers(ctx, roster)
	}
	if match.TeamB != nil {
		roster, err := s.playerRepo.ListByTeamID(ctx, match.TeamBID)
		if err != nil {
			return fmt.Errorf("failed to load roster: %w", err)
		}
		match.TeamB.Roster = s.populateRosterUsers(ctx, roster)
	}

	goals, err := s.matchRepo.ListGoals(ctx, match.ID)
	if err != nil {
		return fmt.Errorf("failed to load goals: %w", err)
	}
	for i := range goals {
		if p, err := s.playerRepo.GetByID(ctx, goals[i].ScorerPlayerID); err == nil {
			if u, err := s.userRepo.GetByID(ctx, p.UserID); err == nil {
				populateUserPicURL(u, s.uploader)
				p.User = u
			}
			goals[i].Scorer = p
		}
		if goals[i].AssistPlayerID != nil {
			if p, err := s.playerRepo.GetByID(ctx, *goals[i].AssistPlayerID); err == nil {
				if u, err := s.userRepo.GetByID(ctx, p.UserID); err == nil {
					populateUserPicURL(u, s.uploader)
					p.User = u
				}
				goals[i].Assist = p
			}
		}
	}
	match.Goals = goals
	return nil
}

func (s *matchService) populateRosterUsers(ctx context.Context, roster []models.Player) []models.Player {
	for i := range roster {
		if u, err := s.userRepo.GetByID(ctx, roster[i].UserID); err == nil {
			populateUserPicURL(u, s.uploader)
			roster[i].User = u
		}
	}
	return roster
}
