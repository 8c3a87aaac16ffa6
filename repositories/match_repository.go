package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/fbscore/fbscore/models"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context) ([]models.Match, error)
	ListByTeamIDs(ctx context.Context, teamIDs []int) ([]models.Match, error)
	ListByCreator(ctx context.Context, officialID int) ([]models.Match, error)
	ListIDsByCreator(ctx context.Context, officialID int) ([]int, error)
	IncrementScore(ctx context.Context, exec SQLExecutor, matchID int, forTeamA bool) error
	InsertGoal(ctx context.Context, exec SQLExecutor, goal *models.Goal) error
	ListGoals(ctx context.Context, matchID int) ([]models.Goal, error)
	UpdateStatus(ctx context.Context, matchID int, status models.MatchStatus) error
	SetMVP(ctx context.Context, matchID, userID int) error
	CountFullTimeByTeam(ctx context.Context, teamID int) (played, won, lost int, err error)
	CountByCreator(ctx context.Context, officialID int) (int, error)
	Count(ctx context.Context) (int, error)
	DeleteByCreator(ctx context.Context, exec SQLExecutor, officialID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, team_a_id, team_b_id, score_a, score_b, match_date, match_time, status, created_by, mvp_user_id, created_at`

func scanMatch(row interface{ Scan(...interface{}) error }) (*models.Match, error) {
	m := &models.Match{}
	err := row.Scan(
		&m.ID, &m.TeamAID, &m.TeamBID, &m.Score.TeamA, &m.Score.TeamB,
		&m.MatchDate, &m.MatchTime, &m.Status, &m.CreatedBy, &m.MVPUserID, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO matches (team_a_id, team_b_id, match_date, match_time, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, score_a, score_b, created_at`

	err := exec.QueryRowContext(ctx, query,
		match.TeamAID, match.TeamBID, match.MatchDate, match.MatchTime, match.Status, match.CreatedBy,
	).Scan(&match.ID, &match.Score.TeamA, &match.Score.TeamB, &match.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	match, err := scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}
	return match, nil
}

func (r *postgresMatchRepository) List(ctx context.Context) ([]models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches ORDER BY match_date DESC, match_time DESC`
	return r.queryMatches(ctx, query)
}

func (r *postgresMatchRepository) ListByTeamIDs(ctx context.Context, teamIDs []int) ([]models.Match, error) {
	if len(teamIDs) == 0 {
		return []models.Match{}, nil
	}
	query := `SELECT ` + matchColumns + `
		FROM matches
		WHERE team_a_id = ANY($1) OR team_b_id = ANY($1)
		ORDER BY match_date DESC, match_time DESC`
	return r.queryMatches(ctx, query, pq.Array(teamIDs))
}

func (r *postgresMatchRepository) ListByCreator(ctx context.Context, officialID int) ([]models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE created_by = $1 ORDER BY match_date DESC, match_time DESC`
	return r.queryMatches(ctx, query, officialID)
}

func (r *postgresMatchRepository) ListIDsByCreator(ctx context.Context, officialID int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM matches WHERE created_by = $1`, officialID)
	if err != nil {
		return nil, fmt.Errorf("failed to query match ids: %w", err)
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan match id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresMatchRepository) queryMatches(ctx context.Context, query string, args ...interface{}) ([]models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := []models.Match{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) IncrementScore(ctx context.Context, exec SQLExecutor, matchID int, forTeamA bool) error {
	if exec == nil {
		exec = r.db
	}
	column := "score_b"
	if forTeamA {
		column = "score_a"
	}
	query := fmt.Sprintf(`UPDATE matches SET %s = %s + 1 WHERE id = $1`, column, column)

	result, err := exec.ExecContext(ctx, query, matchID)
	if err != nil {
		return fmt.Errorf("failed to increment score: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func (r *postgresMatchRepository) InsertGoal(ctx context.Context, exec SQLExecutor, goal *models.Goal) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO goals (match_id, scorer_player_id, assist_player_id, team_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, scored_at`

	err := exec.QueryRowContext(ctx, query, goal.MatchID, goal.ScorerPlayerID, goal.AssistPlayerID, goal.TeamID).
		Scan(&goal.ID, &goal.ScoredAt)
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}
	return nil
}

func (r *postgresMatchRepository) ListGoals(ctx context.Context, matchID int) ([]models.Goal, error) {
	query := `
		SELECT id, match_id, scorer_player_id, assist_player_id, team_id, scored_at
		FROM goals
		WHERE match_id = $1
		ORDER BY scored_at, id`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	goals := []models.Goal{}
	for rows.Next() {
		g := models.Goal{}
		err := rows.Scan(&g.ID, &g.MatchID, &g.ScorerPlayerID, &g.AssistPlayerID, &g.TeamID, &g.ScoredAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal row: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, matchID int, status models.MatchStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE matches SET status = $1 WHERE id = $2`, status, matchID)
	if err != nil {
		return fmt.Errorf("failed to update match status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func (r *postgresMatchRepository) SetMVP(ctx context.Context, matchID, userID int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE matches SET mvp_user_id = $1 WHERE id = $2`, userID, matchID)
	if err != nil {
		return fmt.Errorf("failed to set match mvp: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return ErrMatchNotFound
	}
	return nil
}

// CountFullTimeByTeam derives a team's played/won/lost record from finished matches.
func (r *postgresMatchRepository) CountFullTimeByTeam(ctx context.Context, teamID int) (played, won, lost int, err error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE (team_a_id = $1 AND score_a > score_b) OR (team_b_id = $1 AND score_b > score_a)),
			COUNT(*) FILTER (WHERE (team_a_id = $1 AND score_a < score_b) OR (team_b_id = $1 AND score_b < score_a))
		FROM matches
		WHERE status = 'Full Time' AND (team_a_id = $1 OR team_b_id = $1)`

	err = r.db.QueryRowContext(ctx, query, teamID).Scan(&played, &won, &lost)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count team matches: %w", err)
	}
	return played, won, lost, nil
}

func (r *postgresMatchRepository) CountByCreator(ctx context.Context, officialID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches WHERE created_by = $1`, officialID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches by creator: %w", err)
	}
	return count, nil
}

func (r *postgresMatchRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}

func (r *postgresMatchRepository) DeleteByCreator(ctx context.Context, exec SQLExecutor, officialID int) error {
	if exec == nil {
		exec = r.db
	}
	if _, err := exec.ExecContext(ctx, `DELETE FROM matches WHERE created_by = $1`, officialID); err != nil {
		return fmt.Errorf("failed to delete matches by creator: %w", err)
	}
	return nil
}
