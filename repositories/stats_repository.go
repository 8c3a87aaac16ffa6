package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/fbscore/fbscore/models"
)

var ErrStatsNotFound = errors.New("player stats not found")

type StatsRepository interface {
	// EnsureRow creates the zero-valued stats row for a player if missing
	// and returns its id either way.
	EnsureRow(ctx context.Context, exec SQLExecutor, playerID, userID int) (int, error)
	IncrementTotals(ctx context.Context, exec SQLExecutor, playerID, goals, assists int) (int, error)
	AppendLine(ctx context.Context, exec SQLExecutor, line *models.MatchStatLine) error
	GetByPlayerID(ctx context.Context, playerID int) (*models.PlayerStats, error)
	ListByUserID(ctx context.Context, userID int) ([]models.PlayerStats, error)
	ListLines(ctx context.Context, statsID int) ([]models.MatchStatLine, error)
	ListByMatchIDs(ctx context.Context, matchIDs []int) ([]models.MatchStatLine, error)
	RemoveLinesByMatchIDs(ctx context.Context, exec SQLExecutor, matchIDs []int) error
	AdjustTotals(ctx context.Context, exec SQLExecutor, statsID, goalsDelta, assistsDelta int) error
	DeleteByPlayerIDs(ctx context.Context, exec SQLExecutor, playerIDs []int) error
}

type postgresStatsRepository struct {
	db *sql.DB
}

func NewPostgresStatsRepository(db *sql.DB) StatsRepository {
	return &postgresStatsRepository{db: db}
}

func (r *postgresStatsRepository) EnsureRow(ctx context.Context, exec SQLExecutor, playerID, userID int) (int, error) {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO player_stats (player_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (player_id) DO UPDATE SET updated_at = now()
		RETURNING id`

	var id int
	if err := exec.QueryRowContext(ctx, query, playerID, userID).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to ensure stats row: %w", err)
	}
	return id, nil
}

func (r *postgresStatsRepository) IncrementTotals(ctx context.Context, exec SQLExecutor, playerID, goals, assists int) (int, error) {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE player_stats
		SET total_goals = total_goals + $2, total_assists = total_assists + $3, updated_at = now()
		WHERE player_id = $1
		RETURNING id`

	var id int
	err := exec.QueryRowContext(ctx, query, playerID, goals, assists).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrStatsNotFound
		}
		return 0, fmt.Errorf("failed to increment stats totals: %w", err)
	}
	return id, nil
}

func (r *postgresStatsRepository) AppendLine(ctx context.Context, exec SQLExecutor, line *models.MatchStatLine) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO player_match_stats (stats_id, match_id, goals, assists)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := exec.QueryRowContext(ctx, query, line.StatsID, line.MatchID, line.Goals, line.Assists).Scan(&line.ID)
	if err != nil {
		return fmt.Errorf("failed to append match stat line: %w", err)
	}
	return nil
}

const statsColumns = `id, player_id, user_id, total_goals, total_assists, created_at, updated_at`

func scanStats(row interface{ Scan(...interface{}) error }) (*models.PlayerStats, error) {
	s := &models.PlayerStats{}
	err := row.Scan(&s.ID, &s.PlayerID, &s.UserID, &s.TotalGoals, &s.TotalAssists, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *postgresStatsRepository) GetByPlayerID(ctx context.Context, playerID int) (*models.PlayerStats, error) {
	query := `SELECT ` + statsColumns + ` FROM player_stats WHERE player_id = $1`
	stats, err := scanStats(r.db.QueryRowContext(ctx, query, playerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStatsNotFound
		}
		return nil, fmt.Errorf("failed to scan stats: %w", err)
	}
	return stats, nil
}

func (r *postgresStatsRepository) ListByUserID(ctx context.Context, userID int) ([]models.PlayerStats, error) {
	query := `SELECT ` + statsColumns + ` FROM player_stats WHERE user_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	all := []models.PlayerStats{}
	for rows.Next() {
		s, err := scanStats(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		all = append(all, *s)
	}
	return all, rows.Err()
}

func (r *postgresStatsRepository) ListLines(ctx context.Context, statsID int) ([]models.MatchStatLine, error) {
	query := `SELECT id, stats_id, match_id, goals, assists FROM player_match_stats WHERE stats_id = $1 ORDER BY id`
	return r.queryLines(ctx, query, statsID)
}

func (r *postgresStatsRepository) ListByMatchIDs(ctx context.Context, matchIDs []int) ([]models.MatchStatLine, error) {
	if len(matchIDs) == 0 {
		return []models.MatchStatLine{}, nil
	}
	query := `SELECT id, stats_id, match_id, goals, assists FROM player_match_stats WHERE match_id = ANY($1) ORDER BY id`
	return r.queryLines(ctx, query, pq.Array(matchIDs))
}

func (r *postgresStatsRepository) queryLines(ctx context.Context, query string, args ...interface{}) ([]models.MatchStatLine, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query match stat lines: %w", err)
	}
	defer rows.Close()

	lines := []models.MatchStatLine{}
	for rows.Next() {
		l := models.MatchStatLine{}
		if err := rows.Scan(&l.ID, &l.StatsID, &l.MatchID, &l.Goals, &l.Assists); err != nil {
			return nil, fmt.Errorf("failed to scan match stat line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *postgresStatsRepository) RemoveLinesByMatchIDs(ctx context.Context, exec SQLExecutor, matchIDs []int) error {
	if len(matchIDs) == 0 {
		return nil
	}
	if exec == nil {
		exec = r.db
	}
	if _, err := exec.ExecContext(ctx, `DELETE FROM player_match_stats WHERE match_id = ANY($1)`, pq.Array(matchIDs)); err != nil {
		return fmt.Errorf("failed to remove match stat lines: %w", err)
	}
	return nil
}

func (r *postgresStatsRepository) AdjustTotals(ctx context.Context, exec SQLExecutor, statsID, goalsDelta, assistsDelta int) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE player_stats
		SET total_goals = total_goals + $2, total_assists = total_assists + $3, updated_at = now()
		WHERE id = $1`

	result, err := exec.ExecContext(ctx, query, statsID, goalsDelta, assistsDelta)
	if err != nil {
		return fmt.Errorf("failed to adjust stats totals: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return ErrStatsNotFound
	}
	return nil
}

func (r *postgresStatsRepository) DeleteByPlayerIDs(ctx context.Context, exec SQLExecutor, playerIDs []int) error {
	if len(playerIDs) == 0 {
		return nil
	}
	if exec == nil {
		exec = r.db
	}
	if _, err := exec.ExecContext(ctx, `DELETE FROM player_stats WHERE player_id = ANY($1)`, pq.Array(playerIDs)); err != nil {
		return fmt.Errorf("failed to delete stats by players: %w", err)
	}
	return nil
}
