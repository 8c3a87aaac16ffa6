package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fbscore/fbscore/models"
)

var (
	ErrPlayerNotFound       = errors.New("player not found")
	ErrPlayerAlreadyOnTeam  = errors.New("player already on a team")
	ErrPlayerNumberConflict = errors.New("player number already taken")
)

type PlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	GetByUserID(ctx context.Context, userID int) (*models.Player, error)
	ListByTeamID(ctx context.Context, teamID int) ([]models.Player, error)
	GetByTeamAndNo(ctx context.Context, teamID int, playerNo string) (*models.Player, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	DeleteByTeamID(ctx context.Context, exec SQLExecutor, teamID int) ([]int, error)
	Count(ctx context.Context) (int, error)
	DistinctUserCount(ctx context.Context) (int, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

const playerColumns = `id, team_id, user_id, player_no, created_at`

func scanPlayer(row interface{ Scan(...interface{}) error }) (*models.Player, error) {
	p := &models.Player{}
	err := row.Scan(&p.ID, &p.TeamID, &p.UserID, &p.PlayerNo, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresPlayerRepository) Create(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO players (team_id, user_id, player_no)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query, player.TeamID, player.UserID, player.PlayerNo).
		Scan(&player.ID, &player.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "players_user_id_key") {
			return ErrPlayerAlreadyOnTeam
		}
		if isUniqueViolation(err, "players_team_no_key") {
			return ErrPlayerNumberConflict
		}
		return fmt.Errorf("failed to insert player: %w", err)
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	player, err := scanPlayer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player: %w", err)
	}
	return player, nil
}

func (r *postgresPlayerRepository) GetByUserID(ctx context.Context, userID int) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE user_id = $1`
	player, err := scanPlayer(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player: %w", err)
	}
	return player, nil
}

func (r *postgresPlayerRepository) ListByTeamID(ctx context.Context, teamID int) ([]models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE team_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := []models.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

func (r *postgresPlayerRepository) GetByTeamAndNo(ctx context.Context, teamID int, playerNo string) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE team_id = $1 AND player_no = $2`
	player, err := scanPlayer(r.db.QueryRowContext(ctx, query, teamID, playerNo))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player: %w", err)
	}
	return player, nil
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

// DeleteByTeamID removes a team's whole roster and returns the deleted player ids.
func (r *postgresPlayerRepository) DeleteByTeamID(ctx context.Context, exec SQLExecutor, teamID int) ([]int, error) {
	if exec == nil {
		exec = r.db
	}
	rows, err := exec.QueryContext(ctx, `DELETE FROM players WHERE team_id = $1 RETURNING id`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete players by team: %w", err)
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan deleted player id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresPlayerRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}

func (r *postgresPlayerRepository) DistinctUserCount(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT user_id) FROM players`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count distinct player users: %w", err)
	}
	return count, nil
}
