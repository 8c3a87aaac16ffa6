package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fbscore/fbscore/models"
)

var (
	ErrPlayerRequestNotFound  = errors.New("player request not found")
	ErrPlayerRequestDuplicate = errors.New("player request already exists")
)

type PlayerRequestRepository interface {
	Create(ctx context.Context, req *models.PlayerRequest) error
	GetByID(ctx context.Context, id int) (*models.PlayerRequest, error)
	GetByTeamAndUser(ctx context.Context, teamID, userID int) (*models.PlayerRequest, error)
	ListByUserID(ctx context.Context, userID int) ([]models.PlayerRequest, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	DeleteByUserID(ctx context.Context, exec SQLExecutor, userID int) error
}

type postgresPlayerRequestRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRequestRepository(db *sql.DB) PlayerRequestRepository {
	return &postgresPlayerRequestRepository{db: db}
}

const playerRequestColumns = `id, team_id, user_id, player_no, created_at`

func scanPlayerRequest(row interface{ Scan(...interface{}) error }) (*models.PlayerRequest, error) {
	req := &models.PlayerRequest{}
	err := row.Scan(&req.ID, &req.TeamID, &req.UserID, &req.PlayerNo, &req.CreatedAt)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *postgresPlayerRequestRepository) Create(ctx context.Context, req *models.PlayerRequest) error {
	query := `
		INSERT INTO player_requests (team_id, user_id, player_no)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, req.TeamID, req.UserID, req.PlayerNo).
		Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "player_requests_team_user_key") {
			return ErrPlayerRequestDuplicate
		}
		return fmt.Errorf("failed to insert player request: %w", err)
	}
	return nil
}

func (r *postgresPlayerRequestRepository) GetByID(ctx context.Context, id int) (*models.PlayerRequest, error) {
	query := `SELECT ` + playerRequestColumns + ` FROM player_requests WHERE id = $1`
	req, err := scanPlayerRequest(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerRequestNotFound
		}
		return nil, fmt.Errorf("failed to scan player request: %w", err)
	}
	return req, nil
}

func (r *postgresPlayerRequestRepository) GetByTeamAndUser(ctx context.Context, teamID, userID int) (*models.PlayerRequest, error) {
	query := `SELECT ` + playerRequestColumns + ` FROM player_requests WHERE team_id = $1 AND user_id = $2`
	req, err := scanPlayerRequest(r.db.QueryRowContext(ctx, query, teamID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerRequestNotFound
		}
		return nil, fmt.Errorf("failed to scan player request: %w", err)
	}
	return req, nil
}

func (r *postgresPlayerRequestRepository) ListByUserID(ctx context.Context, userID int) ([]models.PlayerRequest, error) {
	query := `SELECT ` + playerRequestColumns + ` FROM player_requests WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query player requests: %w", err)
	}
	defer rows.Close()

	requests := []models.PlayerRequest{}
	for rows.Next() {
		req, err := scanPlayerRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player request row: %w", err)
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

func (r *postgresPlayerRequestRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `DELETE FROM player_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete player request: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return ErrPlayerRequestNotFound
	}
	return nil
}

// DeleteByUserID drops every pending invitation addressed to the user.
func (r *postgresPlayerRequestRepository) DeleteByUserID(ctx context.Context, exec SQLExecutor, userID int) error {
	if exec == nil {
		exec = r.db
	}
	if _, err := exec.ExecContext(ctx, `DELETE FROM player_requests WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete player requests by user: %w", err)
	}
	return nil
}
