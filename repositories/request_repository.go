package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fbscore/fbscore/models"
)

var (
	ErrTeamRequestNotFound     = errors.New("team request not found")
	ErrTeamRequestNameConflict = errors.New("team request name conflict")
	ErrOfficialRequestNotFound = errors.New("match official request not found")
)

// TeamRequestRepository stores pending team registration applications.
type TeamRequestRepository interface {
	Create(ctx context.Context, req *models.TeamRequest) error
	GetByID(ctx context.Context, id int) (*models.TeamRequest, error)
	List(ctx context.Context) ([]*models.TeamRequest, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresTeamRequestRepository struct {
	db *sql.DB
}

func NewPostgresTeamRequestRepository(db *sql.DB) TeamRequestRepository {
	return &postgresTeamRequestRepository{db: db}
}

const teamRequestColumns = `id, teamname, logo_key, country, created_by, email, password_hash, created_at`

func scanTeamRequest(row interface{ Scan(...interface{}) error }) (*models.TeamRequest, error) {
	req := &models.TeamRequest{}
	err := row.Scan(
		&req.ID,
		&req.TeamName,
		&req.LogoKey,
		&req.Country,
		&req.CreatedBy,
		&req.Email,
		&req.PasswordHash,
		&req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *postgresTeamRequestRepository) Create(ctx context.Context, req *models.TeamRequest) error {
	query := `
		INSERT INTO team_requests (teamname, logo_key, country, created_by, email, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		req.TeamName,
		req.LogoKey,
		req.Country,
		req.CreatedBy,
		req.Email,
		req.PasswordHash,
	).Scan(&req.ID, &req.CreatedAt)

	if err != nil {
		if isUniqueViolation(err, "team_requests_teamname_key") {
			return ErrTeamRequestNameConflict
		}
		return fmt.Errorf("failed to insert team request: %w", err)
	}
	return nil
}

func (r *postgresTeamRequestRepository) GetByID(ctx context.Context, id int) (*models.TeamRequest, error) {
	query := `SELECT ` + teamRequestColumns + ` FROM team_requests WHERE id = $1`

	req, err := scanTeamRequest(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamRequestNotFound
		}
		return nil, fmt.Errorf("failed to scan team request %d: %w", id, err)
	}
	return req, nil
}

func (r *postgresTeamRequestRepository) List(ctx context.Context) ([]*models.TeamRequest, error) {
	query := `SELECT ` + teamRequestColumns + ` FROM team_requests ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query team requests: %w", err)
	}
	defer rows.Close()

	var reqs []*models.TeamRequest
	for rows.Next() {
		req, err := scanTeamRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team request row: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

func (r *postgresTeamRequestRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `DELETE FROM team_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team request %d: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrTeamRequestNotFound
	}
	return nil
}

// OfficialRequestRepository stores pending match official applications.
type OfficialRequestRepository interface {
	Create(ctx context.Context, req *models.OfficialRequest) error
	GetByID(ctx context.Context, id int) (*models.OfficialRequest, error)
	List(ctx context.Context) ([]*models.OfficialRequest, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresOfficialRequestRepository struct {
	db *sql.DB
}

func NewPostgresOfficialRequestRepository(db *sql.DB) OfficialRequestRepository {
	return &postgresOfficialRequestRepository{db: db}
}

func (r *postgresOfficialRequestRepository) Create(ctx context.Context, req *models.OfficialRequest) error {
	query := `
		INSERT INTO official_requests (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, req.Name, req.Email, req.PasswordHash).
		Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert official request: %w", err)
	}
	return nil
}

func (r *postgresOfficialRequestRepository) GetByID(ctx context.Context, id int) (*models.OfficialRequest, error) {
	query := `SELECT id, name, email, password_hash, created_at FROM official_requests WHERE id = $1`

	req := &models.OfficialRequest{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&req.ID, &req.Name, &req.Email, &req.PasswordHash, &req.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOfficialRequestNotFound
		}
		return nil, fmt.Errorf("failed to scan official request %d: %w", id, err)
	}
	return req, nil
}

func (r *postgresOfficialRequestRepository) List(ctx context.Context) ([]*models.OfficialRequest, error) {
	query := `SELECT id, name, email, password_hash, created_at FROM official_requests ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query official requests: %w", err)
	}
	defer rows.Close()

	var reqs []*models.OfficialRequest
	for rows.Next() {
		req := &models.OfficialRequest{}
		if err := rows.Scan(&req.ID, &req.Name, &req.Email, &req.PasswordHash, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan official request row: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

func (r *postgresOfficialRequestRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `DELETE FROM official_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete official request %d: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrOfficialRequestNotFound
	}
	return nil
}
