package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fbscore/fbscore/models"
)

var (
	ErrTeamNotFound      = errors.New("team not found")
	ErrTeamNameConflict  = errors.New("team name conflict")
	ErrTeamEmailConflict = errors.New("team email conflict")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	GetByEmail(ctx context.Context, email string) (*models.Team, error)
	GetByName(ctx context.Context, teamname string) (*models.Team, error)
	SearchByName(ctx context.Context, search string) ([]*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	Count(ctx context.Context) (int, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, teamname, logo_key, country, created_by, email, password_hash, active, created_at`

func scanTeam(row interface{ Scan(...interface{}) error }) (*models.Team, error) {
	team := &models.Team{}
	err := row.Scan(
		&team.ID,
		&team.TeamName,
		&team.LogoKey,
		&team.Country,
		&team.CreatedBy,
		&team.Email,
		&team.PasswordHash,
		&team.Active,
		&team.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO teams (teamname, logo_key, country, created_by, email, password_hash, active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		RETURNING id, active, created_at`

	err := exec.QueryRowContext(ctx, query,
		team.TeamName,
		team.LogoKey,
		team.Country,
		team.CreatedBy,
		team.Email,
		team.PasswordHash,
	).Scan(&team.ID, &team.Active, &team.CreatedAt)

	if err != nil {
		if isUniqueViolation(err, "teams_teamname_key") {
			return ErrTeamNameConflict
		}
		if isUniqueViolation(err, "teams_email_key") {
			return ErrTeamEmailConflict
		}
		return fmt.Errorf("failed to insert team: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := scanTeam(r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team by id %d: %w", id, err)
	}
	return team, nil
}

func (r *postgresTeamRepository) GetByEmail(ctx context.Context, email string) (*models.Team, error) {
	team, err := scanTeam(r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team by email: %w", err)
	}
	return team, nil
}

func (r *postgresTeamRepository) GetByName(ctx context.Context, teamname string) (*models.Team, error) {
	team, err := scanTeam(r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE teamname = $1`, teamname))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team by name: %w", err)
	}
	return team, nil
}

func (r *postgresTeamRepository) SearchByName(ctx context.Context, search string) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE teamname ILIKE $1 ORDER BY teamname`
	return r.queryTeams(ctx, query, "%"+search+"%")
}

func (r *postgresTeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	return r.queryTeams(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY created_at DESC`)
}

func (r *postgresTeamRepository) queryTeams(ctx context.Context, query string, args ...interface{}) ([]*models.Team, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team %d: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func (r *postgresTeamRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM teams`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}
	return count, nil
}
