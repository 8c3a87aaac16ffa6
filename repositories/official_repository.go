package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fbscore/fbscore/models"
)

var (
	ErrOfficialNotFound      = errors.New("match official not found")
	ErrOfficialEmailConflict = errors.New("match official email conflict")
)

type OfficialRepository interface {
	Create(ctx context.Context, exec SQLExecutor, official *models.MatchOfficial) error
	GetByID(ctx context.Context, id int) (*models.MatchOfficial, error)
	GetByEmail(ctx context.Context, email string) (*models.MatchOfficial, error)
	List(ctx context.Context) ([]*models.MatchOfficial, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	Count(ctx context.Context) (int, error)
}

type postgresOfficialRepository struct {
	db *sql.DB
}

func NewPostgresOfficialRepository(db *sql.DB) OfficialRepository {
	return &postgresOfficialRepository{db: db}
}

func (r *postgresOfficialRepository) Create(ctx context.Context, exec SQLExecutor, official *models.MatchOfficial) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO match_officials (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query, official.Name, official.Email, official.PasswordHash).
		Scan(&official.ID, &official.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "match_officials_email_key") {
			return ErrOfficialEmailConflict
		}
		return fmt.Errorf("failed to insert match official: %w", err)
	}
	return nil
}

func (r *postgresOfficialRepository) GetByID(ctx context.Context, id int) (*models.MatchOfficial, error) {
	query := `SELECT id, name, email, password_hash, created_at FROM match_officials WHERE id = $1`

	official := &models.MatchOfficial{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&official.ID, &official.Name, &official.Email, &official.PasswordHash, &official.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOfficialNotFound
		}
		return nil, fmt.Errorf("failed to scan match official %d: %w", id, err)
	}
	return official, nil
}

func (r *postgresOfficialRepository) GetByEmail(ctx context.Context, email string) (*models.MatchOfficial, error) {
	query := `SELECT id, name, email, password_hash, created_at FROM match_officials WHERE email = $1`

	official := &models.MatchOfficial{}
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&official.ID, &official.Name, &official.Email, &official.PasswordHash, &official.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOfficialNotFound
		}
		return nil, fmt.Errorf("failed to scan match official by email: %w", err)
	}
	return official, nil
}

func (r *postgresOfficialRepository) List(ctx context.Context) ([]*models.MatchOfficial, error) {
	query := `SELECT id, name, email, password_hash, created_at FROM match_officials ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query match officials: %w", err)
	}
	defer rows.Close()

	var officials []*models.MatchOfficial
	for rows.Next() {
		official := &models.MatchOfficial{}
		if err := rows.Scan(&official.ID, &official.Name, &official.Email, &official.PasswordHash, &official.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match official row: %w", err)
		}
		officials = append(officials, official)
	}
	return officials, rows.Err()
}

func (r *postgresOfficialRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `DELETE FROM match_officials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete match official %d: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrOfficialNotFound
	}
	return nil
}

func (r *postgresOfficialRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM match_officials`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count match officials: %w", err)
	}
	return count, nil
}
