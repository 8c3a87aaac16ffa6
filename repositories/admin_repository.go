package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fbscore/fbscore/models"
)

var (
	ErrAdminNotFound   = errors.New("admin not found")
	ErrAdminIDConflict = errors.New("admin id conflict")
)

type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByAdminID(ctx context.Context, adminID string) (*models.Admin, error)
	Count(ctx context.Context) (int, error)
}

type postgresAdminRepository struct {
	db *sql.DB
}

func NewPostgresAdminRepository(db *sql.DB) AdminRepository {
	return &postgresAdminRepository{db: db}
}

func (r *postgresAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (name, admin_id, password_hash, pic_key)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, admin.Name, admin.AdminID, admin.PasswordHash, admin.PicKey).
		Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "admins_admin_id_key") {
			return ErrAdminIDConflict
		}
		return fmt.Errorf("failed to insert admin: %w", err)
	}
	return nil
}

func (r *postgresAdminRepository) GetByAdminID(ctx context.Context, adminID string) (*models.Admin, error) {
	query := `SELECT id, name, admin_id, password_hash, pic_key, created_at FROM admins WHERE admin_id = $1`

	admin := &models.Admin{}
	err := r.db.QueryRowContext(ctx, query, adminID).
		Scan(&admin.ID, &admin.Name, &admin.AdminID, &admin.PasswordHash, &admin.PicKey, &admin.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to scan admin: %w", err)
	}
	return admin, nil
}

func (r *postgresAdminRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return count, nil
}
