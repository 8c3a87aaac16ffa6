package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fbscore/fbscore/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("user email conflict")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateFields(ctx context.Context, id int, fields map[string]interface{}) (*models.User, error)
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error
	List(ctx context.Context) ([]*models.User, error)
	ListWithoutTeam(ctx context.Context) ([]*models.User, error)
	SearchByName(ctx context.Context, query string) ([]*models.User, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	Count(ctx context.Context) (int, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

const userColumns = `id, name, email, dob, gender, country, password_hash, position, foot, pic_key, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.DOB,
		&user.Gender,
		&user.Country,
		&user.PasswordHash,
		&user.Position,
		&user.Foot,
		&user.PicKey,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, dob, gender, country, password_hash, position, foot, pic_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Name,
		user.Email,
		user.DOB,
		user.Gender,
		user.Country,
		user.PasswordHash,
		user.Position,
		user.Foot,
		user.PicKey,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return ErrUserEmailConflict
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user by id %d: %w", id, err)
	}
	return user, nil
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user by email: %w", err)
	}
	return user, nil
}

// UpdateFields applies a partial update; keys are column names, values new
// values. Callers are responsible for whitelisting the keys.
func (r *postgresUserRepository) UpdateFields(ctx context.Context, id int, fields map[string]interface{}) (*models.User, error) {
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	var sb strings.Builder
	sb.WriteString("UPDATE users SET ")
	args := make([]interface{}, 0, len(fields)+1)
	i := 1
	for col, val := range fields {
		if i > 1 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s = $%d", col, i)
		args = append(args, val)
		i++
	}
	fmt.Fprintf(&sb, ", updated_at = now() WHERE id = $%d RETURNING %s", i, userColumns)
	args = append(args, id)

	user, err := scanUser(r.db.QueryRowContext(ctx, sb.String(), args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}
	return user, nil
}

func (r *postgresUserRepository) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = now() WHERE email = $2`

	result, err := r.db.ExecContext(ctx, query, passwordHash, email)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *postgresUserRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	return r.queryUsers(ctx, query)
}

func (r *postgresUserRepository) ListWithoutTeam(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id NOT IN (SELECT user_id FROM players)
		ORDER BY created_at DESC`
	return r.queryUsers(ctx, query)
}

func (r *postgresUserRepository) SearchByName(ctx context.Context, search string) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE name ILIKE $1 ORDER BY name`
	return r.queryUsers(ctx, query, "%"+search+"%")
}

func (r *postgresUserRepository) queryUsers(ctx context.Context, query string, args ...interface{}) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *postgresUserRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *postgresUserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
