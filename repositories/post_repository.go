package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fbscore/fbscore/models"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
)

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	ListByUserID(ctx context.Context, userID int) ([]models.Post, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error

	// ToggleLike flips the (post, user) like and reports whether the post
	// is liked after the call.
	ToggleLike(ctx context.Context, postID, userID int) (bool, error)
	CountLikes(ctx context.Context, postID int) (int, error)

	AddComment(ctx context.Context, comment *models.PostComment) error
	GetComment(ctx context.Context, commentID int) (*models.PostComment, error)
	ListComments(ctx context.Context, postID int) ([]models.PostComment, error)
	DeleteComment(ctx context.Context, commentID int) error
}

type postgresPostRepository struct {
	db *sql.DB
}

func NewPostgresPostRepository(db *sql.DB) PostRepository {
	return &postgresPostRepository{db: db}
}

const postColumns = `id, user_id, image_key, description, created_at`

func scanPost(row interface{ Scan(...interface{}) error }) (*models.Post, error) {
	p := &models.Post{}
	err := row.Scan(&p.ID, &p.UserID, &p.ImageKey, &p.Description, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresPostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (user_id, image_key, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, post.UserID, post.ImageKey, post.Description).
		Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

func (r *postgresPostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}
	return post, nil
}

func (r *postgresPostRepository) List(ctx context.Context) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC`
	return r.queryPosts(ctx, query)
}

func (r *postgresPostRepository) ListByUserID(ctx context.Context, userID int) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryPosts(ctx, query, userID)
}

func (r *postgresPostRepository) queryPosts(ctx context.Context, query string, args ...interface{}) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func (r *postgresPostRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *postgresPostRepository) ToggleLike(ctx context.Context, postID, userID int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove like: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected > 0 {
		return false, nil
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)`, postID, userID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, ErrPostNotFound
		}
		return false, fmt.Errorf("failed to add like: %w", err)
	}
	return true, nil
}

func (r *postgresPostRepository) CountLikes(ctx context.Context, postID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

func (r *postgresPostRepository) AddComment(ctx context.Context, comment *models.PostComment) error {
	query := `
		INSERT INTO post_comments (post_id, user_id, comment)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, comment.PostID, comment.UserID, comment.Comment).
		Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

func (r *postgresPostRepository) GetComment(ctx context.Context, commentID int) (*models.PostComment, error) {
	query := `SELECT id, post_id, user_id, comment, created_at FROM post_comments WHERE id = $1`

	c := &models.PostComment{}
	err := r.db.QueryRowContext(ctx, query, commentID).
		Scan(&c.ID, &c.PostID, &c.UserID, &c.Comment, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to scan comment: %w", err)
	}
	return c, nil
}

func (r *postgresPostRepository) ListComments(ctx context.Context, postID int) ([]models.PostComment, error) {
	query := `SELECT id, post_id, user_id, comment, created_at FROM post_comments WHERE post_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := []models.PostComment{}
	for rows.Next() {
		c := models.PostComment{}
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Comment, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *postgresPostRepository) DeleteComment(ctx context.Context, commentID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM post_comments WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCommentNotFound
	}
	return nil
}
