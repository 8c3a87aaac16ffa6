package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/fbscore/fbscore/models"
	"github.com/fbscore/fbscore/storage"
)

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// runInTx runs fn inside a transaction, rolling back on error or panic.
func runInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// --- Хелперы для заполнения публичных URL картинок ---

func populateUserPicURL(user *models.User, uploader storage.FileUploader) {
	if user == nil {
		return
	}
	user.PasswordHash = "" // Важно для безопасности
	if user.PicKey != nil && *user.PicKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*user.PicKey)
		if url != "" {
			user.PicURL = &url
		}
	}
}

func populateTeamLogoURL(team *models.Team, uploader storage.FileUploader) {
	if team == nil {
		return
	}
	team.PasswordHash = ""
	if team.LogoKey != nil && *team.LogoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*team.LogoKey)
		if url != "" {
			team.LogoURL = &url
		}
	}
}

func populateTeamRequestLogoURL(req *models.TeamRequest, uploader storage.FileUploader) {
	if req == nil {
		return
	}
	req.PasswordHash = ""
	if req.LogoKey != nil && *req.LogoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*req.LogoKey)
		if url != "" {
			req.LogoURL = &url
		}
	}
}

func populatePostImageURL(post *models.Post, uploader storage.FileUploader) {
	if post == nil {
		return
	}
	if post.ImageKey != nil && *post.ImageKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*post.ImageKey)
		if url != "" {
			post.ImageURL = &url
		}
	}
}

// sendAsync fires a notification email without blocking the request,
// logging the failure instead of surfacing it.
func sendAsync(logger *slog.Logger, what string, send func() error) {
	go func() {
		if err := send(); err != nil && logger != nil {
			logger.Error("failed to send email", slog.String("email", what), slog.Any("error", err))
		}
	}()
}
