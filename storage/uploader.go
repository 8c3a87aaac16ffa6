package storage

import (
	"context"
	"io"
	"path"

	"github.com/google/uuid"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// NewObjectKey builds a unique object key under the given prefix,
// keeping the original file extension.
func NewObjectKey(prefix, filename string) string {
	return prefix + "/" + uuid.NewString() + path.Ext(filename)
}
