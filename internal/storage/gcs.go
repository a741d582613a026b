package storage

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// Uploader stores an object and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

type gcsUploader struct {
	client *storage.Client
	bucket string
}

// NewGCSUploader uses application default credentials, same as the rest of
// the GCP surface.
func NewGCSUploader(ctx context.Context, bucket string) (Uploader, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &gcsUploader{client: client, bucket: bucket}, nil
}

func (u *gcsUploader) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	w := u.client.Bucket(u.bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize %s: %w", objectPath, err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.bucket, objectPath), nil
}
