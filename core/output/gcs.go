package output

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

const uploadTimeout = 2 * time.Minute

// Uploader copies a finished export to remote storage and returns its URI.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// GCSUploader uploads exports to a Cloud Storage bucket. It assumes
// Application Default Credentials are configured.
type GCSUploader struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSUploader creates a storage client for bucket. Objects are stored
// below prefix, which may be empty.
func NewGCSUploader(ctx context.Context, bucket, prefix string) (*GCSUploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSUploader{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}, nil
}

// Upload writes data to gs://bucket/prefix/name.
func (u *GCSUploader) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	object := ObjectName(u.prefix, name)

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := u.client.Bucket(u.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}
	return "gs://" + u.bucket + "/" + object, nil
}

// Close releases the storage client.
func (u *GCSUploader) Close() error {
	return u.client.Close()
}

// ObjectName joins prefix and name into an object path.
func ObjectName(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// ContentType maps an export extension to its MIME type.
func ContentType(ext string) string {
	switch ext {
	case ".csv":
		return "text/csv; charset=utf-8"
	case ".json":
		return "application/json"
	case ".md":
		return "text/markdown; charset=utf-8"
	case ".pdf":
		return "application/pdf"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

var _ Uploader = (*GCSUploader)(nil)
