// Package archive keeps a copy of every exported report in object storage.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"cloud.google.com/go/storage"
)

// uploadTimeout bounds a single object upload.
const uploadTimeout = 2 * time.Minute

// Archiver stores an exported document and returns its URI.
type Archiver interface {
	Archive(ctx context.Context, filename, contentType string, body []byte) (string, error)
}

// GCSArchiver uploads exports to a Google Cloud Storage bucket under
// reports/YYYY/MM/DD/. Credentials come from Application Default Credentials.
type GCSArchiver struct {
	client *storage.Client
	bucket string
	now    func() time.Time
}

// NewGCSArchiver creates a storage client for bucket.
func NewGCSArchiver(ctx context.Context, bucket string) (*GCSArchiver, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSArchiver{client: client, bucket: bucket, now: time.Now}, nil
}

// Close releases the storage client.
func (a *GCSArchiver) Close() error {
	return a.client.Close()
}

// Archive uploads body and returns its gs:// URI.
func (a *GCSArchiver) Archive(ctx context.Context, filename, contentType string, body []byte) (string, error) {
	object := ObjectName(a.now(), filename)

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := a.client.Bucket(a.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, bytes.NewReader(body)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("copy export to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}
	return URI(a.bucket, object), nil
}

// ObjectName places filename under a dated prefix. The timestamp prefix
// keeps repeated exports of the same range from overwriting each other.
func ObjectName(now time.Time, filename string) string {
	now = now.UTC()
	return path.Join("reports", now.Format("2006/01/02"),
		fmt.Sprintf("%s_%s", now.Format("150405"), path.Base(filename)))
}

// URI formats a gs:// URI.
func URI(bucket, object string) string {
	return "gs://" + bucket + "/" + object
}
