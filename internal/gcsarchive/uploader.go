// Package gcsarchive copies analysis output artifacts to a GCS bucket so
// results outlive the machine the run happened on.
package gcsarchive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"

	"github.com/dvloznov/vendorscope/internal/logger"
)

// Uploader archives run artifacts under gs://<bucket>/runs/<runID>/.
// It assumes Application Default Credentials are configured.
type Uploader struct {
	Bucket string
}

// NewUploader creates an Uploader targeting the given bucket.
func NewUploader(bucket string) *Uploader {
	return &Uploader{Bucket: bucket}
}

// ArchiveFile uploads the local file to runs/<runID>/<basename>.
func (u *Uploader) ArchiveFile(ctx context.Context, runID, filePath string) error {
	objectName := path.Join("runs", runID, filepath.Base(filePath))

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("ArchiveFile: open %q: %w", filePath, err)
	}
	defer f.Close()

	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("ArchiveFile: create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(u.Bucket).Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("ArchiveFile: copy to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("ArchiveFile: finalize upload: %w", err)
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("bucket", u.Bucket).
		Str("object", objectName).
		Msg("archived artifact")
	return nil
}
