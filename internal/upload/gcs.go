package upload

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSTransferer uploads objects to a Google Cloud Storage bucket. The
// underlying client is constructed lazily on first transfer, so a dry run
// never opens a connection.
type GCSTransferer struct {
	bucket string
	opts   []option.ClientOption

	mu     sync.Mutex
	client *storage.Client
}

// NewGCSTransferer creates a GCSTransferer for the given bucket. opts are
// passed through to the underlying GCS client, allowing credential
// injection.
func NewGCSTransferer(bucket string, opts ...option.ClientOption) *GCSTransferer {
	return &GCSTransferer{bucket: bucket, opts: opts}
}

// Transfer uploads the file at localPath to the bucket under req.Key,
// attaching the request's content type, cache control and content encoding.
func (t *GCSTransferer) Transfer(ctx context.Context, localPath string, req *TransferRequest) error {
	client, err := t.storageClient(ctx)
	if err != nil {
		return err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open local file %q: %w", localPath, err)
	}
	defer f.Close()

	// Object names must not carry a leading slash; the destination key keeps
	// one when the caller's path does.
	obj := client.Bucket(t.bucket).Object(strings.TrimPrefix(req.Key, "/"))
	w := obj.NewWriter(ctx)
	w.ContentType = req.ContentType
	w.CacheControl = req.CacheControl

	var dst io.Writer = w
	var gz *gzip.Writer
	if req.Gzip {
		w.ContentEncoding = "gzip"
		gz = gzip.NewWriter(w)
		dst = gz
	}

	if _, err := io.Copy(dst, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("transfer write failed for %q: %w", req.Key, err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			_ = w.Close()
			return fmt.Errorf("transfer write failed for %q: %w", req.Key, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("transfer close failed for %q: %w", req.Key, err)
	}
	return nil
}

func (t *GCSTransferer) storageClient(ctx context.Context) (*storage.Client, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.client != nil {
		return t.client, nil
	}
	client, err := storage.NewClient(ctx, t.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	t.client = client
	return client, nil
}
