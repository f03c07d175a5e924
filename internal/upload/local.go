package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalTransferer writes artifacts to a directory on the local filesystem.
// It is used for local development and tests; transfer metadata other than
// the key is ignored, as local files carry no content type or caching
// directives.
type LocalTransferer struct {
	baseDir string
}

// NewLocalTransferer creates a LocalTransferer that writes artifacts under
// baseDir. The directory is created if it does not already exist.
func NewLocalTransferer(baseDir string) (*LocalTransferer, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create local base directory %q: %w", baseDir, err)
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for %q: %w", baseDir, err)
	}
	return &LocalTransferer{baseDir: abs}, nil
}

// Transfer copies the file at localPath to baseDir/req.Key, creating any
// intermediate directories as needed.
func (t *LocalTransferer) Transfer(_ context.Context, localPath string, req *TransferRequest) error {
	dest := filepath.Join(t.baseDir, filepath.FromSlash(strings.TrimPrefix(req.Key, "/")))

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %q: %w", req.Key, err)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open local file %q: %w", localPath, err)
	}
	defer src.Close()

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create file %q: %w", dest, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, src); err != nil {
		return fmt.Errorf("failed to write file %q: %w", dest, err)
	}
	return nil
}
