// Package upload implements the artifact upload client for the release
// pipeline. Uploads follow a two-phase protocol: the caller prepares a
// destination once per batch, then uploads each artifact of the batch under
// it. A destination that has not been prepared is never accepted by Upload.
//
// Prepare must happen-before the Upload calls it authorises; once it has,
// concurrent uploads to the same prepared destination are safe, as the
// client holds no mutable state during a transfer.
package upload

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
)

// CacheControl is the caching directive attached to every uploaded object.
const CacheControl = "public, max-age=300"

// dryRun suppresses backend transfers process-wide. It is read at the start
// of every Upload call, after all validation has run, so a dry run exercises
// the same checks as a real one.
var dryRun atomic.Bool

// SetDryRun toggles the process-wide dry-run mode.
func SetDryRun(enabled bool) {
	dryRun.Store(enabled)
}

// DryRun reports whether dry-run mode is enabled.
func DryRun() bool {
	return dryRun.Load()
}

// Client uploads artifacts to a storage backend. Construct one per process
// invocation; it is not reused across unrelated credential sets.
type Client struct {
	transferer Transferer
	logger     *zap.SugaredLogger
}

// NewClient creates a Client backed by the given transferer. A nil logger
// disables logging.
func NewClient(transferer Transferer, logger *zap.SugaredLogger) *Client {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{transferer: transferer, logger: logger}
}

// Prepare validates the destination for a batch of artifacts and marks it
// prepared. It must be called before any Upload for that destination.
// Preparing a different destination later is legal and does not invalidate
// artifacts already uploaded under a previous one.
func (c *Client) Prepare(artifacts []Artifact, dest *Destination) error {
	if dest == nil || dest.Path == "" {
		return ErrNoDestinationPath
	}
	dest.state = destinationPrepared
	c.logger.Debugf("prepared destination %s for %d artifacts", dest.Path, len(artifacts))
	return nil
}

// Upload transfers a single artifact to the prepared destination. There are
// no retries at this layer; each artifact succeeds or fails independently
// and the caller aggregates batch-level outcomes.
func (c *Client) Upload(ctx context.Context, artifact Artifact, dest *Destination) error {
	if dest == nil || !dest.Prepared() {
		return ErrNotPrepared
	}
	if artifact.LocalPath == "" {
		return fmt.Errorf("%w: %q", ErrMissingLocalPath, artifact.Filename)
	}

	req := &TransferRequest{
		Key:          dest.Key(artifact.Filename),
		ContentType:  ContentType(artifact.Filename),
		CacheControl: CacheControl,
		Gzip:         true,
	}

	if DryRun() {
		c.logger.Infof("dry run: would upload %s to %s (%s)", artifact.LocalPath, req.Key, req.ContentType)
		return nil
	}

	c.logger.Debugf("uploading %s to %s (%s)", artifact.LocalPath, req.Key, req.ContentType)
	if err := c.transferer.Transfer(ctx, artifact.LocalPath, req); err != nil {
		return fmt.Errorf("%w: %s", ErrUploadFailed, err)
	}
	return nil
}
