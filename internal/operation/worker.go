package operation

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tomasbasham/artifact-publish/internal/upload"
)

// WorkerOptions configures a publish worker invocation.
type WorkerOptions struct {
	OperationID string
	Store       Store
	Client      *upload.Client
	Destination string
	Artifacts   []upload.Artifact
}

// Run prepares the destination, uploads the batch, and transitions the
// operation through running → complete | failed.
//
// Run is intended to be called in a separate goroutine; it owns the full
// lifecycle of the operation from the moment it is called.
func Run(ctx context.Context, opts WorkerOptions) {
	if err := opts.Store.MarkRunning(opts.OperationID); err != nil {
		// If we cannot even mark it running the store is broken; nothing to do.
		return
	}

	dest := upload.NewDestination(opts.Destination)
	if err := opts.Client.Prepare(opts.Artifacts, dest); err != nil {
		_ = opts.Store.MarkFailed(opts.OperationID, fmt.Errorf("prepare: %w", err))
		return
	}

	// Each artifact succeeds or fails on its own; failures are aggregated
	// here rather than aborting the batch.
	var stored []upload.StoredMetadata
	var failures []string
	for _, artifact := range opts.Artifacts {
		if err := opts.Client.Upload(ctx, artifact, dest); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %s", artifact.Filename, err))
			continue
		}
		stored = append(stored, storedMetadata(artifact, dest))
	}

	if len(failures) > 0 {
		err := fmt.Errorf("%d of %d uploads failed: %s", len(failures), len(opts.Artifacts), strings.Join(failures, "; "))
		_ = opts.Store.MarkFailed(opts.OperationID, err)
		return
	}

	_ = opts.Store.MarkComplete(opts.OperationID, stored)
}

func storedMetadata(artifact upload.Artifact, dest *upload.Destination) upload.StoredMetadata {
	meta := upload.StoredMetadata{
		Filename:     artifact.Filename,
		DownloadPath: dest.Key(artifact.Filename),
	}
	if info, err := os.Stat(artifact.LocalPath); err == nil {
		meta.Size = info.Size()
	}
	return meta
}
