package upload

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransferer records every transfer it receives and can be primed to
// fail.
type fakeTransferer struct {
	mu    sync.Mutex
	calls []fakeTransfer
	err   error
}

type fakeTransfer struct {
	localPath string
	req       TransferRequest
}

func (f *fakeTransferer) Transfer(_ context.Context, localPath string, req *TransferRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, fakeTransfer{localPath: localPath, req: *req})
	return nil
}

func (f *fakeTransferer) transferCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestPrepareRequiresDestinationPath(t *testing.T) {
	client := NewClient(&fakeTransferer{}, nil)

	assert.ErrorIs(t, client.Prepare(nil, nil), ErrNoDestinationPath)
	assert.ErrorIs(t, client.Prepare(nil, NewDestination("")), ErrNoDestinationPath)

	dest := NewDestination("/out/")
	require.NoError(t, client.Prepare(nil, dest))
	assert.True(t, dest.Prepared())
}

func TestUploadBeforePrepare(t *testing.T) {
	backend := &fakeTransferer{}
	client := NewClient(backend, nil)

	artifact := Artifact{Filename: "a.csv", LocalPath: "./a.csv"}
	err := client.Upload(context.Background(), artifact, NewDestination("/out/"))

	assert.ErrorIs(t, err, ErrNotPrepared)
	assert.Zero(t, backend.transferCount())
}

func TestUploadMissingLocalPath(t *testing.T) {
	backend := &fakeTransferer{}
	client := NewClient(backend, nil)

	dest := NewDestination("/out/")
	require.NoError(t, client.Prepare(nil, dest))

	err := client.Upload(context.Background(), Artifact{Filename: "a.csv"}, dest)

	assert.ErrorIs(t, err, ErrMissingLocalPath)
	assert.Zero(t, backend.transferCount())
}

func TestUploadTransfersWithMetadata(t *testing.T) {
	backend := &fakeTransferer{}
	client := NewClient(backend, nil)

	dest := NewDestination("/out/")
	artifact := Artifact{Filename: "a.csv", LocalPath: "./a.csv"}
	require.NoError(t, client.Prepare([]Artifact{artifact}, dest))
	require.NoError(t, client.Upload(context.Background(), artifact, dest))

	require.Len(t, backend.calls, 1)
	call := backend.calls[0]
	assert.Equal(t, "./a.csv", call.localPath)
	assert.Equal(t, TransferRequest{
		Key:          "/out/a.csv",
		ContentType:  "text/csv; charset=utf-8",
		CacheControl: "public, max-age=300",
		Gzip:         true,
	}, call.req)
}

func TestUploadWrapsBackendError(t *testing.T) {
	backend := &fakeTransferer{err: errors.New("boom")}
	client := NewClient(backend, nil)

	dest := NewDestination("/out/")
	require.NoError(t, client.Prepare(nil, dest))

	err := client.Upload(context.Background(), Artifact{Filename: "a.csv", LocalPath: "./a.csv"}, dest)

	require.ErrorIs(t, err, ErrUploadFailed)
	assert.Contains(t, err.Error(), "encountered an error while uploading")
	assert.Contains(t, err.Error(), "boom")
}

func TestUploadDryRun(t *testing.T) {
	SetDryRun(true)
	t.Cleanup(func() { SetDryRun(false) })

	backend := &fakeTransferer{}
	client := NewClient(backend, nil)

	dest := NewDestination("/out/")
	require.NoError(t, client.Prepare(nil, dest))
	require.NoError(t, client.Upload(context.Background(), Artifact{Filename: "a.csv", LocalPath: "./a.csv"}, dest))

	assert.Zero(t, backend.transferCount(), "dry run must not contact the backend")
}

func TestUploadDryRunStillValidates(t *testing.T) {
	SetDryRun(true)
	t.Cleanup(func() { SetDryRun(false) })

	backend := &fakeTransferer{}
	client := NewClient(backend, nil)

	err := client.Upload(context.Background(), Artifact{Filename: "a.csv", LocalPath: "./a.csv"}, NewDestination("/out/"))
	assert.ErrorIs(t, err, ErrNotPrepared)

	dest := NewDestination("/out/")
	require.NoError(t, client.Prepare(nil, dest))
	err = client.Upload(context.Background(), Artifact{Filename: "a.csv"}, dest)
	assert.ErrorIs(t, err, ErrMissingLocalPath)
}

func TestConcurrentUploadsToPreparedDestination(t *testing.T) {
	backend := &fakeTransferer{}
	client := NewClient(backend, nil)

	dest := NewDestination("/releases/v1/")
	require.NoError(t, client.Prepare(nil, dest))

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			artifact := Artifact{Filename: "bundle.js", LocalPath: "./bundle.js"}
			errs[i] = client.Upload(context.Background(), artifact, dest)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, n, backend.transferCount())
}

func TestResetStartsNewBatch(t *testing.T) {
	backend := &fakeTransferer{}
	client := NewClient(backend, nil)

	dest := NewDestination("/out/")
	require.NoError(t, client.Prepare(nil, dest))
	dest.Reset()

	err := client.Upload(context.Background(), Artifact{Filename: "a.csv", LocalPath: "./a.csv"}, dest)
	assert.ErrorIs(t, err, ErrNotPrepared)
}

func TestLocalTransferer(t *testing.T) {
	src := filepath.Join(t.TempDir(), "bundle.js")
	require.NoError(t, os.WriteFile(src, []byte("console.log(1)"), 0o644))

	baseDir := t.TempDir()
	backend, err := NewLocalTransferer(baseDir)
	require.NoError(t, err)

	client := NewClient(backend, nil)
	dest := NewDestination("/releases/v1.4.0/")
	require.NoError(t, client.Prepare(nil, dest))
	require.NoError(t, client.Upload(context.Background(), Artifact{Filename: "bundle.js", LocalPath: src}, dest))

	written, err := os.ReadFile(filepath.Join(baseDir, "releases", "v1.4.0", "bundle.js"))
	require.NoError(t, err)
	assert.Equal(t, "console.log(1)", string(written))
}
