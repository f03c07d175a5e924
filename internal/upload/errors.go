package upload

import "errors"

var (
	// ErrNoDestinationPath is returned by Prepare when the destination is
	// absent or has an empty path.
	ErrNoDestinationPath = errors.New("destination path is required")

	// ErrNotPrepared is returned by Upload for a destination that has not
	// been through a successful Prepare call.
	ErrNotPrepared = errors.New("prepare must be called before upload")

	// ErrMissingLocalPath is returned by Upload for an artifact with no local
	// file path.
	ErrMissingLocalPath = errors.New("artifact has no local file path")

	// ErrUploadFailed wraps any error from the backend transfer, so callers
	// see a uniform error shape regardless of backend. The original cause is
	// preserved in the message.
	ErrUploadFailed = errors.New("encountered an error while uploading")
)
