package upload

import "context"

// Transferer moves a local file to the storage backend. It is the only
// capability of the backend the client depends on, so the rest of the
// package can be tested with a substitute implementation.
type Transferer interface {
	Transfer(ctx context.Context, localPath string, req *TransferRequest) error
}

// TransferRequest carries the metadata attached to a single transfer.
type TransferRequest struct {
	// Key is the remote object identifier: the destination path joined with
	// the artifact's bare filename.
	Key string

	// ContentType is the MIME type of the content, e.g. "text/csv".
	ContentType string

	// CacheControl is the caching directive served with the object.
	CacheControl string

	// Gzip indicates the content should be compressed in transit and served
	// with a gzip content encoding.
	Gzip bool
}
