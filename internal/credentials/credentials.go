// Package credentials resolves the service-account key used to authenticate
// against the storage backend. The key may be supplied inline as JSON through
// one named configuration value, or as a path to a key file through another;
// the inline form always wins when both are set.
package credentials

import (
	"encoding/json"
	"fmt"
	"os"
)

// Source supplies named configuration values. It is satisfied by the config
// package; tests substitute a map-backed implementation.
type Source interface {
	Read(name string) (string, bool)
}

// References names the two configuration values consulted during resolution.
type References struct {
	// InlineJSON names the value holding the key itself, as a JSON document.
	InlineJSON string

	// FilePath names the value holding a path to a key file on disk.
	FilePath string
}

// DefaultReferences are the conventional environment variable names for a
// Google service-account key.
var DefaultReferences = References{
	InlineJSON: "GCLOUD_SERVICE_KEY",
	FilePath:   "GOOGLE_APPLICATION_CREDENTIALS",
}

// Credentials is a resolved service-account key. Values are immutable once
// resolved; all three fields are guaranteed non-empty.
type Credentials struct {
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`

	raw []byte
}

// JSON returns the raw key document the credentials were parsed from, for
// injection into the storage client. The backend expects the full document,
// not just the three fields retained here.
func (c *Credentials) JSON() []byte {
	return c.raw
}

// requiredFields are validated in this order; the first missing one is
// reported and the rest are not checked.
var requiredFields = []string{"project_id", "client_email", "private_key"}

// Resolve produces Credentials from the first usable source named by refs.
// The inline-JSON reference is tried first; the file-path reference is only
// consulted when the inline one is unset. Extra fields in the key document
// are ignored.
func Resolve(src Source, refs References) (*Credentials, error) {
	raw, err := rawKey(src, refs)
	if err != nil {
		return nil, err
	}
	return parseKey(raw)
}

func rawKey(src Source, refs References) ([]byte, error) {
	if inline, ok := src.Read(refs.InlineJSON); ok {
		return []byte(inline), nil
	}

	path, ok := src.Read(refs.FilePath)
	if !ok {
		return nil, ErrNotFound
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrFileMissing, path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file %q: %w", path, err)
	}
	return raw, nil
}

func parseKey(raw []byte) (*Credentials, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, err)
	}

	for _, name := range requiredFields {
		s, _ := fields[name].(string)
		if s == "" {
			return nil, fmt.Errorf("%w: %q", ErrMissingField, name)
		}
	}

	return &Credentials{
		ProjectID:   fields["project_id"].(string),
		ClientEmail: fields["client_email"].(string),
		PrivateKey:  fields["private_key"].(string),
		raw:         raw,
	}, nil
}
