package credentials

import "errors"

var (
	// ErrNotFound is returned when neither credential source is set.
	ErrNotFound = errors.New("credentials not found in any configured source")

	// ErrMalformed is returned when credential JSON from either source fails
	// to parse.
	ErrMalformed = errors.New("error parsing JSON credentials")

	// ErrFileMissing is returned when the file-path reference names a file
	// that does not exist. The wrapped message carries the offending path.
	ErrFileMissing = errors.New("credentials file missing")

	// ErrMissingField is returned when a parsed key lacks a required field.
	// Fields are checked in a fixed order and only the first missing one is
	// reported.
	ErrMissingField = errors.New("missing credential field")
)
