package upload

import (
	"path"
	"strings"
)

// destinationState tracks the two-phase protocol for a batch. A destination
// moves from unprepared to prepared exactly once per batch; there are no
// other states.
type destinationState int

const (
	destinationUnprepared destinationState = iota
	destinationPrepared
)

// Destination designates the remote prefix under which the artifacts of one
// batch are stored. The zero value is unprepared; only a successful Prepare
// call moves it to the prepared state that Upload requires.
//
// The caller owns the Destination and must Reset it (or use a fresh value)
// between unrelated batches - the client never resets it implicitly.
type Destination struct {
	Path string

	state destinationState
}

// NewDestination creates an unprepared Destination for the given remote
// prefix.
func NewDestination(path string) *Destination {
	return &Destination{Path: path}
}

// Prepared reports whether the destination has passed validation for the
// current batch.
func (d *Destination) Prepared() bool {
	return d.state == destinationPrepared
}

// Reset returns the destination to the unprepared state, ready for a new
// batch.
func (d *Destination) Reset() {
	d.state = destinationUnprepared
}

// Key joins the destination path with an artifact's bare filename to form the
// remote object identifier. Any directory components on the filename are
// discarded; only the base name is kept.
func (d *Destination) Key(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if strings.HasSuffix(d.Path, "/") {
		return d.Path + name
	}
	return d.Path + "/" + name
}
