package upload

// Artifact is a single build output destined for the storage bucket.
type Artifact struct {
	// Filename is the name the artifact is stored under, without any
	// directory components.
	Filename string

	// LocalPath is where the artifact lives on disk. It is optional at
	// construction but mandatory by the time the artifact is uploaded.
	LocalPath string

	// Stored describes the artifact after a successful upload. Populated by
	// the caller once the transfer completes.
	Stored StoredMetadata
}

// StoredMetadata records where an uploaded artifact ended up.
type StoredMetadata struct {
	Filename     string `json:"filename"`
	DownloadPath string `json:"download_path"`
	Size         int64  `json:"size"`
}
