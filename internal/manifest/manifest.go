// Package manifest loads the YAML publish manifest: a destination path plus
// the local files making up one batch.
//
// Example:
//
//	destination: /releases/v1.4.0/
//	artifacts:
//	  - file: dist/bundle.js
//	  - file: dist/bundle.js.map
//	    name: bundle.map
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tomasbasham/artifact-publish/internal/upload"
)

// Manifest describes one publish batch.
type Manifest struct {
	Destination string  `yaml:"destination"`
	Artifacts   []Entry `yaml:"artifacts"`
}

// Entry is a single file in the batch. Name optionally overrides the stored
// filename; when empty the file's base name is used.
type Entry struct {
	File string `yaml:"file"`
	Name string `yaml:"name,omitempty"`
}

// ArtifactName returns the name the entry is stored under.
func (e Entry) ArtifactName() string {
	if e.Name != "" {
		return e.Name
	}
	return filepath.Base(e.File)
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest %q: %w", path, err)
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if m.Destination == "" {
		return errors.New("destination is required")
	}
	if len(m.Artifacts) == 0 {
		return errors.New("at least one artifact is required")
	}
	for i, e := range m.Artifacts {
		if e.File == "" {
			return fmt.Errorf("artifact %d: file is required", i)
		}
	}
	return nil
}

// UploadArtifacts converts the manifest entries into upload artifacts.
func (m *Manifest) UploadArtifacts() []upload.Artifact {
	artifacts := make([]upload.Artifact, 0, len(m.Artifacts))
	for _, e := range m.Artifacts {
		artifacts = append(artifacts, upload.Artifact{
			Filename:  e.ArtifactName(),
			LocalPath: e.File,
		})
	}
	return artifacts
}
