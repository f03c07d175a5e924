package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := writeManifest(t, `
destination: /releases/v1.4.0/
artifacts:
  - file: dist/bundle.js
  - file: dist/bundle.js.map
    name: bundle.map
`)

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/releases/v1.4.0/", m.Destination)
	require.Len(t, m.Artifacts, 2)
	assert.Equal(t, "bundle.js", m.Artifacts[0].ArtifactName())
	assert.Equal(t, "bundle.map", m.Artifacts[1].ArtifactName())

	artifacts := m.UploadArtifacts()
	require.Len(t, artifacts, 2)
	assert.Equal(t, "bundle.js", artifacts[0].Filename)
	assert.Equal(t, "dist/bundle.js", artifacts[0].LocalPath)
	assert.Equal(t, "bundle.map", artifacts[1].Filename)
}

func TestLoadMissingDestination(t *testing.T) {
	path := writeManifest(t, `
artifacts:
  - file: dist/bundle.js
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "destination is required")
}

func TestLoadNoArtifacts(t *testing.T) {
	path := writeManifest(t, "destination: /out/\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one artifact is required")
}

func TestLoadEntryWithoutFile(t *testing.T) {
	path := writeManifest(t, `
destination: /out/
artifacts:
  - name: orphan
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file is required")
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeManifest(t, "destination: [unclosed\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "release.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}
