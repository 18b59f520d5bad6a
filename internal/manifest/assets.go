package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// AssetManifestName is the file written next to the emitted artifacts.
const AssetManifestName = "asset-manifest.json"

// AssetManifest maps logical asset names to their served URLs.
type AssetManifest struct {
	Files       map[string]string `json:"files"`
	Entrypoints []string          `json:"entrypoints"`
	BuildInfo   BuildInfo         `json:"buildInfo"`
}

// BuildInfo records where a build came from.
type BuildInfo struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Commit    string    `json:"commit,omitempty"`
	Version   string    `json:"version,omitempty"`
	// ArtifactHashes holds sha256 digests keyed by path relative to the output directory.
	ArtifactHashes map[string]string `json:"artifactHashes,omitempty"`
}

// ToJSON serializes the manifest to JSON.
func (m *AssetManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal asset manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes an asset manifest.
func FromJSON(data []byte) (*AssetManifest, error) {
	var m AssetManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal asset manifest: %w", err)
	}
	return &m, nil
}

// Write stores the manifest as dir/asset-manifest.json.
func (m *AssetManifest) Write(dir string) error {
	data, err := m.ToJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, AssetManifestName), data, 0o644)
}

// HashArtifacts fills BuildInfo.ArtifactHashes for the given files, which are
// paths relative to dir.
func (m *AssetManifest) HashArtifacts(dir string, files []string) error {
	hashes := make(map[string]string, len(files))
	for _, rel := range files {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return fmt.Errorf("hash %s: %w", rel, err)
		}
		sum := sha256.Sum256(data)
		hashes[rel] = fmt.Sprintf("%x", sum)
	}
	m.BuildInfo.ArtifactHashes = hashes
	return nil
}
