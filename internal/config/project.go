package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// ProjectFileName is the optional per-project settings file at the project root.
const ProjectFileName = "appbuilder.yaml"

const (
	// DefaultBundleWarnSize is the gzip size above which the main bundle is flagged.
	DefaultBundleWarnSize int64 = 512 * 1024
	// DefaultChunkWarnSize is the gzip size above which any other chunk is flagged.
	DefaultChunkWarnSize int64 = 1024 * 1024
)

// DefaultTarget is the language level emitted when the project does not choose one.
var DefaultTarget = []string{"es2017"}

// ProjectConfig holds settings read from appbuilder.yaml.
type ProjectConfig struct {
	Target         []string          `yaml:"target,omitempty"`
	BundleWarnSize int64             `yaml:"bundle_warn_size,omitempty"`
	ChunkWarnSize  int64             `yaml:"chunk_warn_size,omitempty"`
	Sourcemap      *bool             `yaml:"sourcemap,omitempty"`
	Loaders        map[string]string `yaml:"loaders,omitempty"`
	MetricsFile    string            `yaml:"metrics_file,omitempty"`
}

// loadProject reads path, expanding ${VAR} references through lookup. A
// missing file yields the defaults.
func loadProject(path string, lookup func(string) string) (ProjectConfig, error) {
	var pc ProjectConfig
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return pc, fmt.Errorf("failed to read project file: %w", err)
	default:
		expanded := os.Expand(string(data), lookup)
		if err := yaml.Unmarshal([]byte(expanded), &pc); err != nil {
			return pc, fmt.Errorf("failed to unmarshal project file %s: %w", path, err)
		}
	}
	pc.applyDefaults()
	return pc, nil
}

func (pc *ProjectConfig) applyDefaults() {
	if len(pc.Target) == 0 {
		pc.Target = append([]string(nil), DefaultTarget...)
	}
	if pc.BundleWarnSize <= 0 {
		pc.BundleWarnSize = DefaultBundleWarnSize
	}
	if pc.ChunkWarnSize <= 0 {
		pc.ChunkWarnSize = DefaultChunkWarnSize
	}
}
