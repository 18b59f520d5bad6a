// Package config prepares the build environment. Instead of mutating the
// process environment it produces a Config value that is constructed once at
// startup and handed to every later stage.
package config

import (
	"encoding/json"
	"path/filepath"
	"strings"
)

// Mode is the build mode. Production builds always run in ModeProduction.
type Mode string

const (
	ModeProduction  Mode = "production"
	ModeDevelopment Mode = "development"
)

// Environment variable names consumed by the build.
const (
	EnvCI                = "CI"
	EnvPublicURL         = "PUBLIC_URL"
	EnvNodePath          = "NODE_PATH"
	EnvNodeEnv           = "NODE_ENV"
	EnvBabelEnv          = "BABEL_ENV"
	EnvGenerateSourceMap = "GENERATE_SOURCEMAP"
)

// Config is the explicit build configuration.
type Config struct {
	// Mode is forced to production regardless of NODE_ENV/BABEL_ENV.
	Mode Mode
	// Env is the process environment layered over the dotenv files.
	Env map[string]string
	// EnvFiles lists the dotenv files that were read, highest priority first.
	EnvFiles []string
	// Project holds appbuilder.yaml settings with defaults applied.
	Project ProjectConfig
}

// Prepare builds the Config for the project at root. environ is usually
// os.Environ(); real environment variables always take precedence over
// values from dotenv files.
func Prepare(root string, environ []string) (*Config, error) {
	env := environMap(environ)
	env[EnvBabelEnv] = string(ModeProduction)
	env[EnvNodeEnv] = string(ModeProduction)

	loaded, err := loadDotenv(env, dotenvFiles(root, ModeProduction))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Mode:     ModeProduction,
		Env:      env,
		EnvFiles: loaded,
	}
	cfg.Project, err = loadProject(filepath.Join(root, ProjectFileName), cfg.Get)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Get returns the value of an environment variable, or "" when unset.
func (c *Config) Get(key string) string {
	if c == nil || c.Env == nil {
		return ""
	}
	return c.Env[key]
}

// CIEnabled reports whether warnings should fail the build. Any non-empty CI
// value other than a case-insensitive "false" enables it.
func (c *Config) CIEnabled() bool {
	ci := c.Get(EnvCI)
	return ci != "" && strings.ToLower(ci) != "false"
}

// PublicURLOverride returns PUBLIC_URL, empty when unset.
func (c *Config) PublicURLOverride() string {
	return c.Get(EnvPublicURL)
}

// NodePath returns the deprecated NODE_PATH value.
func (c *Config) NodePath() string {
	return c.Get(EnvNodePath)
}

// SourceMaps reports whether source maps are emitted. GENERATE_SOURCEMAP=false
// wins over the project file.
func (c *Config) SourceMaps() bool {
	if c.Get(EnvGenerateSourceMap) == "false" {
		return false
	}
	if c.Project.Sourcemap != nil {
		return *c.Project.Sourcemap
	}
	return true
}

// ClientEnv returns the variables exposed to application code: every
// REACT_APP_ variable plus NODE_ENV and PUBLIC_URL. publicURL is the served
// path without its trailing slash.
func (c *Config) ClientEnv(publicURL string) map[string]string {
	out := map[string]string{
		EnvNodeEnv:   string(c.Mode),
		EnvPublicURL: publicURL,
	}
	for k, v := range c.Env {
		if strings.HasPrefix(k, ClientEnvPrefix) {
			out[k] = v
		}
	}
	return out
}

// Defines converts ClientEnv into bundler define entries keyed as
// process.env.NAME with JSON string values.
func (c *Config) Defines(publicURL string) map[string]string {
	client := c.ClientEnv(publicURL)
	defines := make(map[string]string, len(client))
	for k := range client {
		quoted, _ := json.Marshal(client[k])
		defines["process.env."+k] = string(quoted)
	}
	return defines
}
