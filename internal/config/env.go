package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// ClientEnvPrefix marks variables that are embedded into the bundle.
const ClientEnvPrefix = "REACT_APP_"

// dotenvFiles returns the dotenv candidates for a mode, highest priority first.
func dotenvFiles(root string, mode Mode) []string {
	base := filepath.Join(root, ".env")
	return []string{
		base + "." + string(mode) + ".local",
		base + ".local",
		base + "." + string(mode),
		base,
	}
}

// loadDotenv merges dotenv files into env without overriding existing keys.
// Files are visited highest priority first, so the first definition wins.
// It returns the files that were actually read.
func loadDotenv(env map[string]string, files []string) ([]string, error) {
	var loaded []string
	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return loaded, fmt.Errorf("load %s: %w", file, err)
		}
		for k, v := range values {
			if _, exists := env[k]; !exists {
				env[k] = v
			}
		}
		loaded = append(loaded, file)
	}
	return loaded, nil
}

// environMap converts KEY=VALUE pairs, as returned by os.Environ, into a map.
func environMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}
	return env
}

// OSEnviron is the default environment source.
func OSEnviron() []string {
	return os.Environ()
}
