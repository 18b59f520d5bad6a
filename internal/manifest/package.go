// Package manifest reads the project's package descriptor and writes the
// asset manifest that accompanies every production build.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// Package is the subset of package.json the build cares about.
type Package struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Homepage     string            `json:"homepage"`
	Scripts      map[string]string `json:"scripts,omitempty"`
	Browserslist any               `json:"browserslist,omitempty"`
}

// HasScript reports whether the package declares the named npm script.
func (p *Package) HasScript(name string) bool {
	if p == nil || p.Scripts == nil {
		return false
	}
	_, ok := p.Scripts[name]
	return ok
}

// ReadPackage parses a package.json file. Comments and trailing commas are
// tolerated because editors commonly leave them behind.
func ReadPackage(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pkg Package
	if err := json.Unmarshal(jsonc.ToJSON(data), &pkg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &pkg, nil
}

// CompilerOptions holds the tsconfig/jsconfig fields relevant to module
// resolution.
type CompilerOptions struct {
	BaseURL string `json:"baseUrl"`
}

// ReadCompilerOptions returns compilerOptions from a tsconfig.json or
// jsconfig.json file. Both formats are JSON with comments.
func ReadCompilerOptions(path string) (*CompilerOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		CompilerOptions CompilerOptions `json:"compilerOptions"`
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &doc.CompilerOptions, nil
}
