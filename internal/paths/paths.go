// Package paths resolves the canonical filesystem locations of an application
// project relative to its root directory.
package paths

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/appbuilder/internal/manifest"
)

// ModuleFileExtensions is the order in which source entry candidates are
// probed. Web-specific variants come before generic ones.
var ModuleFileExtensions = []string{
	"web.mjs",
	"mjs",
	"web.js",
	"js",
	"web.ts",
	"ts",
	"web.tsx",
	"tsx",
	"json",
	"web.jsx",
	"jsx",
}

// DefaultModuleExtension is used when no candidate exists on disk.
const DefaultModuleExtension = "js"

// PathSet holds the resolved absolute locations of a project. It is computed
// once and never mutated.
type PathSet struct {
	DotEnv         string `yaml:"dotenv"`
	AppPath        string `yaml:"app_path"`
	AppBuild       string `yaml:"app_build"`
	AppPublic      string `yaml:"app_public"`
	AppHTML        string `yaml:"app_html"`
	AppIndexJS     string `yaml:"app_index_js"`
	AppPackageJSON string `yaml:"app_package_json"`
	AppSrc         string `yaml:"app_src"`
	AppTsConfig    string `yaml:"app_tsconfig"`
	AppJsConfig    string `yaml:"app_jsconfig"`
	YarnLockFile   string `yaml:"yarn_lock_file"`
	TestsSetup     string `yaml:"tests_setup"`
	ProxySetup     string `yaml:"proxy_setup"`
	AppNodeModules string `yaml:"app_node_modules"`

	// PublicURL is the override or the manifest homepage, possibly empty.
	PublicURL string `yaml:"public_url"`
	// ServedPath is the URL path the app is served under, always ending in "/".
	ServedPath string `yaml:"served_path"`
}

// Resolve computes the PathSet for root. Symlinks in root are resolved first
// so every derived path is physically canonical. publicURLOverride is the
// PUBLIC_URL value, empty when unset.
func Resolve(root, publicURLOverride string) (*PathSet, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}
	appDir, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}
	resolveApp := func(rel string) string {
		return filepath.Join(appDir, filepath.FromSlash(rel))
	}

	ps := &PathSet{
		DotEnv:         resolveApp(".env"),
		AppPath:        appDir,
		AppBuild:       resolveApp("build"),
		AppPublic:      resolveApp("public"),
		AppHTML:        resolveApp("public/index.html"),
		AppIndexJS:     ResolveModule(resolveApp, "src/index"),
		AppPackageJSON: resolveApp("package.json"),
		AppSrc:         resolveApp("src"),
		AppTsConfig:    resolveApp("tsconfig.json"),
		AppJsConfig:    resolveApp("jsconfig.json"),
		YarnLockFile:   resolveApp("yarn.lock"),
		TestsSetup:     ResolveModule(resolveApp, "src/setupTests"),
		ProxySetup:     resolveApp("src/setupProxy.js"),
		AppNodeModules: resolveApp("node_modules"),
	}

	var homepage string
	if pkg, err := manifest.ReadPackage(ps.AppPackageJSON); err == nil {
		homepage = pkg.Homepage
	}
	ps.PublicURL = PublicURL(publicURLOverride, homepage)
	ps.ServedPath = ServedPath(publicURLOverride, homepage)
	return ps, nil
}

// ResolveModule returns resolveFn(logical.ext) for the first extension in
// ModuleFileExtensions that exists on disk, falling back to the default
// extension. It never fails.
func ResolveModule(resolveFn func(string) string, logical string) string {
	for _, ext := range ModuleFileExtensions {
		candidate := resolveFn(logical + "." + ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return resolveFn(logical + "." + DefaultModuleExtension)
}

// PublicURL returns the override when set, otherwise the manifest homepage.
func PublicURL(override, homepage string) string {
	if override != "" {
		return override
	}
	return homepage
}

// ServedPath derives the path prefix assets are served under. An override is
// used verbatim; a homepage contributes only its path component. The result
// always ends with a slash.
func ServedPath(override, homepage string) string {
	served := "/"
	switch {
	case override != "":
		served = override
	case homepage != "":
		if u, err := url.Parse(homepage); err == nil {
			served = u.Path
		}
	}
	return EnsureSlash(served, true)
}

// EnsureSlash adds or removes a single trailing slash.
func EnsureSlash(p string, needsSlash bool) string {
	hasSlash := strings.HasSuffix(p, "/")
	switch {
	case hasSlash && !needsSlash:
		return p[:len(p)-1]
	case !hasSlash && needsSlash:
		return p + "/"
	default:
		return p
	}
}

// RequiredFiles lists the files a production build cannot start without.
func (p *PathSet) RequiredFiles() []string {
	return []string{p.AppHTML, p.AppIndexJS}
}

// UseYarn reports whether the project is managed with yarn.
func (p *PathSet) UseYarn() bool {
	_, err := os.Stat(p.YarnLockFile)
	return err == nil
}
