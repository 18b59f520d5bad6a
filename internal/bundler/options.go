package bundler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"git.home.luguber.info/inful/appbuilder/internal/config"
	"git.home.luguber.info/inful/appbuilder/internal/manifest"
	"git.home.luguber.info/inful/appbuilder/internal/paths"
)

// Options is the bundler configuration for one build.
type Options struct {
	// AbsWorkingDir is the project root; relative paths in diagnostics are
	// reported against it.
	AbsWorkingDir string
	EntryPoint    string
	OutDir        string
	// PublicPath prefixes every emitted URL and always ends with "/".
	PublicPath string
	// HTMLTemplate is the HTML entry; empty disables HTML emission.
	HTMLTemplate string
	// Env is substituted for %NAME% placeholders in the HTML entry.
	Env       map[string]string
	Defines   map[string]string
	Target    []string
	Sourcemap bool
	Loaders   map[string]string
	NodePaths []string
	Tsconfig  string
}

// defaultLoaders maps non-JavaScript imports to how they are bundled.
var defaultLoaders = map[string]api.Loader{
	".js":    api.LoaderJSX,
	".svg":   api.LoaderFile,
	".png":   api.LoaderFile,
	".jpg":   api.LoaderFile,
	".jpeg":  api.LoaderFile,
	".gif":   api.LoaderFile,
	".webp":  api.LoaderFile,
	".bmp":   api.LoaderFile,
	".woff":  api.LoaderFile,
	".woff2": api.LoaderFile,
	".ttf":   api.LoaderFile,
	".eot":   api.LoaderFile,
}

var loaderNames = map[string]api.Loader{
	"js":      api.LoaderJS,
	"jsx":     api.LoaderJSX,
	"ts":      api.LoaderTS,
	"tsx":     api.LoaderTSX,
	"json":    api.LoaderJSON,
	"css":     api.LoaderCSS,
	"text":    api.LoaderText,
	"base64":  api.LoaderBase64,
	"dataurl": api.LoaderDataURL,
	"file":    api.LoaderFile,
	"binary":  api.LoaderBinary,
	"copy":    api.LoaderCopy,
}

// ProductionOptions assembles the production profile for a project.
func ProductionOptions(ps *paths.PathSet, cfg *config.Config) Options {
	publicURL := paths.EnsureSlash(ps.ServedPath, false)
	opts := Options{
		AbsWorkingDir: ps.AppPath,
		EntryPoint:    ps.AppIndexJS,
		OutDir:        ps.AppBuild,
		PublicPath:    ps.ServedPath,
		HTMLTemplate:  ps.AppHTML,
		Env:           cfg.ClientEnv(publicURL),
		Defines:       cfg.Defines(publicURL),
		Target:        cfg.Project.Target,
		Sourcemap:     cfg.SourceMaps(),
		Loaders:       cfg.Project.Loaders,
	}
	for _, candidate := range []string{ps.AppTsConfig, ps.AppJsConfig} {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		opts.Tsconfig = candidate
		if co, err := manifest.ReadCompilerOptions(candidate); err == nil && co.BaseURL != "" {
			opts.NodePaths = append(opts.NodePaths, filepath.Join(ps.AppPath, co.BaseURL))
		}
		break
	}
	return opts
}

// buildOptions translates Options into esbuild's API.
func (o Options) buildOptions() (api.BuildOptions, error) {
	target, engines, err := parseTargets(o.Target)
	if err != nil {
		return api.BuildOptions{}, err
	}
	loaders, err := o.loaders()
	if err != nil {
		return api.BuildOptions{}, err
	}
	sourcemap := api.SourceMapNone
	if o.Sourcemap {
		sourcemap = api.SourceMapLinked
	}
	return api.BuildOptions{
		AbsWorkingDir:       o.AbsWorkingDir,
		EntryPointsAdvanced: []api.EntryPoint{{InputPath: o.EntryPoint, OutputPath: "main"}},
		Bundle:              true,
		Outdir:              o.OutDir,
		EntryNames:          "static/[ext]/[name].[hash]",
		ChunkNames:          "static/[ext]/[name].[hash].chunk",
		AssetNames:          "static/media/[name].[hash]",
		PublicPath:          o.PublicPath,
		Platform:            api.PlatformBrowser,
		Format:              api.FormatIIFE,
		Target:              target,
		Engines:             engines,
		MinifyWhitespace:    true,
		MinifyIdentifiers:   true,
		MinifySyntax:        true,
		Sourcemap:           sourcemap,
		Define:              o.Defines,
		Loader:              loaders,
		JSX:                 api.JSXAutomatic,
		NodePaths:           o.NodePaths,
		Tsconfig:            o.Tsconfig,
		LogLevel:            api.LogLevelSilent,
		Metafile:            true,
		Write:               false,
	}, nil
}

func (o Options) loaders() (map[string]api.Loader, error) {
	loaders := make(map[string]api.Loader, len(defaultLoaders)+len(o.Loaders))
	for ext, l := range defaultLoaders {
		loaders[ext] = l
	}
	for ext, name := range o.Loaders {
		l, ok := loaderNames[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("unknown loader %q for %s", name, ext)
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		loaders[ext] = l
	}
	return loaders, nil
}

var esTargets = map[string]api.Target{
	"es5":    api.ES5,
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
	"esnext": api.ESNext,
}

var engineNames = map[string]api.EngineName{
	"chrome":  api.EngineChrome,
	"edge":    api.EngineEdge,
	"firefox": api.EngineFirefox,
	"ios":     api.EngineIOS,
	"node":    api.EngineNode,
	"opera":   api.EngineOpera,
	"safari":  api.EngineSafari,
}

// parseTargets accepts esbuild's target syntax: one ES level and/or engine
// versions such as chrome100 or safari15.4.
func parseTargets(targets []string) (api.Target, []api.Engine, error) {
	target := api.DefaultTarget
	var engines []api.Engine
	for _, raw := range targets {
		t := strings.ToLower(strings.TrimSpace(raw))
		if es, ok := esTargets[t]; ok {
			target = es
			continue
		}
		matched := false
		for name, engine := range engineNames {
			if version, ok := strings.CutPrefix(t, name); ok && version != "" {
				engines = append(engines, api.Engine{Name: engine, Version: version})
				matched = true
				break
			}
		}
		if !matched {
			return target, nil, fmt.Errorf("invalid target %q", raw)
		}
	}
	return target, engines, nil
}
