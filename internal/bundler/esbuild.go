package bundler

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/evanw/esbuild/pkg/api"
)

// ESBuild compiles a project with the in-process esbuild API.
type ESBuild struct {
	opts Options
	// build is swapped in tests.
	build func(api.BuildOptions) api.BuildResult
}

// NewESBuild returns a Compiler for opts.
func NewESBuild(opts Options) *ESBuild {
	return &ESBuild{opts: opts, build: api.Build}
}

// Run compiles once. Diagnostics go into Stats; an error means the compiler
// could not be invoked or its output could not be written.
func (e *ESBuild) Run(ctx context.Context) (*Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bo, err := e.opts.buildOptions()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := e.build(bo)
	stats := &Stats{
		Errors:     convertMessages(result.Errors),
		Warnings:   convertMessages(result.Warnings),
		Files:      map[string]string{},
		PublicPath: e.opts.PublicPath,
	}
	if len(result.Errors) > 0 {
		stats.Duration = time.Since(start)
		return stats, nil
	}

	for _, f := range result.OutputFiles {
		rel, err := filepath.Rel(e.opts.OutDir, f.Path)
		if err != nil {
			return nil, fmt.Errorf("output %s outside %s: %w", f.Path, e.opts.OutDir, err)
		}
		if err := writeOutput(f.Path, f.Contents); err != nil {
			return nil, err
		}
		stats.Outputs = append(stats.Outputs, filepath.ToSlash(rel))
	}

	entries, err := entryOutputs(result.Metafile, e.opts.AbsWorkingDir, e.opts.OutDir)
	if err != nil {
		return nil, err
	}
	stats.Entrypoints = entries
	for _, rel := range stats.Outputs {
		if name, ok := logicalName(rel, entries); ok {
			stats.Files[name] = e.opts.PublicPath + rel
		}
	}

	if e.opts.HTMLTemplate != "" {
		page, err := RenderHTML(e.opts.HTMLTemplate, e.opts.Env, e.opts.PublicPath, entries)
		if err != nil {
			return nil, err
		}
		if err := writeOutput(filepath.Join(e.opts.OutDir, "index.html"), page); err != nil {
			return nil, err
		}
		stats.Outputs = append(stats.Outputs, "index.html")
		stats.Files["index.html"] = e.opts.PublicPath + "index.html"
	}
	sort.Strings(stats.Outputs)
	stats.Duration = time.Since(start)
	return stats, nil
}

func writeOutput(p string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(p), err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	return nil
}

type metafile struct {
	Outputs map[string]struct {
		EntryPoint string `json:"entryPoint"`
		CSSBundle  string `json:"cssBundle"`
	} `json:"outputs"`
}

// entryOutputs returns the outputs produced for entry points, relative to
// outDir, JavaScript before CSS.
func entryOutputs(raw, workDir, outDir string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var mf metafile
	if err := json.Unmarshal([]byte(raw), &mf); err != nil {
		return nil, fmt.Errorf("parse metafile: %w", err)
	}
	rel := func(p string) (string, error) {
		if !filepath.IsAbs(p) {
			p = filepath.Join(workDir, p)
		}
		r, err := filepath.Rel(outDir, p)
		return filepath.ToSlash(r), err
	}
	var js, css []string
	for out, meta := range mf.Outputs {
		if meta.EntryPoint == "" {
			continue
		}
		r, err := rel(out)
		if err != nil {
			return nil, err
		}
		js = append(js, r)
		if meta.CSSBundle != "" {
			c, err := rel(meta.CSSBundle)
			if err != nil {
				return nil, err
			}
			css = append(css, c)
		}
	}
	sort.Strings(js)
	sort.Strings(css)
	return append(js, css...), nil
}

// logicalName maps an emitted file to its unhashed asset-manifest key.
func logicalName(rel string, entries []string) (string, bool) {
	for _, e := range entries {
		switch rel {
		case e:
			return "main" + path.Ext(e), true
		case e + ".map":
			return "main" + path.Ext(e) + ".map", true
		}
	}
	if strings.HasPrefix(rel, "static/media/") {
		base := path.Base(rel)
		ext := path.Ext(base)
		stem := strings.TrimSuffix(base, ext)
		if i := strings.LastIndex(stem, "."); i > 0 {
			stem = stem[:i]
		}
		return "static/media/" + stem + ext, true
	}
	return "", false
}

var syntaxPrefixes = []string{"Expected ", "Unexpected ", "Unterminated ", "Invalid ", "Syntax error"}

func convertMessages(in []api.Message) []Message {
	if len(in) == 0 {
		return nil
	}
	out := make([]Message, 0, len(in))
	for _, m := range in {
		msg := Message{Text: m.Text}
		if m.PluginName != "" {
			msg.Text = fmt.Sprintf("[plugin %s] %s", m.PluginName, m.Text)
		}
		if m.Location != nil {
			msg.File = m.Location.File
			msg.Line = m.Location.Line
			msg.Column = m.Location.Column
			msg.LineText = m.Location.LineText
		}
		for _, n := range m.Notes {
			msg.Notes = append(msg.Notes, n.Text)
		}
		for _, p := range syntaxPrefixes {
			if strings.HasPrefix(m.Text, p) {
				msg.Syntax = true
				break
			}
		}
		out = append(out, msg)
	}
	return out
}
