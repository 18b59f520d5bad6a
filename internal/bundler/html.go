package bundler

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var placeholder = regexp.MustCompile(`%([A-Za-z_][A-Za-z0-9_]*)%`)

// Interpolate replaces %NAME% with env[NAME]. Unknown names are left as is.
func Interpolate(src string, env map[string]string) string {
	return placeholder.ReplaceAllStringFunc(src, func(m string) string {
		if v, ok := env[m[1:len(m)-1]]; ok {
			return v
		}
		return m
	})
}

// RenderHTML reads the HTML template, interpolates env and injects a
// stylesheet link for every CSS entry and a deferred script for every
// JavaScript entry into <head>.
func RenderHTML(templatePath string, env map[string]string, publicPath string, entries []string) ([]byte, error) {
	raw, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("read html template: %w", err)
	}
	doc, err := html.Parse(strings.NewReader(Interpolate(string(raw), env)))
	if err != nil {
		return nil, fmt.Errorf("parse html template: %w", err)
	}
	head := findElement(doc, atom.Head)
	if head == nil {
		return nil, fmt.Errorf("html template %s has no <head>", templatePath)
	}
	for _, e := range entries {
		switch path.Ext(e) {
		case ".js":
			head.AppendChild(&html.Node{
				Type:     html.ElementNode,
				Data:     "script",
				DataAtom: atom.Script,
				Attr: []html.Attribute{
					{Key: "defer", Val: "defer"},
					{Key: "src", Val: publicPath + e},
				},
			})
		case ".css":
			head.AppendChild(&html.Node{
				Type:     html.ElementNode,
				Data:     "link",
				DataAtom: atom.Link,
				Attr: []html.Attribute{
					{Key: "href", Val: publicPath + e},
					{Key: "rel", Val: "stylesheet"},
				},
			})
		}
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
