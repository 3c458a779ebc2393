// Package rules validates and renders the process/policy markdown documents
// shipped under docs/rules.
package rules

import (
	"bytes"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdRenderer    goldmark.Markdown
	htmlSanitizer *bluemonday.Policy
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	htmlSanitizer = bluemonday.UGCPolicy()
}

// RenderMarkdown converts a markdown string to sanitized HTML.
// Returns empty string for empty input.
func RenderMarkdown(src string) string {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return htmlSanitizer.Sanitize(src)
	}

	return htmlSanitizer.Sanitize(buf.String())
}

// Document is one validated policy document.
type Document struct {
	Path  string
	Title string
	HTML  string
}

// CheckDocument validates one policy document: it must be non-empty and carry
// exactly one top-level "# " heading, which becomes the document title.
func CheckDocument(path string, content []byte) (Document, error) {
	text := strings.TrimSpace(string(content))
	if text == "" {
		return Document{}, fmt.Errorf("%s: document is empty", path)
	}

	var titles []string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "# ") {
			titles = append(titles, strings.TrimSpace(strings.TrimPrefix(line, "# ")))
		}
	}

	switch len(titles) {
	case 0:
		return Document{}, fmt.Errorf("%s: missing top-level heading", path)
	case 1:
		// Exactly one title, as required.
	default:
		return Document{}, fmt.Errorf("%s: %d top-level headings, want exactly 1", path, len(titles))
	}

	return Document{
		Path:  path,
		Title: titles[0],
		HTML:  RenderMarkdown(text),
	}, nil
}

// CheckAll validates every .md file under root in the given filesystem and
// returns the documents sorted by path. The first invalid document aborts
// the walk.
func CheckAll(fsys fs.FS, root string) ([]Document, error) {
	var docs []Document

	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".md" {
			return nil
		}

		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		doc, err := CheckDocument(path, content)
		if err != nil {
			return err
		}

		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}
