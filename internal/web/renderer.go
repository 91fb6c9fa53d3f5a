// Package web renders the browsable HTML views. The Renderer is constructed
// once at startup and passed to whatever needs to emit a page; there is no
// package-level template state.
package web

import (
	"bytes"
	"html/template"
)

// EpisodeView is the per-episode data shown on a channel page.
type EpisodeView struct {
	Title             string
	URL               string
	Filename          string
	Directory         string
	Date              string
	Size              string
	MimeType          string
	DurationFormatted string
}

// PageData is the model for a single channel page. IndexURL, when set, adds
// a back-link to the folder index.
type PageData struct {
	Title       string
	Description string
	Link        string
	IndexURL    string
	Episodes    []EpisodeView
}

// FolderView is one folder entry on the index page.
type FolderView struct {
	Name         string
	FeedPath     string
	WebPath      string
	FeedURL      string
	EpisodeCount int
	ImageURL     string
}

// IndexData is the model for the folder index page.
type IndexData struct {
	Title   string
	Folders []FolderView
}

// Renderer holds the parsed page templates.
type Renderer struct {
	page  *template.Template
	index *template.Template
}

// NewRenderer parses the built-in templates.
func NewRenderer() (*Renderer, error) {
	page, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, err
	}
	index, err := template.New("index").Parse(indexTemplate)
	if err != nil {
		return nil, err
	}
	return &Renderer{page: page, index: index}, nil
}

// RenderPage renders a channel's episode listing.
func (r *Renderer) RenderPage(data PageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.page.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderIndex renders the folder index listing.
func (r *Renderer) RenderIndex(data IndexData) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.index.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
