package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Site renders the presentation page and serves its assets.
type Site struct {
	page *template.Template
	now  func() time.Time
}

func New() (*Site, error) {
	page, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing page templates: %w", err)
	}
	return &Site{page: page, now: time.Now}, nil
}

// Render returns the complete page for the current year.
func (s *Site) Render() ([]byte, error) {
	data := DefaultContent(s.now().Year())

	var buf bytes.Buffer
	if err := s.page.ExecuteTemplate(&buf, "index.html", data); err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}
	return buf.Bytes(), nil
}

// StaticHandler serves the embedded CSS and JS under the given prefix.
func StaticHandler(prefix string) http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix(prefix, http.FileServer(http.FS(sub)))
}
