// Package web holds the HTML templates, embedded into the binary.
package web

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses every page and the shared header and footer partials.
// Pages are looked up by file name, e.g. "index.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 02, 2006 at 15:04")
		},
	}).ParseFS(files, "templates/*.html")
}
