// Package templates holds the HTML pages served at / and /search.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

// Parse returns every page template, keyed by file name.
func Parse() (*template.Template, error) {
	return template.ParseFS(files, "*.html")
}
