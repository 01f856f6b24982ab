// Package web embeds the expense tracker's page templates and stylesheet.
package web

import (
	"embed"
	"io/fs"
)

// TemplatesFS holds the full page and the htmx partials.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// TemplatePattern matches every template in TemplatesFS.
const TemplatePattern = "templates/*.html"

// Static returns the stylesheet directory rooted at "static", ready to be
// served under /static/.
func Static() (fs.FS, error) {
	return fs.Sub(staticFS, "static")
}
