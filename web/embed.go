// Package web embeds the module page and its static assets.
package web

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net/http"
)

//go:embed templates/*.tmpl static/*
var Assets embed.FS

// IndexData feeds the variant picker on the module page.
type IndexData struct {
	Variants []string
	Default  string
}

// StaticFS serves /static assets.
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(Assets, "static")
	if err != nil {
		return http.FS(embed.FS{})
	}
	return http.FS(sub)
}

// Templates parses the embedded templates.
func Templates() *template.Template {
	return template.Must(template.ParseFS(Assets, "templates/*.tmpl"))
}

// RenderIndex writes the module page.
func RenderIndex(t *template.Template, w io.Writer, data IndexData) error {
	return t.ExecuteTemplate(w, "index.tmpl", data)
}
