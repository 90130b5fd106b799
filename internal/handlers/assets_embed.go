package handlers

import (
	"embed"
	"html/template"
	"io/fs"
)

// AssetsFS embeds the templates/assets directory for static serving
//
//go:embed templates/assets/*
var AssetsFS embed.FS

//go:embed templates/page.html
var pageFS embed.FS

var pageTemplate = template.Must(template.ParseFS(pageFS, "templates/page.html"))

// assets returns the static files rooted at templates/assets.
func assets() fs.FS {
	sub, err := fs.Sub(AssetsFS, "templates/assets")
	if err != nil {
		// templates/assets is embedded above.
		panic(err)
	}
	return sub
}
