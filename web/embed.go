package web

import "embed"

// Templates embeds HTML templates.
//
//go:embed templates/**/*.html
var Templates embed.FS

// Static embeds static assets.
//
//go:embed static/**/*
var Static embed.FS

// DocumentCSS returns the stylesheet shared by previews and PDF exports.
func DocumentCSS() ([]byte, error) {
	return Static.ReadFile("static/css/document.css")
}
