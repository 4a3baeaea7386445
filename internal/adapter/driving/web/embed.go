// Package web serves the embedded browser front-end.
package web

import "embed"

// StaticFS holds the embedded pages and assets.
//
//go:embed static/*
var StaticFS embed.FS
