// Package web provides embedded static files for the chat demo client.
package web

import "embed"

// StaticFS embeds all static assets from the static directory.
//
//go:embed static
var StaticFS embed.FS
