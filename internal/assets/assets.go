package assets

import (
	"embed"
)

// Database migrations
//
//go:embed migrations
var Migrations embed.FS

// HTML templates
//
//go:embed templates
var Templates embed.FS
