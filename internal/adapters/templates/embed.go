// Package templates embeds the default institution keyword catalog.
// This is a standalone package with no imports to avoid circular dependencies.
package templates

import "embed"

//go:embed banks/*.yaml
var FS embed.FS
