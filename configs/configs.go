// Package configs embeds the default dialog lines, persona and site aliases.
package configs

import "embed"

//go:embed dialogs.yaml persona.md websites.yaml
var FS embed.FS
