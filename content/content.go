// Package content embeds the default System: Ascension content pack: the
// Lua card, enemy, relic, class and event definitions plus balance.yaml.
package content

import "embed"

// FS holds the default content pack, for loader.LoadFS.
//
//go:embed *.lua balance.yaml
var FS embed.FS
