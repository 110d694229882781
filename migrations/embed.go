// Package migrations embeds the versioned SQL files applied by dbtool and the
// integration tests.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
