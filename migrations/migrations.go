// Package migrations embeds the versioned schema files so both binaries
// can run them without a deploy-time copy of the directory.
package migrations

import "embed"

//go:embed V*.sql
var FS embed.FS
