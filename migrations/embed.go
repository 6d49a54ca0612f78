// Package migrations embeds the SQL schema migrations for each supported
// database, one NNN_name.sql file per version.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
