package db

import "embed"

// EmbedMigrations holds the store's schema migrations, compiled into the
// binary so deployments never need the files on disk.
//
//go:embed migrations/*.sql
var EmbedMigrations embed.FS
