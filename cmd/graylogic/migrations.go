package main

import (
	"embed"

	"github.com/nerrad567/gray-logic-core/internal/infrastructure/database"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
}
