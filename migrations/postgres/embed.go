// Package migrations embeds the SQL migration files.
package migrations

import "embed"

// FS contiene las migraciones del esquema principal.
//
//go:embed sql/*.sql
var FS embed.FS

// Dir es el directorio dentro de FS donde viven las migraciones.
const Dir = "sql"
