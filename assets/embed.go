// assets/embed.go
//
// Embedded data shipped inside the binary:
//   - words.yaml: default tier table (word pools, points, penalties).
//   - sql/*.sql:  history database migrations, applied in lexical order.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed words.yaml sql/*.sql
var FS embed.FS

// WordsYAML returns the raw default tier table.
func WordsYAML() ([]byte, error) {
	return FS.ReadFile("words.yaml")
}

// Migrations returns the migration files rooted at sql/.
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "sql")
}
