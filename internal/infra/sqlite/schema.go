package sqlite

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

// schemaFS embeds the schema SQL files so the binaries carry no runtime
// file dependencies.
//
//go:embed schema/*.sql
var schemaFS embed.FS

// InitSchema applies all embedded schema files in filename order.
// Statements use IF NOT EXISTS, so applying twice is harmless.
func InitSchema(db *sql.DB) error {
	names, err := schemaFileNames()
	if err != nil {
		return fmt.Errorf("sqlite.InitSchema: %w", err)
	}

	for _, name := range names {
		content, readErr := schemaFS.ReadFile(name)
		if readErr != nil {
			return fmt.Errorf("sqlite.InitSchema: read %s: %w", name, readErr)
		}
		if _, execErr := db.Exec(string(content)); execErr != nil {
			return fmt.Errorf("sqlite.InitSchema: apply %s: %w", name, execErr)
		}
	}

	return nil
}

// schemaFileNames lists the embedded schema files sorted by name
// (lexicographic = numeric order for the 001_, 002_, ... prefix).
func schemaFileNames() ([]string, error) {
	var names []string
	err := fs.WalkDir(schemaFS, "schema", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			names = append(names, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}
