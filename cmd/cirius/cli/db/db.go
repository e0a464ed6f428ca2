// Package db is the DuckDB staging store behind `cirius stage` and
// `cirius query`. The export path never reads from it; it exists so the raw
// tables can be inspected with SQL.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"
)

// Open opens (or creates) the staging database at path.
func Open(path string) (*sql.DB, error) {
	d, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if err := d.Ping(); err != nil {
		d.Close()
		return nil, fmt.Errorf("ping database %s: %w", path, err)
	}
	return d, nil
}
