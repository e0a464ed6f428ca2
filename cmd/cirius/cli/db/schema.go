package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/cirius-dev/cirius-cli/cmd/cirius/cli/record"
)

// CreateTable creates an all-VARCHAR staging table for one CSV. The DDL is
// dynamic because the source rows carry no fixed schema beyond their header;
// a row_id column is prepended for stable identity.
func CreateTable(d *sql.DB, name string, columns []string) error {
	var ddl strings.Builder
	ddl.WriteString("CREATE TABLE ")
	ddl.WriteString(quoteIdent(name))
	ddl.WriteString(" (\n\trow_id VARCHAR PRIMARY KEY")
	for _, col := range columns {
		ddl.WriteString(",\n\t")
		ddl.WriteString(quoteIdent(col))
		ddl.WriteString(" VARCHAR")
	}
	ddl.WriteString("\n)")

	if _, err := d.Exec(ddl.String()); err != nil {
		return fmt.Errorf("create table %s: %w", name, err)
	}
	return nil
}

// InsertRow inserts one record with the given row id. Column order must
// match the CreateTable call.
func InsertRow(d *sql.DB, name, id string, columns []string, rec *record.Record) error {
	placeholders := make([]string, len(columns)+1)
	for i := range placeholders {
		placeholders[i] = "?"
	}
	stmt := fmt.Sprintf("INSERT INTO %s VALUES (%s)",
		quoteIdent(name), strings.Join(placeholders, ", "))

	args := make([]any, 0, len(columns)+1)
	args = append(args, id)
	for _, col := range columns {
		args = append(args, rec.Get(col))
	}

	if _, err := d.Exec(stmt, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", name, err)
	}
	return nil
}

// quoteIdent quotes an identifier; column names come straight from the CSV
// headers and are not trusted to be bare words.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
