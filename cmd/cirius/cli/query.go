package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cirius-dev/cirius-cli/cmd/cirius/cli/db"
)

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <folder> <sql>",
		Short: "Run a SELECT against the staged database",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			folder, err := EnsureInputDir(args[0])
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return NewSilentError(err)
			}
			if err := EnsureStaged(folder); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return NewSilentError(err)
			}

			return runQuery(cmd, folder, args[1])
		},
	}
}

func runQuery(cmd *cobra.Command, folder, query string) error {
	// Read-only: only allow SELECT statements.
	normalized := strings.TrimSpace(strings.ToUpper(query))
	if !strings.HasPrefix(normalized, "SELECT") {
		return fmt.Errorf("only SELECT statements are allowed")
	}

	d, err := db.Open(StagePath(folder))
	if err != nil {
		return fmt.Errorf("open staged database: %w", err)
	}
	defer d.Close()

	rows, err := d.Query(query)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("columns: %w", err)
	}

	out := cmd.OutOrStdout()

	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("scan: %w", err)
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			v := values[i]
			// Convert []byte to string for JSON output.
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}

		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
		fmt.Fprintln(out, string(data))
	}

	return rows.Err()
}
