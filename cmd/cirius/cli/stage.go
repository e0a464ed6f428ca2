package cli

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/cirius-dev/cirius-cli/cmd/cirius/cli/db"
)

func newStageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stage <folder>",
		Short: "Load the raw tables into a DuckDB database for SQL inspection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			folder, err := EnsureInputDir(args[0])
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return NewSilentError(err)
			}
			if err := EnsureInputFiles(folder); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return NewSilentError(err)
			}

			return runStage(cmd, folder)
		},
	}
}

func runStage(cmd *cobra.Command, folder string) error {
	dbPath := StagePath(folder)

	// Re-run = replace.
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove old staging database: %w", err)
	}

	d, err := db.Open(dbPath)
	if err != nil {
		return fmt.Errorf("create staging database: %w", err)
	}
	defer d.Close()

	entropy := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec
	newID := func() string {
		return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
	}

	for _, table := range RequiredTables {
		path, err := ResolveTable(folder, table)
		if err != nil {
			return err
		}
		t, err := readTableFile(cmd, table, path)
		if err != nil {
			return err
		}

		if err := db.CreateTable(d, table, t.Header); err != nil {
			return err
		}
		for _, row := range t.Rows {
			if err := db.InsertRow(d, table, newID(), t.Header, row); err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "staged %d row(s) into %s\n", len(t.Rows), table)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Staging database written to %s\n", dbPath)
	return nil
}
